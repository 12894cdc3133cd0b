package ffmpeg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	binary string
	args   []string
	out    []byte
	err    error
}

func (r *recorder) exec(ctx context.Context, binary string, args ...string) ([]byte, error) {
	r.binary = binary
	r.args = args
	return r.out, r.err
}

func TestTranscoder_Transcode(t *testing.T) {
	rec := &recorder{}
	tr := New("")
	tr.exec = rec.exec

	err := tr.Transcode(context.Background(), "https://stream", CookieHeader("SID=1"), "out/a.mp3.temp", 128, Tags{
		Title:  "Song",
		Artist: "A, B",
		Album:  "Album",
		Date:   "2020-01-01",
	})
	require.NoError(t, err)

	assert.Equal(t, FFmpegCommand, rec.binary)
	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-headers", "Cookie: SID=1\r\n",
		"-i", "https://stream",
		"-vn",
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		"-metadata", "title=Song",
		"-metadata", "artist=A, B",
		"-metadata", "album=Album",
		"-metadata", "date=2020-01-01",
		"-f", "mp3", "out/a.mp3.temp",
	}, rec.args)
}

func TestTranscoder_Transcode_NoHeadersNoEmptyTags(t *testing.T) {
	rec := &recorder{}
	tr := New("/usr/local/bin/ffmpeg")
	tr.exec = rec.exec

	require.NoError(t, tr.Transcode(context.Background(), "in", "", "out", 64, Tags{Title: "Song"}))

	assert.Equal(t, "/usr/local/bin/ffmpeg", rec.binary)
	assert.NotContains(t, rec.args, "-headers")
	assert.Contains(t, rec.args, "64k")
	assert.Contains(t, rec.args, "title=Song")
	assert.NotContains(t, rec.args, "album=")
}

func TestTranscoder_EmbedCover(t *testing.T) {
	rec := &recorder{}
	tr := New("")
	tr.exec = rec.exec

	require.NoError(t, tr.EmbedCover(context.Background(), "a.mp3.temp", "id.jpg", "a.mp3"))

	assert.Equal(t, []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", "a.mp3.temp",
		"-i", "id.jpg",
		"-map", "0:0",
		"-map", "1:0",
		"-c", "copy",
		"-id3v2_version", "3",
		"-metadata:s:v", "title=Album cover",
		"-metadata:s:v", "comment=Cover (front)",
		"-f", "mp3",
		"a.mp3",
	}, rec.args)
}

func TestTranscoder_Error(t *testing.T) {
	tests := []struct {
		name   string
		out    []byte
		errMsg string
	}{
		{
			name:   "with output",
			out:    []byte("  Invalid data found when processing input\n"),
			errMsg: "Invalid data found when processing input",
		},
		{
			name:   "without output",
			out:    nil,
			errMsg: "ffmpeg failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{out: tt.out, err: errors.New("exit status 1")}
			tr := New("")
			tr.exec = rec.exec

			err := tr.EmbedCover(context.Background(), "a", "b", "c")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCookieHeader(t *testing.T) {
	assert.Equal(t, "", CookieHeader(""))
	assert.Equal(t, "Cookie: a=b\r\n", CookieHeader("a=b"))
}
