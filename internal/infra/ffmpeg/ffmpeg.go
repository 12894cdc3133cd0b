// Package ffmpeg provides audio transcoding and cover embedding using the ffmpeg binary.
package ffmpeg

import (
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// FFmpeg constants for the two transcode passes
const (
	FFmpegCommand   = "ffmpeg"
	AudioCodec      = "libmp3lame"
	OutputFormatMP3 = "mp3"
	ID3Version      = "3"
	LogLevel        = "error"
)

// Tags are the textual metadata written during the first pass.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Date   string
}

// args renders the tags as -metadata options, skipping empty values.
func (t Tags) args() []string {
	var args []string
	for _, kv := range [][2]string{
		{"title", t.Title},
		{"artist", t.Artist},
		{"album", t.Album},
		{"date", t.Date},
	} {
		if kv[1] == "" {
			continue
		}
		args = append(args, "-metadata", kv[0]+"="+kv[1])
	}
	return args
}

// execFunc runs binary with args and returns the combined output.
type execFunc func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Transcoder runs ffmpeg.
type Transcoder struct {
	binary string
	exec   execFunc
}

// New creates a transcoder using the given ffmpeg executable.
func New(binary string) *Transcoder {
	if binary == "" {
		binary = FFmpegCommand
	}
	return &Transcoder{
		binary: binary,
		exec:   runFFmpeg,
	}
}

// Transcode encodes the audio of input to mp3 at bitrateKbps, writing tags.
// headers, when set, are sent with HTTP(S) input requests.
func (t *Transcoder) Transcode(ctx context.Context, input, headers, output string, bitrateKbps int, tags Tags) error {
	args := []string{"-hide_banner", "-loglevel", LogLevel, "-y"}
	if headers != "" {
		args = append(args, "-headers", headers)
	}
	args = append(args,
		"-i", input,
		"-vn",
		"-c:a", AudioCodec,
		"-b:a", strconv.Itoa(bitrateKbps)+"k",
	)
	args = append(args, tags.args()...)
	args = append(args, "-f", OutputFormatMP3, output)

	return t.run(ctx, args)
}

// EmbedCover muxes audio and cover into output without re-encoding.
// Stream 0 of the audio and stream 0 of the image are mapped into an ID3v2.3 container.
func (t *Transcoder) EmbedCover(ctx context.Context, audio, cover, output string) error {
	args := []string{
		"-hide_banner", "-loglevel", LogLevel, "-y",
		"-i", audio,
		"-i", cover,
		"-map", "0:0",
		"-map", "1:0",
		"-c", "copy",
		"-id3v2_version", ID3Version,
		"-metadata:s:v", "title=Album cover",
		"-metadata:s:v", "comment=Cover (front)",
		"-f", OutputFormatMP3,
		output,
	}
	return t.run(ctx, args)
}

// run executes ffmpeg and attaches its output to any error.
func (t *Transcoder) run(ctx context.Context, args []string) error {
	zlog.Debug().Msgf("running %s %s", t.binary, strings.Join(args, " "))

	out, err := t.exec(ctx, t.binary, args...)
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return errors.Wrap(err, "ffmpeg failed")
		}
		return errors.Wrapf(err, "ffmpeg failed: %s", trimmed)
	}
	return nil
}

// runFFmpeg executes the ffmpeg binary.
func runFFmpeg(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.CombinedOutput()
}

// CookieHeader formats a cookie string as an ffmpeg -headers value.
func CookieHeader(cookies string) string {
	if cookies == "" {
		return ""
	}
	return "Cookie: " + cookies + "\r\n"
}
