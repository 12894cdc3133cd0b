// Package acquire fetches matched audio and writes tagged mp3 files.
package acquire

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/domain/library"
	"github.com/osa030/19dl/internal/domain/track"
	"github.com/osa030/19dl/internal/infra/audiotag"
	"github.com/osa030/19dl/internal/infra/ffmpeg"
)

// Stages reported when an acquisition fails.
const (
	StagePrepare   = "prepare_directory"
	StageLocate    = "locate_stream"
	StageTranscode = "transcode"
	StageCover     = "download_cover"
	StageEmbed     = "embed_cover"
)

// StreamLocator resolves the direct audio stream URL of a source item.
type StreamLocator interface {
	StreamURL(ctx context.Context, sourceID string, lowQuality bool) (string, error)
}

// Transcoder encodes audio and embeds cover art.
type Transcoder interface {
	Transcode(ctx context.Context, input, headers, output string, bitrateKbps int, tags ffmpeg.Tags) error
	EmbedCover(ctx context.Context, audio, cover, output string) error
}

// CoverDownloader saves a cover image to a local file.
type CoverDownloader interface {
	Download(ctx context.Context, imageURL, dest string) error
}

// Config represents acquirer configuration.
type Config struct {
	LowQualityMode bool
	AudioBitrate   int    // kbps
	Cookies        string // Sent with stream requests
}

// Acquirer runs the two-pass fetch/transcode/embed protocol.
type Acquirer struct {
	locator    StreamLocator
	transcoder Transcoder
	covers     CoverDownloader
	config     Config
	verify     func(path, title string) (*audiotag.Tags, error)
}

// New creates a new acquirer.
func New(locator StreamLocator, transcoder Transcoder, covers CoverDownloader, cfg Config) *Acquirer {
	if cfg.AudioBitrate <= 0 {
		cfg.AudioBitrate = 128
	}
	return &Acquirer{
		locator:    locator,
		transcoder: transcoder,
		covers:     covers,
		config:     cfg,
		verify:     audiotag.Verify,
	}
}

// Acquire writes the track to outputPath using the audio of sourceID.
// Failures are logged with their stage and reported as ok=false.
// Intermediate files are removed on every path.
func (a *Acquirer) Acquire(ctx context.Context, sourceID, outputDir, outputPath string, t *track.Track) (string, bool) {
	fail := func(stage string, err error) (string, bool) {
		zlog.Warn().Err(err).Msgf("acquire failed: track=%s source=%s stage=%s", t.ID, sourceID, stage)
		return "", false
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fail(StagePrepare, errors.Wrapf(err, "failed to create %s", outputDir))
	}

	tempAudio := library.TempAudioPath(outputPath)
	tempCover := library.TempCoverPath(outputDir, t.ID)
	defer removeAll(tempAudio, tempCover)

	streamURL, err := a.locator.StreamURL(ctx, sourceID, a.config.LowQualityMode)
	if err != nil {
		return fail(StageLocate, err)
	}

	tags := ffmpeg.Tags{
		Title:  t.Name,
		Artist: t.ArtistNames(),
		Album:  t.Album,
		Date:   t.ReleaseDate,
	}
	headers := ffmpeg.CookieHeader(a.config.Cookies)
	if err := a.transcoder.Transcode(ctx, streamURL, headers, tempAudio, a.config.AudioBitrate, tags); err != nil {
		return fail(StageTranscode, err)
	}

	if err := a.covers.Download(ctx, t.AlbumArtURL, tempCover); err != nil {
		return fail(StageCover, err)
	}

	if err := a.transcoder.EmbedCover(ctx, tempAudio, tempCover, outputPath); err != nil {
		removeAll(outputPath)
		return fail(StageEmbed, err)
	}

	if _, err := a.verify(outputPath, t.Name); err != nil {
		zlog.Warn().Err(err).Msgf("tag verification failed: %s", outputPath)
	}

	return outputPath, true
}

// removeAll deletes paths, ignoring ones that do not exist.
func removeAll(paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			zlog.Warn().Err(err).Msgf("failed to remove %s", p)
		}
	}
}
