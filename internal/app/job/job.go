// Package job runs the download of a single track reference.
package job

import (
	"context"
	"os"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/domain/library"
	"github.com/osa030/19dl/internal/domain/track"
)

// Resolver turns a reference into track metadata.
type Resolver interface {
	Resolve(ctx context.Context, ref track.Reference) (*track.Track, error)
}

// Matcher finds the media source item for a track.
type Matcher interface {
	Match(ctx context.Context, t *track.Track) (string, bool, error)
}

// Acquirer writes the matched audio to disk.
type Acquirer interface {
	Acquire(ctx context.Context, sourceID, outputDir, outputPath string, t *track.Track) (string, bool)
}

// Job downloads one track into its playlist directory.
type Job struct {
	resolver Resolver
	matcher  Matcher
	acquirer Acquirer
	layout   library.Layout
}

// New creates a new download job runner.
func New(resolver Resolver, matcher Matcher, acquirer Acquirer, layout library.Layout) *Job {
	return &Job{
		resolver: resolver,
		matcher:  matcher,
		acquirer: acquirer,
		layout:   layout,
	}
}

// Run downloads ref into the playlist directory and reports the outcome.
// A track already present on disk is skipped without searching the media source.
// Exactly one log line is written per call.
func (j *Job) Run(ctx context.Context, playlistName string, ref track.Reference) library.Outcome {
	outcome, t := j.run(ctx, playlistName, ref)
	logOutcome(playlistName, ref, t, outcome)
	return outcome
}

func (j *Job) run(ctx context.Context, playlistName string, ref track.Reference) (library.Outcome, *track.Track) {
	t, err := j.resolver.Resolve(ctx, ref)
	if err != nil {
		return j.failed(ctx, library.ReasonResolveError, err), nil
	}

	outputDir := j.layout.Dir(playlistName)
	outputPath := j.layout.Path(playlistName, t.Name, t.ArtistNames())

	if _, err := os.Stat(outputPath); err == nil {
		return library.Skipped(outputPath), t
	}

	sourceID, ok, err := j.matcher.Match(ctx, t)
	if err != nil {
		return j.failed(ctx, library.ReasonSearchError, err), t
	}
	if !ok {
		return library.Failed(library.ReasonNoMatch, nil), t
	}

	path, ok := j.acquirer.Acquire(ctx, sourceID, outputDir, outputPath, t)
	if !ok {
		return j.failed(ctx, library.ReasonFetchError, nil), t
	}

	return library.Success(path), t
}

// failed reports cancellation in place of the stage failure it caused.
func (j *Job) failed(ctx context.Context, reason string, err error) library.Outcome {
	if ctx.Err() != nil {
		return library.Failed(library.ReasonCancelled, ctx.Err())
	}
	return library.Failed(reason, err)
}

// logOutcome writes the single log line of a finished job.
func logOutcome(playlistName string, ref track.Reference, t *track.Track, o library.Outcome) {
	name := string(ref)
	if t != nil {
		name = t.Name + " - " + t.ArtistNames()
	}

	switch o.Kind {
	case library.OutcomeSuccess:
		zlog.Info().Msgf("downloaded: playlist=%s track=%q path=%s", playlistName, name, o.Path)
	case library.OutcomeSkipped:
		zlog.Info().Msgf("skipped: playlist=%s track=%q reason=%s", playlistName, name, o.Reason)
	default:
		zlog.Warn().Err(o.Err).Msgf("failed: playlist=%s track=%q reason=%s", playlistName, name, o.Reason)
	}
}
