// Package resolver turns track references into full track metadata.
package resolver

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/domain/track"
)

// MetadataProvider fetches track metadata by reference.
// Rate-limit failures must be marked with track.ErrRateLimited.
type MetadataProvider interface {
	GetTrack(ctx context.Context, trackID string) (*track.Track, error)
}

// Config represents resolver configuration.
type Config struct {
	RetryDelay     time.Duration // Fixed delay between rate-limited attempts
	MaxRetries     int           // Retries after a rate limit; 0 retries until cancelled
	LowQualityMode bool          // Selects the reduced cover art tier
}

// Resolver resolves references with a fixed-delay retry on rate limits.
type Resolver struct {
	provider MetadataProvider
	config   Config
}

// New creates a new resolver.
func New(provider MetadataProvider, cfg Config) *Resolver {
	return &Resolver{
		provider: provider,
		config:   cfg,
	}
}

// Resolve fetches the track for ref and selects its cover art tier.
// Rate-limited requests are repeated unchanged after RetryDelay.
// Any other provider error is returned immediately.
func (r *Resolver) Resolve(ctx context.Context, ref track.Reference) (*track.Track, error) {
	t, err := r.fetch(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := t.SelectAlbumArt(track.CoverArtIndex(r.config.LowQualityMode)); err != nil {
		return nil, errors.Wrapf(err, "track %s", t.ID)
	}
	return t, nil
}

// fetch calls the provider until it returns something other than a rate limit.
func (r *Resolver) fetch(ctx context.Context, ref track.Reference) (*track.Track, error) {
	retries := 0
	for {
		t, err := r.provider.GetTrack(ctx, string(ref))
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, track.ErrRateLimited) {
			return nil, errors.Wrapf(err, "failed to resolve %s", ref)
		}

		if r.config.MaxRetries > 0 && retries >= r.config.MaxRetries {
			return nil, errors.Wrapf(err, "gave up on %s after %d rate-limited retries", ref, retries)
		}
		retries++

		zlog.Debug().Msgf("rate limited, retrying: ref=%s attempt=%d delay=%v", ref, retries, r.config.RetryDelay)

		timer := time.NewTimer(r.config.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
