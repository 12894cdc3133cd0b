// Package matcher finds the media source item that corresponds to a track.
package matcher

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/app/filter"
	"github.com/osa030/19dl/internal/domain/source"
	"github.com/osa030/19dl/internal/domain/track"
)

// Searcher runs a song search on the media source.
type Searcher interface {
	Search(ctx context.Context, query string) ([]source.Candidate, error)
}

// Matcher picks the first search result accepted by the filter chain.
type Matcher struct {
	searcher Searcher
	chain    *filter.Chain
}

// New creates a new matcher.
func New(searcher Searcher, chain *filter.Chain) *Matcher {
	return &Matcher{
		searcher: searcher,
		chain:    chain,
	}
}

// Query returns the search query used for a track.
func Query(t *track.Track) string {
	return t.Name + " " + t.ArtistNames()
}

// Match returns the id of the first acceptable candidate.
// It returns ok=false with a nil error when no candidate is acceptable.
func (m *Matcher) Match(ctx context.Context, t *track.Track) (string, bool, error) {
	query := Query(t)

	candidates, err := m.searcher.Search(ctx, query)
	if err != nil {
		return "", false, errors.Wrapf(err, "search failed for track %s", t.ID)
	}

	for _, c := range candidates {
		result := m.chain.Execute(ctx, t, c)
		if result.Accepted {
			zlog.Debug().Msgf("candidate accepted: track=%s source=%s title=%q duration=%.0f", t.ID, c.ID, c.Title, c.Duration)
			return c.ID, true, nil
		}
		zlog.Debug().Msgf("candidate rejected: track=%s source=%s code=%s", t.ID, c.ID, result.Code)
	}

	return "", false, nil
}
