package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/domain/source"
	"github.com/osa030/19dl/internal/domain/track"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the candidate.
func (c *Chain) Execute(ctx context.Context, t *track.Track, cand source.Candidate) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, t, cand)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}

// Settings exposes the per-filter configuration.
type Settings interface {
	IsFilterEnabled(filterName string) bool
	GetFilterSettings(filterName string) map[string]any
}

// Build creates the matching chain.
// The duration tolerance filter is always first; optional filters follow in
// name order when enabled in settings.
func Build(tolerance float64, settings Settings) (*Chain, error) {
	chain := NewChain()
	chain.Add(NewDurationToleranceFilter(tolerance))

	for _, name := range Names() {
		if name == DurationToleranceFilterName || !settings.IsFilterEnabled(name) {
			continue
		}

		f := registry[name]()
		if err := f.ValidateConfig(settings.GetFilterSettings(name)); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
		zlog.Debug().Msgf("candidate filter enabled: %s", name)
	}

	return chain, nil
}
