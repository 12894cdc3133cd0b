package matcher

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19dl/internal/app/filter"
	"github.com/osa030/19dl/internal/domain/source"
	"github.com/osa030/19dl/internal/domain/track"
)

type fakeSearcher struct {
	candidates []source.Candidate
	err        error
	queries    []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]source.Candidate, error) {
	f.queries = append(f.queries, query)
	return f.candidates, f.err
}

func newChain() *filter.Chain {
	chain := filter.NewChain()
	chain.Add(filter.NewDurationToleranceFilter(0.1))
	return chain
}

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name       string
		duration   time.Duration
		candidates []source.Candidate
		expectedID string
		expectedOK bool
	}{
		{
			name:     "first acceptable candidate wins",
			duration: 200 * time.Second,
			candidates: []source.Candidate{
				{ID: "vid1", Duration: 180},
				{ID: "vid2", Duration: 181},
				{ID: "vid3", Duration: 200},
			},
			expectedID: "vid2",
			expectedOK: true,
		},
		{
			name:     "no acceptable candidate",
			duration: 200 * time.Second,
			candidates: []source.Candidate{
				{ID: "vid1", Duration: 100},
				{ID: "vid2", Duration: 400},
			},
			expectedOK: false,
		},
		{
			name:       "no candidates",
			duration:   200 * time.Second,
			candidates: nil,
			expectedOK: false,
		},
		{
			name:     "zero duration never matches",
			duration: 0,
			candidates: []source.Candidate{
				{ID: "vid1", Duration: 0},
				{ID: "vid2", Duration: 200},
			},
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{candidates: tt.candidates}
			m := New(searcher, newChain())
			trk := &track.Track{
				ID:       "abc",
				Name:     "Song",
				Artists:  []string{"Artist 1", "Artist 2"},
				Duration: tt.duration,
			}

			id, ok, err := m.Match(context.Background(), trk)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedID, id)
			assert.Equal(t, []string{"Song Artist 1, Artist 2"}, searcher.queries)
		})
	}
}

func TestMatcher_Match_SearchError(t *testing.T) {
	m := New(&fakeSearcher{err: errors.New("yt-dlp exited")}, newChain())

	id, ok, err := m.Match(context.Background(), &track.Track{ID: "abc", Name: "Song", Duration: time.Minute})
	require.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)
}
