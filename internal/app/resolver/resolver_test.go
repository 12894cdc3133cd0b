package resolver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/19dl/internal/domain/track"
)

// fakeProvider returns queued errors before answering with its track.
type fakeProvider struct {
	mu       sync.Mutex
	errs     []error
	track    track.Track
	calls    int
	trackIDs []string
}

func (f *fakeProvider) GetTrack(ctx context.Context, trackID string) (*track.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.trackIDs = append(f.trackIDs, trackID)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	t := f.track
	t.Artists = append([]string(nil), f.track.Artists...)
	t.AlbumArtURLs = append([]string(nil), f.track.AlbumArtURLs...)
	return &t, nil
}

func rateLimited() error {
	return errors.Mark(errors.New("429 too many requests"), track.ErrRateLimited)
}

func sampleTrack() track.Track {
	return track.Track{
		ID:           "abc",
		Name:         "Song",
		Artists:      []string{"Artist 1", "Artist 2"},
		Album:        "Album",
		AlbumArtURLs: []string{"https://i.scdn.co/640", "https://i.scdn.co/300", "https://i.scdn.co/64"},
		Duration:     245999 * time.Millisecond,
		ReleaseDate:  "2020-01-01",
	}
}

func TestResolver_Resolve_RetriesRateLimits(t *testing.T) {
	provider := &fakeProvider{
		errs:  []error{rateLimited(), rateLimited()},
		track: sampleTrack(),
	}
	r := New(provider, Config{RetryDelay: time.Millisecond})

	got, err := r.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, []string{"abc", "abc", "abc"}, provider.trackIDs)
	assert.Equal(t, "Song", got.Name)
	assert.Equal(t, 245, got.DurationSeconds())
	assert.Equal(t, "https://i.scdn.co/640", got.AlbumArtURL)
}

func TestResolver_Resolve_FatalError(t *testing.T) {
	provider := &fakeProvider{
		errs:  []error{errors.New("404 not found")},
		track: sampleTrack(),
	}
	r := New(provider, Config{RetryDelay: time.Millisecond})

	_, err := r.Resolve(context.Background(), "missing")
	require.Error(t, err)
	assert.False(t, errors.Is(err, track.ErrRateLimited))
	assert.Equal(t, 1, provider.calls)
}

func TestResolver_Resolve_MaxRetries(t *testing.T) {
	provider := &fakeProvider{
		errs:  []error{rateLimited(), rateLimited(), rateLimited(), rateLimited()},
		track: sampleTrack(),
	}
	r := New(provider, Config{RetryDelay: time.Millisecond, MaxRetries: 2})

	_, err := r.Resolve(context.Background(), "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, track.ErrRateLimited))
	assert.Equal(t, 3, provider.calls)
}

func TestResolver_Resolve_Cancelled(t *testing.T) {
	provider := &fakeProvider{
		errs:  []error{rateLimited(), rateLimited()},
		track: sampleTrack(),
	}
	r := New(provider, Config{RetryDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := r.Resolve(ctx, "abc")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, provider.calls)
}

func TestResolver_Resolve_CoverArtTier(t *testing.T) {
	tests := []struct {
		name       string
		lowQuality bool
		urls       []string
		expected   string
		wantErr    bool
	}{
		{
			name:     "highest resolution",
			urls:     []string{"640", "300", "64"},
			expected: "640",
		},
		{
			name:       "low quality tier",
			lowQuality: true,
			urls:       []string{"640", "300", "64"},
			expected:   "300",
		},
		{
			name:       "low quality tier missing",
			lowQuality: true,
			urls:       []string{"640"},
			wantErr:    true,
		},
		{
			name:    "no images",
			urls:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trk := sampleTrack()
			trk.AlbumArtURLs = tt.urls
			r := New(&fakeProvider{track: trk}, Config{LowQualityMode: tt.lowQuality})

			got, err := r.Resolve(context.Background(), "abc")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, track.ErrCoverArtUnavailable))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.AlbumArtURL)
		})
	}
}

func TestResolver_Resolve_Idempotent(t *testing.T) {
	r := New(&fakeProvider{track: sampleTrack()}, Config{})

	first, err := r.Resolve(context.Background(), "abc")
	require.NoError(t, err)
	second, err := r.Resolve(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
