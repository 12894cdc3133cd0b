// Package spotify provides a client for the Spotify API.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/osa030/19dl/internal/domain/track"
)

// Client is a Spotify API client.
type Client struct {
	client  *spotify.Client
	market  string
	limiter *rate.Limiter
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID          string
	ClientSecret      string
	Market            string
	RequestsPerSecond float64
}

// New creates a new Spotify client authenticated with the client-credentials flow.
// The token is refreshed automatically by the underlying HTTP client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	// Fail fast on bad credentials instead of on the first track.
	if _, err := creds.Token(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to obtain spotify access token")
	}

	return newClient(creds.Client(ctx), cfg), nil
}

// newClient wires a Spotify client around an authenticated HTTP client.
func newClient(httpClient *http.Client, cfg Config, opts ...spotify.ClientOption) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &Client{
		client:  spotify.New(httpClient, opts...),
		market:  cfg.Market,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// GetTrack retrieves track information by ID, URL, or URI.
// It performs a single request; rate-limit responses are marked with
// track.ErrRateLimited so callers can decide how to retry.
func (c *Client) GetTrack(ctx context.Context, trackID string) (*track.Track, error) {
	// Extract track ID from URL/URI if necessary
	id := extractTrackID(trackID)
	if id == "" {
		return nil, errors.New("track id is required")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter wait")
	}

	var opts []spotify.RequestOption
	if c.market != "" {
		opts = append(opts, spotify.Market(c.market))
	}

	result, err := c.client.GetTrack(ctx, spotify.ID(id), opts...)
	if err != nil {
		if isRateLimitError(err) {
			err = errors.Mark(err, track.ErrRateLimited)
		}
		return nil, errors.Wrapf(err, "failed to get track %s", id)
	}

	return c.convertTrack(result), nil
}

// convertTrack converts a Spotify FullTrack to domain Track.
func (c *Client) convertTrack(t *spotify.FullTrack) *track.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	images := make([]string, len(t.Album.Images))
	for i, img := range t.Album.Images {
		images[i] = img.URL
	}

	return &track.Track{
		ID:           string(t.ID),
		Name:         t.Name,
		Artists:      artists,
		Album:        t.Album.Name,
		AlbumArtURLs: images,
		Duration:     time.Duration(t.Duration) * time.Millisecond,
		ReleaseDate:  t.Album.ReleaseDate,
		URL:          GetTrackURL(string(t.ID)),
	}
}

// GetTrackURL returns the Spotify URL for a track.
func GetTrackURL(trackID string) string {
	return fmt.Sprintf("https://open.spotify.com/track/%s", trackID)
}

// isRateLimitError checks if an error is a provider rate-limit response.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "too many requests")
}

// extractTrackID extracts the track ID from a Spotify track URL or URI.
func extractTrackID(input string) string {
	input = strings.TrimSpace(input)
	// Handle Spotify URI format: spotify:track:TRACK_ID
	if strings.HasPrefix(input, "spotify:track:") {
		return strings.TrimPrefix(input, "spotify:track:")
	}

	// Handle URL format: https://open.spotify.com/track/TRACK_ID or https://open.spotify.com/intl-XX/track/TRACK_ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/track/") {
		parts := strings.Split(input, "/track/")
		if len(parts) >= 2 {
			// Remove query parameters and trailing slashes
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	// Anything else with a path: keep the last segment
	if strings.Contains(input, "/") {
		id := strings.Split(input, "?")[0]
		id = strings.TrimRight(id, "/")
		return id[strings.LastIndex(id, "/")+1:]
	}

	// Assume it's already a track ID
	return input
}
