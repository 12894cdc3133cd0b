// Package track provides the Track domain entity.
package track

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrRateLimited marks provider errors that should be retried after a delay.
var ErrRateLimited = errors.New("metadata provider rate limit")

// ErrCoverArtUnavailable is returned when the provider did not supply the
// requested cover art resolution tier.
var ErrCoverArtUnavailable = errors.New("cover art resolution tier unavailable")

// ArtistSeparator joins artist names for display, tags and file names.
const ArtistSeparator = ", "

// Reference is an opaque external track identifier as read from the input list.
type Reference string

// Track represents track metadata resolved from Spotify.
type Track struct {
	ID           string        // Spotify Track ID
	Name         string        // Track name
	Artists      []string      // Artist names, in provider order
	Album        string        // Album name
	AlbumArtURLs []string      // Album cover URLs, highest resolution first
	AlbumArtURL  string        // Selected album cover URL
	Duration     time.Duration // Track duration
	ReleaseDate  string        // Album release date as reported by the provider
	URL          string        // Spotify URL
}

// ArtistNames returns the artist names joined for display.
func (t *Track) ArtistNames() string {
	return strings.Join(t.Artists, ArtistSeparator)
}

// DurationSeconds returns the duration truncated to whole seconds.
func (t *Track) DurationSeconds() int {
	return int(t.Duration / time.Second)
}

// SelectAlbumArt picks the cover URL at the given resolution tier.
// Index 0 is the highest resolution.
func (t *Track) SelectAlbumArt(index int) error {
	if index < 0 || index >= len(t.AlbumArtURLs) {
		return errors.Wrapf(ErrCoverArtUnavailable, "tier %d requested, %d available", index, len(t.AlbumArtURLs))
	}
	t.AlbumArtURL = t.AlbumArtURLs[index]
	return nil
}

// CoverArtIndex returns the resolution tier used for the album cover.
// Spotify serves 640x640, 300x300 and 64x64; reduced quality uses 300x300.
func CoverArtIndex(lowQuality bool) int {
	if lowQuality {
		return 1
	}
	return 0
}
