// Package listfile parses the download list file.
//
// A line starting with '-' opens a new playlist named by the rest of the line.
// Every other non-empty line is a track reference appended to the current
// playlist. Blank lines are ignored and surrounding whitespace is trimmed.
package listfile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/osa030/19dl/internal/domain/playlist"
	"github.com/osa030/19dl/internal/domain/track"
)

// PlaylistPrefix marks a playlist directive line.
const PlaylistPrefix = "-"

// ErrOrphanReference is returned for a track reference that appears before any playlist directive.
var ErrOrphanReference = errors.New("track reference before any playlist directive")

// Load reads and parses the list file at path.
func Load(path string) ([]*playlist.Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open download list %s", path)
	}
	defer f.Close()

	playlists, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse download list %s", path)
	}
	return playlists, nil
}

// Parse parses a download list, keeping playlist and reference order.
func Parse(r io.Reader) ([]*playlist.Playlist, error) {
	type entry struct {
		name string
		refs []track.Reference
	}

	var entries []*entry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		// TrimSpace also drops the '\r' of CRLF line endings
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, PlaylistPrefix) {
			entries = append(entries, &entry{
				name: strings.TrimSpace(strings.TrimPrefix(line, PlaylistPrefix)),
			})
			continue
		}

		if len(entries) == 0 {
			return nil, errors.Mark(errors.Newf("line %d: %q", lineNo, line), ErrOrphanReference)
		}
		current := entries[len(entries)-1]
		current.refs = append(current.refs, track.Reference(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read download list")
	}

	playlists := make([]*playlist.Playlist, 0, len(entries))
	for _, e := range entries {
		playlists = append(playlists, playlist.New(e.name, e.refs))
	}
	return playlists, nil
}
