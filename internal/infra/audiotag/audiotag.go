// Package audiotag reads back the tags of written audio files.
package audiotag

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dhowden/tag"
)

// Tags is the metadata read from an audio file.
type Tags struct {
	Format tag.Format
	Title  string
	Artist string
	Album  string
	Year   int
	HasArt bool
}

// Read parses the tags of the file at path.
func Read(path string) (*Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tags from %s", path)
	}

	return &Tags{
		Format: meta.Format(),
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Year:   meta.Year(),
		HasArt: meta.Picture() != nil,
	}, nil
}

// Verify checks that the file at path carries the expected title.
func Verify(path, title string) (*Tags, error) {
	tags, err := Read(path)
	if err != nil {
		return nil, err
	}
	if tags.Title != title {
		return tags, errors.Newf("title tag mismatch in %s: got %q, want %q", path, tags.Title, title)
	}
	return tags, nil
}
