// Package library provides the on-disk layout of downloaded tracks.
package library

import (
	"path/filepath"
	"strings"
)

// Extension is the container extension of every downloaded track.
const Extension = ".mp3"

// illegalChars are removed from playlist names and file names.
var illegalChars = strings.NewReplacer(
	"/", "",
	"\\", "",
	"?", "",
	"%", "",
	"*", "",
	":", "",
	"|", "",
	"\"", "",
	"<", "",
	">", "",
)

// Sanitize removes characters that are illegal in file names.
func Sanitize(name string) string {
	return illegalChars.Replace(name)
}

// Layout computes output locations below a base directory.
type Layout struct {
	BasePath string
}

// NewLayout creates a layout rooted at basePath.
func NewLayout(basePath string) Layout {
	return Layout{BasePath: basePath}
}

// Dir returns the directory holding a playlist's tracks.
func (l Layout) Dir(playlistName string) string {
	return filepath.Join(l.BasePath, playlistName)
}

// FileName returns "<title> - <artists>.mp3" with illegal characters removed.
func FileName(title, artists string) string {
	return Sanitize(title) + " - " + Sanitize(artists) + Extension
}

// Path returns the full output path of a track.
// Tracks with the same playlist, title and artists map to the same path.
func (l Layout) Path(playlistName, title, artists string) string {
	return filepath.Join(l.Dir(playlistName), FileName(title, artists))
}

// TempAudioPath returns the path of the first-pass audio file.
func TempAudioPath(outputPath string) string {
	return outputPath + ".temp"
}

// TempCoverPath returns the path of the downloaded album cover.
func TempCoverPath(outputDir, trackID string) string {
	return filepath.Join(outputDir, trackID+".jpg")
}
