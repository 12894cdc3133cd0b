// Package youtube provides media search and audio stream lookup backed by yt-dlp.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/lrstanley/go-ytdlp"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/domain/source"
)

const (
	// musicSearchURL restricts results to YouTube Music songs.
	musicSearchURL = "https://music.youtube.com/search?q=%s#songs"
	watchURL       = "https://www.youtube.com/watch?v=%s"

	formatHighestAudio = "bestaudio"
	formatLowestAudio  = "worstaudio"
)

// Config represents yt-dlp backend configuration.
type Config struct {
	Binary      string // yt-dlp executable, resolved from PATH when empty
	Cookies     string // Cookie header sent with stream requests
	SearchLimit int    // Maximum number of search candidates
}

// runFunc executes a prepared yt-dlp command and returns its stdout.
type runFunc func(ctx context.Context, cmd *ytdlp.Command, target string) (string, error)

// Client searches YouTube Music and resolves audio stream URLs.
type Client struct {
	binary      string
	cookies     string
	searchLimit int
	run         runFunc
}

// New creates a new yt-dlp backed client.
func New(cfg Config) *Client {
	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = 10
	}
	return &Client{
		binary:      cfg.Binary,
		cookies:     cfg.Cookies,
		searchLimit: limit,
		run:         runCommand,
	}
}

// Cookies returns the cookie header configured for stream requests.
func (c *Client) Cookies() string {
	return c.cookies
}

// command returns a fresh yt-dlp command using the configured executable.
func (c *Client) command() *ytdlp.Command {
	cmd := ytdlp.New()
	if c.binary != "" {
		cmd = cmd.SetExecutable(c.binary)
	}
	return cmd
}

// Search queries YouTube Music songs and returns candidates in result order.
func (c *Client) Search(ctx context.Context, query string) ([]source.Candidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is required")
	}

	cmd := c.command().
		FlatPlaylist().
		DumpJSON().
		PlaylistItems(fmt.Sprintf("1:%d", c.searchLimit))

	target := searchURL(query)
	zlog.Debug().Msgf("searching media source: query=%q url=%s", query, target)

	out, err := c.run(ctx, cmd, target)
	if err != nil {
		return nil, errors.Wrapf(err, "search failed for %q", query)
	}

	return parseCandidates(out), nil
}

// StreamURL resolves the direct URL of the audio-only stream of a video.
func (c *Client) StreamURL(ctx context.Context, videoID string, lowQuality bool) (string, error) {
	if videoID == "" {
		return "", errors.New("video id is required")
	}

	format := formatHighestAudio
	if lowQuality {
		format = formatLowestAudio
	}

	cmd := c.command().
		Format(format).
		GetURL()
	if c.cookies != "" {
		cmd = cmd.AddHeaders("Cookie:" + c.cookies)
	}

	out, err := c.run(ctx, cmd, fmt.Sprintf(watchURL, videoID))
	if err != nil {
		return "", errors.Wrapf(err, "failed to resolve audio stream for %s", videoID)
	}

	// yt-dlp may print several URLs, the first one is the selected format
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
	}
	return "", errors.Newf("yt-dlp returned no stream URL for %s", videoID)
}

// runCommand runs cmd against target.
func runCommand(ctx context.Context, cmd *ytdlp.Command, target string) (string, error) {
	res, err := cmd.Run(ctx, target)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// searchURL builds the YouTube Music song search URL for a query.
func searchURL(query string) string {
	return fmt.Sprintf(musicSearchURL, url.QueryEscape(query))
}

// searchEntry is the subset of a yt-dlp JSON line used for matching.
type searchEntry struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Duration *float64 `json:"duration"`
}

// parseCandidates parses yt-dlp JSON-lines output, keeping result order.
// Lines that are not JSON or lack an id or duration are skipped.
func parseCandidates(output string) []source.Candidate {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	candidates := make([]source.Candidate, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry searchEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.ID == "" || entry.Duration == nil {
			continue
		}
		candidates = append(candidates, source.Candidate{
			ID:       entry.ID,
			Title:    entry.Title,
			Duration: *entry.Duration,
		})
	}
	return candidates
}
