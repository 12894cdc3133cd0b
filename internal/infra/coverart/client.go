// Package coverart downloads album cover images.
package coverart

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Client fetches cover images over HTTP.
type Client struct {
	httpClient *http.Client
}

// Config represents cover download configuration.
type Config struct {
	Timeout time.Duration
}

// New creates a new cover art client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Download writes the image at imageURL to dest.
// A partially written dest is removed on failure.
func (c *Client) Download(ctx context.Context, imageURL, dest string) (err error) {
	if imageURL == "" {
		return errors.New("cover image URL is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("unexpected status code %d for %s", resp.StatusCode, imageURL)
	}

	f, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dest)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "failed to close %s", dest)
		}
		if err != nil {
			_ = os.Remove(dest)
		}
	}()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return errors.Wrapf(err, "failed to write %s", dest)
	}

	zlog.Debug().Msgf("cover downloaded: %s (%d bytes)", dest, n)
	return nil
}
