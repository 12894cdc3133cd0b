// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Placeholder values shipped in the example config.
const (
	PlaceholderClientID     = "<clientId>"
	PlaceholderClientSecret = "<clientSecret>"
)

var (
	ErrMissingClientID     = errors.New("missing Spotify client_id")
	ErrInvalidClientSecret = errors.New("invalid Spotify client_secret")
)

// Config represents the application configuration.
type Config struct {
	Spotify  SpotifyConfig           `yaml:"spotify"`
	YouTube  YouTubeConfig           `yaml:"youtube"`
	FFmpeg   FFmpegConfig            `yaml:"ffmpeg"`
	Download DownloadConfig          `yaml:"download"`
	Filters  map[string]FilterConfig `yaml:"filters"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID          string  `yaml:"client_id" validate:"required"`
	ClientSecret      string  `yaml:"client_secret" validate:"required"`
	Market            string  `yaml:"market" validate:"omitempty,len=2"`
	RequestsPerSecond float64 `yaml:"requests_per_second" default:"10" validate:"gt=0"`
}

// YouTubeConfig represents media search and fetch configuration.
type YouTubeConfig struct {
	Binary      string `yaml:"binary" default:"yt-dlp"`
	Cookies     string `yaml:"cookies"`
	SearchLimit int    `yaml:"search_limit" default:"10" validate:"gte=1,lte=50"`
}

// FFmpegConfig represents transcoder configuration.
type FFmpegConfig struct {
	Binary string `yaml:"binary" default:"ffmpeg"`
}

// DownloadConfig represents the download pipeline configuration.
type DownloadConfig struct {
	RateLimitRetryDelayMs  int     `yaml:"rate_limit_retry_delay_ms" default:"1000" validate:"gte=0"`
	MaxRateLimitRetries    int     `yaml:"max_rate_limit_retries" validate:"gte=0"`
	LowQualityMode         bool    `yaml:"low_quality_mode"`
	VideoDurationTolerance float64 `yaml:"video_duration_tolerance" default:"0.1" validate:"gt=0,lt=1"`
	OutputPath             string  `yaml:"output_path" default:"downloads" validate:"required"`
	PoolSize               int     `yaml:"pool_size" default:"4" validate:"gte=1,lte=64"`
	DownloadListFileName   string  `yaml:"download_list_file_name" default:"download-list.txt" validate:"required"`
	AudioBitrate           int     `yaml:"audio_bitrate" default:"128" validate:"gte=32,lte=320"`
}

// FilterConfig represents a candidate filter's configuration.
type FilterConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("YOUTUBE_COOKIES"); v != "" {
		c.YouTube.Cookies = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Credentials are checked first so a fresh example config reports them clearly.
	if err := c.validateCredentials(); err != nil {
		return err
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	return nil
}

// validateCredentials rejects empty and placeholder Spotify credentials.
func (c *Config) validateCredentials() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientID == PlaceholderClientID {
		return ErrMissingClientID
	}
	if c.Spotify.ClientSecret == "" || c.Spotify.ClientSecret == PlaceholderClientSecret {
		return ErrInvalidClientSecret
	}
	return nil
}

// IsCredentialError reports whether err was caused by missing or placeholder credentials.
func IsCredentialError(err error) bool {
	return errors.Is(err, ErrMissingClientID) || errors.Is(err, ErrInvalidClientSecret)
}

// RateLimitRetryDelay returns the delay between rate-limited provider calls.
func (c *Config) RateLimitRetryDelay() time.Duration {
	return time.Duration(c.Download.RateLimitRetryDelayMs) * time.Millisecond
}

// IsFilterEnabled checks if a filter is enabled.
func (c *Config) IsFilterEnabled(filterName string) bool {
	if f, ok := c.Filters[filterName]; ok {
		return f.Enabled
	}
	return false
}

// GetFilterSettings returns the settings for a filter.
func (c *Config) GetFilterSettings(filterName string) map[string]any {
	if f, ok := c.Filters[filterName]; ok {
		return f.Settings
	}
	return nil
}
