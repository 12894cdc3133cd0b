// Package main provides the playlist downloader entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/19dl/internal/app/acquire"
	"github.com/osa030/19dl/internal/app/filter"
	"github.com/osa030/19dl/internal/app/job"
	"github.com/osa030/19dl/internal/app/matcher"
	"github.com/osa030/19dl/internal/app/resolver"
	"github.com/osa030/19dl/internal/app/scheduler"
	"github.com/osa030/19dl/internal/domain/library"
	"github.com/osa030/19dl/internal/infra/config"
	"github.com/osa030/19dl/internal/infra/coverart"
	"github.com/osa030/19dl/internal/infra/ffmpeg"
	"github.com/osa030/19dl/internal/infra/listfile"
	"github.com/osa030/19dl/internal/infra/logger"
	"github.com/osa030/19dl/internal/infra/spotify"
	"github.com/osa030/19dl/internal/infra/youtube"
)

// Exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 2
)

var (
	app        = kingpin.New("19dl", "Download Spotify playlists as tagged mp3 files")
	configPath = app.Flag("config", "Path to config file").Default("config/19dl.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
	listPath   = app.Flag("list", "Path to the download list (overrides download_list_file_name)").String()
	poolSize   = app.Flag("pool-size", "Concurrent downloads per playlist (overrides pool_size)").Int()
	progress   = app.Flag("progress", "Show a progress bar per playlist").Bool()

	// list-filters command
	listFiltersCmd = app.Command("list-filters", "List available candidate filters and exit")
)

func init() {
	// download command (default) - no need to store the command
	app.Command("download", "Download every playlist in the list (default)").Default()
}

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	if command == listFiltersCmd.FullCommand() {
		printFilters()
		return
	}

	os.Exit(run())
}

// run executes the download and returns the process exit code. Using a
// separate function ensures deferred cleanup runs before exiting.
func run() int {
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
		RunID:  uuid.New().String(),
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
		loggerConfig.File = *logfile
	}
	closer, err := logger.Init(loggerConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return exitError
	}
	defer closer.Close()

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		if config.IsCredentialError(err) {
			zlog.Error().Msgf("Error: %v", errors.UnwrapAll(err))
		} else {
			zlog.Error().Msgf("Failed to load config: %v", err)
		}
		return exitError
	}
	if *listPath != "" {
		cfg.Download.DownloadListFileName = *listPath
	}
	if *poolSize > 0 {
		cfg.Download.PoolSize = *poolSize
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched, err := build(ctx, cfg)
	if err != nil {
		zlog.Error().Msgf("Startup failed: %v", err)
		return exitError
	}

	playlists, err := listfile.Load(cfg.Download.DownloadListFileName)
	if err != nil {
		zlog.Error().Msgf("Failed to read download list: %v", err)
		return exitError
	}
	zlog.Info().Msgf("Loaded %d playlists from %s", len(playlists), cfg.Download.DownloadListFileName)

	summary, err := sched.Run(ctx, playlists)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			zlog.Warn().Msgf("Interrupted: succeeded=%d skipped=%d failed=%d",
				summary.Succeeded, summary.Skipped, summary.Failed)
			return exitInterrupted
		}
		zlog.Error().Msgf("Download failed: %v", err)
		return exitError
	}

	return exitOK
}

// build wires the download pipeline from configuration.
func build(ctx context.Context, cfg *config.Config) (*scheduler.Scheduler, error) {
	chain, err := filter.Build(cfg.Download.VideoDurationTolerance, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "invalid filter config")
	}

	spotifyClient, err := spotify.New(ctx, spotify.Config{
		ClientID:          cfg.Spotify.ClientID,
		ClientSecret:      cfg.Spotify.ClientSecret,
		Market:            cfg.Spotify.Market,
		RequestsPerSecond: cfg.Spotify.RequestsPerSecond,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Spotify client")
	}

	youtubeClient := youtube.New(youtube.Config{
		Binary:      cfg.YouTube.Binary,
		Cookies:     cfg.YouTube.Cookies,
		SearchLimit: cfg.YouTube.SearchLimit,
	})

	res := resolver.New(spotifyClient, resolver.Config{
		RetryDelay:     cfg.RateLimitRetryDelay(),
		MaxRetries:     cfg.Download.MaxRateLimitRetries,
		LowQualityMode: cfg.Download.LowQualityMode,
	})
	match := matcher.New(youtubeClient, chain)
	acq := acquire.New(
		youtubeClient,
		ffmpeg.New(cfg.FFmpeg.Binary),
		coverart.New(coverart.Config{}),
		acquire.Config{
			LowQualityMode: cfg.Download.LowQualityMode,
			AudioBitrate:   cfg.Download.AudioBitrate,
			Cookies:        cfg.YouTube.Cookies,
		},
	)
	runner := job.New(res, match, acq, library.NewLayout(cfg.Download.OutputPath))

	schedConfig := scheduler.Config{PoolSize: cfg.Download.PoolSize}
	if *progress {
		schedConfig.Progress = os.Stderr
	}
	return scheduler.New(runner, schedConfig), nil
}

// printFilters prints available filters.
func printFilters() {
	fmt.Println("Available Filters:")
	registry := filter.GetRegistered()
	for _, name := range filter.Names() {
		f := registry[name]()
		codes := strings.Join(f.ReturnCodes(), ", ")
		fmt.Printf("  %-30s - %s [codes: %s]\n", f.Name(), f.Description(), codes)
	}
}
