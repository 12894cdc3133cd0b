// Package scheduler drains playlists through a pool of download workers.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"sync"

	zlog "github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/osa030/19dl/internal/domain/library"
	"github.com/osa030/19dl/internal/domain/playlist"
	"github.com/osa030/19dl/internal/domain/track"
)

// Runner downloads one track reference.
type Runner interface {
	Run(ctx context.Context, playlistName string, ref track.Reference) library.Outcome
}

// Config represents scheduler configuration.
type Config struct {
	PoolSize int       // Concurrent workers per playlist
	Progress io.Writer // Progress bar output, disabled when nil
}

// Summary counts the outcomes of a run.
type Summary struct {
	Playlists int
	Succeeded int
	Skipped   int
	Failed    int
}

// Total returns the number of processed references.
func (s Summary) Total() int {
	return s.Succeeded + s.Skipped + s.Failed
}

// add records one outcome.
func (s *Summary) add(o library.Outcome) {
	switch o.Kind {
	case library.OutcomeSuccess:
		s.Succeeded++
	case library.OutcomeSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// Scheduler processes playlists one at a time with a fixed worker pool.
type Scheduler struct {
	runner Runner
	config Config

	mu      sync.Mutex
	summary Summary
}

// New creates a new scheduler.
func New(runner Runner, cfg Config) *Scheduler {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = 1
	}
	return &Scheduler{
		runner: runner,
		config: cfg,
	}
}

// Run drains every playlist in order. A playlist starts only after all
// workers of the previous one have returned.
// On cancellation the workers stop taking new references and Run returns ctx.Err().
func (s *Scheduler) Run(ctx context.Context, playlists []*playlist.Playlist) (Summary, error) {
	s.mu.Lock()
	s.summary = Summary{}
	s.mu.Unlock()

	for _, p := range playlists {
		if err := ctx.Err(); err != nil {
			return s.snapshot(), err
		}
		s.drain(ctx, p)
		if err := ctx.Err(); err != nil {
			zlog.Warn().Msgf("playlist interrupted: %s remaining=%d", p.Name, p.Queue.Len())
			return s.snapshot(), err
		}
	}

	summary := s.snapshot()
	zlog.Info().Msgf("queue finished: playlists=%d succeeded=%d skipped=%d failed=%d",
		summary.Playlists, summary.Succeeded, summary.Skipped, summary.Failed)
	return summary, nil
}

// drain runs PoolSize workers over the playlist queue and waits for all of them.
func (s *Scheduler) drain(ctx context.Context, p *playlist.Playlist) {
	p.SanitizeName()
	total := p.Queue.Len()
	zlog.Info().Msgf("downloading playlist: %s tracks=%d workers=%d", p.Name, total, s.config.PoolSize)

	bar := s.newBar(p.Name, total)
	p.SetState(playlist.StateDraining)

	var wg sync.WaitGroup
	for i := 0; i < s.config.PoolSize; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			s.work(ctx, worker, p, bar)
		}(i)
	}
	wg.Wait()

	if bar != nil {
		_ = bar.Finish()
	}

	s.mu.Lock()
	s.summary.Playlists++
	s.mu.Unlock()

	if p.Queue.Len() == 0 {
		p.SetState(playlist.StateDone)
		zlog.Info().Msgf("playlist done: %s", p.Name)
	}
}

// work pops references until the queue is empty or ctx is cancelled.
func (s *Scheduler) work(ctx context.Context, worker int, p *playlist.Playlist, bar *progressbar.ProgressBar) {
	for {
		if ctx.Err() != nil {
			return
		}
		ref, ok := p.Queue.Pop()
		if !ok {
			zlog.Debug().Msgf("worker %d idle: playlist=%s", worker, p.Name)
			return
		}

		outcome := s.runner.Run(ctx, p.Name, ref)

		s.mu.Lock()
		s.summary.add(outcome)
		s.mu.Unlock()

		if bar != nil {
			_ = bar.Add(1)
		}
	}
}

// newBar returns a progress bar for a playlist, or nil when progress is disabled.
func (s *Scheduler) newBar(name string, total int) *progressbar.ProgressBar {
	if s.config.Progress == nil {
		return nil
	}
	w := s.config.Progress
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(name),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

func (s *Scheduler) snapshot() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}
