package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aleister1102/futwatch/internal/common"
	"github.com/aleister1102/futwatch/internal/config"
)

// CycleRunner is what the scheduler drives once per tick.
type CycleRunner interface {
	RunCycle(ctx context.Context)
}

// Scheduler runs detection cycles on a fixed interval until its context is
// cancelled. The first cycle runs immediately on Start.
type Scheduler struct {
	interval time.Duration
	runner   CycleRunner
	logger   zerolog.Logger

	mu        sync.Mutex
	isRunning bool
	lastTick  time.Time
	wg        sync.WaitGroup
}

// NewScheduler creates a scheduler from the monitor configuration.
func NewScheduler(cfg config.MonitorConfig, runner CycleRunner, logger zerolog.Logger) (*Scheduler, error) {
	if cfg.PollIntervalSeconds < 1 {
		return nil, common.NewValidationError("poll_interval_seconds", cfg.PollIntervalSeconds, "poll interval must be at least one second")
	}
	if runner == nil {
		return nil, common.NewError("cycle runner is required")
	}
	return &Scheduler{
		interval: time.Duration(cfg.PollIntervalSeconds) * time.Second,
		runner:   runner,
		logger:   logger.With().Str("module", "Scheduler").Logger(),
	}, nil
}

// Start launches the polling loop. It returns immediately; use Wait to block
// until the loop has drained after cancellation.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return common.NewError("scheduler is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.logger.Info().Dur("interval", s.interval).Msg("Scheduler starting")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.tick(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("Scheduler stopping")
				return
			case <-ticker.C:
				s.tick(ctx)
			}
		}
	}()
	return nil
}

// Wait blocks until the polling loop has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// LastTick reports when the most recent cycle started. Zero until the first
// cycle has run.
func (s *Scheduler) LastTick() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTick
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	s.lastTick = time.Now().UTC()
	s.mu.Unlock()

	s.runner.RunCycle(ctx)
}
