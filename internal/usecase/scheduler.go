package usecase

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/metrics"
	"AutoPublisher/internal/ports"
)

// Runner executes one pipeline run.
type Runner interface {
	Run(ctx context.Context, now time.Time) domain.RunOutcome
}

// Scheduler wires the cron driver with the pipeline and guarantees that at
// most one run is active. Overlapping triggers are dropped, not queued.
type Scheduler struct {
	driver     ports.Scheduler
	runner     Runner
	logger     *slog.Logger
	runOnStart bool

	busy atomic.Bool
	wg   sync.WaitGroup
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, runner Runner, runOnStart bool, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		driver:     driver,
		runner:     runner,
		logger:     logger,
		runOnStart: runOnStart,
	}
}

// Start registers the pipeline with the driver and optionally fires once immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.runner == nil {
		return nil
	}

	job := func(trigger time.Time) {
		s.Fire(ctx, trigger)
	}
	if err := s.driver.Start(ctx, job); err != nil {
		return err
	}

	if s.runOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.Fire(ctx, time.Now())
		}()
	}
	return nil
}

// Fire runs the pipeline unless a run is already active. It reports whether
// the trigger was accepted.
func (s *Scheduler) Fire(ctx context.Context, trigger time.Time) bool {
	if !s.busy.CompareAndSwap(false, true) {
		metrics.SkippedTriggersTotal.Inc()
		s.logger.Warn("previous run still active, trigger dropped", "trigger", trigger.Format(time.RFC3339))
		return false
	}
	defer s.busy.Store(false)

	s.runner.Run(ctx, trigger)
	return true
}

// Running reports whether a run is in progress.
func (s *Scheduler) Running() bool {
	return s.busy.Load()
}

// Stop tears down the driver and waits for a start-up run to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	var err error
	if s.driver != nil {
		err = s.driver.Stop(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}
