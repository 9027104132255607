// Package scheduler runs the periodic lifecycle jobs: the daily retention
// cycle (backup sweep followed by deletion sweep, strictly in that order) and
// the weekly integrity sweep. Jobs never overlap with themselves; each job
// runs on its own goroutine and the scheduler waits for in-flight runs on
// shutdown.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Runner is one schedulable job.
type Runner func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	run      Runner
}

// Scheduler triggers registered jobs at fixed intervals until its context is
// cancelled.
type Scheduler struct {
	logger    *slog.Logger
	jobs      []job
	wg        sync.WaitGroup
	cancel    context.CancelFunc
	startOnce sync.Once
	stopOnce  sync.Once
	newTicker func(d time.Duration) *time.Ticker
}

// NewScheduler creates an empty scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		logger:    logger,
		newTicker: time.NewTicker,
	}
}

// WithTicker overrides the ticker factory, used by tests.
func (s *Scheduler) WithTicker(newTicker func(d time.Duration) *time.Ticker) *Scheduler {
	s.newTicker = newTicker
	return s
}

// Add registers a job. Must be called before Start.
func (s *Scheduler) Add(name string, interval time.Duration, run Runner) {
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Start launches one goroutine per registered job. Jobs fire on their
// interval, not at startup; an immediate run can be triggered through the CLI
// sweep commands instead.
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, s.cancel = context.WithCancel(ctx)
		for _, j := range s.jobs {
			s.wg.Add(1)
			go s.loop(ctx, j)
		}
		s.logger.Info("scheduler started", "jobs", len(s.jobs))
	})
}

func (s *Scheduler) loop(ctx context.Context, j job) {
	defer s.wg.Done()

	ticker := s.newTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(ctx, j)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, j job) {
	start := time.Now()
	s.logger.Info("job started", "job", j.name)

	if err := j.run(ctx); err != nil {
		s.logger.Error("job failed", "job", j.name, "duration", time.Since(start), "error", err)
		return
	}
	s.logger.Info("job finished", "job", j.name, "duration", time.Since(start))
}

// Stop cancels all job loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		s.logger.Info("scheduler stopped")
	})
}
