// Package scheduler wraps gocron v2 for the periodic reserve polling done
// by watch mode.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// JobFunc is the function signature for scheduled jobs
type JobFunc func(ctx context.Context) error

// Scheduler runs one recurring job at a fixed interval
type Scheduler struct {
	gocronScheduler gocron.Scheduler
	job             gocron.Job
	interval        time.Duration
	runImmediately  bool
	logger          *slog.Logger
}

// Config holds scheduler configuration
type Config struct {
	Interval       time.Duration // Poll interval (e.g. 5m)
	RunImmediately bool          // Execute immediately on start
	Logger         *slog.Logger  // Logger for scheduler events
}

// NewScheduler creates a new scheduler instance
func NewScheduler(ctx context.Context, cfg Config, jobFunc JobFunc) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %s", cfg.Interval)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Scheduler{
		interval:       cfg.Interval,
		runImmediately: cfg.RunImmediately,
		logger:         cfg.Logger,
	}

	gocronScheduler, err := gocron.NewScheduler(
		gocron.WithLogger(newGocronLoggerAdapter(cfg.Logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	s.gocronScheduler = gocronScheduler

	job, err := gocronScheduler.NewJob(
		gocron.DurationJob(cfg.Interval),
		gocron.NewTask(func() {
			if err := jobFunc(ctx); err != nil {
				s.logger.Error("Job execution failed", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduled job: %w", err)
	}
	s.job = job

	return s, nil
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if s.runImmediately {
		s.logger.Info("Executing job immediately before starting scheduler")
		if err := s.job.RunNow(); err != nil {
			s.logger.Error("Immediate execution failed", "error", err)
			// Don't return error, continue with scheduled execution
		}
	}

	s.gocronScheduler.Start()

	nextRun, err := s.NextRun()
	if err == nil {
		s.logger.Info("Scheduler started", "interval", s.interval.String(), "next_run", nextRun.Format(time.RFC3339))
	} else {
		s.logger.Info("Scheduler started", "interval", s.interval.String())
	}

	return nil
}

// Stop stops the scheduler gracefully
func (s *Scheduler) Stop() error {
	s.logger.Info("Stopping scheduler")
	return s.gocronScheduler.Shutdown()
}

// NextRun returns the next scheduled run time
func (s *Scheduler) NextRun() (time.Time, error) {
	nextRun, err := s.job.NextRun()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get next run: %w", err)
	}
	return nextRun, nil
}

// LastRun returns the last run time
func (s *Scheduler) LastRun() (time.Time, error) {
	lastRun, err := s.job.LastRun()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last run: %w", err)
	}
	return lastRun, nil
}

// Interval returns the configured poll interval, used by the health checker
// for its staleness grace period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// gocronLoggerAdapter adapts slog.Logger to gocron.Logger interface
type gocronLoggerAdapter struct {
	logger *slog.Logger
}

func newGocronLoggerAdapter(logger *slog.Logger) gocron.Logger {
	return &gocronLoggerAdapter{logger: logger}
}

func (a *gocronLoggerAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

func (a *gocronLoggerAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

func (a *gocronLoggerAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

func (a *gocronLoggerAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}
