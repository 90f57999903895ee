// Package scheduler runs periodic maintenance jobs on cron expressions with seconds.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"vize-dostu/internal/adapters/metrics"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work, now is the tick time
type Job func(ctx context.Context, now time.Time) error

// Scheduler wraps a cron runner whose jobs never overlap themselves
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler
func New(logger *slog.Logger) *Scheduler {
	cronLogger := slogLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register adds job under schedule, for example "0 */15 * * * *"
func (s *Scheduler) Register(name, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		start := time.Now()
		err := job(s.ctx, start)
		metrics.ObserveScheduledRun(name, err)
		if err != nil {
			s.logger.Error("scheduled job failed", "job", name, "error", err, "duration", time.Since(start))
			return
		}
		s.logger.Debug("scheduled job finished", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", schedule, name, err)
	}
	s.logger.Info("scheduled job registered", "job", name, "schedule", schedule)
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them until ctx is done
func (s *Scheduler) Stop(ctx context.Context) error {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l slogLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
