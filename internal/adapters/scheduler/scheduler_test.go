package scheduler_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
	"vize-dostu/internal/adapters/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsRegisteredJob(t *testing.T) {
	// Arrange
	s := scheduler.New(discardLogger())
	var runs atomic.Int32
	ran := make(chan time.Time, 1)
	require.NoError(t, s.Register("tick", "* * * * * *", func(ctx context.Context, now time.Time) error {
		if runs.Add(1) == 1 {
			ran <- now
		}
		return errors.New("failures are only logged")
	}))

	// Act
	s.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, s.Stop(stopCtx))
	}()

	// Assert
	select {
	case now := <-ran:
		assert.False(t, now.IsZero())
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_RejectsInvalidSchedule(t *testing.T) {
	// Arrange
	s := scheduler.New(discardLogger())

	// Act
	err := s.Register("broken", "every minute", func(context.Context, time.Time) error { return nil })

	// Assert
	assert.ErrorContains(t, err, "invalid schedule")
}

func TestScheduler_StopCancelsJobContext(t *testing.T) {
	// Arrange
	s := scheduler.New(discardLogger())
	started := make(chan struct{})
	var once atomic.Bool
	require.NoError(t, s.Register("long", "* * * * * *", func(ctx context.Context, _ time.Time) error {
		if once.CompareAndSwap(false, true) {
			close(started)
		}
		<-ctx.Done()
		return ctx.Err()
	}))
	s.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}

	// Act
	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.Stop(stopCtx)

	// Assert
	assert.NoError(t, err)
}
