package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingCleaner struct {
	calls atomic.Int32
	grace atomic.Int64
	err   error
}

func (c *countingCleaner) CleanupExpired(_ context.Context, grace time.Duration) (int64, error) {
	c.calls.Add(1)
	c.grace.Store(int64(grace))
	return 2, c.err
}

func TestCleanupJobRunsOnStartAndOnTick(t *testing.T) {
	cleaner := &countingCleaner{}
	job := NewExpiredPostCleanupJob(cleaner, 10*time.Millisecond, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	job.Start(context.Background())
	assert.Eventually(t, func() bool { return cleaner.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	job.Stop()

	after := cleaner.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, cleaner.calls.Load(), "no cleanups after Stop")
	assert.Equal(t, int64(time.Hour), cleaner.grace.Load())
}

func TestCleanupJobSurvivesErrors(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("database unavailable")}
	job := NewExpiredPostCleanupJob(cleaner, 10*time.Millisecond, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))

	job.Start(context.Background())
	assert.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	job.Stop()
	job.Stop()
}

func TestStopBeforeStart(t *testing.T) {
	job := NewExpiredPostCleanupJob(&countingCleaner{}, time.Minute, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	job.Stop()
}
