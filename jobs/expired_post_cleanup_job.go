// File: /jobs/expired_post_cleanup_job.go
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ExpiredPostCleaner deletes unclaimed posts that expired more than grace ago
type ExpiredPostCleaner interface {
	CleanupExpired(ctx context.Context, grace time.Duration) (int64, error)
}

// ExpiredPostCleanupJob handles periodic cleanup of expired, unclaimed posts
type ExpiredPostCleanupJob struct {
	cleaner  ExpiredPostCleaner
	interval time.Duration
	grace    time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewExpiredPostCleanupJob creates a new cleanup job
func NewExpiredPostCleanupJob(cleaner ExpiredPostCleaner, interval, grace time.Duration, logger *slog.Logger) *ExpiredPostCleanupJob {
	return &ExpiredPostCleanupJob{
		cleaner:  cleaner,
		interval: interval,
		grace:    grace,
		logger:   logger,
	}
}

// Start runs one cleanup immediately, then one per interval until Stop
func (j *ExpiredPostCleanupJob) Start(ctx context.Context) {
	ctx, j.cancel = context.WithCancel(ctx)
	j.logger.Info("expired post cleanup job started", "interval", j.interval, "grace", j.grace)

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.cleanup(ctx)
		for {
			select {
			case <-ticker.C:
				j.cleanup(ctx)
			case <-ctx.Done():
				j.logger.Info("expired post cleanup job stopped")
				return
			}
		}
	}()
}

// Stop cancels the job and waits for a running cleanup to return
func (j *ExpiredPostCleanupJob) Stop() {
	if j.cancel == nil {
		return
	}
	j.cancel()
	j.wg.Wait()
}

func (j *ExpiredPostCleanupJob) cleanup(ctx context.Context) {
	deleted, err := j.cleaner.CleanupExpired(ctx, j.grace)
	if err != nil {
		j.logger.Error("expired post cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.Info("expired posts deleted", "count", deleted)
	}
}
