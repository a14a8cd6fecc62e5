package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/osa911/contact-api/internal/logging"
)

// DefaultCleanupInterval is used when no interval is configured
const DefaultCleanupInterval = 12 * time.Hour

// SubmissionPurger deletes submissions created before cutoff
type SubmissionPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SubmissionCleanup handles periodic removal of submissions past retention
type SubmissionCleanup struct {
	store     SubmissionPurger
	retention time.Duration
	interval  time.Duration
	now       func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSubmissionCleanup creates a new cleanup task. A zero retention disables it.
func NewSubmissionCleanup(store SubmissionPurger, retention, interval time.Duration) *SubmissionCleanup {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &SubmissionCleanup{
		store:     store,
		retention: retention,
		interval:  interval,
		now:       time.Now,
	}
}

// Enabled reports whether Start will schedule anything
func (sc *SubmissionCleanup) Enabled() bool {
	return sc.retention > 0 && sc.store != nil
}

// Start begins the cleanup task in the background. It stops when ctx is
// cancelled or Stop is called.
func (sc *SubmissionCleanup) Start(ctx context.Context) {
	if !sc.Enabled() {
		logging.GetLogger().Info("Submission cleanup disabled (SUBMISSION_RETENTION=0)")
		return
	}
	ctx, sc.cancel = context.WithCancel(ctx)
	sc.wg.Add(1)
	go sc.runPeriodically(ctx)
}

// Stop gracefully stops the cleanup task
func (sc *SubmissionCleanup) Stop() {
	if sc.cancel == nil {
		return
	}
	sc.cancel()
	sc.wg.Wait()
}

// runPeriodically runs the cleanup task at regular intervals
func (sc *SubmissionCleanup) runPeriodically(ctx context.Context) {
	defer sc.wg.Done()
	logger := logging.GetLogger()
	logger.Info("Starting submission cleanup task (retention %s, every %s)", sc.retention, sc.interval)

	// Run immediately on startup
	sc.Cleanup(ctx)

	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sc.Cleanup(ctx)
		case <-ctx.Done():
			logger.Info("Submission cleanup task stopped")
			return
		}
	}
}

// Cleanup performs one retention pass and returns the number of deleted rows
func (sc *SubmissionCleanup) Cleanup(ctx context.Context) int64 {
	logger := logging.GetLogger()
	cutoff := sc.now().Add(-sc.retention)

	deleted, err := sc.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("Submission cleanup failed: %v", err)
		}
		return 0
	}
	if deleted > 0 {
		logger.Info("Deleted %d submissions older than %s", deleted, cutoff.Format(time.RFC3339))
	}
	return deleted
}
