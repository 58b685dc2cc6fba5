package jobs

import (
	"context"
	"time"

	"tripmate-backend/internal/config"
	"tripmate-backend/internal/events"
	"tripmate-backend/internal/logger"
	"tripmate-backend/internal/repository/postgres"
)

// Task names key the scheduler lease rows; one row per job, forever.
const (
	taskPromoteToOngoing   = "trip.promote_to_ongoing"
	taskPromoteToCompleted = "trip.promote_to_completed"
	taskDispatchOutbox     = "outbox.dispatch"
)

// JobRunner coordinates all scheduled jobs.
type JobRunner struct {
	store     *postgres.Store
	publisher events.Publisher
	config    *config.Config
}

func NewJobRunner(store *postgres.Store, publisher events.Publisher, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:     store,
		publisher: publisher,
		config:    cfg,
	}
}

// Config exposes the runner configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// claimLease reports whether this instance owns the current tick for taskID.
// The claim happens before any bulk work: a crash after claiming just leaves
// eligible rows unprocessed until the next successful tick, and the selection
// predicates are idempotent.
func (jr *JobRunner) claimLease(ctx context.Context, taskID string) bool {
	interval := time.Duration(jr.config.Scheduler.LeaseMinIntervalSeconds) * time.Second
	ok, err := jr.store.SchedulerLeaseRepository.TryAcquire(ctx, taskID, interval)
	if err != nil {
		logger.Error("Failed to claim scheduler lease", "task", taskID, "error", err)
		return false
	}
	if !ok {
		logger.Debug("Scheduler lease held elsewhere, skipping tick", "task", taskID)
	}
	return ok
}

// RunAll runs every job once (for manual execution).
func (jr *JobRunner) RunAll() {
	jr.PromoteToOngoing()
	jr.PromoteToCompleted()
	jr.DispatchOutboxEvents()
}
