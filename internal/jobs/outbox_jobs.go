package jobs

import (
	"context"
	"time"

	"tripmate-backend/internal/logger"
)

// DispatchOutboxEvents delivers committed outbox rows to the configured
// publisher. Delivery is at-least-once: a row is only stamped published after
// the publisher accepted it, so a crash in between redelivers on the next
// tick.
func (jr *JobRunner) DispatchOutboxEvents() {
	jr.runWithRecovery("DispatchOutboxEvents", func() {
		ctx := context.Background()
		if !jr.claimLease(ctx, taskDispatchOutbox) {
			return
		}

		pending, err := jr.store.OutboxRepository.ListUnpublished(ctx, jr.config.Scheduler.OutboxBatchSize)
		if err != nil {
			logger.Error("Failed to list unpublished outbox events", "error", err)
			return
		}

		dispatched := 0
		for i := range pending {
			event := &pending[i]
			if err := jr.publisher.Publish(ctx, event); err != nil {
				logger.Error("Failed to publish outbox event", "event_id", event.ID, "type", event.Type, "error", err)
				continue
			}
			if err := jr.store.OutboxRepository.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
				logger.Error("Failed to mark outbox event published", "event_id", event.ID, "error", err)
				continue
			}
			dispatched++
		}
		logger.Info("Outbox events dispatched", "pending", len(pending), "dispatched", dispatched)
	})
}
