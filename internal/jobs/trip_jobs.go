package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/events"
	"tripmate-backend/internal/logger"
)

// PromoteToOngoing moves PUBLISHED trips whose start date has arrived to
// ONGOING.
func (jr *JobRunner) PromoteToOngoing() {
	jr.runWithRecovery("PromoteToOngoing", func() {
		ctx := context.Background()
		if !jr.claimLease(ctx, taskPromoteToOngoing) {
			return
		}

		ids, err := jr.store.TripRepository.ListStartedIDs(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list trips eligible to start", "error", err)
			return
		}
		jr.promoteAll(ctx, ids, domain.TripStatusOngoing, events.TripOngoing)
	})
}

// PromoteToCompleted moves ONGOING trips whose end date has passed to
// COMPLETED.
func (jr *JobRunner) PromoteToCompleted() {
	jr.runWithRecovery("PromoteToCompleted", func() {
		ctx := context.Background()
		if !jr.claimLease(ctx, taskPromoteToCompleted) {
			return
		}

		ids, err := jr.store.TripRepository.ListEndedIDs(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to list trips eligible to complete", "error", err)
			return
		}
		jr.promoteAll(ctx, ids, domain.TripStatusCompleted, events.TripCompleted)
	})
}

func (jr *JobRunner) promoteAll(ctx context.Context, ids []uuid.UUID, target domain.TripStatus, eventType events.Type) {
	promoted := 0
	for _, id := range ids {
		if err := jr.promoteTrip(ctx, id, target, eventType); err != nil {
			// One bad trip must not block the rest of the batch.
			logger.Error("Failed to promote trip", "trip_id", id, "target", target, "error", err)
			continue
		}
		promoted++
	}
	logger.Info("Automatic trip transitions applied", "target", target, "eligible", len(ids), "promoted", promoted)
}

// promoteTrip applies one automatic transition in its own transaction. The
// row lock plus the transition predicate make the job idempotent: a trip
// already moved by another instance or cancelled in the meantime is skipped.
func (jr *JobRunner) promoteTrip(ctx context.Context, id uuid.UUID, target domain.TripStatus, eventType events.Type) error {
	tx, err := jr.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	trips := jr.store.TripRepository.WithTx(tx)
	trip, err := trips.LockForUpdate(ctx, id)
	if err != nil {
		return err
	}
	if err := trip.TransitionAutomatically(target); err != nil {
		logger.Debug("Trip no longer eligible for transition", "trip_id", id, "status", trip.Status, "target", target)
		return nil
	}
	trip.UpdatedOn = time.Now().UTC()
	if err := trips.Update(ctx, trip); err != nil {
		return err
	}
	event, err := events.New(eventType, trip.ID, trip)
	if err != nil {
		return err
	}
	if err := jr.store.OutboxRepository.WithTx(tx).Append(ctx, event); err != nil {
		return err
	}
	return tx.Commit()
}
