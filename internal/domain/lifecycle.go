package domain

import (
	"fmt"

	"tripmate-backend/internal/apperrors"
)

// The two tables below define the legal status graph. PUBLISHED→ONGOING and
// ONGOING→COMPLETED belong only to the scheduled runner; humans can only
// publish a draft or cancel a trip that has not started.
var manualTransitions = map[TripStatus][]TripStatus{
	TripStatusDraft:     {TripStatusPublished, TripStatusCancelled},
	TripStatusPublished: {TripStatusCancelled},
}

var automaticTransitions = map[TripStatus][]TripStatus{
	TripStatusPublished: {TripStatusOngoing},
	TripStatusOngoing:   {TripStatusCompleted},
}

func (t *Trip) CanTransitionManually(target TripStatus) bool {
	return containsStatus(manualTransitions[t.Status], target)
}

func (t *Trip) CanTransitionAutomatically(target TripStatus) bool {
	return containsStatus(automaticTransitions[t.Status], target)
}

// TransitionManually moves the trip along a human-initiated edge. An edge
// outside the table fails with a conflict naming both statuses and leaves the
// trip unchanged.
func (t *Trip) TransitionManually(target TripStatus) error {
	if !t.CanTransitionManually(target) {
		return transitionConflict(t.Status, target)
	}
	t.Status = target
	return nil
}

// TransitionAutomatically moves the trip along a scheduler-driven edge.
func (t *Trip) TransitionAutomatically(target TripStatus) error {
	if !t.CanTransitionAutomatically(target) {
		return transitionConflict(t.Status, target)
	}
	t.Status = target
	return nil
}

func transitionConflict(current, requested TripStatus) error {
	return apperrors.Conflict("ILLEGAL_TRANSITION",
		fmt.Sprintf("cannot transition trip from %s to %s", current, requested))
}

func containsStatus(list []TripStatus, s TripStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
