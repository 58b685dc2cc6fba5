package domain

import (
	"time"

	"github.com/google/uuid"
)

type TripStatus string

const (
	TripStatusDraft     TripStatus = "DRAFT"
	TripStatusPublished TripStatus = "PUBLISHED"
	TripStatusOngoing   TripStatus = "ONGOING"
	TripStatusCompleted TripStatus = "COMPLETED"
	TripStatusCancelled TripStatus = "CANCELLED"
)

type JoinPolicy string

const (
	JoinPolicyOpen             JoinPolicy = "OPEN"
	JoinPolicyApprovalRequired JoinPolicy = "APPROVAL_REQUIRED"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Trip is the aggregate root for a shared, capacity-limited trip. The
// participant counter is maintained transactionally alongside memberships,
// never recomputed: 0 <= CurrentParticipants <= MaxParticipants holds at all
// times.
type Trip struct {
	ID                   uuid.UUID  `json:"id"`
	HostID               uuid.UUID  `json:"host_id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Destination          string     `json:"destination"`
	StartDate            *time.Time `json:"start_date,omitempty"`
	EndDate              *time.Time `json:"end_date,omitempty"`
	EstimatedBudgetCents *int64     `json:"estimated_budget_cents,omitempty"`
	MaxParticipants      int32      `json:"max_participants"`
	CurrentParticipants  int32      `json:"current_participants"`
	JoinPolicy           JoinPolicy `json:"join_policy,omitempty"`
	Visibility           Visibility `json:"visibility"`
	Status               TripStatus `json:"status"`
	CreatedOn            time.Time  `json:"created_on"`
	UpdatedOn            time.Time  `json:"updated_on"`
}

func (t *Trip) IsFull() bool {
	return t.CurrentParticipants >= t.MaxParticipants
}

// IsJoinable reports whether the trip accepts new join requests at all;
// capacity is checked separately, under the trip row lock.
func (t *Trip) IsJoinable() bool {
	return t.Status == TripStatusPublished && t.Visibility == VisibilityPublic
}
