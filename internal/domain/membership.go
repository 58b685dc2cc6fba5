package domain

import (
	"time"

	"github.com/google/uuid"
)

type MembershipRole string

const (
	MembershipRoleHost   MembershipRole = "HOST"
	MembershipRoleCoHost MembershipRole = "CO_HOST"
	MembershipRoleMember MembershipRole = "MEMBER"
)

// CanReview reports whether the role may approve or reject join requests.
func (r MembershipRole) CanReview() bool {
	return r == MembershipRoleHost || r == MembershipRoleCoHost
}

type MembershipStatus string

const (
	MembershipStatusActive MembershipStatus = "ACTIVE"
	MembershipStatusExited MembershipStatus = "EXITED"
)

// Membership is an accepted participant. At most one ACTIVE membership exists
// per (trip, user); the ACTIVE count equals the trip's participant counter.
type Membership struct {
	ID         uuid.UUID        `json:"id"`
	TripID     uuid.UUID        `json:"trip_id"`
	UserID     uuid.UUID        `json:"user_id"`
	Role       MembershipRole   `json:"role"`
	Status     MembershipStatus `json:"status"`
	JoinedAt   time.Time        `json:"joined_at"`
	ExitedAt   *time.Time       `json:"exited_at,omitempty"`
	ExitReason string           `json:"exit_reason,omitempty"`
}
