package domain

import (
	"time"

	"github.com/google/uuid"
)

type JoinRequestStatus string

const (
	JoinRequestStatusPending      JoinRequestStatus = "PENDING"
	JoinRequestStatusApproved     JoinRequestStatus = "APPROVED"
	JoinRequestStatusAutoApproved JoinRequestStatus = "AUTO_APPROVED"
	JoinRequestStatusRejected     JoinRequestStatus = "REJECTED"
	JoinRequestStatusCancelled    JoinRequestStatus = "CANCELLED"
)

// IsActive reports whether the status counts against the one-active-request-
// per-(trip, user) rule.
func (s JoinRequestStatus) IsActive() bool {
	switch s {
	case JoinRequestStatusPending, JoinRequestStatusApproved, JoinRequestStatusAutoApproved:
		return true
	}
	return false
}

type JoinSource string

const (
	JoinSourceWeb        JoinSource = "WEB"
	JoinSourceMobile     JoinSource = "MOBILE"
	JoinSourceSharedLink JoinSource = "SHARED_LINK"
)

// JoinRequest records one user's intent to join one trip. Terminal statuses
// (APPROVED, AUTO_APPROVED, REJECTED, CANCELLED) are immutable.
type JoinRequest struct {
	ID         uuid.UUID         `json:"id"`
	TripID     uuid.UUID         `json:"trip_id"`
	UserID     uuid.UUID         `json:"user_id"`
	Source     JoinSource        `json:"source"`
	Status     JoinRequestStatus `json:"status"`
	ReviewedBy *uuid.UUID        `json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time        `json:"reviewed_at,omitempty"`
	CreatedOn  time.Time         `json:"created_on"`
}
