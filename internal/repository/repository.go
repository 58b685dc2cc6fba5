package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/events"
)

// TxBeginner starts the unit of work that transaction-scoped repository calls
// run inside.
type TxBeginner interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

type TripRepository interface {
	// WithTx returns a repository bound to tx. Row-locking calls are only
	// valid on a transaction-scoped repository.
	WithTx(tx *sql.Tx) TripRepository
	Create(ctx context.Context, trip *domain.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	// LockForUpdate reads the trip under an exclusive row lock held until the
	// enclosing transaction commits or rolls back. Every code path that can
	// change the participant counter must go through this.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	Update(ctx context.Context, trip *domain.Trip) error
	// ListStartedIDs returns PUBLISHED trips whose start date has arrived.
	ListStartedIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	// ListEndedIDs returns ONGOING trips whose end date has passed.
	ListEndedIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type JoinRequestRepository interface {
	WithTx(tx *sql.Tx) JoinRequestRepository
	Create(ctx context.Context, req *domain.JoinRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error)
	// LockForUpdate reads the request under an exclusive row lock so racing
	// reviews of the same request serialize. Transaction-scoped only.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error)
	Update(ctx context.Context, req *domain.JoinRequest) error
	// ListByTrip returns requests for a trip in stable newest-first order,
	// optionally filtered by status (empty status means all).
	ListByTrip(ctx context.Context, tripID uuid.UUID, status domain.JoinRequestStatus) ([]domain.JoinRequest, error)
	// HasActive reports whether the user already has a PENDING, APPROVED, or
	// AUTO_APPROVED request for the trip.
	HasActive(ctx context.Context, tripID, userID uuid.UUID) (bool, error)
}

type MembershipRepository interface {
	WithTx(tx *sql.Tx) MembershipRepository
	Create(ctx context.Context, m *domain.Membership) error
	// GetActive returns the ACTIVE membership for (trip, user), or
	// sql.ErrNoRows if none exists.
	GetActive(ctx context.Context, tripID, userID uuid.UUID) (*domain.Membership, error)
	Exit(ctx context.Context, id uuid.UUID, reason string, exitedAt time.Time) error
}

type ItineraryRepository interface {
	Create(ctx context.Context, entry *domain.ItineraryEntry) error
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryEntry, error)
	CountByTrip(ctx context.Context, tripID uuid.UUID) (int, error)
}

type SchedulerLeaseRepository interface {
	// TryAcquire atomically advances the lease for taskID if it is at least
	// minInterval stale, creating the row on first use. True means this
	// instance owns the tick.
	TryAcquire(ctx context.Context, taskID string, minInterval time.Duration) (bool, error)
	Get(ctx context.Context, taskID string) (*domain.SchedulerLease, error)
}

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Append(ctx context.Context, event *events.Event) error
	ListUnpublished(ctx context.Context, limit int) ([]events.Event, error)
	MarkPublished(ctx context.Context, id uuid.UUID, publishedOn time.Time) error
}
