package postgres

import (
	"context"
	"database/sql"

	"tripmate-backend/internal/repository"

	_ "github.com/lib/pq"
)

// queryer is satisfied by both *sql.DB and *sql.Tx so every repository can be
// rebound into a transaction with WithTx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.TripRepository
	repository.JoinRequestRepository
	repository.MembershipRepository
	repository.ItineraryRepository
	repository.SchedulerLeaseRepository
	repository.OutboxRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                       db,
		TripRepository:           NewTripRepository(db),
		JoinRequestRepository:    NewJoinRequestRepository(db),
		MembershipRepository:     NewMembershipRepository(db),
		ItineraryRepository:      NewItineraryRepository(db),
		SchedulerLeaseRepository: NewSchedulerLeaseRepository(db),
		OutboxRepository:         NewOutboxRepository(db),
	}
}

// BeginTx starts the transaction that row-locking repository calls run inside.
func (s *Store) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}
