package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/repository"
)

type membershipRepository struct {
	q queryer
}

func NewMembershipRepository(db *sql.DB) repository.MembershipRepository {
	return &membershipRepository{q: db}
}

func (r *membershipRepository) WithTx(tx *sql.Tx) repository.MembershipRepository {
	return &membershipRepository{q: tx}
}

func (r *membershipRepository) Create(ctx context.Context, m *domain.Membership) error {
	query := `INSERT INTO memberships (id, trip_id, user_id, role, status, joined_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.ExecContext(ctx, query, m.ID, m.TripID, m.UserID, m.Role, m.Status, m.JoinedAt)
	return err
}

func (r *membershipRepository) GetActive(ctx context.Context, tripID, userID uuid.UUID) (*domain.Membership, error) {
	m := &domain.Membership{}
	query := `SELECT id, trip_id, user_id, role, status, joined_at
	          FROM memberships
	          WHERE trip_id = $1 AND user_id = $2 AND status = $3`
	err := r.q.QueryRowContext(ctx, query, tripID, userID, domain.MembershipStatusActive).
		Scan(&m.ID, &m.TripID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *membershipRepository) Exit(ctx context.Context, id uuid.UUID, reason string, exitedAt time.Time) error {
	query := `UPDATE memberships
	          SET status = $1, exited_at = $2, exit_reason = $3
	          WHERE id = $4 AND status = $5`
	result, err := r.q.ExecContext(ctx, query,
		domain.MembershipStatusExited, exitedAt, reason, id, domain.MembershipStatusActive)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
