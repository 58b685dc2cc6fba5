package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/repository"
)

const joinRequestColumns = `id, trip_id, user_id, source, status, reviewed_by, reviewed_at, created_on`

type joinRequestRepository struct {
	q queryer
}

func NewJoinRequestRepository(db *sql.DB) repository.JoinRequestRepository {
	return &joinRequestRepository{q: db}
}

func (r *joinRequestRepository) WithTx(tx *sql.Tx) repository.JoinRequestRepository {
	return &joinRequestRepository{q: tx}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	query := `INSERT INTO join_requests (` + joinRequestColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.ExecContext(ctx, query,
		req.ID, req.TripID, req.UserID, req.Source, req.Status,
		req.ReviewedBy, req.ReviewedAt, req.CreatedOn)
	return err
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error) {
	query := `SELECT ` + joinRequestColumns + ` FROM join_requests WHERE id = $1`
	return scanJoinRequest(r.q.QueryRowContext(ctx, query, id))
}

func (r *joinRequestRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error) {
	query := `SELECT ` + joinRequestColumns + ` FROM join_requests WHERE id = $1 FOR UPDATE`
	return scanJoinRequest(r.q.QueryRowContext(ctx, query, id))
}

func (r *joinRequestRepository) Update(ctx context.Context, req *domain.JoinRequest) error {
	query := `UPDATE join_requests
	          SET status = $1, reviewed_by = $2, reviewed_at = $3
	          WHERE id = $4`
	_, err := r.q.ExecContext(ctx, query, req.Status, req.ReviewedBy, req.ReviewedAt, req.ID)
	return err
}

func (r *joinRequestRepository) ListByTrip(ctx context.Context, tripID uuid.UUID, status domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	query := `SELECT ` + joinRequestColumns + ` FROM join_requests WHERE trip_id = $1`
	args := []any{tripID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	// Secondary sort on id keeps the order stable for equal timestamps.
	query += ` ORDER BY created_on DESC, id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.JoinRequest
	for rows.Next() {
		req, err := scanJoinRequestRows(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *joinRequestRepository) HasActive(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(
	              SELECT 1 FROM join_requests
	              WHERE trip_id = $1 AND user_id = $2
	                AND status IN ($3, $4, $5))`
	var exists bool
	err := r.q.QueryRowContext(ctx, query, tripID, userID,
		domain.JoinRequestStatusPending,
		domain.JoinRequestStatusApproved,
		domain.JoinRequestStatusAutoApproved).Scan(&exists)
	return exists, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJoinRequest(row *sql.Row) (*domain.JoinRequest, error) {
	return scanJoinRequestRows(row)
}

func scanJoinRequestRows(row rowScanner) (*domain.JoinRequest, error) {
	req := &domain.JoinRequest{}
	var reviewedBy uuid.NullUUID
	var reviewedAt sql.NullTime
	err := row.Scan(&req.ID, &req.TripID, &req.UserID, &req.Source, &req.Status,
		&reviewedBy, &reviewedAt, &req.CreatedOn)
	if err != nil {
		return nil, err
	}
	if reviewedBy.Valid {
		req.ReviewedBy = &reviewedBy.UUID
	}
	if reviewedAt.Valid {
		req.ReviewedAt = &reviewedAt.Time
	}
	return req, nil
}
