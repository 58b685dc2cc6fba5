package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/repository"
)

const tripColumns = `id, host_id, title, description, destination, start_date, end_date,
	estimated_budget_cents, max_participants, current_participants, join_policy,
	visibility, status, created_on, updated_on`

type tripRepository struct {
	q queryer
}

func NewTripRepository(db *sql.DB) repository.TripRepository {
	return &tripRepository{q: db}
}

func (r *tripRepository) WithTx(tx *sql.Tx) repository.TripRepository {
	return &tripRepository{q: tx}
}

func (r *tripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `INSERT INTO trips (` + tripColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.ExecContext(ctx, query,
		trip.ID, trip.HostID, trip.Title, trip.Description, trip.Destination,
		trip.StartDate, trip.EndDate, trip.EstimatedBudgetCents,
		trip.MaxParticipants, trip.CurrentParticipants,
		nullString(string(trip.JoinPolicy)), trip.Visibility, trip.Status,
		trip.CreatedOn, trip.UpdatedOn)
	return err
}

func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return scanTrip(r.q.QueryRowContext(ctx, query, id))
}

func (r *tripRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 FOR UPDATE`
	return scanTrip(r.q.QueryRowContext(ctx, query, id))
}

func (r *tripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `UPDATE trips
	          SET title = $1, description = $2, destination = $3, start_date = $4,
	              end_date = $5, estimated_budget_cents = $6, max_participants = $7,
	              current_participants = $8, join_policy = $9, visibility = $10,
	              status = $11, updated_on = $12
	          WHERE id = $13`
	_, err := r.q.ExecContext(ctx, query,
		trip.Title, trip.Description, trip.Destination, trip.StartDate,
		trip.EndDate, trip.EstimatedBudgetCents, trip.MaxParticipants,
		trip.CurrentParticipants, nullString(string(trip.JoinPolicy)),
		trip.Visibility, trip.Status, trip.UpdatedOn, trip.ID)
	return err
}

func (r *tripRepository) ListStartedIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `SELECT id FROM trips
	          WHERE status = $1 AND start_date IS NOT NULL AND start_date <= $2`
	return r.listIDs(ctx, query, domain.TripStatusPublished, now)
}

func (r *tripRepository) ListEndedIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := `SELECT id FROM trips
	          WHERE status = $1 AND end_date IS NOT NULL AND end_date < $2`
	return r.listIDs(ctx, query, domain.TripStatusOngoing, now)
}

func (r *tripRepository) listIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanTrip(row *sql.Row) (*domain.Trip, error) {
	trip := &domain.Trip{}
	var startDate, endDate sql.NullTime
	var budget sql.NullInt64
	var joinPolicy sql.NullString
	err := row.Scan(
		&trip.ID, &trip.HostID, &trip.Title, &trip.Description, &trip.Destination,
		&startDate, &endDate, &budget, &trip.MaxParticipants,
		&trip.CurrentParticipants, &joinPolicy, &trip.Visibility, &trip.Status,
		&trip.CreatedOn, &trip.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if startDate.Valid {
		trip.StartDate = &startDate.Time
	}
	if endDate.Valid {
		trip.EndDate = &endDate.Time
	}
	if budget.Valid {
		trip.EstimatedBudgetCents = &budget.Int64
	}
	if joinPolicy.Valid {
		trip.JoinPolicy = domain.JoinPolicy(joinPolicy.String)
	}
	return trip, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
