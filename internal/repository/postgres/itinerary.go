package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/repository"
)

type itineraryRepository struct {
	q queryer
}

func NewItineraryRepository(db *sql.DB) repository.ItineraryRepository {
	return &itineraryRepository{q: db}
}

func (r *itineraryRepository) Create(ctx context.Context, entry *domain.ItineraryEntry) error {
	query := `INSERT INTO itinerary_entries (id, trip_id, day_number, title, note, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.ExecContext(ctx, query,
		entry.ID, entry.TripID, entry.DayNumber, entry.Title, entry.Note, entry.CreatedOn)
	return err
}

func (r *itineraryRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryEntry, error) {
	query := `SELECT id, trip_id, day_number, title, note, created_on
	          FROM itinerary_entries
	          WHERE trip_id = $1
	          ORDER BY day_number, created_on`
	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ItineraryEntry
	for rows.Next() {
		var e domain.ItineraryEntry
		if err := rows.Scan(&e.ID, &e.TripID, &e.DayNumber, &e.Title, &e.Note, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *itineraryRepository) CountByTrip(ctx context.Context, tripID uuid.UUID) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM itinerary_entries WHERE trip_id = $1`, tripID).Scan(&count)
	return count, err
}
