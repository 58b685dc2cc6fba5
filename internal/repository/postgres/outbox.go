package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"tripmate-backend/internal/events"
	"tripmate-backend/internal/repository"
)

type outboxRepository struct {
	q queryer
}

func NewOutboxRepository(db *sql.DB) repository.OutboxRepository {
	return &outboxRepository{q: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) repository.OutboxRepository {
	return &outboxRepository{q: tx}
}

func (r *outboxRepository) Append(ctx context.Context, event *events.Event) error {
	query := `INSERT INTO outbox_events (id, event_type, aggregate_id, payload, created_on)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.ExecContext(ctx, query,
		event.ID, event.Type, event.AggregateID, []byte(event.Payload), event.CreatedOn)
	return err
}

func (r *outboxRepository) ListUnpublished(ctx context.Context, limit int) ([]events.Event, error) {
	query := `SELECT id, event_type, aggregate_id, payload, created_on
	          FROM outbox_events
	          WHERE published_on IS NULL
	          ORDER BY created_on
	          LIMIT $1`
	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []events.Event
	for rows.Next() {
		var ev events.Event
		var payload []byte
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.AggregateID, &payload, &ev.CreatedOn); err != nil {
			return nil, err
		}
		ev.Payload = payload
		pending = append(pending, ev)
	}
	return pending, rows.Err()
}

func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID, publishedOn time.Time) error {
	query := `UPDATE outbox_events SET published_on = $1 WHERE id = $2 AND published_on IS NULL`
	result, err := r.q.ExecContext(ctx, query, publishedOn, id)
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
