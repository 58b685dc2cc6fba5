package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tripmate-backend/internal/events"
)

func TestOutboxRepository_Append(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	event, err := events.New(events.TripPublished, uuid.New(), map[string]string{"title": "Lisbon"})
	assert.NoError(t, err)

	mock.ExpectExec(`INSERT INTO outbox_events`).
		WithArgs(event.ID, event.Type, event.AggregateID, []byte(event.Payload), event.CreatedOn).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Append(ctx, event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListUnpublished(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	id := uuid.New()
	aggregateID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM outbox_events WHERE published_on IS NULL ORDER BY created_on LIMIT \$1`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_type", "aggregate_id", "payload", "created_on"}).
			AddRow(id, "trip.published", aggregateID, []byte(`{"title":"Lisbon"}`), time.Now().UTC()))

	pending, err := repo.ListUnpublished(ctx, 100)
	assert.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
	assert.Equal(t, events.TripPublished, pending[0].Type)
}

func TestOutboxRepository_MarkPublished(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()
		now := time.Now().UTC()
		mock.ExpectExec(`UPDATE outbox_events SET published_on = \$1 WHERE id = \$2 AND published_on IS NULL`).
			WithArgs(now, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkPublished(ctx, id, now))
	})

	t.Run("AlreadyPublished", func(t *testing.T) {
		id := uuid.New()
		now := time.Now().UTC()
		mock.ExpectExec(`UPDATE outbox_events SET published_on = \$1 WHERE id = \$2 AND published_on IS NULL`).
			WithArgs(now, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkPublished(ctx, id, now)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}
