package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"tripmate-backend/internal/domain"
)

func joinRequestRows(id, tripID, userID uuid.UUID, status domain.JoinRequestStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "trip_id", "user_id", "source", "status", "reviewed_by", "reviewed_at", "created_on",
	}).AddRow(id, tripID, userID, "WEB", status, nil, nil, time.Now().UTC())
}

func TestJoinRequestRepository_LockForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJoinRequestRepository(db)
	ctx := context.Background()

	id := uuid.New()
	tripID := uuid.New()

	mock.ExpectBegin()
	tx, err := db.Begin()
	assert.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM join_requests WHERE id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(joinRequestRows(id, tripID, uuid.New(), domain.JoinRequestStatusPending))

	req, err := repo.WithTx(tx).LockForUpdate(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, id, req.ID)
	assert.Equal(t, tripID, req.TripID)
	assert.Equal(t, domain.JoinRequestStatusPending, req.Status)
	assert.Nil(t, req.ReviewedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJoinRequestRepository_HasActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJoinRequestRepository(db)
	ctx := context.Background()

	tripID := uuid.New()
	userID := uuid.New()

	t.Run("ActiveRequestExists", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(tripID, userID,
				domain.JoinRequestStatusPending,
				domain.JoinRequestStatusApproved,
				domain.JoinRequestStatusAutoApproved).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		active, err := repo.HasActive(ctx, tripID, userID)
		assert.NoError(t, err)
		assert.True(t, active)
	})

	t.Run("OnlyTerminalRequests", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(tripID, userID,
				domain.JoinRequestStatusPending,
				domain.JoinRequestStatusApproved,
				domain.JoinRequestStatusAutoApproved).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		active, err := repo.HasActive(ctx, tripID, userID)
		assert.NoError(t, err)
		assert.False(t, active)
	})
}

func TestJoinRequestRepository_ListByTrip(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJoinRequestRepository(db)
	ctx := context.Background()

	tripID := uuid.New()

	t.Run("AllStatuses", func(t *testing.T) {
		rows := joinRequestRows(uuid.New(), tripID, uuid.New(), domain.JoinRequestStatusPending)
		mock.ExpectQuery(`SELECT (.+) FROM join_requests WHERE trip_id = \$1 ORDER BY created_on DESC, id`).
			WithArgs(tripID).
			WillReturnRows(rows)

		reqs, err := repo.ListByTrip(ctx, tripID, "")
		assert.NoError(t, err)
		assert.Len(t, reqs, 1)
	})

	t.Run("FilteredByStatus", func(t *testing.T) {
		rows := joinRequestRows(uuid.New(), tripID, uuid.New(), domain.JoinRequestStatusPending)
		mock.ExpectQuery(`SELECT (.+) FROM join_requests WHERE trip_id = \$1 AND status = \$2 ORDER BY created_on DESC, id`).
			WithArgs(tripID, domain.JoinRequestStatusPending).
			WillReturnRows(rows)

		reqs, err := repo.ListByTrip(ctx, tripID, domain.JoinRequestStatusPending)
		assert.NoError(t, err)
		assert.Len(t, reqs, 1)
		assert.Equal(t, domain.JoinRequestStatusPending, reqs[0].Status)
	})
}

func TestJoinRequestRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewJoinRequestRepository(db)
	ctx := context.Background()

	reviewerID := uuid.New()
	reviewedAt := time.Now().UTC()
	req := &domain.JoinRequest{
		ID:         uuid.New(),
		Status:     domain.JoinRequestStatusApproved,
		ReviewedBy: &reviewerID,
		ReviewedAt: &reviewedAt,
	}

	mock.ExpectExec(`UPDATE join_requests`).
		WithArgs(req.Status, req.ReviewedBy, req.ReviewedAt, req.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(ctx, req)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
