package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/events"
	"tripmate-backend/internal/repository"
)

// testTxBeginner backs TxBeginner with a sqlmock connection so the services
// can run their real begin/commit/rollback flow without a database.
type testTxBeginner struct {
	db *sql.DB
}

func (b testTxBeginner) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return b.db.BeginTx(ctx, nil)
}

func newTestTxBeginner(t *testing.T) (testTxBeginner, sqlmock.Sqlmock) {
	db, dbMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return testTxBeginner{db: db}, dbMock
}

// MockTripRepo
type MockTripRepo struct {
	mock.Mock
}

func (m *MockTripRepo) WithTx(tx *sql.Tx) repository.TripRepository { return m }

func (m *MockTripRepo) Create(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}
func (m *MockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripRepo) LockForUpdate(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trip), args.Error(1)
}
func (m *MockTripRepo) Update(ctx context.Context, trip *domain.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}
func (m *MockTripRepo) ListStartedIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
func (m *MockTripRepo) ListEndedIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockJoinRequestRepo
type MockJoinRequestRepo struct {
	mock.Mock
}

func (m *MockJoinRequestRepo) WithTx(tx *sql.Tx) repository.JoinRequestRepository { return m }

func (m *MockJoinRequestRepo) Create(ctx context.Context, req *domain.JoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) LockForUpdate(ctx context.Context, id uuid.UUID) (*domain.JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) Update(ctx context.Context, req *domain.JoinRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockJoinRequestRepo) ListByTrip(ctx context.Context, tripID uuid.UUID, status domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	args := m.Called(ctx, tripID, status)
	return args.Get(0).([]domain.JoinRequest), args.Error(1)
}
func (m *MockJoinRequestRepo) HasActive(ctx context.Context, tripID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tripID, userID)
	return args.Bool(0), args.Error(1)
}

// MockMembershipRepo
type MockMembershipRepo struct {
	mock.Mock
}

func (m *MockMembershipRepo) WithTx(tx *sql.Tx) repository.MembershipRepository { return m }

func (m *MockMembershipRepo) Create(ctx context.Context, member *domain.Membership) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMembershipRepo) GetActive(ctx context.Context, tripID, userID uuid.UUID) (*domain.Membership, error) {
	args := m.Called(ctx, tripID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}
func (m *MockMembershipRepo) Exit(ctx context.Context, id uuid.UUID, reason string, exitedAt time.Time) error {
	args := m.Called(ctx, id, reason, exitedAt)
	return args.Error(0)
}

// MockItineraryRepo
type MockItineraryRepo struct {
	mock.Mock
}

func (m *MockItineraryRepo) Create(ctx context.Context, entry *domain.ItineraryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockItineraryRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryEntry, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).([]domain.ItineraryEntry), args.Error(1)
}
func (m *MockItineraryRepo) CountByTrip(ctx context.Context, tripID uuid.UUID) (int, error) {
	args := m.Called(ctx, tripID)
	return args.Int(0), args.Error(1)
}

// MockOutboxRepo records appended event types so tests can assert on the
// outbox contents of a transaction.
type MockOutboxRepo struct {
	mock.Mock
	Appended []events.Type
}

func (m *MockOutboxRepo) WithTx(tx *sql.Tx) repository.OutboxRepository { return m }

func (m *MockOutboxRepo) Append(ctx context.Context, event *events.Event) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		m.Appended = append(m.Appended, event.Type)
	}
	return args.Error(0)
}
func (m *MockOutboxRepo) ListUnpublished(ctx context.Context, limit int) ([]events.Event, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]events.Event), args.Error(1)
}
func (m *MockOutboxRepo) MarkPublished(ctx context.Context, id uuid.UUID, publishedOn time.Time) error {
	args := m.Called(ctx, id, publishedOn)
	return args.Error(0)
}
