package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"tripmate-backend/internal/apperrors"
	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/events"
	"tripmate-backend/internal/repository"
)

type joinRequestService struct {
	db          repository.TxBeginner
	trips       repository.TripRepository
	requests    repository.JoinRequestRepository
	memberships repository.MembershipRepository
	outbox      repository.OutboxRepository
}

func NewJoinRequestService(
	db repository.TxBeginner,
	trips repository.TripRepository,
	requests repository.JoinRequestRepository,
	memberships repository.MembershipRepository,
	outbox repository.OutboxRepository,
) JoinRequestService {
	return &joinRequestService{
		db:          db,
		trips:       trips,
		requests:    requests,
		memberships: memberships,
		outbox:      outbox,
	}
}

// CreateJoinRequest runs entirely inside one transaction holding the trip row
// lock, so concurrent joins for the same trip serialize before the capacity
// check. OPEN trips auto-approve and admit immediately; APPROVAL_REQUIRED
// trips leave the request PENDING for the host.
func (s *joinRequestService) CreateJoinRequest(ctx context.Context, tripID, userID uuid.UUID, source domain.JoinSource) (*domain.JoinRequest, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	trip, err := s.trips.WithTx(tx).LockForUpdate(ctx, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("TRIP_NOT_FOUND", "trip not found")
		}
		return nil, err
	}
	if !trip.IsJoinable() {
		return nil, apperrors.Validation("TRIP_NOT_JOINABLE", "trip is not open for join requests")
	}
	if trip.HostID == userID {
		return nil, apperrors.Conflict("ALREADY_MEMBER", "host is already a participant")
	}
	if err := s.ensureNotMember(ctx, tx, tripID, userID); err != nil {
		return nil, err
	}

	requests := s.requests.WithTx(tx)
	active, err := requests.HasActive(ctx, tripID, userID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, apperrors.Conflict("DUPLICATE_REQUEST", "an active join request already exists for this trip")
	}

	now := time.Now().UTC()
	req := &domain.JoinRequest{
		ID:        uuid.New(),
		TripID:    tripID,
		UserID:    userID,
		Source:    source,
		Status:    domain.JoinRequestStatusPending,
		CreatedOn: now,
	}
	if trip.JoinPolicy == domain.JoinPolicyOpen {
		req.Status = domain.JoinRequestStatusAutoApproved
	}

	if req.Status == domain.JoinRequestStatusAutoApproved {
		// Capacity is checked here, after the lock, not at the top: that is
		// what keeps two racing OPEN-policy joins from over-admitting.
		if err := s.admit(ctx, tx, trip, userID, now); err != nil {
			return nil, err
		}
	}
	if err := requests.Create(ctx, req); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, tx, events.JoinRequestCreated, req.ID, req); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

// ApproveJoinRequest locks the request row, then the trip row, and re-checks
// capacity under the trip lock. A request whose trip filled up between PENDING
// and review fails here with TRIP_FULL.
func (s *joinRequestService) ApproveJoinRequest(ctx context.Context, requestID, reviewerID uuid.UUID) (*domain.JoinRequest, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	requests := s.requests.WithTx(tx)
	req, err := requests.LockForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("REQUEST_NOT_FOUND", "join request not found")
		}
		return nil, err
	}

	trip, err := s.trips.WithTx(tx).LockForUpdate(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReviewer(ctx, tx, req.TripID, reviewerID); err != nil {
		return nil, err
	}
	if req.Status != domain.JoinRequestStatusPending {
		return nil, apperrors.Conflict("NOT_PENDING", "join request is not pending")
	}
	if err := s.ensureNotMember(ctx, tx, req.TripID, req.UserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.admit(ctx, tx, trip, req.UserID, now); err != nil {
		return nil, err
	}

	req.Status = domain.JoinRequestStatusApproved
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	if err := requests.Update(ctx, req); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, tx, events.JoinRequestApproved, req.ID, req); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

// RejectJoinRequest never touches the participant counter, so it takes no
// trip row lock.
func (s *joinRequestService) RejectJoinRequest(ctx context.Context, requestID, reviewerID uuid.UUID) (*domain.JoinRequest, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	requests := s.requests.WithTx(tx)
	req, err := requests.LockForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("REQUEST_NOT_FOUND", "join request not found")
		}
		return nil, err
	}
	if err := s.ensureReviewer(ctx, tx, req.TripID, reviewerID); err != nil {
		return nil, err
	}
	if req.Status != domain.JoinRequestStatusPending {
		return nil, apperrors.Conflict("NOT_PENDING", "join request is not pending")
	}

	now := time.Now().UTC()
	req.Status = domain.JoinRequestStatusRejected
	req.ReviewedBy = &reviewerID
	req.ReviewedAt = &now
	if err := requests.Update(ctx, req); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, tx, events.JoinRequestRejected, req.ID, req); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

// CancelJoinRequest lets the requester withdraw a still-pending request.
// Requests belonging to other users surface as not found.
func (s *joinRequestService) CancelJoinRequest(ctx context.Context, requestID, callerID uuid.UUID) (*domain.JoinRequest, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	requests := s.requests.WithTx(tx)
	req, err := requests.LockForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("REQUEST_NOT_FOUND", "join request not found")
		}
		return nil, err
	}
	if req.UserID != callerID {
		return nil, apperrors.NotFound("REQUEST_NOT_FOUND", "join request not found")
	}
	if req.Status != domain.JoinRequestStatusPending {
		return nil, apperrors.Conflict("NOT_PENDING", "join request is not pending")
	}

	req.Status = domain.JoinRequestStatusCancelled
	if err := requests.Update(ctx, req); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, tx, events.JoinRequestCancelled, req.ID, req); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *joinRequestService) ListJoinRequests(ctx context.Context, tripID, callerID uuid.UUID, status domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("TRIP_NOT_FOUND", "trip not found")
		}
		return nil, err
	}
	member, err := s.memberships.GetActive(ctx, tripID, callerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if member == nil || !member.Role.CanReview() {
		return nil, apperrors.Forbidden("NOT_HOST", "only the trip host may list join requests")
	}
	return s.requests.ListByTrip(ctx, tripID, status)
}

// admit is the single lock-then-check-then-write primitive shared by the
// auto-approve and host-approve paths: the caller must already hold the trip
// row lock in tx. It creates the membership and bumps the participant counter
// in the same transaction.
func (s *joinRequestService) admit(ctx context.Context, tx *sql.Tx, trip *domain.Trip, userID uuid.UUID, now time.Time) error {
	if trip.IsFull() {
		return apperrors.Conflict("TRIP_FULL", "trip has no remaining capacity")
	}
	member := &domain.Membership{
		ID:       uuid.New(),
		TripID:   trip.ID,
		UserID:   userID,
		Role:     domain.MembershipRoleMember,
		Status:   domain.MembershipStatusActive,
		JoinedAt: now,
	}
	if err := s.memberships.WithTx(tx).Create(ctx, member); err != nil {
		return err
	}
	trip.CurrentParticipants++
	trip.UpdatedOn = now
	if err := s.trips.WithTx(tx).Update(ctx, trip); err != nil {
		return err
	}
	return s.appendEvent(ctx, tx, events.MembershipCreated, member.ID, member)
}

func (s *joinRequestService) ensureNotMember(ctx context.Context, tx *sql.Tx, tripID, userID uuid.UUID) error {
	_, err := s.memberships.WithTx(tx).GetActive(ctx, tripID, userID)
	if err == nil {
		return apperrors.Conflict("ALREADY_MEMBER", "user already participates in this trip")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

func (s *joinRequestService) ensureReviewer(ctx context.Context, tx *sql.Tx, tripID, reviewerID uuid.UUID) error {
	member, err := s.memberships.WithTx(tx).GetActive(ctx, tripID, reviewerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.Forbidden("NOT_HOST", "only the trip host may review join requests")
		}
		return err
	}
	if !member.Role.CanReview() {
		return apperrors.Forbidden("NOT_HOST", "only the trip host may review join requests")
	}
	return nil
}

func (s *joinRequestService) appendEvent(ctx context.Context, tx *sql.Tx, typ events.Type, aggregateID uuid.UUID, payload any) error {
	event, err := events.New(typ, aggregateID, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Append(ctx, event)
}
