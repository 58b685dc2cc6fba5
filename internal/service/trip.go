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

type tripService struct {
	db          repository.TxBeginner
	trips       repository.TripRepository
	memberships repository.MembershipRepository
	itineraries repository.ItineraryRepository
	outbox      repository.OutboxRepository
}

func NewTripService(
	db repository.TxBeginner,
	trips repository.TripRepository,
	memberships repository.MembershipRepository,
	itineraries repository.ItineraryRepository,
	outbox repository.OutboxRepository,
) TripService {
	return &tripService{
		db:          db,
		trips:       trips,
		memberships: memberships,
		itineraries: itineraries,
		outbox:      outbox,
	}
}

// CreateDraft stores a DRAFT trip and its host membership in one transaction.
// The host counts as the first participant.
func (s *tripService) CreateDraft(ctx context.Context, hostID uuid.UUID, trip *domain.Trip) (*domain.Trip, error) {
	if trip.MaxParticipants < 1 {
		return nil, apperrors.Validation("MAX_PARTICIPANTS_REQUIRED", "max participants must be greater than zero")
	}
	if trip.Visibility == "" {
		trip.Visibility = domain.VisibilityPublic
	}

	now := time.Now().UTC()
	trip.ID = uuid.New()
	trip.HostID = hostID
	trip.Status = domain.TripStatusDraft
	trip.CurrentParticipants = 1
	trip.CreatedOn = now
	trip.UpdatedOn = now

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.trips.WithTx(tx).Create(ctx, trip); err != nil {
		return nil, err
	}
	host := &domain.Membership{
		ID:       uuid.New(),
		TripID:   trip.ID,
		UserID:   hostID,
		Role:     domain.MembershipRoleHost,
		Status:   domain.MembershipStatusActive,
		JoinedAt: now,
	}
	if err := s.memberships.WithTx(tx).Create(ctx, host); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, tx, events.MembershipCreated, host.ID, host); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return trip, nil
}

// UpdateDraft replaces the descriptive fields of a DRAFT trip.
func (s *tripService) UpdateDraft(ctx context.Context, callerID uuid.UUID, update *domain.Trip) (*domain.Trip, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	trips := s.trips.WithTx(tx)
	trip, err := s.lockTrip(ctx, tx, update.ID)
	if err != nil {
		return nil, err
	}
	if trip.HostID != callerID {
		return nil, apperrors.Forbidden("NOT_HOST", "only the trip host may edit the trip")
	}
	if trip.Status != domain.TripStatusDraft {
		return nil, apperrors.Conflict("NOT_DRAFT", "only draft trips can be edited")
	}
	if update.MaxParticipants < trip.CurrentParticipants {
		return nil, apperrors.Validation("MAX_PARTICIPANTS_TOO_LOW", "max participants cannot drop below current participants")
	}

	trip.Title = update.Title
	trip.Description = update.Description
	trip.Destination = update.Destination
	trip.StartDate = update.StartDate
	trip.EndDate = update.EndDate
	trip.EstimatedBudgetCents = update.EstimatedBudgetCents
	trip.MaxParticipants = update.MaxParticipants
	trip.JoinPolicy = update.JoinPolicy
	trip.Visibility = update.Visibility
	trip.UpdatedOn = time.Now().UTC()
	if err := trips.Update(ctx, trip); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *tripService) GetTrip(ctx context.Context, tripID uuid.UUID) (*domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("TRIP_NOT_FOUND", "trip not found")
		}
		return nil, err
	}
	return trip, nil
}

func (s *tripService) AddItineraryEntry(ctx context.Context, callerID uuid.UUID, entry *domain.ItineraryEntry) (*domain.ItineraryEntry, error) {
	trip, err := s.GetTrip(ctx, entry.TripID)
	if err != nil {
		return nil, err
	}
	if trip.HostID != callerID {
		return nil, apperrors.Forbidden("NOT_HOST", "only the trip host may edit the itinerary")
	}
	if trip.Status != domain.TripStatusDraft && trip.Status != domain.TripStatusPublished {
		return nil, apperrors.Conflict("TRIP_NOT_EDITABLE", "itinerary can only change before the trip starts")
	}
	if entry.DayNumber < 1 {
		return nil, apperrors.Validation("DAY_NUMBER_REQUIRED", "day number must be greater than zero")
	}
	if entry.Title == "" {
		return nil, apperrors.Validation("TITLE_REQUIRED", "itinerary title must not be blank")
	}

	entry.ID = uuid.New()
	entry.CreatedOn = time.Now().UTC()
	if err := s.itineraries.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *tripService) ListItinerary(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryEntry, error) {
	if _, err := s.GetTrip(ctx, tripID); err != nil {
		return nil, err
	}
	return s.itineraries.ListByTrip(ctx, tripID)
}

// PublishTrip moves DRAFT→PUBLISHED after the eligibility rules pass. The
// trip row lock serializes publish against concurrent cancels and the
// scheduled runner.
func (s *tripService) PublishTrip(ctx context.Context, callerID, tripID uuid.UUID) (*domain.Trip, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	trip, err := s.lockTrip(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.HostID != callerID {
		return nil, apperrors.Forbidden("NOT_HOST", "only the trip host may publish the trip")
	}
	count, err := s.itineraries.CountByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidatePublish(trip, count); err != nil {
		return nil, err
	}
	if err := trip.TransitionManually(domain.TripStatusPublished); err != nil {
		return nil, err
	}
	trip.UpdatedOn = time.Now().UTC()
	if err := s.trips.WithTx(tx).Update(ctx, trip); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, tx, events.TripPublished, trip.ID, trip); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return trip, nil
}

// CancelTrip moves DRAFT or PUBLISHED trips to CANCELLED; anything past
// departure fails with a conflict.
func (s *tripService) CancelTrip(ctx context.Context, callerID, tripID uuid.UUID) (*domain.Trip, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	trip, err := s.lockTrip(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.HostID != callerID {
		return nil, apperrors.Forbidden("NOT_HOST", "only the trip host may cancel the trip")
	}
	if err := trip.TransitionManually(domain.TripStatusCancelled); err != nil {
		return nil, err
	}
	trip.UpdatedOn = time.Now().UTC()
	if err := s.trips.WithTx(tx).Update(ctx, trip); err != nil {
		return nil, err
	}
	if err := s.appendEvent(ctx, tx, events.TripCancelled, trip.ID, trip); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return trip, nil
}

// RemoveParticipant exits a membership and decrements the participant counter
// in one transaction under the trip row lock. Members remove themselves;
// the host may remove anyone but cannot leave their own trip.
func (s *tripService) RemoveParticipant(ctx context.Context, callerID, tripID, userID uuid.UUID, reason string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	trip, err := s.lockTrip(ctx, tx, tripID)
	if err != nil {
		return err
	}
	if callerID != userID && trip.HostID != callerID {
		return apperrors.Forbidden("NOT_HOST", "only the trip host may remove other participants")
	}

	memberships := s.memberships.WithTx(tx)
	member, err := memberships.GetActive(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("MEMBER_NOT_FOUND", "user is not an active participant")
		}
		return err
	}
	if member.Role == domain.MembershipRoleHost {
		return apperrors.Conflict("HOST_CANNOT_LEAVE", "the host cannot be removed from the trip")
	}

	now := time.Now().UTC()
	if err := memberships.Exit(ctx, member.ID, reason, now); err != nil {
		return err
	}
	trip.CurrentParticipants--
	trip.UpdatedOn = now
	if err := s.trips.WithTx(tx).Update(ctx, trip); err != nil {
		return err
	}
	if err := s.appendEvent(ctx, tx, events.MembershipRemoved, member.ID, member); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *tripService) lockTrip(ctx context.Context, tx *sql.Tx, tripID uuid.UUID) (*domain.Trip, error) {
	trip, err := s.trips.WithTx(tx).LockForUpdate(ctx, tripID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("TRIP_NOT_FOUND", "trip not found")
		}
		return nil, err
	}
	return trip, nil
}

func (s *tripService) appendEvent(ctx context.Context, tx *sql.Tx, typ events.Type, aggregateID uuid.UUID, payload any) error {
	event, err := events.New(typ, aggregateID, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Append(ctx, event)
}
