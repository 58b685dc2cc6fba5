package service

import (
	"context"

	"github.com/google/uuid"

	"tripmate-backend/internal/domain"
)

type TripService interface {
	CreateDraft(ctx context.Context, hostID uuid.UUID, trip *domain.Trip) (*domain.Trip, error)
	UpdateDraft(ctx context.Context, callerID uuid.UUID, trip *domain.Trip) (*domain.Trip, error)
	GetTrip(ctx context.Context, tripID uuid.UUID) (*domain.Trip, error)
	AddItineraryEntry(ctx context.Context, callerID uuid.UUID, entry *domain.ItineraryEntry) (*domain.ItineraryEntry, error)
	ListItinerary(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryEntry, error)
	PublishTrip(ctx context.Context, callerID, tripID uuid.UUID) (*domain.Trip, error)
	CancelTrip(ctx context.Context, callerID, tripID uuid.UUID) (*domain.Trip, error)
	RemoveParticipant(ctx context.Context, callerID, tripID, userID uuid.UUID, reason string) error
}

type JoinRequestService interface {
	CreateJoinRequest(ctx context.Context, tripID, userID uuid.UUID, source domain.JoinSource) (*domain.JoinRequest, error)
	ApproveJoinRequest(ctx context.Context, requestID, reviewerID uuid.UUID) (*domain.JoinRequest, error)
	RejectJoinRequest(ctx context.Context, requestID, reviewerID uuid.UUID) (*domain.JoinRequest, error)
	CancelJoinRequest(ctx context.Context, requestID, callerID uuid.UUID) (*domain.JoinRequest, error)
	ListJoinRequests(ctx context.Context, tripID, callerID uuid.UUID, status domain.JoinRequestStatus) ([]domain.JoinRequest, error)
}
