package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"tripmate-backend/internal/logger"
)

type Type string

const (
	TripPublished        Type = "trip.published"
	TripCancelled        Type = "trip.cancelled"
	TripOngoing          Type = "trip.ongoing"
	TripCompleted        Type = "trip.completed"
	MembershipCreated    Type = "membership.created"
	MembershipRemoved    Type = "membership.removed"
	JoinRequestCreated   Type = "join_request.created"
	JoinRequestApproved  Type = "join_request.approved"
	JoinRequestRejected  Type = "join_request.rejected"
	JoinRequestCancelled Type = "join_request.cancelled"
)

// Event is a domain event appended to the outbox in the same transaction as
// the state change it describes. A committed transaction therefore leaves
// exactly one outbox row per event; the dispatcher delivers it after commit,
// at least once.
type Event struct {
	ID          uuid.UUID       `json:"id"`
	Type        Type            `json:"type"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
	CreatedOn   time.Time       `json:"created_on"`
	PublishedOn *time.Time      `json:"published_on,omitempty"`
}

// New builds an event with a JSON-encoded payload snapshot.
func New(typ Type, aggregateID uuid.UUID, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", typ, err)
	}
	return &Event{
		ID:          uuid.New(),
		Type:        typ,
		AggregateID: aggregateID,
		Payload:     raw,
		CreatedOn:   time.Now().UTC(),
	}, nil
}

// Publisher delivers committed outbox events to downstream consumers (chat
// provisioning, notification fan-out). Implementations must tolerate
// duplicate delivery.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
}

// LogPublisher writes events to the log. It stands in until a broker consumer
// owns the feed.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, event *Event) error {
	logger.Info("Domain event dispatched",
		"event_id", event.ID,
		"type", event.Type,
		"aggregate_id", event.AggregateID)
	return nil
}
