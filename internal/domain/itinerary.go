package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryEntry is one planned stop or activity. Publishing requires at
// least one entry.
type ItineraryEntry struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	DayNumber int32     `json:"day_number"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	CreatedOn time.Time `json:"created_on"`
}
