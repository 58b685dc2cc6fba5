package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/service"
)

const dateLayout = "2006-01-02"

// TripHandler serves trip lifecycle and itinerary endpoints.
type TripHandler struct {
	trips service.TripService
}

func NewTripHandler(trips service.TripService) *TripHandler {
	return &TripHandler{trips: trips}
}

type tripRequest struct {
	Title                string `json:"title"`
	Description          string `json:"description"`
	Destination          string `json:"destination"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
	EstimatedBudgetCents *int64 `json:"estimated_budget_cents"`
	MaxParticipants      int32  `json:"max_participants"`
	JoinPolicy           string `json:"join_policy"`
	Visibility           string `json:"visibility"`
}

func (req *tripRequest) toDomain() (*domain.Trip, error) {
	trip := &domain.Trip{
		Title:                req.Title,
		Description:          req.Description,
		Destination:          req.Destination,
		EstimatedBudgetCents: req.EstimatedBudgetCents,
		MaxParticipants:      req.MaxParticipants,
		JoinPolicy:           domain.JoinPolicy(req.JoinPolicy),
		Visibility:           domain.Visibility(req.Visibility),
	}
	for _, d := range []struct {
		value  string
		target **time.Time
	}{
		{req.StartDate, &trip.StartDate},
		{req.EndDate, &trip.EndDate},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.Parse(dateLayout, d.value)
		if err != nil {
			return nil, err
		}
		*d.target = &parsed
	}
	return trip, nil
}

// CreateTrip handles POST /trips.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity")
		return
	}
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_BODY", "malformed request body")
		return
	}
	trip, err := req.toDomain()
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_DATE", "dates must use YYYY-MM-DD")
		return
	}
	created, err := h.trips.CreateDraft(r.Context(), callerID, trip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTrip handles PUT /trips/{tripId}.
func (h *TripHandler) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	callerID, tripID, ok := callerAndTripID(w, r)
	if !ok {
		return
	}
	var req tripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_BODY", "malformed request body")
		return
	}
	trip, err := req.toDomain()
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_DATE", "dates must use YYYY-MM-DD")
		return
	}
	trip.ID = tripID
	updated, err := h.trips.UpdateDraft(r.Context(), callerID, trip)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// GetTrip handles GET /trips/{tripId}.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	trip, err := h.trips.GetTrip(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// PublishTrip handles POST /trips/{tripId}/publish.
func (h *TripHandler) PublishTrip(w http.ResponseWriter, r *http.Request) {
	callerID, tripID, ok := callerAndTripID(w, r)
	if !ok {
		return
	}
	trip, err := h.trips.PublishTrip(r.Context(), callerID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// CancelTrip handles DELETE /trips/{tripId}.
func (h *TripHandler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	callerID, tripID, ok := callerAndTripID(w, r)
	if !ok {
		return
	}
	trip, err := h.trips.CancelTrip(r.Context(), callerID, tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

type itineraryRequest struct {
	DayNumber int32  `json:"day_number"`
	Title     string `json:"title"`
	Note      string `json:"note"`
}

// AddItineraryEntry handles POST /trips/{tripId}/itinerary.
func (h *TripHandler) AddItineraryEntry(w http.ResponseWriter, r *http.Request) {
	callerID, tripID, ok := callerAndTripID(w, r)
	if !ok {
		return
	}
	var req itineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_BODY", "malformed request body")
		return
	}
	entry := &domain.ItineraryEntry{
		TripID:    tripID,
		DayNumber: req.DayNumber,
		Title:     req.Title,
		Note:      req.Note,
	}
	created, err := h.trips.AddItineraryEntry(r.Context(), callerID, entry)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListItinerary handles GET /trips/{tripId}/itinerary.
func (h *TripHandler) ListItinerary(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathID(w, r, "tripId")
	if !ok {
		return
	}
	entries, err := h.trips.ListItinerary(r.Context(), tripID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// RemoveParticipant handles DELETE /trips/{tripId}/participants/{userId}.
func (h *TripHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	callerID, tripID, ok := callerAndTripID(w, r)
	if !ok {
		return
	}
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	reason := r.URL.Query().Get("reason")
	if err := h.trips.RemoveParticipant(r.Context(), callerID, tripID, userID, reason); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func callerAndTripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity")
		return uuid.Nil, uuid.Nil, false
	}
	tripID, ok := pathID(w, r, "tripId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return callerID, tripID, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, "INVALID_ID", "path id must be a valid uuid")
		return uuid.Nil, false
	}
	return id, true
}
