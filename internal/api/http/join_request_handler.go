package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"tripmate-backend/internal/domain"
	"tripmate-backend/internal/service"
)

// JoinRequestHandler serves the join-request endpoints.
type JoinRequestHandler struct {
	requests service.JoinRequestService
}

func NewJoinRequestHandler(requests service.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{requests: requests}
}

type createJoinRequestBody struct {
	Source string `json:"source"`
}

// Create handles POST /trips/{tripId}/join-requests.
func (h *JoinRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, tripID, ok := callerAndTripID(w, r)
	if !ok {
		return
	}
	body := createJoinRequestBody{Source: string(domain.JoinSourceWeb)}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorCode(w, http.StatusBadRequest, "INVALID_BODY", "malformed request body")
			return
		}
	}
	source := domain.JoinSource(body.Source)
	switch source {
	case domain.JoinSourceWeb, domain.JoinSourceMobile, domain.JoinSourceSharedLink:
	default:
		writeErrorCode(w, http.StatusBadRequest, "INVALID_SOURCE", "unknown join request source")
		return
	}
	req, err := h.requests.CreateJoinRequest(r.Context(), tripID, callerID, source)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// Approve handles POST /join-requests/{id}/approve.
func (h *JoinRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, ok := callerAndRequestID(w, r)
	if !ok {
		return
	}
	req, err := h.requests.ApproveJoinRequest(r.Context(), requestID, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Reject handles POST /join-requests/{id}/reject.
func (h *JoinRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, ok := callerAndRequestID(w, r)
	if !ok {
		return
	}
	req, err := h.requests.RejectJoinRequest(r.Context(), requestID, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// Cancel handles DELETE /join-requests/{id}/cancel.
func (h *JoinRequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	callerID, requestID, ok := callerAndRequestID(w, r)
	if !ok {
		return
	}
	req, err := h.requests.CancelJoinRequest(r.Context(), requestID, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// List handles GET /trips/{tripId}/join-requests?status=.
func (h *JoinRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID, tripID, ok := callerAndTripID(w, r)
	if !ok {
		return
	}
	status := domain.JoinRequestStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.JoinRequestStatusPending, domain.JoinRequestStatusApproved,
		domain.JoinRequestStatusAutoApproved, domain.JoinRequestStatusRejected,
		domain.JoinRequestStatusCancelled:
	default:
		writeErrorCode(w, http.StatusBadRequest, "INVALID_STATUS", "unknown join request status")
		return
	}
	reqs, err := h.requests.ListJoinRequests(r.Context(), tripID, callerID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

func callerAndRequestID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	callerID, ok := CallerID(r.Context())
	if !ok {
		writeErrorCode(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity")
		return uuid.Nil, uuid.Nil, false
	}
	requestID, ok := pathID(w, r, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return callerID, requestID, true
}
