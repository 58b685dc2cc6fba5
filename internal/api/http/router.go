package http

import (
	"github.com/gorilla/mux"

	"tripmate-backend/internal/security"
	"tripmate-backend/internal/service"
)

// NewRouter wires the API surface. All routes require a resolved caller
// identity.
func NewRouter(trips service.TripService, requests service.JoinRequestService, verifier security.TokenVerifier) *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(verifier))

	tripHandler := NewTripHandler(trips)
	joinHandler := NewJoinRequestHandler(requests)

	api.HandleFunc("/trips", tripHandler.CreateTrip).Methods("POST")
	api.HandleFunc("/trips/{tripId}", tripHandler.GetTrip).Methods("GET")
	api.HandleFunc("/trips/{tripId}", tripHandler.UpdateTrip).Methods("PUT")
	api.HandleFunc("/trips/{tripId}", tripHandler.CancelTrip).Methods("DELETE")
	api.HandleFunc("/trips/{tripId}/publish", tripHandler.PublishTrip).Methods("POST")
	api.HandleFunc("/trips/{tripId}/itinerary", tripHandler.AddItineraryEntry).Methods("POST")
	api.HandleFunc("/trips/{tripId}/itinerary", tripHandler.ListItinerary).Methods("GET")
	api.HandleFunc("/trips/{tripId}/participants/{userId}", tripHandler.RemoveParticipant).Methods("DELETE")

	api.HandleFunc("/trips/{tripId}/join-requests", joinHandler.Create).Methods("POST")
	api.HandleFunc("/trips/{tripId}/join-requests", joinHandler.List).Methods("GET")
	api.HandleFunc("/join-requests/{id}/approve", joinHandler.Approve).Methods("POST")
	api.HandleFunc("/join-requests/{id}/reject", joinHandler.Reject).Methods("POST")
	api.HandleFunc("/join-requests/{id}/cancel", joinHandler.Cancel).Methods("DELETE")

	return router
}
