package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/services"
	"rove/internal/httputil"
)

// TripHandler serves trip reads for the owner.
type TripHandler struct {
	trips  services.TripService
	logger *slog.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(trips services.TripService, logger *slog.Logger) *TripHandler {
	return &TripHandler{
		trips:  trips,
		logger: logger,
	}
}

// ListTrips returns the user's trips, newest first
// GET /api/trips
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	trips, err := h.trips.ListTrips(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	if trips == nil {
		trips = []models.Trip{}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"trips": trips})
}

// GetTrip returns a trip with its itinerary options and messages
// GET /api/trips/{id}
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tripID := r.PathValue("id")
	// Malformed ids are indistinguishable from someone else's trip
	if _, err := uuid.Parse(tripID); err != nil {
		handleError(w, domain.ErrTripNotFound)
		return
	}
	httputil.SetTripID(r, tripID)

	trip, err := h.trips.GetTrip(r.Context(), userID, tripID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, trip)
}
