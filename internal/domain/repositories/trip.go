package repositories

import (
	"context"

	"rove/internal/domain/models"
)

// TripRepository defines data access for trips.
type TripRepository interface {
	// Create inserts a new trip for the user and returns it with ID populated.
	Create(ctx context.Context, userID string) (*models.Trip, error)

	// GetByOwner returns the trip only if it belongs to userID.
	// Returns nil (and no error) when the trip does not exist or is owned by someone else.
	GetByOwner(ctx context.Context, userID, tripID string) (*models.Trip, error)

	// ListByOwner returns the user's trips, newest first.
	ListByOwner(ctx context.Context, userID string) ([]models.Trip, error)

	// SetItineraryOptions replaces the stored itinerary set of a trip.
	SetItineraryOptions(ctx context.Context, tripID string, itineraries []models.ComposedItinerary) error
}
