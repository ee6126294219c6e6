package auth

import (
	"context"
	"fmt"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

// OwnerBasedAuthorizer grants access to a trip only to the user who created it.
type OwnerBasedAuthorizer struct {
	tripRepo repositories.TripRepository
}

// NewOwnerBasedAuthorizer creates a new ownership-based authorizer
func NewOwnerBasedAuthorizer(tripRepo repositories.TripRepository) *OwnerBasedAuthorizer {
	return &OwnerBasedAuthorizer{tripRepo: tripRepo}
}

// AuthorizeTrip returns the trip if userID owns it. A missing trip and a
// trip owned by someone else both yield domain.ErrTripNotFound.
func (a *OwnerBasedAuthorizer) AuthorizeTrip(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	trip, err := a.tripRepo.GetByOwner(ctx, userID, tripID)
	if err != nil {
		return nil, fmt.Errorf("check trip access: %w", err)
	}
	if trip == nil {
		return nil, domain.ErrTripNotFound
	}
	return trip, nil
}
