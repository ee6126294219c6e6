package trip

import (
	"context"
	"fmt"
	"log/slog"

	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
	"rove/internal/domain/services"
	"rove/internal/service/auth"
)

type tripService struct {
	tripRepo   repositories.TripRepository
	chatRepo   repositories.ChatMessageRepository
	authorizer *auth.OwnerBasedAuthorizer
	logger     *slog.Logger
}

// NewTripService creates the read side of trips.
func NewTripService(
	tripRepo repositories.TripRepository,
	chatRepo repositories.ChatMessageRepository,
	logger *slog.Logger,
) services.TripService {
	return &tripService{
		tripRepo:   tripRepo,
		chatRepo:   chatRepo,
		authorizer: auth.NewOwnerBasedAuthorizer(tripRepo),
		logger:     logger,
	}
}

// ListTrips returns the user's trips, newest first.
func (s *tripService) ListTrips(ctx context.Context, userID string) ([]models.Trip, error) {
	trips, err := s.tripRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// GetTrip returns a trip with its ordered conversation.
func (s *tripService) GetTrip(ctx context.Context, userID, tripID string) (*models.TripDetail, error) {
	trip, err := s.authorizer.AuthorizeTrip(ctx, userID, tripID)
	if err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListOrdered(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	return &models.TripDetail{Trip: *trip, Messages: messages}, nil
}
