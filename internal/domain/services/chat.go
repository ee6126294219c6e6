package services

import (
	"context"

	"rove/internal/domain/models"
)

// ChatService persists a chat turn around the planner and packages the response.
type ChatService interface {
	// HandleNewChat creates a trip for the user and answers its first message.
	HandleNewChat(ctx context.Context, userID, message string) (*models.ChatResponse, error)

	// HandleExistingChat continues a trip the user owns.
	// Returns domain.ErrTripNotFound when the trip is missing or not the user's.
	HandleExistingChat(ctx context.Context, userID, tripID, message string) (*models.ChatResponse, error)
}

// TripService reads trips on behalf of their owner.
type TripService interface {
	ListTrips(ctx context.Context, userID string) ([]models.Trip, error)
	GetTrip(ctx context.Context, userID, tripID string) (*models.TripDetail, error)
}
