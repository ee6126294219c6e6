package services

import (
	"context"

	"rove/internal/domain/models"
)

// PlanRequest is the input of one planning turn.
type PlanRequest struct {
	// TripID is used only to attribute generation records; may be empty.
	TripID string
	// Message is the new user message.
	Message string
	// History is the conversation before Message, oldest first.
	History []models.Turn
	// Profile is optional; when set all costs are requested in its home currency.
	Profile *models.UserProfile
}

// Planner turns a chat turn into either a clarifying question or itineraries.
type Planner interface {
	// Plan runs the sufficiency gate and, when enough information exists,
	// the full generation pipeline. Any stage failure yields an error
	// wrapping domain.ErrGenerationFailed and no partial result.
	Plan(ctx context.Context, req *PlanRequest) (*models.PlanResult, error)
}

// ContextProvider returns enriched destination context for a request.
type ContextProvider interface {
	GetOrGenerateContext(ctx context.Context, userMessage, conversationContext string) (string, error)
}

// DestinationCacheService administers the destination context cache.
type DestinationCacheService interface {
	ContextProvider
	// ClearCache bulk-deletes every cached destination.
	ClearCache(ctx context.Context) error
}
