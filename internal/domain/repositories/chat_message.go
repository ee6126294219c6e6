package repositories

import (
	"context"

	"rove/internal/domain/models"
)

// ChatMessageRepository is the append-only chat transcript store.
type ChatMessageRepository interface {
	// Append records a message and returns it with ID and CreatedAt set.
	Append(ctx context.Context, tripID string, role models.ChatRole, content string) (*models.ChatMessage, error)

	// ListOrdered returns all messages of a trip in ascending creation order.
	ListOrdered(ctx context.Context, tripID string) ([]models.ChatMessage, error)
}
