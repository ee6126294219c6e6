package seed

import (
	"context"
	"fmt"
	"log/slog"

	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

// demoConversation is a finished clarification exchange; the next user
// turn on this trip has every facet the gate needs.
var demoConversation = []models.Turn{
	{Role: models.ChatRoleUser, Content: "I want to go to Kyoto"},
	{Role: models.ChatRoleAssistant, Content: "Kyoto is a wonderful choice! How many days will you be there, and who is travelling?"},
	{Role: models.ChatRoleUser, Content: "5 days, as a couple"},
	{Role: models.ChatRoleAssistant, Content: "Lovely. What are you most interested in, and what budget level are you aiming for?"},
}

// DemoSeeder creates a sample trip with a conversation in progress.
type DemoSeeder struct {
	trips    repositories.TripRepository
	messages repositories.ChatMessageRepository
	tx       repositories.TransactionManager
	logger   *slog.Logger
}

// NewDemoSeeder creates a demo data seeder.
func NewDemoSeeder(trips repositories.TripRepository, messages repositories.ChatMessageRepository, tx repositories.TransactionManager, logger *slog.Logger) *DemoSeeder {
	return &DemoSeeder{
		trips:    trips,
		messages: messages,
		tx:       tx,
		logger:   logger,
	}
}

// SeedTrip creates the demo trip for userID and returns its id.
func (s *DemoSeeder) SeedTrip(ctx context.Context, userID string) (string, error) {
	var tripID string
	err := s.tx.ExecTx(ctx, func(ctx context.Context) error {
		trip, err := s.trips.Create(ctx, userID)
		if err != nil {
			return err
		}
		tripID = trip.ID

		for _, turn := range demoConversation {
			if _, err := s.messages.Append(ctx, trip.ID, turn.Role, turn.Content); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("seed demo trip: %w", err)
	}

	s.logger.Info("demo trip seeded", "trip_id", tripID, "user_id", userID, "messages", len(demoConversation))
	return tripID, nil
}
