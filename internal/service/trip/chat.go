package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
	"rove/internal/domain/services"
	"rove/internal/service/auth"
)

// chatService runs one chat turn: record the user message, plan, then
// persist the reply and itineraries together.
type chatService struct {
	tripRepo   repositories.TripRepository
	chatRepo   repositories.ChatMessageRepository
	txManager  repositories.TransactionManager
	authorizer *auth.OwnerBasedAuthorizer
	planner    services.Planner
	profiles   services.UserProfileService
	logger     *slog.Logger
}

// NewChatService creates the chat controller. profiles may be nil.
func NewChatService(
	tripRepo repositories.TripRepository,
	chatRepo repositories.ChatMessageRepository,
	txManager repositories.TransactionManager,
	planner services.Planner,
	profiles services.UserProfileService,
	logger *slog.Logger,
) services.ChatService {
	return &chatService{
		tripRepo:   tripRepo,
		chatRepo:   chatRepo,
		txManager:  txManager,
		authorizer: auth.NewOwnerBasedAuthorizer(tripRepo),
		planner:    planner,
		profiles:   profiles,
		logger:     logger,
	}
}

// HandleNewChat creates a trip and answers its first message.
func (s *chatService) HandleNewChat(ctx context.Context, userID, message string) (*models.ChatResponse, error) {
	if err := validateMessage(message); err != nil {
		return nil, err
	}

	var trip *models.Trip
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		trip, err = s.tripRepo.Create(txCtx, userID)
		if err != nil {
			return fmt.Errorf("create trip: %w", err)
		}
		if _, err := s.chatRepo.Append(txCtx, trip.ID, models.ChatRoleUser, message); err != nil {
			return fmt.Errorf("record user message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("trip created", "trip_id", trip.ID, "user_id", userID)

	return s.respond(ctx, userID, trip.ID, message, nil)
}

// HandleExistingChat continues a trip the user owns.
func (s *chatService) HandleExistingChat(ctx context.Context, userID, tripID, message string) (*models.ChatResponse, error) {
	if err := validateMessage(message); err != nil {
		return nil, err
	}

	if _, err := s.authorizer.AuthorizeTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListOrdered(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	if _, err := s.chatRepo.Append(ctx, tripID, models.ChatRoleUser, message); err != nil {
		return nil, fmt.Errorf("record user message: %w", err)
	}

	return s.respond(ctx, userID, tripID, message, models.TurnsFromMessages(messages))
}

func (s *chatService) respond(ctx context.Context, userID, tripID, message string, history []models.Turn) (*models.ChatResponse, error) {
	result, err := s.planner.Plan(ctx, &services.PlanRequest{
		TripID:  tripID,
		Message: message,
		History: history,
		Profile: s.loadProfile(ctx, userID),
	})
	if err != nil {
		return nil, err
	}

	reply, err := assistantContent(result)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if result.Type == models.ResponseTypeItineraries {
			if err := s.tripRepo.SetItineraryOptions(txCtx, tripID, result.Itineraries); err != nil {
				return fmt.Errorf("save itineraries: %w", err)
			}
		}
		if _, err := s.chatRepo.Append(txCtx, tripID, models.ChatRoleAssistant, reply); err != nil {
			return fmt.Errorf("record assistant message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chat turn answered",
		"trip_id", tripID,
		"type", result.Type,
		"itineraries", len(result.Itineraries),
	)

	return &models.ChatResponse{
		Type:        result.Type,
		Reply:       result.Reply,
		Itineraries: result.Itineraries,
		TripID:      tripID,
	}, nil
}

// loadProfile returns nil when the user has none or it cannot be read;
// costs then use no particular currency.
func (s *chatService) loadProfile(ctx context.Context, userID string) *models.UserProfile {
	if s.profiles == nil {
		return nil
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load user profile", "user_id", userID, "error", err)
		return nil
	}
	return profile
}

// assistantContent is what gets stored as the assistant turn: the question
// text, or the serialized itinerary set.
func assistantContent(result *models.PlanResult) (string, error) {
	if result.Type == models.ResponseTypeQuestion {
		return result.Reply, nil
	}
	data, err := json.Marshal(struct {
		Itineraries []models.ComposedItinerary `json:"itineraries"`
	}{result.Itineraries})
	if err != nil {
		return "", fmt.Errorf("encode itineraries: %w", err)
	}
	return string(data), nil
}

func validateMessage(message string) error {
	if err := (models.ChatRequest{Message: message}).Validate(); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}
