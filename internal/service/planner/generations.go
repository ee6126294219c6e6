package planner

import (
	"context"
	"encoding/json"
	"log/slog"

	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

type tripIDKey struct{}

// WithTripID attributes generation records made under ctx to tripID.
func WithTripID(ctx context.Context, tripID string) context.Context {
	if tripID == "" {
		return ctx
	}
	return context.WithValue(ctx, tripIDKey{}, tripID)
}

func tripIDFrom(ctx context.Context) *string {
	if id, ok := ctx.Value(tripIDKey{}).(string); ok {
		return &id
	}
	return nil
}

// generationLog records model usage per stage. A nil repository disables it.
type generationLog struct {
	repo   repositories.GenerationRepository
	logger *slog.Logger
}

// record never fails the caller; errors are logged.
func (g *generationLog) record(ctx context.Context, stage models.GenerationType, model string, in, out int, data json.RawMessage) {
	if g == nil || g.repo == nil {
		return
	}

	rec := &models.GenerationRecord{
		TripID:        tripIDFrom(ctx),
		Type:          stage,
		Model:         model,
		InputTokens:   in,
		OutputTokens:  out,
		GeneratedData: data,
	}
	if err := g.repo.Record(ctx, rec); err != nil {
		g.logger.Warn("failed to record generation",
			"stage", stage,
			"error", err,
		)
	}
}

func textData(text string) json.RawMessage {
	data, _ := json.Marshal(map[string]string{"text": text})
	return data
}
