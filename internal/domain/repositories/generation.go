package repositories

import (
	"context"

	"rove/internal/domain/models"
)

// GenerationRepository records per-stage model usage.
type GenerationRepository interface {
	Record(ctx context.Context, record *models.GenerationRecord) error
}
