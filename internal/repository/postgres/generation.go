package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

// PostgresGenerationRepository implements the GenerationRepository interface
type PostgresGenerationRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewGenerationRepository creates a new PostgresGenerationRepository
func NewGenerationRepository(config *RepositoryConfig) repositories.GenerationRepository {
	return &PostgresGenerationRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Record appends one model call to the generation log
func (r *PostgresGenerationRepository) Record(ctx context.Context, record *models.GenerationRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (trip_id, type, model, input_tokens, output_tokens, generated_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.AIGenerations)

	var data []byte
	if len(record.GeneratedData) > 0 {
		data = record.GeneratedData
	}

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		record.TripID,
		string(record.Type),
		record.Model,
		record.InputTokens,
		record.OutputTokens,
		data,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return wrapErr("record generation", err)
	}

	return nil
}
