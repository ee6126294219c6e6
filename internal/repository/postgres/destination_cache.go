package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

// PostgresDestinationCacheRepository implements the DestinationCacheRepository interface
type PostgresDestinationCacheRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDestinationCacheRepository creates a new PostgresDestinationCacheRepository
func NewDestinationCacheRepository(config *RepositoryConfig) repositories.DestinationCacheRepository {
	return &PostgresDestinationCacheRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetLive returns the entry for destination if it has not expired at now
func (r *PostgresDestinationCacheRepository) GetLive(ctx context.Context, destination string, now time.Time) (*models.DestinationCacheEntry, error) {
	query := fmt.Sprintf(`
		SELECT destination, context_data, expires_at, created_at
		FROM %s
		WHERE destination = $1 AND expires_at > $2
	`, r.tables.DestinationCache)

	var entry models.DestinationCacheEntry
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, destination, now).Scan(
		&entry.Destination,
		&entry.ContextData,
		&entry.ExpiresAt,
		&entry.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, wrapErr("get destination cache entry", err)
	}

	return &entry, nil
}

// Upsert writes an entry; a concurrent writer for the same key wins last
func (r *PostgresDestinationCacheRepository) Upsert(ctx context.Context, entry *models.DestinationCacheEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (destination, context_data, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (destination) DO UPDATE SET
			context_data = EXCLUDED.context_data,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at
	`, r.tables.DestinationCache)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query,
		entry.Destination,
		entry.ContextData,
		entry.ExpiresAt,
		entry.CreatedAt,
	); err != nil {
		return wrapErr("upsert destination cache entry", err)
	}

	return nil
}

// Clear deletes every cached destination
func (r *PostgresDestinationCacheRepository) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, r.tables.DestinationCache)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query)
	if err != nil {
		return wrapErr("clear destination cache", err)
	}

	r.logger.Info("destination cache cleared", "entries", result.RowsAffected())
	return nil
}
