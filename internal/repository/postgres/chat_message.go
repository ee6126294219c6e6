package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

// PostgresChatMessageRepository implements the ChatMessageRepository interface
type PostgresChatMessageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewChatMessageRepository creates a new PostgresChatMessageRepository
func NewChatMessageRepository(config *RepositoryConfig) repositories.ChatMessageRepository {
	return &PostgresChatMessageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append inserts a message at the end of a trip's transcript
func (r *PostgresChatMessageRepository) Append(ctx context.Context, tripID string, role models.ChatRole, content string) (*models.ChatMessage, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (trip_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, trip_id, role, content, created_at
	`, r.tables.ChatMessages)

	var msg models.ChatMessage
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, tripID, string(role), content).Scan(
		&msg.ID,
		&msg.TripID,
		&msg.Role,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return nil, fmt.Errorf("append message to trip %s: %w", tripID, err)
		}
		return nil, wrapErr("append chat message", err)
	}

	return &msg, nil
}

// ListOrdered returns a trip's messages oldest first
func (r *PostgresChatMessageRepository) ListOrdered(ctx context.Context, tripID string) ([]models.ChatMessage, error) {
	// now() is fixed per transaction, so seq orders messages written together
	query := fmt.Sprintf(`
		SELECT id, trip_id, role, content, created_at
		FROM %s
		WHERE trip_id = $1
		ORDER BY created_at ASC, seq ASC
	`, r.tables.ChatMessages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, tripID)
	if err != nil {
		return nil, wrapErr("list chat messages", err)
	}
	defer rows.Close()

	messages := []models.ChatMessage{}
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.TripID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate chat messages", err)
	}

	return messages, nil
}
