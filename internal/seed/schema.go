// Package seed bootstraps the database schema and demo data.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"rove/internal/repository/postgres"
)

// Schema creates and drops the prefixed tables.
type Schema struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	prefix string
	logger *slog.Logger
}

// NewSchema creates a schema manager for the given table prefix.
func NewSchema(pool *pgxpool.Pool, prefix string, logger *slog.Logger) *Schema {
	return &Schema{
		pool:   pool,
		tables: postgres.NewTableNames(prefix),
		prefix: prefix,
		logger: logger,
	}
}

// Apply creates any missing tables and indexes.
func (s *Schema) Apply(ctx context.Context) error {
	for _, stmt := range Statements(s.tables, s.prefix) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	s.logger.Info("schema ready", "prefix", s.prefix)
	return nil
}

// DropAll drops every table, children first.
func (s *Schema) DropAll(ctx context.Context) error {
	for _, stmt := range DropStatements(s.tables) {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop tables: %w", err)
		}
	}
	s.logger.Info("tables dropped", "prefix", s.prefix)
	return nil
}

// Statements returns the DDL for every table. seq gives chat messages a
// stable order when two rows share a created_at.
func Statements(t *postgres.TableNames, prefix string) []string {
	return []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS ` + t.Trips + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT 'New Trip',
			itinerary_options JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS ` + t.ChatMessages + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			seq BIGSERIAL NOT NULL,
			trip_id UUID NOT NULL REFERENCES ` + t.Trips + `(id) ON DELETE CASCADE,
			role TEXT NOT NULL CHECK (role IN ('user', 'assistant')),
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS ` + t.AIGenerations + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			trip_id UUID REFERENCES ` + t.Trips + `(id) ON DELETE SET NULL,
			type TEXT NOT NULL CHECK (type IN ('context', 'basic_itinerary', 'daily_plan', 'logistics')),
			model TEXT NOT NULL,
			input_tokens INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			generated_data JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS ` + t.DestinationCache + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			destination TEXT NOT NULL UNIQUE,
			context_data TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS ` + t.UserProfiles + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL UNIQUE,
			home_country TEXT NOT NULL,
			home_currency CHAR(3) NOT NULL,
			preferred_language CHAR(2) NOT NULL,
			time_zone TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `trips_user_created ON ` + t.Trips + `(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `chat_messages_trip ON ` + t.ChatMessages + `(trip_id, created_at, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `ai_generations_trip ON ` + t.AIGenerations + `(trip_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `destination_cache_expires ON ` + t.DestinationCache + `(expires_at)`,
	}
}

// DropStatements returns DROP TABLE statements in reverse dependency order.
func DropStatements(t *postgres.TableNames) []string {
	all := t.All()
	out := make([]string, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, "DROP TABLE IF EXISTS "+all[i]+" CASCADE")
	}
	return out
}
