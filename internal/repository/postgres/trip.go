package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

// PostgresTripRepository implements the TripRepository interface
type PostgresTripRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTripRepository creates a new PostgresTripRepository
func NewTripRepository(config *RepositoryConfig) repositories.TripRepository {
	return &PostgresTripRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a new trip with the default name
func (r *PostgresTripRepository) Create(ctx context.Context, userID string) (*models.Trip, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id)
		VALUES ($1)
		RETURNING id, user_id, name, itinerary_options, created_at
	`, r.tables.Trips)

	var trip models.Trip
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Name,
		&trip.ItineraryOptions,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, wrapErr("create trip", err)
	}

	return &trip, nil
}

// GetByOwner retrieves a trip scoped to its owner
func (r *PostgresTripRepository) GetByOwner(ctx context.Context, userID, tripID string) (*models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, itinerary_options, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, r.tables.Trips)

	var trip models.Trip
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, tripID, userID).Scan(
		&trip.ID,
		&trip.UserID,
		&trip.Name,
		&trip.ItineraryOptions,
		&trip.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		if IsPgInvalidTextError(err) {
			// Malformed id: indistinguishable from a missing trip
			return nil, nil
		}
		return nil, wrapErr("get trip", err)
	}

	return &trip, nil
}

// ListByOwner returns all trips of a user, newest first
func (r *PostgresTripRepository) ListByOwner(ctx context.Context, userID string) ([]models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, name, itinerary_options, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Trips)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapErr("list trips", err)
	}
	defer rows.Close()

	trips := []models.Trip{}
	for rows.Next() {
		var trip models.Trip
		if err := rows.Scan(
			&trip.ID,
			&trip.UserID,
			&trip.Name,
			&trip.ItineraryOptions,
			&trip.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate trips", err)
	}

	return trips, nil
}

// SetItineraryOptions overwrites the itinerary blob of a trip
func (r *PostgresTripRepository) SetItineraryOptions(ctx context.Context, tripID string, itineraries []models.ComposedItinerary) error {
	payload, err := json.Marshal(itineraries)
	if err != nil {
		return fmt.Errorf("marshal itinerary options: %w", err)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET itinerary_options = $1
		WHERE id = $2
	`, r.tables.Trips)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, payload, tripID)
	if err != nil {
		return wrapErr("update itinerary options", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update itinerary options for trip %s: %w", tripID, domain.ErrTripNotFound)
	}

	r.logger.Debug("itinerary options stored", "trip_id", tripID, "count", len(itineraries))
	return nil
}
