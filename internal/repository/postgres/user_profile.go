package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

// PostgresUserProfileRepository implements the UserProfileRepository interface
type PostgresUserProfileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserProfileRepository creates a new PostgresUserProfileRepository
func NewUserProfileRepository(config *RepositoryConfig) repositories.UserProfileRepository {
	return &PostgresUserProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByUserID retrieves the profile for a specific user
func (r *PostgresUserProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, home_country, home_currency, preferred_language, time_zone, created_at, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.UserProfiles)

	var profile models.UserProfile
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.HomeCountry,
		&profile.HomeCurrency,
		&profile.PreferredLanguage,
		&profile.TimeZone,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			// No profile yet - return nil (not an error)
			return nil, nil
		}
		return nil, wrapErr("get user profile", err)
	}

	return &profile, nil
}

// Create inserts a profile; one per user
func (r *PostgresUserProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, home_country, home_currency, preferred_language, time_zone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, r.tables.UserProfiles)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		profile.UserID,
		profile.HomeCountry,
		profile.HomeCurrency,
		profile.PreferredLanguage,
		profile.TimeZone,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "profile already exists",
				ResourceType: "profile",
				ResourceID:   profile.UserID,
			}
		}
		return wrapErr("create user profile", err)
	}

	return nil
}

// Update overwrites the locale fields of an existing profile
func (r *PostgresUserProfileRepository) Update(ctx context.Context, profile *models.UserProfile) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET home_country = $1,
			home_currency = $2,
			preferred_language = $3,
			time_zone = $4,
			updated_at = NOW()
		WHERE user_id = $5
		RETURNING id, created_at, updated_at
	`, r.tables.UserProfiles)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		profile.HomeCountry,
		profile.HomeCurrency,
		profile.PreferredLanguage,
		profile.TimeZone,
		profile.UserID,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return &domain.NotFoundError{Message: "profile not found"}
		}
		return wrapErr("update user profile", err)
	}

	return nil
}

// Delete removes a user's profile
func (r *PostgresUserProfileRepository) Delete(ctx context.Context, userID string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.tables.UserProfiles)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, userID)
	if err != nil {
		return false, wrapErr("delete user profile", err)
	}

	return result.RowsAffected() > 0, nil
}
