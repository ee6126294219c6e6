package repositories

import (
	"context"

	"rove/internal/domain/models"
)

// UserProfileRepository defines data access for user profiles
type UserProfileRepository interface {
	// GetByUserID returns nil if the user has no profile yet
	GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error)

	// Create inserts a profile. Returns a ConflictError if one already exists.
	Create(ctx context.Context, profile *models.UserProfile) error

	// Update overwrites the mutable fields of an existing profile
	Update(ctx context.Context, profile *models.UserProfile) error

	// Delete removes the profile; reports whether a row was deleted
	Delete(ctx context.Context, userID string) (bool, error)
}
