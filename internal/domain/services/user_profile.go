package services

import (
	"context"

	"rove/internal/domain/models"
)

// UserProfileService defines the business logic for user profile operations
type UserProfileService interface {
	// GetProfile returns nil if the user has no profile
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// CreateProfile fails with a ConflictError if a profile already exists
	CreateProfile(ctx context.Context, userID string, req *models.CreateProfileRequest) (*models.UserProfile, error)

	// GetOrCreateProfile returns the existing profile or creates one from the default location
	GetOrCreateProfile(ctx context.Context, userID string) (*models.UserProfile, error)

	// UpdateProfile applies a partial update, creating the profile from defaults if needed
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error)

	// DeleteProfile returns domain.ErrNotFound if there was nothing to delete
	DeleteProfile(ctx context.Context, userID string) error
}
