package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
	"rove/internal/domain/services"
)

// Service implements the UserProfileService interface
type Service struct {
	profileRepo repositories.UserProfileRepository
	logger      *slog.Logger
}

// NewService creates a new user profile service
func NewService(
	profileRepo repositories.UserProfileRepository,
	logger *slog.Logger,
) services.UserProfileService {
	return &Service{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

func defaultProfile(userID string) *models.UserProfile {
	return &models.UserProfile{
		UserID:            userID,
		HomeCountry:       DefaultLocation.Country,
		HomeCurrency:      DefaultLocation.Currency,
		PreferredLanguage: DefaultLocation.Language,
		TimeZone:          DefaultLocation.TimeZone,
	}
}

// GetProfile returns nil if the user has no profile
func (s *Service) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// CreateProfile creates a profile from a complete request
func (s *Service) CreateProfile(ctx context.Context, userID string, req *models.CreateProfileRequest) (*models.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	profile := &models.UserProfile{
		UserID:            userID,
		HomeCountry:       req.HomeCountry,
		HomeCurrency:      req.HomeCurrency,
		PreferredLanguage: req.PreferredLanguage,
		TimeZone:          req.TimeZone,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("user profile created",
		"user_id", userID,
		"currency", profile.HomeCurrency,
	)
	return profile, nil
}

// GetOrCreateProfile returns the existing profile or creates the default one
func (s *Service) GetOrCreateProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	existing, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	profile := defaultProfile(userID)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		// Lost a race with a concurrent create
		if errors.Is(err, domain.ErrConflict) {
			return s.GetProfile(ctx, userID)
		}
		return nil, err
	}

	s.logger.Debug("default user profile created", "user_id", userID)
	return profile, nil
}

// UpdateProfile applies a partial update. A missing profile is created from
// the defaults merged with the update.
func (s *Service) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	existing, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	create := existing == nil
	if create {
		existing = defaultProfile(userID)
	}

	// Tri-state: only fields present in the request change
	if req.HomeCountry != nil {
		existing.HomeCountry = *req.HomeCountry
	}
	if req.HomeCurrency != nil {
		existing.HomeCurrency = *req.HomeCurrency
	}
	if req.PreferredLanguage != nil {
		existing.PreferredLanguage = *req.PreferredLanguage
	}
	if req.TimeZone != nil {
		existing.TimeZone = *req.TimeZone
	}

	if create {
		err = s.profileRepo.Create(ctx, existing)
	} else {
		err = s.profileRepo.Update(ctx, existing)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("user profile updated",
		"user_id", userID,
		"created", create,
		"has_country", req.HomeCountry != nil,
		"has_currency", req.HomeCurrency != nil,
		"has_language", req.PreferredLanguage != nil,
		"has_time_zone", req.TimeZone != nil,
	)
	return existing, nil
}

// DeleteProfile removes the user's profile
func (s *Service) DeleteProfile(ctx context.Context, userID string) error {
	deleted, err := s.profileRepo.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if !deleted {
		return &domain.NotFoundError{Message: "profile not found"}
	}
	s.logger.Info("user profile deleted", "user_id", userID)
	return nil
}
