package handler

import (
	"log/slog"
	"net/http"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/services"
	"rove/internal/httputil"
	"rove/internal/service/profile"
)

// ProfileHandler handles user profile HTTP requests
type ProfileHandler struct {
	service services.UserProfileService
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service services.UserProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// GetProfile retrieves the user's profile
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}
	if p == nil {
		handleError(w, &domain.NotFoundError{Message: "profile not found"})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, p)
}

// CreateProfile creates a profile; an existing one is returned with 409
// POST /api/profile
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateProfileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.service.CreateProfile(r.Context(), userID, &req)
	if err != nil {
		handleCreateConflict(w, err, func() (*models.UserProfile, error) {
			return h.service.GetProfile(r.Context(), userID)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, p)
}

// UpdateProfile applies a partial update
// PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, p)
}

// DeleteProfile removes the user's profile
// DELETE /api/profile
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProfile(r.Context(), userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListLocations returns the supported home locations
// GET /api/profile/locations
func (h *ProfileHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"default":   profile.DefaultLocation,
		"countries": profile.SupportedCountries(),
		"locations": profile.CommonLocations(),
	})
}
