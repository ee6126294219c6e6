package handler

import (
	"log/slog"
	"net/http"

	"rove/internal/domain/services"
	"rove/internal/httputil"
)

// AdminHandler exposes maintenance operations. Only registered in dev.
type AdminHandler struct {
	cache  services.DestinationCacheService
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(cache services.DestinationCacheService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		cache:  cache,
		logger: logger,
	}
}

// ClearDestinationCache deletes every cached destination
// DELETE /api/admin/destination-cache
func (h *AdminHandler) ClearDestinationCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.ClearCache(r.Context()); err != nil {
		h.logger.Error("failed to clear destination cache", "error", err)
		handleError(w, err)
		return
	}

	h.logger.Info("destination cache cleared", "user_id", httputil.GetUserID(r))
	w.WriteHeader(http.StatusNoContent)
}
