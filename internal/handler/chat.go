package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/services"
	"rove/internal/httputil"
)

// ChatHandler serves the single chat endpoint.
type ChatHandler struct {
	chat   services.ChatService
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat services.ChatService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// Chat answers one user turn. Without tripId a new trip is created.
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		resp *models.ChatResponse
		err  error
	)
	if req.TripID == "" {
		resp, err = h.chat.HandleNewChat(r.Context(), userID, req.Message)
		if err != nil {
			h.respondChatError(w, err, userID, "", "failed to start chat")
			return
		}
	} else {
		httputil.SetTripID(r, req.TripID)
		resp, err = h.chat.HandleExistingChat(r.Context(), userID, req.TripID, req.Message)
		if err != nil {
			h.respondChatError(w, err, userID, req.TripID, "failed to continue chat")
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// respondChatError hides upstream detail behind one generic message.
// Client-caused errors keep their own status and message.
func (h *ChatHandler) respondChatError(w http.ResponseWriter, err error, userID, tripID, generic string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		handleError(w, err)
	default:
		h.logger.Error("chat failed", "user_id", userID, "trip_id", tripID, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, generic)
	}
}
