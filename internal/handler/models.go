package handler

import (
	"log/slog"
	"net/http"

	"rove/internal/capabilities"
	"rove/internal/httputil"
)

// ModelsHandler handles HTTP requests for model capabilities
type ModelsHandler struct {
	registry  *capabilities.Registry
	providers []string
	active    capabilities.ModelCapabilities
	logger    *slog.Logger
}

// NewModelsHandler lists models for the configured providers and reports
// the model the planner runs on.
func NewModelsHandler(registry *capabilities.Registry, providers []string, active capabilities.ModelCapabilities, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{
		registry:  registry,
		providers: providers,
		active:    active,
		logger:    logger,
	}
}

// ProviderResponse represents a provider with its models
type ProviderResponse struct {
	ID     string          `json:"id"`
	Models []ModelResponse `json:"models"`
}

// ModelResponse represents a model's capabilities for the API response
type ModelResponse struct {
	ID            string      `json:"id"`
	DisplayName   string      `json:"display_name"`
	ContextWindow int         `json:"context_window"`
	MaxOutput     int         `json:"max_output"`
	SupportsTools bool        `json:"supports_tools"`
	Pricing       PricingInfo `json:"pricing"`
}

// PricingInfo is USD per million tokens
type PricingInfo struct {
	InputPer1M  float64 `json:"input_per_1m"`
	OutputPer1M float64 `json:"output_per_1m"`
}

// GetCapabilities returns model capabilities for all configured providers
// GET /api/models
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	providers := make([]ProviderResponse, 0, len(h.providers))
	for _, id := range h.providers {
		models, err := h.registry.ListProviderModels(id)
		if err != nil {
			h.logger.Debug("no capabilities for provider", "provider", id)
			continue
		}
		providers = append(providers, convertProvider(id, models))
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"active":    convertModel(h.active),
		"providers": providers,
	})
}

func convertProvider(id string, models []capabilities.ModelCapabilities) ProviderResponse {
	out := ProviderResponse{ID: id, Models: make([]ModelResponse, 0, len(models))}
	for _, m := range models {
		out.Models = append(out.Models, convertModel(m))
	}
	return out
}

func convertModel(m capabilities.ModelCapabilities) ModelResponse {
	return ModelResponse{
		ID:            m.ID,
		DisplayName:   m.DisplayName,
		ContextWindow: m.ContextWindow,
		MaxOutput:     m.MaxOutput,
		SupportsTools: m.SupportsTools,
		Pricing: PricingInfo{
			InputPer1M:  m.InputPrice,
			OutputPer1M: m.OutputPrice,
		},
	}
}
