package llm

import (
	"fmt"
	"log/slog"

	"rove/internal/config"
	domainllm "rove/internal/domain/services/llm"
	"rove/internal/retry"
)

// SetupProviders initializes the provider factory and registry for routing.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (*ProviderRegistry, error) {
	factory := NewProviderFactory(cfg)
	policy := retry.Policy{
		MaxAttempts:     cfg.RetryMaxAttempts,
		InitialInterval: cfg.RetryInitialInterval,
	}

	registry := NewProviderRegistry(factory, policy, logger)
	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("provider registry validation failed: %w", err)
	}

	if cfg.AnthropicAPIKey != "" {
		logger.Info("provider available", "name", ProviderAnthropic, "models", "claude-*")
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set - Anthropic provider not available")
	}
	if cfg.OpenAIAPIKey != "" {
		logger.Info("provider available", "name", ProviderOpenAI, "models", "gpt-*, o*-", "base_url", cfg.OpenAIBaseURL)
	}
	logger.Info("provider available", "name", ProviderLorem, "models", "lorem-*")

	return registry, nil
}

// DefaultModel returns the configured model string, prefixed with the
// default provider when the provider cannot be inferred from the model name.
func DefaultModel(cfg *config.Config) string {
	if _, err := ParseModel(cfg.DefaultModel); err == nil {
		return cfg.DefaultModel
	}
	return cfg.DefaultProvider + "/" + cfg.DefaultModel
}

// ResolveDefault returns the provider and model id for the configured default.
func ResolveDefault(registry *ProviderRegistry, cfg *config.Config) (domainllm.LLMProvider, string, error) {
	provider, model, err := registry.Resolve(DefaultModel(cfg))
	if err != nil {
		return nil, "", fmt.Errorf("resolve default model: %w", err)
	}
	return provider, model, nil
}
