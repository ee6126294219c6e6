package llm

import (
	"fmt"

	"rove/internal/config"
	domainllm "rove/internal/domain/services/llm"
	"rove/internal/service/llm/providers/anthropic"
	"rove/internal/service/llm/providers/lorem"
	"rove/internal/service/llm/providers/openai"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// ProviderFactory creates LLM provider instances from configuration
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "anthropic" - Claude models via Anthropic API
//   - "openai" - OpenAI models, or any compatible API via OPENAI_BASE_URL
//   - "openrouter" - OpenRouter through the OpenAI-compatible client
//   - "lorem" - Mock provider for testing (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.LLMProvider, error) {
	switch providerName {
	case ProviderAnthropic:
		if f.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		return anthropic.NewProvider(f.config.AnthropicAPIKey)

	case ProviderOpenAI:
		if f.config.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
		return openai.NewProvider(ProviderOpenAI, f.config.OpenAIAPIKey, f.config.OpenAIBaseURL)

	case ProviderOpenRouter:
		if f.config.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set (used for OpenRouter)")
		}
		baseURL := f.config.OpenAIBaseURL
		if baseURL == "" {
			baseURL = openRouterBaseURL
		}
		return openai.NewProvider(ProviderOpenRouter, f.config.OpenAIAPIKey, baseURL)

	case ProviderLorem:
		return lorem.NewProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}
