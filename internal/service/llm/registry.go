package llm

import (
	"fmt"
	"log/slog"
	"sync"

	domainllm "rove/internal/domain/services/llm"
	"rove/internal/retry"
)

// ProviderRegistry resolves model strings to providers. Instances are
// created once per provider name and wrapped with retry and metrics.
type ProviderRegistry struct {
	factory *ProviderFactory
	policy  retry.Policy
	logger  *slog.Logger
	cache   map[string]domainllm.LLMProvider
	mu      sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(factory *ProviderFactory, policy retry.Policy, logger *slog.Logger) *ProviderRegistry {
	return &ProviderRegistry{
		factory: factory,
		policy:  policy,
		logger:  logger,
		cache:   make(map[string]domainllm.LLMProvider),
	}
}

// Resolve parses modelStr and returns the provider plus the provider-local model id.
func (r *ProviderRegistry) Resolve(modelStr string) (domainllm.LLMProvider, string, error) {
	info, err := ParseModel(modelStr)
	if err != nil {
		return nil, "", err
	}
	provider, err := r.GetProvider(info.Provider)
	if err != nil {
		return nil, "", err
	}
	return provider, info.Model, nil
}

// GetProvider returns the wrapped provider for the given provider name.
func (r *ProviderRegistry) GetProvider(provider string) (domainllm.LLMProvider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created it while we waited for the lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	inner, err := r.factory.GetProvider(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	wrapped := newResilientProvider(inner, r.policy, r.logger)
	r.cache[provider] = wrapped
	return wrapped, nil
}

// Validate checks if the factory is properly configured.
func (r *ProviderRegistry) Validate() error {
	if r.factory == nil {
		return fmt.Errorf("provider factory is not configured")
	}
	return nil
}
