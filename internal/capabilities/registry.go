package capabilities

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

var providerFiles = []string{"anthropic", "openai", "lorem"}

// fallback applies to models missing from the YAML files.
var fallback = ModelCapabilities{
	SupportsTools: true,
	ContextWindow: 128000,
	MaxOutput:     4096,
}

// Registry manages model capabilities across all providers
type Registry struct {
	providers map[string]*ProviderCapabilities
	mu        sync.RWMutex
}

// NewRegistry creates a new capability registry and loads embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*ProviderCapabilities),
	}

	for _, provider := range providerFiles {
		if err := r.loadProviderFile(provider); err != nil {
			return nil, fmt.Errorf("failed to load %s capabilities: %w", provider, err)
		}
	}

	return r, nil
}

func (r *Registry) loadProviderFile(provider string) error {
	filename := fmt.Sprintf("config/%s.yaml", provider)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var providerCaps ProviderCapabilities
	if err := yaml.Unmarshal(data, &providerCaps); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	r.providers[provider] = &providerCaps
	r.mu.Unlock()

	return nil
}

// Lookup returns capabilities for a model. Dated ids such as
// "claude-haiku-4-5-20251001" match their undated entry by prefix. Unknown
// models get conservative defaults and ok=false. OpenRouter ids
// ("anthropic/claude-...") are looked up under their upstream provider.
func (r *Registry) Lookup(provider, model string) (ModelCapabilities, bool) {
	if upstream, rest, found := strings.Cut(model, "/"); found {
		provider, model = upstream, rest
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	providerCaps, ok := r.providers[provider]
	if !ok {
		return withID(fallback, model), false
	}

	for _, m := range providerCaps.Models {
		if m.ID == model {
			return m, true
		}
	}
	for _, m := range providerCaps.Models {
		if strings.HasPrefix(model, m.ID) {
			return withID(m, model), true
		}
	}
	return withID(fallback, model), false
}

// ListProviderModels returns all models for a provider (ordered as defined in YAML)
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providerCaps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	return providerCaps.Models, nil
}

func withID(m ModelCapabilities, id string) ModelCapabilities {
	m.ID = id
	return m
}
