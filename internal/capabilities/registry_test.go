package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		name      string
		provider  string
		model     string
		wantKnown bool
		wantTools bool
	}{
		{"exact", "anthropic", "claude-sonnet-4-5", true, true},
		{"dated variant", "anthropic", "claude-haiku-4-5-20251001", true, true},
		{"gpt-4o-mini beats gpt-4o prefix", "openai", "gpt-4o-mini", true, true},
		{"openrouter upstream", "openrouter", "anthropic/claude-haiku-4-5", true, true},
		{"lorem has no tools", "lorem", "lorem-fast", true, false},
		{"unknown model", "openai", "some-new-model", false, true},
		{"unknown provider", "bedrock", "x", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps, known := r.Lookup(tt.provider, tt.model)
			assert.Equal(t, tt.wantKnown, known)
			assert.Equal(t, tt.wantTools, caps.SupportsTools)
			assert.Positive(t, caps.MaxOutput)
		})
	}
}

func TestListProviderModels_PreservesOrder(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	models, err := r.ListProviderModels("openai")
	require.NoError(t, err)
	require.Len(t, models, 3)
	assert.Equal(t, "gpt-4o-mini", models[0].ID)
	assert.Equal(t, "gpt-4o", models[1].ID)
}

func TestEstimateCost(t *testing.T) {
	m := ModelCapabilities{InputPrice: 1.0, OutputPrice: 5.0}
	assert.InDelta(t, 0.006, m.EstimateCost(1000, 1000), 1e-9)
}
