package llm

import (
	"testing"
)

func TestParseModel(t *testing.T) {
	tests := []struct {
		name         string
		modelStr     string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "claude sonnet",
			modelStr:     "claude-sonnet-4-5",
			wantProvider: "anthropic",
			wantModel:    "claude-sonnet-4-5",
		},
		{
			name:         "openrouter keeps nested path",
			modelStr:     "openrouter/anthropic/claude-haiku-4-5",
			wantProvider: "openrouter",
			wantModel:    "anthropic/claude-haiku-4-5",
		},
		{
			name:         "explicit openai",
			modelStr:     "openai/gpt-4o-mini",
			wantProvider: "openai",
			wantModel:    "gpt-4o-mini",
		},
		{
			name:         "inferred openai",
			modelStr:     "gpt-4o",
			wantProvider: "openai",
			wantModel:    "gpt-4o",
		},
		{
			name:         "lorem",
			modelStr:     "lorem-fast",
			wantProvider: "lorem",
			wantModel:    "lorem-fast",
		},
		{
			name:     "empty string",
			modelStr: "",
			wantErr:  true,
		},
		{
			name:     "unknown model prefix",
			modelStr: "gemini-pro",
			wantErr:  true,
		},
		{
			name:     "provider without model",
			modelStr: "anthropic/",
			wantErr:  true,
		},
		{
			name:     "model without provider",
			modelStr: "/claude-haiku-4-5",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseModel(tt.modelStr)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseModel() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseModel() unexpected error: %v", err)
			}
			if got.Provider != tt.wantProvider {
				t.Errorf("ParseModel() provider = %v, want %v", got.Provider, tt.wantProvider)
			}
			if got.Model != tt.wantModel {
				t.Errorf("ParseModel() model = %v, want %v", got.Model, tt.wantModel)
			}
		})
	}
}

func TestInferProvider(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider string
	}{
		{"claude-haiku-4-5", "anthropic"},
		{"CLAUDE-HAIKU-4-5", "anthropic"},
		{"gpt-4", "openai"},
		{"o3-mini", "openai"},
		{"LOREM-FAST", "lorem"},
		{"unknown-123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			if got := inferProvider(tt.model); got != tt.wantProvider {
				t.Errorf("inferProvider(%q) = %v, want %v", tt.model, got, tt.wantProvider)
			}
		})
	}
}
