package openai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"rove/internal/domain"
	domainllm "rove/internal/domain/services/llm"
)

func TestConvertMessages(t *testing.T) {
	msgs := []domainllm.Message{
		domainllm.UserText("hello"),
		{
			Role:      domainllm.RoleAssistant,
			ToolCalls: []domainllm.ToolCall{{ID: "call_1", Name: "pricing_info", Input: map[string]interface{}{"activity": "gondola"}}},
		},
		{
			Role:        domainllm.RoleUser,
			ToolResults: []domainllm.ToolResult{{ToolCallID: "call_1", Name: "pricing_info", Content: "80 EUR"}},
		},
	}

	got, err := convertMessages("be helpful", msgs)
	require.NoError(t, err)
	require.Len(t, got, 4)

	assert.Equal(t, llms.ChatMessageTypeSystem, got[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, got[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, got[2].Role)
	assert.Equal(t, llms.ChatMessageTypeTool, got[3].Role)

	call, ok := got[2].Parts[0].(llms.ToolCall)
	require.True(t, ok)
	assert.JSONEq(t, `{"activity":"gondola"}`, call.FunctionCall.Arguments)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantTransient bool
	}{
		{"rate limited", errors.New("API returned unexpected status code: 429: slow down"), true},
		{"bad gateway", errors.New("API returned unexpected status code: 502"), true},
		{"bad request", errors.New("API returned unexpected status code: 400: invalid"), false},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTransient, domain.IsTransient(classifyError("openai", tt.err)))
		})
	}
}

func TestUsage(t *testing.T) {
	in, out := usage(&llms.ContentChoice{GenerationInfo: map[string]any{"PromptTokens": 12, "CompletionTokens": 34}})
	assert.Equal(t, 12, in)
	assert.Equal(t, 34, out)
}
