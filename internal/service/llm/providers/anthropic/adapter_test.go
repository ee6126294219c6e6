package anthropic

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"rove/internal/domain"
	domainllm "rove/internal/domain/services/llm"
)

func TestConvertToAnthropicMessages(t *testing.T) {
	messages := []domainllm.Message{
		domainllm.UserText("Plan a trip to Italy"),
		{
			Role:      domainllm.RoleAssistant,
			ToolCalls: []domainllm.ToolCall{{ID: "toolu_1", Name: "destination_overview", Input: map[string]interface{}{"destination": "Italy"}}},
		},
		{
			Role:        domainllm.RoleUser,
			ToolResults: []domainllm.ToolResult{{ToolCallID: "toolu_1", Content: "{}"}},
		},
	}

	got, err := convertToAnthropicMessages(messages)
	if err != nil {
		t.Fatalf("convertToAnthropicMessages() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("message 1 role = %v, want assistant", got[1].Role)
	}
	if got[1].Content[0].OfToolUse == nil {
		t.Error("message 1 should carry a tool_use block")
	}
	if got[2].Content[0].OfToolResult == nil {
		t.Error("message 2 should carry a tool_result block")
	}
}

func TestConvertToAnthropicMessages_Errors(t *testing.T) {
	tests := []struct {
		name string
		msg  domainllm.Message
	}{
		{"empty message", domainllm.Message{Role: domainllm.RoleUser}},
		{"unknown role", domainllm.Message{Role: "system", Text: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := convertToAnthropicMessages([]domainllm.Message{tt.msg}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestConvertTools(t *testing.T) {
	var params map[string]interface{}
	raw := `{"type":"object","properties":{"destination":{"type":"string"}},"required":["destination"]}`
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		t.Fatal(err)
	}

	tools := convertTools([]domainllm.ToolSpec{{Name: "destination_overview", Description: "Overview", Parameters: params}})
	if len(tools) != 1 || tools[0].OfTool == nil {
		t.Fatalf("convertTools() = %+v", tools)
	}
	tool := tools[0].OfTool
	if tool.Name != "destination_overview" {
		t.Errorf("name = %q", tool.Name)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "destination" {
		t.Errorf("required = %v, want [destination]", tool.InputSchema.Required)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{"rate limited", 429, true},
		{"overloaded", 529, true},
		{"server error", 500, true},
		{"bad request", 400, false},
		{"unauthorized", 401, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := &anthropic.Error{
				StatusCode: tt.status,
				Request:    httptest.NewRequest(http.MethodPost, "https://api.anthropic.com/v1/messages", nil),
				Response:   &http.Response{StatusCode: tt.status},
			}
			err := classifyError(apiErr)
			if got := domain.IsTransient(err); got != tt.wantTransient {
				t.Errorf("IsTransient() = %v, want %v", got, tt.wantTransient)
			}
		})
	}

	if domain.IsTransient(classifyError(errors.New("boom"))) {
		t.Error("plain error should not be transient")
	}
}
