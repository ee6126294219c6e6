package llm

import (
	"context"
	"encoding/json"
)

// LLMProvider defines the interface that all LLM providers must implement.
// It exposes the two call modes the planner relies on: free text generation
// (optionally with tools) and schema-constrained generation.
type LLMProvider interface {
	// GenerateText produces free text. When Tools are set the response may
	// carry tool calls instead of (or in addition to) text.
	GenerateText(ctx context.Context, req *TextRequest) (*TextResponse, error)

	// GenerateStructured produces a JSON object for the requested schema.
	// Providers return the raw object; conformance is enforced by the caller.
	GenerateStructured(ctx context.Context, req *StructuredRequest) (*StructuredResponse, error)

	// Name returns the provider name (e.g., "anthropic", "openai")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// Role values for Message.Role
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in the conversation.
type Message struct {
	// Role is either "user" or "assistant"
	Role string

	// Text is the plain text content (may be empty for pure tool-call turns)
	Text string

	// ToolCalls are the tool invocations requested by the assistant in this message
	ToolCalls []ToolCall

	// ToolResults answer the ToolCalls of the previous assistant message (user role only)
	ToolResults []ToolResult
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID    string
	Name  string
	Input map[string]interface{}
}

// ToolResult is the serialized outcome of a ToolCall.
type ToolResult struct {
	ToolCallID string
	Name       string
	Content    string
	IsError    bool
}

// ToolSpec describes a tool the model may call.
type ToolSpec struct {
	Name        string
	Description string
	// Parameters is a JSON schema object describing the tool input.
	Parameters map[string]interface{}
}

// Schema names the structure a StructuredRequest must produce.
type Schema struct {
	Name        string
	Description string
	// Definition is a JSON schema object.
	Definition map[string]interface{}
}

// TextRequest contains the parameters for free text generation.
type TextRequest struct {
	Model       string
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	Tools       []ToolSpec
}

// TextResponse contains the provider's text answer.
type TextResponse struct {
	Text         string
	ToolCalls    []ToolCall
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// StructuredRequest contains the parameters for schema-constrained generation.
type StructuredRequest struct {
	Model       string
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int
	Schema      Schema
}

// StructuredResponse carries the raw JSON object returned for a StructuredRequest.
type StructuredResponse struct {
	Object       json.RawMessage
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// UserText builds a single user message.
func UserText(text string) Message {
	return Message{Role: RoleUser, Text: text}
}
