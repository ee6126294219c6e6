package anthropic

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/anthropics/anthropic-sdk-go"

	"rove/internal/domain"
	domainllm "rove/internal/domain/services/llm"
)

// convertToAnthropicMessages converts domain messages to Anthropic SDK format.
func convertToAnthropicMessages(messages []domainllm.Message) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(messages))

	for i, msg := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(msg.ToolCalls)+len(msg.ToolResults))

		for _, tr := range msg.ToolResults {
			blocks = append(blocks, anthropic.NewToolResultBlock(tr.ToolCallID, tr.Content, tr.IsError))
		}
		if msg.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(msg.Text))
		}
		for _, tc := range msg.ToolCalls {
			blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, tc.Input, tc.Name))
		}

		if len(blocks) == 0 {
			return nil, fmt.Errorf("message %d: no content", i)
		}

		switch msg.Role {
		case domainllm.RoleUser:
			result = append(result, anthropic.NewUserMessage(blocks...))
		case domainllm.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(blocks...))
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return result, nil
}

// convertTools maps tool specs onto SDK tool params. The JSON schema's
// properties and required list become the tool input schema.
func convertTools(specs []domainllm.ToolSpec) []anthropic.ToolUnionParam {
	tools := make([]anthropic.ToolUnionParam, 0, len(specs))
	for _, spec := range specs {
		schema := anthropic.ToolInputSchemaParam{
			Properties: spec.Parameters["properties"],
			Required:   requiredFields(spec.Parameters),
		}
		tool := anthropic.ToolParam{
			Name:        spec.Name,
			InputSchema: schema,
		}
		if spec.Description != "" {
			tool.Description = anthropic.String(spec.Description)
		}
		tools = append(tools, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return tools
}

func requiredFields(schema map[string]interface{}) []string {
	switch v := schema["required"].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// convertTextResponse flattens text blocks and collects tool calls.
func convertTextResponse(msg *anthropic.Message) *domainllm.TextResponse {
	resp := &domainllm.TextResponse{
		Model:        string(msg.Model),
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		StopReason:   string(msg.StopReason),
	}

	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Text += block.Text
		case "tool_use":
			input := map[string]interface{}{}
			if len(block.Input) > 0 {
				// Malformed input reaches the tool as an empty map and fails there
				_ = json.Unmarshal(block.Input, &input)
			}
			resp.ToolCalls = append(resp.ToolCalls, domainllm.ToolCall{
				ID:    block.ID,
				Name:  block.Name,
				Input: input,
			})
		}
	}

	return resp
}

// classifyError marks rate limits, overload, 5xx and network timeouts as transient.
func classifyError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		wrapped := fmt.Errorf("anthropic API call failed (status %d): %w", apiErr.StatusCode, err)
		if domain.RetryableStatus(apiErr.StatusCode) {
			return domain.Transient(wrapped)
		}
		return wrapped
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.Transient(fmt.Errorf("anthropic API call timed out: %w", err))
	}

	return fmt.Errorf("anthropic API call failed: %w", err)
}
