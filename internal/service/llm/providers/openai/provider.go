// Package openai serves OpenAI-compatible chat completion APIs (OpenAI,
// OpenRouter) through langchaingo.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"rove/internal/domain"
	domainllm "rove/internal/domain/services/llm"
)

const defaultMaxTokens = 4096

// Provider implements the LLMProvider interface over langchaingo's OpenAI client.
type Provider struct {
	name string
	llm  *lcopenai.LLM
}

// NewProvider creates a provider. baseURL may be empty for api.openai.com.
func NewProvider(name, apiKey, baseURL string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	opts := []lcopenai.Option{lcopenai.WithToken(apiKey)}
	if baseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(baseURL))
	}

	client, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", name, err)
	}

	return &Provider{name: name, llm: client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// SupportsModel accepts any non-empty model id; routing is done by the registry.
func (p *Provider) SupportsModel(model string) bool {
	return model != ""
}

// GenerateText generates free text, or tool calls when tools are offered.
func (p *Provider) GenerateText(ctx context.Context, req *domainllm.TextRequest) (*domainllm.TextResponse, error) {
	messages, err := convertMessages(req.System, req.Messages)
	if err != nil {
		return nil, err
	}

	opts := callOptions(req.Model, req.Temperature, req.MaxTokens)
	if len(req.Tools) > 0 {
		opts = append(opts, llms.WithTools(convertTools(req.Tools)))
	}

	resp, err := p.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, classifyError(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", p.name)
	}

	choice := resp.Choices[0]
	out := &domainllm.TextResponse{
		Text:       choice.Content,
		Model:      req.Model,
		StopReason: choice.StopReason,
	}
	out.InputTokens, out.OutputTokens = usage(choice)

	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		input := map[string]interface{}{}
		_ = json.Unmarshal([]byte(tc.FunctionCall.Arguments), &input)
		out.ToolCalls = append(out.ToolCalls, domainllm.ToolCall{
			ID:    tc.ID,
			Name:  tc.FunctionCall.Name,
			Input: input,
		})
	}

	return out, nil
}

// GenerateStructured forces a function call carrying the requested schema.
func (p *Provider) GenerateStructured(ctx context.Context, req *domainllm.StructuredRequest) (*domainllm.StructuredResponse, error) {
	messages, err := convertMessages(req.System, req.Messages)
	if err != nil {
		return nil, err
	}

	opts := callOptions(req.Model, req.Temperature, req.MaxTokens)
	opts = append(opts,
		llms.WithTools(convertTools([]domainllm.ToolSpec{{
			Name:        req.Schema.Name,
			Description: req.Schema.Description,
			Parameters:  req.Schema.Definition,
		}})),
		llms.WithToolChoice(llms.ToolChoice{
			Type:     "function",
			Function: &llms.FunctionReference{Name: req.Schema.Name},
		}),
	)

	resp, err := p.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, classifyError(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", p.name)
	}

	choice := resp.Choices[0]
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall != nil && tc.FunctionCall.Name == req.Schema.Name {
			out := &domainllm.StructuredResponse{
				Object:     json.RawMessage(tc.FunctionCall.Arguments),
				Model:      req.Model,
				StopReason: choice.StopReason,
			}
			out.InputTokens, out.OutputTokens = usage(choice)
			return out, nil
		}
	}

	return nil, fmt.Errorf("%w: no %s function call in response", domain.ErrSchemaViolation, req.Schema.Name)
}

func callOptions(model string, temperature float64, maxTokens int) []llms.CallOption {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return []llms.CallOption{
		llms.WithModel(model),
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	}
}

func convertMessages(system string, messages []domainllm.Message) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(messages)+1)
	if system != "" {
		out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}

	for i, msg := range messages {
		switch msg.Role {
		case domainllm.RoleUser:
			// Tool results travel as separate tool-role messages
			for _, tr := range msg.ToolResults {
				out = append(out, llms.MessageContent{
					Role: llms.ChatMessageTypeTool,
					Parts: []llms.ContentPart{llms.ToolCallResponse{
						ToolCallID: tr.ToolCallID,
						Name:       tr.Name,
						Content:    tr.Content,
					}},
				})
			}
			if msg.Text != "" {
				out = append(out, llms.TextParts(llms.ChatMessageTypeHuman, msg.Text))
			}
		case domainllm.RoleAssistant:
			parts := []llms.ContentPart{}
			if msg.Text != "" {
				parts = append(parts, llms.TextContent{Text: msg.Text})
			}
			for _, tc := range msg.ToolCalls {
				args, err := json.Marshal(tc.Input)
				if err != nil {
					return nil, fmt.Errorf("message %d: encode tool call: %w", i, err)
				}
				parts = append(parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: string(args),
					},
				})
			}
			out = append(out, llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: parts})
		default:
			return nil, fmt.Errorf("message %d: unsupported role '%s'", i, msg.Role)
		}
	}

	return out, nil
}

func convertTools(specs []domainllm.ToolSpec) []llms.Tool {
	tools := make([]llms.Tool, 0, len(specs))
	for _, spec := range specs {
		tools = append(tools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        spec.Name,
				Description: spec.Description,
				Parameters:  spec.Parameters,
			},
		})
	}
	return tools
}

func usage(choice *llms.ContentChoice) (int, int) {
	return intInfo(choice.GenerationInfo, "PromptTokens"), intInfo(choice.GenerationInfo, "CompletionTokens")
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

var statusPattern = regexp.MustCompile(`status code: (\d{3})`)

// classifyError recovers the HTTP status from the client error text, which is
// the only place langchaingo exposes it.
func classifyError(name string, err error) error {
	wrapped := fmt.Errorf("%s API call failed: %w", name, err)

	if m := statusPattern.FindStringSubmatch(err.Error()); m != nil {
		if code, convErr := strconv.Atoi(m[1]); convErr == nil && domain.RetryableStatus(code) {
			return domain.Transient(wrapped)
		}
		return wrapped
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.Transient(wrapped)
	}
	return wrapped
}
