package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"rove/internal/domain"
	domainllm "rove/internal/domain/services/llm"
)

const defaultMaxTokens = 4096

// Provider implements the LLMProvider interface for Anthropic (Claude) models.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a new Anthropic provider with the given API key.
// SDK-level retries are disabled; the registry applies its own retry policy.
func NewProvider(apiKey string, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	client := anthropic.NewClient(opts...)

	return &Provider{
		client: &client,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel returns true if this provider supports the given model.
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// GenerateText generates free text, or tool calls when tools are offered.
func (p *Provider) GenerateText(ctx context.Context, req *domainllm.TextRequest) (*domainllm.TextResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	params, err := p.baseParams(req.Model, req.System, req.Messages, req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, err
	}
	if len(req.Tools) > 0 {
		params.Tools = convertTools(req.Tools)
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	return convertTextResponse(message), nil
}

// GenerateStructured forces a single tool call whose input schema is the
// requested structure and returns the tool input as the object.
func (p *Provider) GenerateStructured(ctx context.Context, req *domainllm.StructuredRequest) (*domainllm.StructuredResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	params, err := p.baseParams(req.Model, req.System, req.Messages, req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, err
	}
	params.Tools = convertTools([]domainllm.ToolSpec{{
		Name:        req.Schema.Name,
		Description: req.Schema.Description,
		Parameters:  req.Schema.Definition,
	}})
	params.ToolChoice = anthropic.ToolChoiceParamOfTool(req.Schema.Name)

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	for _, block := range message.Content {
		if block.Type == "tool_use" && block.Name == req.Schema.Name {
			return &domainllm.StructuredResponse{
				Object:       block.Input,
				Model:        string(message.Model),
				InputTokens:  int(message.Usage.InputTokens),
				OutputTokens: int(message.Usage.OutputTokens),
				StopReason:   string(message.StopReason),
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: no %s tool call in response (stop reason %s)",
		domain.ErrSchemaViolation, req.Schema.Name, message.StopReason)
}

func (p *Provider) baseParams(model, system string, messages []domainllm.Message, temperature float64, maxTokens int) (anthropic.MessageNewParams, error) {
	converted, err := convertToAnthropicMessages(messages)
	if err != nil {
		return anthropic.MessageNewParams{}, fmt.Errorf("failed to convert messages: %w", err)
	}

	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		Messages:    converted,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return params, nil
}
