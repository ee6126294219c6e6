package lorem

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"

	domainllm "rove/internal/domain/services/llm"
)

// Provider is a mock LLM provider that generates lorem ipsum text.
// Structured requests are answered with placeholder objects that satisfy the
// requested JSON schema, so the full pipeline runs without API keys.
type Provider struct {
	mu        sync.Mutex
	generator *loremgen.Lorem
}

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// SupportsModel returns true if the model name starts with "lorem-".
// Example models: "lorem-fast", "lorem-slow"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "lorem-")
}

// GenerateText returns a few lorem paragraphs. Tools are never called.
func (p *Provider) GenerateText(ctx context.Context, req *domainllm.TextRequest) (*domainllm.TextResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}
	if err := simulateLatency(ctx, req.Model); err != nil {
		return nil, err
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 || maxTokens > 400 {
		maxTokens = 400
	}

	p.mu.Lock()
	text := p.generateText(maxTokens * 2)
	p.mu.Unlock()

	return &domainllm.TextResponse{
		Text:         text,
		Model:        req.Model,
		InputTokens:  estimateTokens(req.System, req.Messages),
		OutputTokens: len(strings.Fields(text)),
		StopReason:   "end_turn",
	}, nil
}

// GenerateStructured fills the request schema with placeholder values.
func (p *Provider) GenerateStructured(ctx context.Context, req *domainllm.StructuredRequest) (*domainllm.StructuredResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", req.Model)
	}
	if err := simulateLatency(ctx, req.Model); err != nil {
		return nil, err
	}

	p.mu.Lock()
	value := p.fill(req.Schema.Definition)
	p.mu.Unlock()

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode lorem object: %w", err)
	}

	return &domainllm.StructuredResponse{
		Object:       raw,
		Model:        req.Model,
		InputTokens:  estimateTokens(req.System, req.Messages),
		OutputTokens: len(raw) / 4,
		StopReason:   "tool_use",
	}, nil
}

// simulateLatency delays "lorem-slow" so concurrency is observable.
func simulateLatency(ctx context.Context, model string) error {
	if !strings.Contains(model, "slow") {
		return nil
	}
	select {
	case <-time.After(2 * time.Second):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fill builds a value conforming to a JSON schema node: every property is
// populated and arrays get their minimum length (at least one item).
func (p *Provider) fill(schema map[string]interface{}) interface{} {
	switch schema["type"] {
	case "object":
		props, _ := schema["properties"].(map[string]interface{})
		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		obj := make(map[string]interface{}, len(props))
		for _, k := range keys {
			child, _ := props[k].(map[string]interface{})
			obj[k] = p.fill(child)
		}
		return obj
	case "array":
		n := intValue(schema["minItems"], 1)
		if n < 1 {
			n = 1
		}
		items, _ := schema["items"].(map[string]interface{})
		arr := make([]interface{}, n)
		for i := range arr {
			if items["type"] == "integer" {
				// Sequential integers read naturally as day numbers
				arr[i] = i + 1
				continue
			}
			arr[i] = p.fill(items)
		}
		return arr
	case "integer":
		return intValue(schema["minimum"], 1)
	case "number":
		return float64(intValue(schema["minimum"], 1))
	case "boolean":
		return false
	default:
		return p.generator.Sentence(2, 6)
	}
}

func intValue(v interface{}, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return fallback
}

// generateText generates lorem ipsum text with approximately targetChars characters.
func (p *Provider) generateText(targetChars int) string {
	var sb strings.Builder
	for sb.Len() < targetChars {
		sb.WriteString(p.generator.Paragraph(3, 5))
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}

// estimateTokens uses word count as a rough approximation.
func estimateTokens(system string, messages []domainllm.Message) int {
	total := len(strings.Fields(system))
	for _, msg := range messages {
		total += len(strings.Fields(msg.Text))
	}
	return total
}
