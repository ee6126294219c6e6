package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rove/internal/domain/models"
	domainllm "rove/internal/domain/services/llm"
)

const clarifierTemperature = 0.7

// Clarifier asks the traveler for the facets the gate found missing.
type Clarifier struct {
	provider  domainllm.LLMProvider
	model     string
	maxTokens int
	logger    *slog.Logger
}

// NewClarifier creates a clarifier bound to one model.
func NewClarifier(provider domainllm.LLMProvider, model string, logger *slog.Logger) *Clarifier {
	return &Clarifier{
		provider:  provider,
		model:     model,
		maxTokens: 512,
		logger:    logger,
	}
}

// Ask produces one friendly question covering the missing facets.
// Model errors are returned as is.
func (c *Clarifier) Ask(ctx context.Context, history []models.Turn, message string, missing []Facet) (string, error) {
	messages := make([]domainllm.Message, 0, len(history)+1)
	for _, turn := range history {
		messages = append(messages, domainllm.Message{Role: string(turn.Role), Text: turn.Content})
	}
	messages = append(messages, domainllm.UserText(message))

	system := SystemIdentity + "\n\n" + clarifierInstruction
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		system += "\n\nStill missing: " + strings.Join(names, ", ") + "."
	}

	resp, err := c.provider.GenerateText(ctx, &domainllm.TextRequest{
		Model:       c.model,
		System:      system,
		Messages:    messages,
		Temperature: clarifierTemperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("clarify: %w", err)
	}

	reply := strings.TrimSpace(resp.Text)
	c.logger.Debug("clarifying question generated", "missing", len(missing), "chars", len(reply))
	return reply, nil
}
