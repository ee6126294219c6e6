package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainllm "rove/internal/domain/services/llm"
	"rove/internal/service/llm/tools"
)

const researchTemperature = 0.3

// Researcher runs a bounded tool-use loop over the search tools and
// returns the model's final notes.
type Researcher struct {
	provider      domainllm.LLMProvider
	model         string
	tools         *tools.ToolRegistry
	maxIterations int
	maxTokens     int
	logger        *slog.Logger
}

// NewResearcher creates a researcher. maxIterations bounds the number of
// tool rounds before the model is asked to conclude.
func NewResearcher(provider domainllm.LLMProvider, model string, registry *tools.ToolRegistry, maxIterations, maxTokens int, logger *slog.Logger) *Researcher {
	if maxIterations < 1 {
		maxIterations = 1
	}
	return &Researcher{
		provider:      provider,
		model:         model,
		tools:         registry,
		maxIterations: maxIterations,
		maxTokens:     maxTokens,
		logger:        logger,
	}
}

// Research answers prompt, letting the model call search tools in between.
func (r *Researcher) Research(ctx context.Context, system, prompt string) (string, error) {
	system = system + "\n\n" + researchInstruction
	messages := []domainllm.Message{domainllm.UserText(prompt)}
	specs := r.tools.Specs()

	for i := 0; i < r.maxIterations; i++ {
		resp, err := r.provider.GenerateText(ctx, &domainllm.TextRequest{
			Model:       r.model,
			System:      system,
			Messages:    messages,
			Temperature: researchTemperature,
			MaxTokens:   r.maxTokens,
			Tools:       specs,
		})
		if err != nil {
			return "", fmt.Errorf("research round %d: %w", i+1, err)
		}

		if len(resp.ToolCalls) == 0 {
			return strings.TrimSpace(resp.Text), nil
		}

		r.logger.Debug("research tool round",
			"round", i+1,
			"calls", len(resp.ToolCalls),
		)

		results := r.tools.ExecuteParallel(ctx, resp.ToolCalls)
		messages = append(messages,
			domainllm.Message{Role: domainllm.RoleAssistant, Text: resp.Text, ToolCalls: resp.ToolCalls},
			domainllm.Message{Role: domainllm.RoleUser, ToolResults: results},
		)
	}

	// Out of tool rounds. Tool specs stay on the request because the history
	// carries tool blocks; any further calls are ignored.
	messages[len(messages)-1].Text = "No more searches are available. Reply with your research notes now."
	resp, err := r.provider.GenerateText(ctx, &domainllm.TextRequest{
		Model:       r.model,
		System:      system,
		Messages:    messages,
		Temperature: researchTemperature,
		MaxTokens:   r.maxTokens,
		Tools:       specs,
	})
	if err != nil {
		return "", fmt.Errorf("research summary: %w", err)
	}
	if len(resp.ToolCalls) > 0 {
		r.logger.Warn("research ended with pending tool calls", "calls", len(resp.ToolCalls))
	}
	return strings.TrimSpace(resp.Text), nil
}
