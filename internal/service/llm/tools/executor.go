package tools

import (
	"context"

	domainllm "rove/internal/domain/services/llm"
)

// Tool is a capability the model may invoke during research.
// Implementations must be thread-safe and respect context cancellation.
type Tool interface {
	// Spec describes the tool to the model.
	Spec() domainllm.ToolSpec

	// Execute runs the tool. The input map follows Spec().Parameters and the
	// returned value must be JSON-serializable.
	Execute(ctx context.Context, input map[string]interface{}) (interface{}, error)
}
