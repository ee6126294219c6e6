package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	domainllm "rove/internal/domain/services/llm"
)

// ToolRegistry manages tools and handles tool execution.
// It is thread-safe and can be used concurrently.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool under its spec name, replacing any previous one.
func (r *ToolRegistry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[tool.Spec().Name] = tool
}

// Get retrieves a tool by name, or nil.
func (r *ToolRegistry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Len returns the number of registered tools.
func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Specs returns every tool spec sorted by name.
func (r *ToolRegistry) Specs() []domainllm.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]domainllm.ToolSpec, 0, len(r.tools))
	for _, tool := range r.tools {
		specs = append(specs, tool.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Execute runs a single tool call. Failures are reported in the result
// (IsError) so the model can see them; they never abort the caller.
func (r *ToolRegistry) Execute(ctx context.Context, call domainllm.ToolCall) domainllm.ToolResult {
	result := domainllm.ToolResult{ToolCallID: call.ID, Name: call.Name}

	tool := r.Get(call.Name)
	if tool == nil {
		return errorResult(result, fmt.Errorf("tool not found: %s", call.Name))
	}

	if err := ctx.Err(); err != nil {
		return errorResult(result, err)
	}

	out, err := tool.Execute(ctx, call.Input)
	if err != nil {
		return errorResult(result, err)
	}

	encoded, err := json.Marshal(out)
	if err != nil {
		return errorResult(result, fmt.Errorf("encode %s result: %w", call.Name, err))
	}
	result.Content = string(encoded)
	return result
}

// ExecuteParallel runs multiple tools concurrently and returns results in the same order.
func (r *ToolRegistry) ExecuteParallel(ctx context.Context, calls []domainllm.ToolCall) []domainllm.ToolResult {
	results := make([]domainllm.ToolResult, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		wg.Add(1)
		go func(index int, toolCall domainllm.ToolCall) {
			defer wg.Done()
			results[index] = r.Execute(ctx, toolCall)
		}(i, call)
	}

	wg.Wait()
	return results
}

func errorResult(result domainllm.ToolResult, err error) domainllm.ToolResult {
	result.Content = err.Error()
	result.IsError = true
	return result
}
