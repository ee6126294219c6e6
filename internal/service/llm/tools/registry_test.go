package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	domainllm "rove/internal/domain/services/llm"
)

type mockTool struct {
	name       string
	delay      time.Duration
	shouldFail bool
	execCount  int
	mu         sync.Mutex
}

func (m *mockTool) Spec() domainllm.ToolSpec {
	return domainllm.ToolSpec{Name: m.name, Description: "mock", Parameters: objectSchema(map[string]interface{}{})}
}

func (m *mockTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	m.mu.Lock()
	m.execCount++
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.shouldFail {
		return nil, errors.New("mock tool failed")
	}

	return map[string]interface{}{
		"tool":  m.name,
		"input": input,
	}, nil
}

func (m *mockTool) getExecCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.execCount
}

func decodeContent(t *testing.T, result domainllm.ToolResult) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(result.Content), &out); err != nil {
		t.Fatalf("result content is not JSON: %v (%q)", err, result.Content)
	}
	return out
}

func TestToolRegistry_RegisterAndGet(t *testing.T) {
	registry := NewToolRegistry()
	tool := &mockTool{name: "test_tool"}

	registry.Register(tool)

	if got := registry.Get("test_tool"); got != tool {
		t.Error("Get returned different tool instance")
	}
	if registry.Get("non_existent") != nil {
		t.Error("Get returned non-nil for non-existent tool")
	}
	if registry.Len() != 1 {
		t.Errorf("Len() = %d, want 1", registry.Len())
	}
}

func TestToolRegistry_SpecsSorted(t *testing.T) {
	registry := NewToolRegistry()
	registry.Register(&mockTool{name: "zeta"})
	registry.Register(&mockTool{name: "alpha"})
	registry.Register(&mockTool{name: "mid"})

	specs := registry.Specs()
	var names []string
	for _, s := range specs {
		names = append(names, s.Name)
	}
	if strings.Join(names, ",") != "alpha,mid,zeta" {
		t.Errorf("Specs() order = %v", names)
	}
}

func TestToolRegistry_Execute(t *testing.T) {
	registry := NewToolRegistry()
	ctx := context.Background()

	t.Run("successful execution", func(t *testing.T) {
		registry.Register(&mockTool{name: "success_tool"})

		result := registry.Execute(ctx, domainllm.ToolCall{
			ID:    "call_1",
			Name:  "success_tool",
			Input: map[string]interface{}{"param": "value"},
		})

		if result.IsError {
			t.Fatalf("expected success, got error: %s", result.Content)
		}
		if result.ToolCallID != "call_1" {
			t.Errorf("expected ID 'call_1', got %s", result.ToolCallID)
		}
		if decodeContent(t, result)["tool"] != "success_tool" {
			t.Errorf("unexpected content: %s", result.Content)
		}
	})

	t.Run("tool not found", func(t *testing.T) {
		result := registry.Execute(ctx, domainllm.ToolCall{ID: "call_2", Name: "non_existent_tool"})

		if !result.IsError {
			t.Error("expected error for non-existent tool")
		}
		if !strings.Contains(result.Content, "tool not found") {
			t.Errorf("unexpected content: %s", result.Content)
		}
		if result.ToolCallID != "call_2" {
			t.Errorf("expected ID 'call_2', got %s", result.ToolCallID)
		}
	})

	t.Run("tool execution failure", func(t *testing.T) {
		registry.Register(&mockTool{name: "fail_tool", shouldFail: true})

		result := registry.Execute(ctx, domainllm.ToolCall{ID: "call_3", Name: "fail_tool"})

		if !result.IsError {
			t.Error("expected error for failed tool execution")
		}
		if result.Content != "mock tool failed" {
			t.Errorf("unexpected content: %s", result.Content)
		}
	})

	t.Run("context cancellation", func(t *testing.T) {
		tool := &mockTool{name: "slow_tool", delay: 500 * time.Millisecond}
		registry.Register(tool)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result := registry.Execute(ctx, domainllm.ToolCall{ID: "call_4", Name: "slow_tool"})

		if !result.IsError {
			t.Error("expected error for cancelled context")
		}
		if result.Content != context.Canceled.Error() {
			t.Errorf("expected context canceled, got: %s", result.Content)
		}
		if tool.getExecCount() != 0 {
			t.Error("tool should not run after cancellation")
		}
	})
}

func TestToolRegistry_ExecuteParallel(t *testing.T) {
	t.Run("empty calls", func(t *testing.T) {
		results := NewToolRegistry().ExecuteParallel(context.Background(), nil)
		if len(results) != 0 {
			t.Errorf("expected 0 results, got %d", len(results))
		}
	})

	t.Run("parallel execution is faster than serial", func(t *testing.T) {
		registry := NewToolRegistry()
		for i := 0; i < 3; i++ {
			registry.Register(&mockTool{name: fmt.Sprintf("tool_%d", i), delay: 100 * time.Millisecond})
		}

		calls := []domainllm.ToolCall{
			{ID: "call_0", Name: "tool_0"},
			{ID: "call_1", Name: "tool_1"},
			{ID: "call_2", Name: "tool_2"},
		}

		start := time.Now()
		results := registry.ExecuteParallel(context.Background(), calls)
		elapsed := time.Since(start)

		if elapsed > 250*time.Millisecond {
			t.Errorf("parallel execution took too long: %v", elapsed)
		}
		for i, result := range results {
			if result.IsError {
				t.Errorf("result %d has error: %s", i, result.Content)
			}
		}
	})

	t.Run("order preservation", func(t *testing.T) {
		registry := NewToolRegistry()
		delays := []time.Duration{50 * time.Millisecond, 10 * time.Millisecond, 100 * time.Millisecond}
		for i, delay := range delays {
			registry.Register(&mockTool{name: fmt.Sprintf("tool_%d", i), delay: delay})
		}

		calls := []domainllm.ToolCall{
			{ID: "call_0", Name: "tool_0"},
			{ID: "call_1", Name: "tool_1"},
			{ID: "call_2", Name: "tool_2"},
		}

		results := registry.ExecuteParallel(context.Background(), calls)
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		for i, result := range results {
			if want := fmt.Sprintf("call_%d", i); result.ToolCallID != want {
				t.Errorf("result %d has wrong ID: got %s, expected %s", i, result.ToolCallID, want)
			}
			if got := decodeContent(t, result)["tool"]; got != fmt.Sprintf("tool_%d", i) {
				t.Errorf("result %d has wrong tool name: %v", i, got)
			}
		}
	})

	t.Run("mixed success and failure", func(t *testing.T) {
		registry := NewToolRegistry()
		registry.Register(&mockTool{name: "success_tool"})
		registry.Register(&mockTool{name: "fail_tool", shouldFail: true})

		results := registry.ExecuteParallel(context.Background(), []domainllm.ToolCall{
			{ID: "call_0", Name: "success_tool"},
			{ID: "call_1", Name: "fail_tool"},
			{ID: "call_2", Name: "non_existent"},
			{ID: "call_3", Name: "success_tool"},
		})

		want := []bool{false, true, true, false}
		for i, result := range results {
			if result.IsError != want[i] {
				t.Errorf("result %d IsError = %v, want %v (%s)", i, result.IsError, want[i], result.Content)
			}
		}
	})

	t.Run("high concurrency", func(t *testing.T) {
		registry := NewToolRegistry()
		tool := &mockTool{name: "concurrent_tool"}
		registry.Register(tool)

		calls := make([]domainllm.ToolCall, 100)
		for i := range calls {
			calls[i] = domainllm.ToolCall{
				ID:    fmt.Sprintf("call_%d", i),
				Name:  "concurrent_tool",
				Input: map[string]interface{}{"index": i},
			}
		}

		results := registry.ExecuteParallel(context.Background(), calls)
		for i, result := range results {
			if result.IsError {
				t.Errorf("result %d has error: %s", i, result.Content)
			}
		}
		if tool.getExecCount() != 100 {
			t.Errorf("expected 100 executions, got %d", tool.getExecCount())
		}
	})
}
