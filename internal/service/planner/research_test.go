package planner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainllm "rove/internal/domain/services/llm"
	"rove/internal/service/llm/tools"
)

func TestResearcher_StopsAfterMaxIterations(t *testing.T) {
	tool := &echoTool{}
	registry := tools.NewToolRegistry()
	registry.Register(tool)

	call := domainllm.ToolCall{ID: "t", Name: "destination_overview"}
	provider := &scriptedProvider{textReplies: []*domainllm.TextResponse{
		{ToolCalls: []domainllm.ToolCall{call}},
		{ToolCalls: []domainllm.ToolCall{call}},
		{Text: "final notes", ToolCalls: []domainllm.ToolCall{call}},
	}}

	r := NewResearcher(provider, "m", registry, 2, 1024, testLogger())
	notes, err := r.Research(context.Background(), "system", "research Rome")
	require.NoError(t, err)

	assert.Equal(t, "final notes", notes)
	assert.Equal(t, 2, tool.calls)
	require.Equal(t, 3, provider.textCalls())

	last := provider.textReqs[2]
	require.Len(t, last.Messages, 5)
	final := last.Messages[4]
	assert.Equal(t, domainllm.RoleUser, final.Role)
	assert.Len(t, final.ToolResults, 1)
	assert.Contains(t, final.Text, "No more searches")
}

func TestResearcher_ToolErrorsAreFedBack(t *testing.T) {
	registry := tools.NewToolRegistry()
	provider := &scriptedProvider{textReplies: []*domainllm.TextResponse{
		{ToolCalls: []domainllm.ToolCall{{ID: "x", Name: "missing_tool"}}},
		{Text: "done"},
	}}

	r := NewResearcher(provider, "m", registry, 3, 1024, testLogger())
	notes, err := r.Research(context.Background(), "system", "research")
	require.NoError(t, err)
	assert.Equal(t, "done", notes)

	results := provider.textReqs[1].Messages[2].ToolResults
	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Equal(t, "x", results[0].ToolCallID)
}
