package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rove/internal/capabilities"
	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/services"
	domainllm "rove/internal/domain/services/llm"
	"rove/internal/service/llm/providers/lorem"
	"rove/internal/service/llm/tools"
)

const sufficientMessage = "5 days in Rome for a couple, love food and history, mid-range budget"

func newTestPipeline(provider domainllm.LLMProvider, contexts services.ContextProvider, generations *recordingGenerations) *Pipeline {
	deps := Dependencies{
		Provider:     provider,
		Model:        "test-model",
		Capabilities: capabilities.ModelCapabilities{MaxOutput: 4096},
		Contexts:     contexts,
		Logger:       testLogger(),
	}
	if generations != nil {
		deps.Generations = generations
	}
	return NewPipeline(deps)
}

func TestPlan_AsksWhenInsufficient(t *testing.T) {
	provider := &scriptedProvider{textReplies: []*domainllm.TextResponse{{Text: " How many days, and what budget? "}}}
	contexts := &staticContexts{}
	p := newTestPipeline(provider, contexts, nil)

	result, err := p.Plan(context.Background(), &services.PlanRequest{
		Message: "I want to go to Paris",
		History: []models.Turn{},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ResponseTypeQuestion, result.Type)
	assert.Equal(t, "How many days, and what budget?", result.Reply)
	assert.Empty(t, result.Itineraries)
	assert.Zero(t, contexts.calls, "clarification must not gather context")
	assert.Empty(t, provider.structReqs)

	req := provider.textReqs[0]
	assert.Equal(t, clarifierTemperature, req.Temperature)
	assert.Contains(t, req.System, "Still missing: duration, traveler type, interests, budget.")
}

func TestPlan_GateReadsHistory(t *testing.T) {
	provider := &scriptedProvider{}
	p := newTestPipeline(provider, &staticContexts{}, nil)

	result, err := p.Plan(context.Background(), &services.PlanRequest{
		Message: "mid-range please",
		History: []models.Turn{
			{Role: models.ChatRoleUser, Content: "5 days in Rome, a couple who love food"},
			{Role: models.ChatRoleAssistant, Content: "What budget?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResponseTypeItineraries, result.Type)
}

func TestPlan_GateIgnoresAssistantTurns(t *testing.T) {
	provider := &scriptedProvider{textReplies: []*domainllm.TextResponse{{Text: "Which budget range suits you?"}}}
	contexts := &staticContexts{}
	p := newTestPipeline(provider, contexts, nil)

	result, err := p.Plan(context.Background(), &services.PlanRequest{
		Message: "sounds good",
		History: []models.Turn{
			{Role: models.ChatRoleUser, Content: "5 days in Rome, a couple who love food"},
			{Role: models.ChatRoleAssistant, Content: "Is this a budget, mid-range or luxury trip?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ResponseTypeQuestion, result.Type)
	assert.Zero(t, contexts.calls)
	assert.Contains(t, provider.textReqs[0].System, "Still missing: budget.")
}

func TestPlan_FixedFanOutAndSharedLogistics(t *testing.T) {
	provider := &scriptedProvider{}
	generations := &recordingGenerations{}
	p := newTestPipeline(provider, &staticContexts{}, generations)

	result, err := p.Plan(context.Background(), &services.PlanRequest{TripID: "trip-1", Message: sufficientMessage})
	require.NoError(t, err)

	require.Equal(t, models.ResponseTypeItineraries, result.Type)
	require.Len(t, result.Itineraries, models.ConceptCount)

	assert.Len(t, provider.structuredCalls("itinerary_concepts"), 1)
	assert.Len(t, provider.structuredCalls("daily_plan"), models.ConceptCount)
	assert.Len(t, provider.structuredCalls("logistics"), 1)

	first, err := json.Marshal(result.Itineraries[0].Logistics)
	require.NoError(t, err)
	for i, it := range result.Itineraries {
		assert.Equal(t, "c"+string(rune('1'+i)), it.ID, "concept order is preserved")
		assert.NotEmpty(t, it.DailyPlan)
		other, err := json.Marshal(it.Logistics)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(other), "logistics must be identical")
	}

	logistics := provider.structuredCalls("logistics")[0]
	assert.Contains(t, logistics.Messages[0].Text, "Generate practical logistics for Rome, Italy")
	assert.Equal(t, logisticsTemperature, logistics.Temperature)
	assert.Equal(t, conceptTemperature, provider.structuredCalls("itinerary_concepts")[0].Temperature)
	assert.Equal(t, dailyPlanTemperature, provider.structuredCalls("daily_plan")[0].Temperature)

	require.Len(t, generations.records, 5)
	for _, rec := range generations.records {
		require.NotNil(t, rec.TripID)
		assert.Equal(t, "trip-1", *rec.TripID)
	}
}

func TestPlan_ConceptCountViolationFails(t *testing.T) {
	for _, titles := range [][]string{{"A", "B"}, {"A", "B", "C", "D"}} {
		provider := &scriptedProvider{concepts: conceptsJSON(titles...)}
		p := newTestPipeline(provider, &staticContexts{}, nil)

		result, err := p.Plan(context.Background(), &services.PlanRequest{Message: sufficientMessage})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrGenerationFailed)
		assert.ErrorIs(t, err, domain.ErrSchemaViolation)
		assert.Empty(t, provider.structuredCalls("daily_plan"), "stage B must not start")
	}
}

func TestPlan_DailyPlanFailureIsAllOrNothing(t *testing.T) {
	provider := &scriptedProvider{failDailyPlan: "Adventure"}
	generations := &recordingGenerations{}
	p := newTestPipeline(provider, &staticContexts{}, generations)

	result, err := p.Plan(context.Background(), &services.PlanRequest{Message: sufficientMessage})
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestPlan_ContextFailureFails(t *testing.T) {
	provider := &scriptedProvider{}
	p := newTestPipeline(provider, &staticContexts{err: errors.New("model down")}, nil)

	_, err := p.Plan(context.Background(), &services.PlanRequest{Message: sufficientMessage})
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Empty(t, provider.structReqs)
}

func TestPlan_CurrencyInstruction(t *testing.T) {
	provider := &scriptedProvider{}
	p := newTestPipeline(provider, &staticContexts{}, nil)

	_, err := p.Plan(context.Background(), &services.PlanRequest{
		Message: sufficientMessage,
		Profile: &models.UserProfile{HomeCountry: "India", HomeCurrency: "INR"},
	})
	require.NoError(t, err)

	for _, req := range provider.structReqs {
		assert.Contains(t, req.System, "Give every cost estimate in INR.")
	}

	provider = &scriptedProvider{}
	p = newTestPipeline(provider, &staticContexts{}, nil)
	_, err = p.Plan(context.Background(), &services.PlanRequest{Message: sufficientMessage})
	require.NoError(t, err)
	for _, req := range provider.structReqs {
		assert.Equal(t, SystemIdentity, req.System)
	}
}

type echoTool struct{ calls int }

func (e *echoTool) Spec() domainllm.ToolSpec {
	return domainllm.ToolSpec{Name: "destination_overview", Parameters: map[string]interface{}{"type": "object"}}
}

func (e *echoTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	e.calls++
	return map[string]string{"answer": "Colosseum opens at 9"}, nil
}

func TestPlan_ResearchFoldsNotesIntoStages(t *testing.T) {
	tool := &echoTool{}
	registry := tools.NewToolRegistry()
	registry.Register(tool)

	call := domainllm.ToolCall{ID: "t1", Name: "destination_overview", Input: map[string]interface{}{"destination": "Rome"}}
	provider := &scriptedProvider{textReplies: []*domainllm.TextResponse{
		{ToolCalls: []domainllm.ToolCall{call}},
		{Text: "NOTES: Colosseum opens at 9"},
	}}

	p := NewPipeline(Dependencies{
		Provider:              provider,
		Model:                 "test-model",
		Capabilities:          capabilities.ModelCapabilities{SupportsTools: true, MaxOutput: 4096},
		Contexts:              &staticContexts{},
		Tools:                 registry,
		ResearchEnabled:       true,
		MaxResearchIterations: 3,
		Logger:                testLogger(),
	})

	_, err := p.Plan(context.Background(), &services.PlanRequest{Message: sufficientMessage})
	require.NoError(t, err)

	assert.Equal(t, 1, tool.calls)
	concepts := provider.structuredCalls("itinerary_concepts")[0]
	assert.Contains(t, concepts.Messages[0].Text, "Research Notes: NOTES: Colosseum opens at 9")

	// one concept research call pair plus one research call per daily plan
	assert.Equal(t, 2+models.ConceptCount, provider.textCalls())
	for _, req := range provider.textReqs {
		assert.Equal(t, researchTemperature, req.Temperature)
		assert.NotEmpty(t, req.Tools)
	}
}

func TestPlan_ResearchDisabledWithoutToolSupport(t *testing.T) {
	registry := tools.NewToolRegistry()
	registry.Register(&echoTool{})

	p := NewPipeline(Dependencies{
		Provider:        &scriptedProvider{},
		Model:           "lorem-fast",
		Capabilities:    capabilities.ModelCapabilities{SupportsTools: false},
		Contexts:        &staticContexts{},
		Tools:           registry,
		ResearchEnabled: true,
		Logger:          testLogger(),
	})
	assert.Nil(t, p.researcher)
	assert.Equal(t, maxStageTokens, p.maxTokens)
}

func TestPlan_ItalyEndToEnd(t *testing.T) {
	provider := lorem.NewProvider()
	store := newMemoryCacheStore()
	cache := NewContextCache(store, provider, "lorem-fast", 24*time.Hour, nil, testLogger())

	p := NewPipeline(Dependencies{
		Provider:     provider,
		Model:        "lorem-fast",
		Capabilities: capabilities.ModelCapabilities{MaxOutput: 4096},
		Contexts:     cache,
		Logger:       testLogger(),
	})

	result, err := p.Plan(context.Background(), &services.PlanRequest{
		Message: "10 days in Italy, family trip, love history and food, luxury budget",
		History: []models.Turn{},
	})
	require.NoError(t, err)

	require.Equal(t, models.ResponseTypeItineraries, result.Type)
	require.Len(t, result.Itineraries, 3)

	first, _ := json.Marshal(result.Itineraries[0].Logistics)
	for _, it := range result.Itineraries {
		assert.GreaterOrEqual(t, len(it.DailyPlan), 1)
		other, _ := json.Marshal(it.Logistics)
		assert.Equal(t, string(first), string(other))
	}

	gets, upserts := store.counts()
	assert.Zero(t, gets, "no destination in the message, cache is bypassed")
	assert.Zero(t, upserts)
}

func TestConversationText(t *testing.T) {
	got := conversationText([]models.Turn{
		{Role: models.ChatRoleUser, Content: "hi"},
		{Role: models.ChatRoleAssistant, Content: "where to?"},
	})
	assert.Equal(t, "user: hi\nassistant: where to?", got)
	assert.Empty(t, conversationText(nil))
}

func TestTravelerText(t *testing.T) {
	got := travelerText([]models.Turn{
		{Role: models.ChatRoleUser, Content: "a week in Lisbon"},
		{Role: models.ChatRoleAssistant, Content: "luxury or budget?"},
		{Role: models.ChatRoleUser, Content: "solo"},
	})
	assert.Equal(t, "a week in Lisbon\nsolo", got)
}
