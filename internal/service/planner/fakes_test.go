package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"rove/internal/domain/models"
	domainllm "rove/internal/domain/services/llm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedProvider answers structured requests by schema name and text
// requests from a queue (falling back to a fixed reply).
type scriptedProvider struct {
	mu sync.Mutex

	textReplies []*domainllm.TextResponse
	textErr     error
	textDelay   time.Duration
	textReqs    []*domainllm.TextRequest

	concepts      string
	failDailyPlan string // concept title whose daily plan fails
	structReqs    []*domainllm.StructuredRequest
}

func (p *scriptedProvider) Name() string              { return "scripted" }
func (p *scriptedProvider) SupportsModel(string) bool { return true }

func (p *scriptedProvider) GenerateText(ctx context.Context, req *domainllm.TextRequest) (*domainllm.TextResponse, error) {
	p.mu.Lock()
	p.textReqs = append(p.textReqs, req)
	var reply *domainllm.TextResponse
	if len(p.textReplies) > 0 {
		reply = p.textReplies[0]
		p.textReplies = p.textReplies[1:]
	}
	p.mu.Unlock()

	if p.textDelay > 0 {
		select {
		case <-time.After(p.textDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.textErr != nil {
		return nil, p.textErr
	}
	if reply == nil {
		reply = &domainllm.TextResponse{Text: "Rome is lovely in spring.", Model: req.Model, InputTokens: 10, OutputTokens: 5}
	}
	return reply, nil
}

func (p *scriptedProvider) GenerateStructured(ctx context.Context, req *domainllm.StructuredRequest) (*domainllm.StructuredResponse, error) {
	p.mu.Lock()
	p.structReqs = append(p.structReqs, req)
	p.mu.Unlock()

	prompt := req.Messages[0].Text
	var object string
	switch req.Schema.Name {
	case "itinerary_concepts":
		object = p.concepts
		if object == "" {
			object = conceptsJSON("Culture", "Adventure", "Relax")
		}
	case "daily_plan":
		if p.failDailyPlan != "" && strings.Contains(prompt, "Title: "+p.failDailyPlan+"\n") {
			return nil, errors.New("upstream exploded")
		}
		object = dailyPlanJSON
	case "logistics":
		object = logisticsJSON
	default:
		return nil, fmt.Errorf("unexpected schema %s", req.Schema.Name)
	}

	return &domainllm.StructuredResponse{
		Object:       json.RawMessage(object),
		Model:        req.Model,
		InputTokens:  100,
		OutputTokens: 50,
	}, nil
}

func (p *scriptedProvider) structuredCalls(schema string) []*domainllm.StructuredRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*domainllm.StructuredRequest
	for _, r := range p.structReqs {
		if r.Schema.Name == schema {
			out = append(out, r)
		}
	}
	return out
}

func (p *scriptedProvider) textCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.textReqs)
}

func conceptsJSON(titles ...string) string {
	concepts := make([]map[string]interface{}, len(titles))
	for i, title := range titles {
		concepts[i] = map[string]interface{}{
			"id":          fmt.Sprintf("c%d", i+1),
			"title":       title,
			"theme":       title + " focus",
			"duration":    "5 days",
			"destination": map[string]string{"city": "Rome", "country": "Italy"},
			"traveler_profile": map[string]string{
				"type":            "Couple",
				"goals_from_trip": "See the sights",
				"pace_of_trip":    "Moderate",
			},
			"budget_overview": map[string]string{"budget_preference": "Mid-range"},
		}
	}
	data, _ := json.Marshal(map[string]interface{}{"itineraries": concepts})
	return string(data)
}

const dailyPlanJSON = `{"daily_plan":[{"day":1,"theme":"Arrival","schedule":[
 {"time_slot":"Morning","type":"Activity","title":"Colosseum","description":"Tour.","details":{"location":"Piazza del Colosseo","cost_estimation":"18"}},
 {"time_slot":"Evening","type":"Meal","title":"Trattoria","description":"Dinner.","details":{"location":"Trastevere","cost_estimation":"30-40"}}
]}]}`

const logisticsJSON = `{"logistics":{"accommodation_details":[{"name":"Hotel Artemide","address":"Via Nazionale 22"}],"transport_options":"Metro and walking","booking_details":"Book the Colosseum ahead"}}`

// memoryCacheStore is an in-memory destination cache.
type memoryCacheStore struct {
	mu      sync.Mutex
	entries map[string]models.DestinationCacheEntry
	gets    int
	upserts int
	getErr  error
	putErr  error
}

func newMemoryCacheStore() *memoryCacheStore {
	return &memoryCacheStore{entries: make(map[string]models.DestinationCacheEntry)}
}

func (s *memoryCacheStore) GetLive(ctx context.Context, destination string, now time.Time) (*models.DestinationCacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	entry, ok := s.entries[destination]
	if !ok || !entry.IsLive(now) {
		return nil, nil
	}
	return &entry, nil
}

func (s *memoryCacheStore) Upsert(ctx context.Context, entry *models.DestinationCacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.putErr != nil {
		return s.putErr
	}
	s.entries[entry.Destination] = *entry
	return nil
}

func (s *memoryCacheStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]models.DestinationCacheEntry)
	return nil
}

func (s *memoryCacheStore) counts() (gets, upserts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets, s.upserts
}

// recordingGenerations collects generation records.
type recordingGenerations struct {
	mu      sync.Mutex
	records []models.GenerationRecord
	err     error
}

func (r *recordingGenerations) Record(ctx context.Context, record *models.GenerationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return r.err
}

// staticContexts is a ContextProvider that appends fixed text.
type staticContexts struct {
	calls int
	err   error
}

func (s *staticContexts) GetOrGenerateContext(ctx context.Context, userMessage, conversationContext string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return conversationContext + "\n\nAdditional Context: Rome background.", nil
}
