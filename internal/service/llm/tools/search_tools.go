package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainllm "rove/internal/domain/services/llm"
	"rove/internal/service/search"
)

// Searcher is the subset of the search adapter the tools need.
type Searcher interface {
	DestinationOverview(ctx context.Context, destination string) (*search.Response, error)
	CurrentConditions(ctx context.Context, destination string) *search.Response
	Pricing(ctx context.Context, destination, activity string) (*search.Response, error)
	FactCheck(ctx context.Context, entity, location string) (*search.Response, error)
	ComprehensiveInterests(ctx context.Context, destination string, interests []string) (*search.Response, error)
}

var destinationParam = map[string]interface{}{
	"type":        "string",
	"description": "Destination, e.g. 'Kyoto, Japan'",
}

type destinationOverviewTool struct {
	searcher Searcher
	config   *ToolConfig
}

func (t *destinationOverviewTool) Spec() domainllm.ToolSpec {
	return domainllm.ToolSpec{
		Name:        string(search.IntentDestinationOverview),
		Description: "Search trusted travel sources for a destination's major attractions, opening hours, best time to visit and local customs.",
		Parameters:  objectSchema(map[string]interface{}{"destination": destinationParam}, "destination"),
	}
}

func (t *destinationOverviewTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	destination, err := requireString(input, "destination")
	if err != nil {
		return nil, err
	}
	resp, err := t.searcher.DestinationOverview(ctx, destination)
	if err != nil {
		return nil, err
	}
	return formatResponse(resp, t.config), nil
}

type currentConditionsTool struct {
	searcher Searcher
	config   *ToolConfig
}

func (t *currentConditionsTool) Spec() domainllm.ToolSpec {
	return domainllm.ToolSpec{
		Name:        string(search.IntentCurrentConditions),
		Description: "Search the last month of news for current travel conditions, seasonal events and recent updates at a destination.",
		Parameters:  objectSchema(map[string]interface{}{"destination": destinationParam}, "destination"),
	}
}

func (t *currentConditionsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	destination, err := requireString(input, "destination")
	if err != nil {
		return nil, err
	}
	return formatResponse(t.searcher.CurrentConditions(ctx, destination), t.config), nil
}

type pricingTool struct {
	searcher Searcher
	config   *ToolConfig
}

func (t *pricingTool) Spec() domainllm.ToolSpec {
	return domainllm.ToolSpec{
		Name:        string(search.IntentPricing),
		Description: "Search for typical prices of an activity, ticket or meal at a destination.",
		Parameters: objectSchema(map[string]interface{}{
			"destination": destinationParam,
			"activity": map[string]interface{}{
				"type":        "string",
				"description": "Activity, attraction or service to price",
			},
		}, "destination", "activity"),
	}
}

func (t *pricingTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	destination, err := requireString(input, "destination")
	if err != nil {
		return nil, err
	}
	activity, err := requireString(input, "activity")
	if err != nil {
		return nil, err
	}
	resp, err := t.searcher.Pricing(ctx, destination, activity)
	if err != nil {
		return nil, err
	}
	return formatResponse(resp, t.config), nil
}

type factCheckTool struct {
	searcher Searcher
	config   *ToolConfig
}

func (t *factCheckTool) Spec() domainllm.ToolSpec {
	return domainllm.ToolSpec{
		Name:        string(search.IntentFactCheck),
		Description: "Look up the official website and contact number of a hotel, restaurant or attraction.",
		Parameters: objectSchema(map[string]interface{}{
			"entity": map[string]interface{}{
				"type":        "string",
				"description": "Name of the venue",
			},
			"location": map[string]interface{}{
				"type":        "string",
				"description": "City or area the venue is in",
			},
		}, "entity", "location"),
	}
}

func (t *factCheckTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	entity, err := requireString(input, "entity")
	if err != nil {
		return nil, err
	}
	location, err := requireString(input, "location")
	if err != nil {
		return nil, err
	}
	resp, err := t.searcher.FactCheck(ctx, entity, location)
	if err != nil {
		return nil, err
	}
	return formatResponse(resp, t.config), nil
}

type comprehensiveInterestsTool struct {
	searcher Searcher
	config   *ToolConfig
}

func (t *comprehensiveInterestsTool) Spec() domainllm.ToolSpec {
	return domainllm.ToolSpec{
		Name:        string(search.IntentComprehensiveInterests),
		Description: "In-depth search for attractions, hidden gems, typical costs and neighbourhoods matching the traveler's interests.",
		Parameters: objectSchema(map[string]interface{}{
			"destination": destinationParam,
			"interests": map[string]interface{}{
				"type":        "array",
				"items":       map[string]interface{}{"type": "string"},
				"description": "Traveler interests, e.g. ['food', 'history']",
			},
		}, "destination", "interests"),
	}
}

func (t *comprehensiveInterestsTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	destination, err := requireString(input, "destination")
	if err != nil {
		return nil, err
	}

	raw, _ := input["interests"].([]interface{})
	interests := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			interests = append(interests, strings.TrimSpace(s))
		}
	}
	if len(interests) == 0 {
		return nil, errors.New("missing required parameter: interests (array of strings)")
	}

	resp, err := t.searcher.ComprehensiveInterests(ctx, destination, interests)
	if err != nil {
		return nil, err
	}
	return formatResponse(resp, t.config), nil
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func requireString(input map[string]interface{}, key string) (string, error) {
	v, ok := input[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", fmt.Errorf("missing required parameter: %s (string)", key)
	}
	return strings.TrimSpace(v), nil
}

// formatResponse shapes a search response for model consumption.
func formatResponse(resp *search.Response, config *ToolConfig) map[string]interface{} {
	results := resp.Results
	if len(results) > config.MaxResultsPerCall {
		results = results[:config.MaxResultsPerCall]
	}

	list := make([]map[string]interface{}, len(results))
	for i, r := range results {
		content := r.Content
		if len(content) > config.MaxSnippetChars {
			content = content[:config.MaxSnippetChars] + "..."
		}
		item := map[string]interface{}{
			"title":   r.Title,
			"url":     r.URL,
			"content": content,
			"score":   r.Score,
		}
		if r.PublishedAt != nil {
			item["published_at"] = r.PublishedAt.Format("2006-01-02")
		}
		list[i] = item
	}

	return map[string]interface{}{
		"answer":       resp.Answer,
		"results":      list,
		"result_count": len(list),
	}
}
