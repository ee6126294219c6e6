package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"rove/internal/domain"
	"rove/internal/metrics"
	"rove/internal/retry"
)

// UnavailableAnswer replaces the answer of a degraded current-conditions search.
const UnavailableAnswer = "Information unavailable"

// Adapter exposes the intent-specific searches used by the planner.
type Adapter struct {
	client Client
	policy *Policy
	retry  retry.Policy
	logger *slog.Logger
}

// NewAdapter creates a search adapter.
func NewAdapter(client Client, policy *Policy, retryPolicy retry.Policy, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: client,
		policy: policy,
		retry:  retryPolicy,
		logger: logger,
	}
}

// DestinationOverview searches for attractions, opening hours, weather and customs.
func (a *Adapter) DestinationOverview(ctx context.Context, destination string) (*Response, error) {
	query := fmt.Sprintf(`"%s" travel guide attractions opening hours weather customs official tourism board`, destination)
	return a.searchWeb(ctx, IntentDestinationOverview, query)
}

// CurrentConditions searches recent news for the destination. It never
// fails: on error it returns no results and UnavailableAnswer.
func (a *Adapter) CurrentConditions(ctx context.Context, destination string) *Response {
	query := fmt.Sprintf("current travel conditions, seasonal events, and recent updates for %s", destination)
	resp, err := a.searchWeb(ctx, IntentCurrentConditions, query)
	if err != nil {
		a.logger.Warn("current conditions search degraded", "destination", destination, "error", err)
		metrics.SearchRequests.WithLabelValues(string(IntentCurrentConditions), "degraded").Inc()
		return &Response{Results: []Result{}, Answer: UnavailableAnswer, Query: query}
	}
	return resp
}

// Pricing searches for the cost of an activity at the destination.
func (a *Adapter) Pricing(ctx context.Context, destination, activity string) (*Response, error) {
	query := fmt.Sprintf("pricing information about %s in %s", activity, destination)
	return a.searchWeb(ctx, IntentPricing, query)
}

// FactCheck looks up the official website and contact number of a venue.
func (a *Adapter) FactCheck(ctx context.Context, entity, location string) (*Response, error) {
	query := fmt.Sprintf(`official website and contact number for "%s" in %s`, entity, location)
	return a.searchWeb(ctx, IntentFactCheck, query)
}

// ComprehensiveInterests gathers attractions, hidden gems, costs and
// neighbourhoods for the traveller's interests.
func (a *Adapter) ComprehensiveInterests(ctx context.Context, destination string, interests []string) (*Response, error) {
	joined := strings.Join(interests, ", ")
	query := fmt.Sprintf(`Comprehensive travel information for %s.
Include:
1. Top attractions related to %s.
2. Hidden gems and authentic local experiences for someone interested in %s.
3. Average cost for mid-range meals and popular activities.
4. Best neighborhoods to stay in for easy access to these interests.`, destination, joined, joined)
	return a.searchWeb(ctx, IntentComprehensiveInterests, query)
}

// searchWeb runs one search with the intent's options and ranks the results.
// Every failure is reported as domain.ErrSearchFailed.
func (a *Adapter) searchWeb(ctx context.Context, intent Intent, query string) (*Response, error) {
	opts := a.policy.Options(intent)

	var resp *Response
	err := a.retry.Do(ctx, func() error {
		r, err := a.client.Search(ctx, query, opts)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		a.logger.Error("web search failed", "intent", intent, "error", err)
		metrics.SearchRequests.WithLabelValues(string(intent), "error").Inc()
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSearchFailed, intent, err)
	}

	metrics.SearchRequests.WithLabelValues(string(intent), "ok").Inc()
	resp.Results = FilterAndRank(resp.Results, a.policy.MinScore)
	a.logger.Debug("web search completed", "intent", intent, "results", len(resp.Results))
	return resp, nil
}

// FilterAndRank drops results scoring at or below minScore and sorts the
// rest by score, highest first. The input slice is not modified.
func FilterAndRank(results []Result, minScore float64) []Result {
	kept := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Score > minScore {
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})
	return kept
}
