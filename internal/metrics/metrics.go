// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rove_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		},
		[]string{"route", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rove_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
		},
		[]string{"route"},
	)
	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rove_pipeline_stage_duration_seconds",
			Help:    "Duration of itinerary pipeline stages",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"stage", "outcome"},
	)
	GateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rove_gate_decisions_total",
			Help: "Information gate outcomes",
		},
		[]string{"decision"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rove_destination_cache_lookups_total",
			Help: "Destination cache lookups by result (hit, miss, bypass, error)",
		},
		[]string{"result"},
	)
	LLMCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rove_llm_calls_total",
			Help: "Model calls by provider, mode and outcome",
		},
		[]string{"provider", "mode", "outcome"},
	)
	LLMTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rove_llm_tokens_total",
			Help: "Tokens consumed by provider and direction",
		},
		[]string{"provider", "direction"},
	)
	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rove_search_requests_total",
			Help: "Web search requests by intent and outcome",
		},
		[]string{"intent", "outcome"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rove_rate_limited_total",
			Help: "Requests rejected by the per-user rate limiter",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		StageDuration,
		GateDecisions,
		CacheLookups,
		LLMCalls,
		LLMTokens,
		SearchRequests,
		RateLimited,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Outcome maps an error to the "ok"/"error" label value.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveStage records a stage duration since start.
func ObserveStage(stage string, start time.Time, err error) {
	StageDuration.WithLabelValues(stage, Outcome(err)).Observe(time.Since(start).Seconds())
}

// ObserveHTTP records one completed request.
func ObserveHTTP(route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
