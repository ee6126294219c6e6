// Package search wraps a web search API behind intent-specific queries with
// trusted-domain scoping and relevance filtering.
package search

import (
	"context"
	"time"
)

// Client defines the interface for external search APIs.
type Client interface {
	Search(ctx context.Context, query string, opts Options) (*Response, error)
}

// Options configures one search call.
type Options struct {
	MaxResults     int
	SearchDepth    string // "basic" or "advanced"
	Topic          string // "general" or "news"
	TimeRange      string // "day", "week", "month", "year"; empty for no limit
	IncludeDomains []string
	ExcludeDomains []string
	IncludeAnswer  bool
}

// Response contains search results from the external API.
type Response struct {
	Results   []Result  `json:"results"`
	Answer    string    `json:"answer,omitempty"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
}

// Result represents a single search result.
type Result struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Content     string     `json:"content"`
	Score       float64    `json:"score"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
