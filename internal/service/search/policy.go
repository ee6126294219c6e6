package search

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Intent names a query family with its own defaults.
type Intent string

const (
	IntentDestinationOverview    Intent = "destination_overview"
	IntentCurrentConditions      Intent = "current_conditions"
	IntentPricing                Intent = "pricing"
	IntentFactCheck              Intent = "fact_check"
	IntentComprehensiveInterests Intent = "comprehensive_interests"
)

// Intents lists every intent in a stable order.
var Intents = []Intent{
	IntentDestinationOverview,
	IntentCurrentConditions,
	IntentPricing,
	IntentFactCheck,
	IntentComprehensiveInterests,
}

//go:embed policy.yaml
var defaultPolicyYAML []byte

// IntentDefaults are the per-intent search options.
type IntentDefaults struct {
	MaxResults  int    `yaml:"max_results"`
	SearchDepth string `yaml:"search_depth"`
	Topic       string `yaml:"topic"`
	TimeRange   string `yaml:"time_range"`
}

// Policy is the source scoping and ranking configuration.
type Policy struct {
	TrustedDomains  []string                  `yaml:"trusted_domains"`
	ExcludedDomains []string                  `yaml:"excluded_domains"`
	MinScore        float64                   `yaml:"min_score"`
	Intents         map[Intent]IntentDefaults `yaml:"intents"`
}

// DefaultPolicy loads the embedded policy.
func DefaultPolicy() (*Policy, error) {
	return ParsePolicy(defaultPolicyYAML)
}

// ParsePolicy decodes a policy and checks every intent is configured.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search policy: %w", err)
	}
	for _, intent := range Intents {
		d, ok := p.Intents[intent]
		if !ok {
			return nil, fmt.Errorf("search policy missing intent %q", intent)
		}
		if d.MaxResults <= 0 {
			return nil, fmt.Errorf("search policy intent %q: max_results must be positive", intent)
		}
	}
	return &p, nil
}

// Options builds the search options for intent.
func (p *Policy) Options(intent Intent) Options {
	d := p.Intents[intent]
	return Options{
		MaxResults:     d.MaxResults,
		SearchDepth:    d.SearchDepth,
		Topic:          d.Topic,
		TimeRange:      d.TimeRange,
		IncludeDomains: p.TrustedDomains,
		ExcludeDomains: p.ExcludedDomains,
		IncludeAnswer:  true,
	}
}
