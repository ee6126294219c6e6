package planner

import (
	"regexp"
	"strings"
)

// Facet is one piece of information the planner needs before generating.
type Facet string

const (
	FacetDestination  Facet = "destination"
	FacetDuration     Facet = "duration"
	FacetTravelerType Facet = "traveler type"
	FacetInterests    Facet = "interests"
	FacetBudget       Facet = "budget"
)

var (
	durationPattern = regexp.MustCompile(`\d+\s*-?\s*(days?|weeks?)\b`)

	travelerTypePattern = keywordPattern(
		"solo", "couple", "family", "friends", "business", "honeymoon",
	)

	interestPattern = keywordPattern(
		"culture", "food", "adventure", "history", "art", "relaxation", "nightlife", "shopping",
	)

	budgetPattern = keywordPattern(
		"budget", "mid-range", "mid range", "midrange", "luxury", "luxurious", "cheap",
		"expensive", "affordable", "high-end", "moderate", "backpacker",
	)
)

// keywordPattern matches any of words on word boundaries, allowing a plural "s".
func keywordPattern(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)s?\b`)
}

// IsSufficient reports whether the conversation so far names a duration,
// a traveler type, an interest and a budget. Destination is not required.
func IsSufficient(userMessage, conversationContext string) bool {
	return len(MissingFacets(userMessage, conversationContext)) == 0
}

// MissingFacets lists the gated facets absent from context and message.
func MissingFacets(userMessage, conversationContext string) []Facet {
	text := strings.ToLower(conversationContext + " " + userMessage)

	var missing []Facet
	if !durationPattern.MatchString(text) {
		missing = append(missing, FacetDuration)
	}
	if !travelerTypePattern.MatchString(text) {
		missing = append(missing, FacetTravelerType)
	}
	if !interestPattern.MatchString(text) {
		missing = append(missing, FacetInterests)
	}
	if !budgetPattern.MatchString(text) {
		missing = append(missing, FacetBudget)
	}
	return missing
}
