package planner

import (
	"fmt"
	"strings"

	"rove/internal/domain/models"
)

// SystemIdentity is the shared system instruction of every stage.
const SystemIdentity = `You are "Rove," an AI travel assistant specializing in creating comprehensive, personalized travel itineraries. You understand traveler preferences, budget constraints, and cultural contexts.

Core principles:
- Always respond in the user's local currency context
- Provide realistic, actionable recommendations
- Consider seasonal factors and local events
- Prioritize safety and cultural sensitivity`

// ContextGathering steers the destination background call.
const ContextGathering = `Focus on gathering current information about:
- Popular attractions and hidden gems
- Local dining recommendations
- Transportation options and costs
- Accommodation suggestions by budget tier
- Seasonal considerations and local events
- Cultural norms and etiquette tips`

const clarifierInstruction = `Before planning you need five things from the traveler:
1. Destination (where they want to go)
2. Duration (how many days or weeks)
3. Traveler type (solo, couple, family, friends, business, honeymoon)
4. Interests (e.g. culture, food, adventure, history, art, relaxation, nightlife, shopping)
5. Budget (budget, mid-range, or luxury)

Read the conversation and ask, in one short and friendly message, only for the details that are still missing. Do not plan the trip yet. Reply in plain text.`

const researchInstruction = `You have web search tools. Use them to verify facts that matter for the plan: attraction details, opening hours, typical prices, current conditions and venue contact details. Call several tools at once when they are independent. When you have enough, reply with concise research notes in plain text; do not write the itinerary.`

func systemPrompt(profile *models.UserProfile) string {
	if instruction := currencyInstruction(profile); instruction != "" {
		return SystemIdentity + "\n\n" + instruction
	}
	return SystemIdentity
}

func currencyInstruction(profile *models.UserProfile) string {
	if profile == nil || profile.HomeCurrency == "" {
		return ""
	}
	return fmt.Sprintf("The traveler lives in %s. Give every cost estimate in %s.",
		profile.HomeCountry, profile.HomeCurrency)
}

// conversationText renders history as "role: content" lines.
func conversationText(history []models.Turn) string {
	var sb strings.Builder
	for i, turn := range history {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(string(turn.Role))
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
	}
	return sb.String()
}

// travelerText joins the user turns of history. The gate reads only these.
func travelerText(history []models.Turn) string {
	var parts []string
	for _, turn := range history {
		if turn.Role == models.ChatRoleUser {
			parts = append(parts, turn.Content)
		}
	}
	return strings.Join(parts, "\n")
}

func conceptPrompt(context, userMessage string) string {
	return fmt.Sprintf(`%s

User requirements: %s

Generate %d distinct itinerary concepts for the same destination, each with a unique focus:
1. Culture & History focused
2. Adventure & Activities focused
3. Relaxation & Local Experience focused

Each itinerary should match the user's specified duration, budget, and traveler type.
Ensure cost estimations are in the appropriate currency for the user's location.`,
		context, userMessage, models.ConceptCount)
}

func dailyPlanPrompt(concept models.Concept, context string) string {
	return fmt.Sprintf(`Create a detailed daily schedule for this itinerary:

Title: %s
Theme: %s
Duration: %s
Destination: %s
Budget: %s
Traveler Type: %s
Goals: %s

Context: %s

Create a realistic daily schedule with:
- One entry per day of the trip, numbered from 1
- At least %d schedule items per day
- Appropriate timing between activities
- Budget-appropriate recommendations
- Mix of must-see attractions and local experiences
- Practical transportation suggestions`,
		concept.Title,
		concept.Theme,
		concept.Duration,
		destinationLabel(concept.Destination),
		concept.BudgetOverview.BudgetPreference,
		concept.TravelerProfile.Type,
		concept.TravelerProfile.GoalsFromTrip,
		context,
		models.MinScheduleItems,
	)
}

func logisticsPrompt(concept models.Concept, context, userMessage string) string {
	return fmt.Sprintf(`Generate practical logistics for %s:

%s
User requirements: %s

Provide accommodation options, transportation details, and booking guidance.`,
		destinationLabel(concept.Destination), context, userMessage)
}

func conceptResearchPrompt(context, userMessage string) string {
	return fmt.Sprintf(`%s

User requirements: %s

Research the destination so that three distinct itineraries (culture and history, adventure and activities, relaxation and local experience) can be planned.`,
		context, userMessage)
}

func dailyPlanResearchPrompt(concept models.Concept) string {
	return fmt.Sprintf(`Research what is needed for a day-by-day plan of "%s" (%s) in %s for a %s traveler on a %s budget: opening hours, prices and venue details.`,
		concept.Title,
		concept.Duration,
		destinationLabel(concept.Destination),
		concept.TravelerProfile.Type,
		concept.BudgetOverview.BudgetPreference,
	)
}

func destinationLabel(d models.Destination) string {
	parts := []string{d.City}
	if d.State != "" {
		parts = append(parts, d.State)
	}
	parts = append(parts, d.Country)
	return strings.Join(parts, ", ")
}

func withResearch(context, notes string) string {
	if strings.TrimSpace(notes) == "" {
		return context
	}
	return context + "\n\nResearch Notes: " + notes
}
