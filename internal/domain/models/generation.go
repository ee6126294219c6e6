package models

import (
	"encoding/json"
	"time"
)

// GenerationType names the pipeline stage a model call belongs to.
type GenerationType string

const (
	GenerationContext        GenerationType = "context"
	GenerationBasicItinerary GenerationType = "basic_itinerary"
	GenerationDailyPlan      GenerationType = "daily_plan"
	GenerationLogistics      GenerationType = "logistics"
)

// GenerationRecord is an audit row for a single model call.
type GenerationRecord struct {
	ID            string          `json:"id" db:"id"`
	TripID        *string         `json:"trip_id,omitempty" db:"trip_id"`
	Type          GenerationType  `json:"type" db:"type"`
	Model         string          `json:"model" db:"model"`
	InputTokens   int             `json:"input_tokens" db:"input_tokens"`
	OutputTokens  int             `json:"output_tokens" db:"output_tokens"`
	GeneratedData json.RawMessage `json:"generated_data,omitempty" db:"generated_data"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
