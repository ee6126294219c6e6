package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"rove/internal/config"
)

// ResponseType discriminates the chat response envelope.
type ResponseType string

const (
	ResponseTypeQuestion    ResponseType = "question"
	ResponseTypeItineraries ResponseType = "itineraries"
)

// PlanResult is what the planner produces for one chat turn: either a
// clarifying question or a full set of itineraries.
type PlanResult struct {
	Type        ResponseType        `json:"type"`
	Reply       string              `json:"reply,omitempty"`
	Itineraries []ComposedItinerary `json:"itineraries,omitempty"`
}

// ChatResponse is the envelope returned to the transport layer.
type ChatResponse struct {
	Type        ResponseType        `json:"type"`
	Reply       string              `json:"reply,omitempty"`
	Itineraries []ComposedItinerary `json:"itineraries,omitempty"`
	TripID      string              `json:"tripId"`
}

// ChatRequest is a single user chat turn. TripID is empty for a new trip.
type ChatRequest struct {
	Message string `json:"message"`
	TripID  string `json:"tripId,omitempty"`
}

func (r ChatRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Message,
			validation.By(func(value interface{}) error {
				if strings.TrimSpace(value.(string)) == "" {
					return validation.NewError("validation_required", "message is required")
				}
				return nil
			}),
			validation.RuneLength(0, config.MaxMessageLength),
		),
	)
}
