package models

import (
	"encoding/json"
	"time"
)

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// Trip is a planning session owned by a user. ItineraryOptions holds the
// latest generated set as an opaque JSON blob and is replaced wholesale.
type Trip struct {
	ID               string          `json:"id" db:"id"`
	UserID           string          `json:"user_id" db:"user_id"`
	Name             string          `json:"name" db:"name"`
	ItineraryOptions json.RawMessage `json:"itinerary_options,omitempty" db:"itinerary_options"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// ChatMessage is one persisted conversation turn.
type ChatMessage struct {
	ID        string    `json:"id" db:"id"`
	TripID    string    `json:"trip_id" db:"trip_id"`
	Role      ChatRole  `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Turn is the in-memory view of a chat message used by the planner.
type Turn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// TurnsFromMessages converts stored messages into planner turns, preserving order.
func TurnsFromMessages(messages []ChatMessage) []Turn {
	turns := make([]Turn, len(messages))
	for i, m := range messages {
		turns[i] = Turn{Role: m.Role, Content: m.Content}
	}
	return turns
}

// TripDetail is a trip together with its conversation.
type TripDetail struct {
	Trip
	Messages []ChatMessage `json:"messages"`
}
