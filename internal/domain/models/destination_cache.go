package models

import "time"

// DestinationCacheEntry is memoized destination background text.
// Destination is the normalized key; at most one live entry exists per key.
type DestinationCacheEntry struct {
	Destination string    `json:"destination" db:"destination"`
	ContextData string    `json:"context_data" db:"context_data"`
	ExpiresAt   time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// IsLive reports whether the entry may still be served at now.
func (e *DestinationCacheEntry) IsLive(now time.Time) bool {
	return e.ExpiresAt.After(now)
}
