package repositories

import (
	"context"
	"time"

	"rove/internal/domain/models"
)

// DestinationCacheRepository stores destination context with a TTL.
//
// Implementations wrap connectivity failures with domain.ErrStoreUnavailable so
// callers can tell them apart from ordinary misses and query errors.
type DestinationCacheRepository interface {
	// GetLive returns the entry for destination if it expires after now.
	// Returns nil (and no error) on a miss or when only an expired entry exists.
	GetLive(ctx context.Context, destination string, now time.Time) (*models.DestinationCacheEntry, error)

	// Upsert writes the entry, replacing content and expiry of any existing one.
	Upsert(ctx context.Context, entry *models.DestinationCacheEntry) error

	// Clear deletes every entry.
	Clear(ctx context.Context) error
}
