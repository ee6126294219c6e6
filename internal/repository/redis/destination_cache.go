// Package redis provides a Redis-backed destination cache store for
// deployments that share cached context across server instances.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
)

// keyPrefix namespaces cache keys; the table prefix keeps environments apart.
const keyPrefix = "destination_cache:"

// DestinationCacheRepository stores entries as JSON values with a server-side TTL.
type DestinationCacheRepository struct {
	client *goredis.Client
	prefix string
	logger *slog.Logger
}

// NewDestinationCacheRepository wraps an existing client. envPrefix is
// typically the table prefix (dev_, test_, prod_).
func NewDestinationCacheRepository(client *goredis.Client, envPrefix string, logger *slog.Logger) repositories.DestinationCacheRepository {
	return &DestinationCacheRepository{
		client: client,
		prefix: envPrefix + keyPrefix,
		logger: logger,
	}
}

// Connect parses a redis:// URL and verifies the server is reachable.
func Connect(ctx context.Context, redisURL string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (r *DestinationCacheRepository) key(destination string) string {
	return r.prefix + destination
}

// GetLive returns the entry if present and not expired at now. The server TTL
// normally evicts first; the explicit check covers clock skew.
func (r *DestinationCacheRepository) GetLive(ctx context.Context, destination string, now time.Time) (*models.DestinationCacheEntry, error) {
	raw, err := r.client.Get(ctx, r.key(destination)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, wrapErr("get destination cache entry", err)
	}

	var entry models.DestinationCacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode destination cache entry: %w", err)
	}
	if !entry.IsLive(now) {
		return nil, nil
	}
	return &entry, nil
}

// Upsert overwrites the key. Entries already past their expiry are not written.
func (r *DestinationCacheRepository) Upsert(ctx context.Context, entry *models.DestinationCacheEntry) error {
	ttl := entry.ExpiresAt.Sub(entry.CreatedAt)
	if ttl <= 0 {
		r.logger.Debug("skipping expired cache write", "destination", entry.Destination)
		return nil
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode destination cache entry: %w", err)
	}

	if err := r.client.Set(ctx, r.key(entry.Destination), raw, ttl).Err(); err != nil {
		return wrapErr("set destination cache entry", err)
	}
	return nil
}

// Clear removes every key under this store's prefix.
func (r *DestinationCacheRepository) Clear(ctx context.Context) error {
	var cursor uint64
	deleted := 0
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 100).Result()
		if err != nil {
			return wrapErr("scan destination cache", err)
		}
		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return wrapErr("delete destination cache keys", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Info("destination cache cleared", "entries", deleted)
	return nil
}

func wrapErr(op string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, goredis.ErrClosed) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
