package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"rove/internal/domain"
	"rove/internal/domain/models"
	"rove/internal/domain/repositories"
	domainllm "rove/internal/domain/services/llm"
	"rove/internal/metrics"
	"rove/internal/telemetry"
)

// UnknownDestination is the key used when no destination can be extracted.
// It is never read from or written to the store.
const UnknownDestination = "unknown"

const contextTemperature = 0.3

var (
	destinationPattern = regexp.MustCompile(`(?i)\b(?:traveling to|travelling to|trip to|going to|visit(?:ing)?|to)\s+([a-z][a-z\s,]*)`)
	leadingVerbPattern = regexp.MustCompile(`^(?:(?:go|going|travel|traveling|travelling|fly|head|visit|visiting|see|explore|to)(?:\s+|$))+`)
	stopWordPattern    = regexp.MustCompile(`\s(?:for|in|on|with|next|this|during|from|and|at|around|by)\b.*$`)
	spacePattern       = regexp.MustCompile(`\s+`)
)

// ExtractDestination derives the normalized cache key from a message, or
// UnknownDestination.
func ExtractDestination(message string) string {
	match := destinationPattern.FindStringSubmatch(message)
	if match == nil {
		return UnknownDestination
	}

	dest := strings.ToLower(match[1])
	dest = spacePattern.ReplaceAllString(dest, " ")
	dest = leadingVerbPattern.ReplaceAllString(strings.TrimSpace(dest), "")
	dest = stopWordPattern.ReplaceAllString(dest, "")
	dest = strings.Trim(dest, " ,")

	if dest == "" {
		return UnknownDestination
	}
	return dest
}

// ContextCache memoizes destination background text per destination.
type ContextCache struct {
	store       repositories.DestinationCacheRepository
	provider    domainllm.LLMProvider
	model       string
	ttl         time.Duration
	now         func() time.Time
	group       singleflight.Group
	generations *generationLog
	logger      *slog.Logger
}

// NewContextCache creates the cache. ttl is the lifetime of a fresh entry.
func NewContextCache(
	store repositories.DestinationCacheRepository,
	provider domainllm.LLMProvider,
	model string,
	ttl time.Duration,
	generations repositories.GenerationRepository,
	logger *slog.Logger,
) *ContextCache {
	return &ContextCache{
		store:       store,
		provider:    provider,
		model:       model,
		ttl:         ttl,
		now:         time.Now,
		generations: &generationLog{repo: generations, logger: logger},
		logger:      logger,
	}
}

// GetOrGenerateContext returns conversationContext enriched with background
// text for the destination named in userMessage.
func (c *ContextCache) GetOrGenerateContext(ctx context.Context, userMessage, conversationContext string) (result string, err error) {
	destination := ExtractDestination(userMessage)

	ctx, span := telemetry.StartSpan(ctx, "planner.context", attribute.String("destination", destination))
	defer func() { telemetry.End(span, err) }()

	if destination == UnknownDestination {
		metrics.CacheLookups.WithLabelValues("bypass").Inc()
		text, err := c.generate(ctx, userMessage, conversationContext)
		if err != nil {
			return "", err
		}
		return conversationContext + "\n\nAdditional Context: " + text, nil
	}

	entry, err := c.store.GetLive(ctx, destination, c.now())
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			metrics.CacheLookups.WithLabelValues("error").Inc()
			return "", fmt.Errorf("read destination cache: %w", err)
		}
		c.logger.Warn("destination cache read failed, treating as miss",
			"destination", destination,
			"error", err,
		)
		entry = nil
	}

	if entry != nil {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		c.logger.Info("destination cache hit", "destination", destination)
		return conversationContext + "\n\nCached Context: " + entry.ContextData, nil
	}

	metrics.CacheLookups.WithLabelValues("miss").Inc()
	c.logger.Info("destination cache miss, generating context", "destination", destination)

	// The shared generation outlives any one caller; each caller stops
	// waiting when its own context ends.
	genCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(destination, func() (interface{}, error) {
		text, err := c.generate(genCtx, userMessage, conversationContext)
		if err != nil {
			return "", err
		}
		if err := c.store.Upsert(genCtx, c.newEntry(destination, text)); err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return "", fmt.Errorf("write destination cache: %w", err)
			}
			c.logger.Warn("destination cache write failed",
				"destination", destination,
				"error", err,
			)
		}
		return text, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return "", res.Err
	}
	if res.Shared {
		c.logger.Debug("joined in-flight context generation", "destination", destination)
	}

	return conversationContext + "\n\nAdditional Context: " + res.Val.(string), nil
}

// ClearCache deletes every cached destination.
func (c *ContextCache) ClearCache(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear destination cache: %w", err)
	}
	c.logger.Info("destination cache cleared")
	return nil
}

func (c *ContextCache) newEntry(destination, text string) *models.DestinationCacheEntry {
	now := c.now()
	return &models.DestinationCacheEntry{
		Destination: destination,
		ContextData: text,
		ExpiresAt:   now.Add(c.ttl),
		CreatedAt:   now,
	}
}

func (c *ContextCache) generate(ctx context.Context, userMessage, conversationContext string) (string, error) {
	start := time.Now()
	resp, err := c.provider.GenerateText(ctx, &domainllm.TextRequest{
		Model:       c.model,
		System:      SystemIdentity + "\n\n" + ContextGathering,
		Messages:    []domainllm.Message{domainllm.UserText(conversationContext + "\n\nUser: " + userMessage)},
		Temperature: contextTemperature,
	})
	metrics.ObserveStage(string(models.GenerationContext), start, err)
	if err != nil {
		return "", fmt.Errorf("generate destination context: %w", err)
	}

	c.generations.record(ctx, models.GenerationContext, resp.Model, resp.InputTokens, resp.OutputTokens, textData(resp.Text))
	return resp.Text, nil
}
