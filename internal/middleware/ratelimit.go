package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"rove/internal/httputil"
	"rove/internal/metrics"
)

// RateLimiter hands out one token bucket per user.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	interval time.Duration
	burst    int
	logger   *slog.Logger
}

// NewRateLimiter allows perMinute requests per user per minute, bursting up
// to perMinute. A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute int, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Inf,
		burst:    1,
		logger:   logger,
	}
	if perMinute > 0 {
		rl.interval = time.Minute / time.Duration(perMinute)
		rl.limit = rate.Every(rl.interval)
		rl.burst = perMinute
	}
	return rl
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := httputil.GetUserID(r)
		if key == "" {
			key, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		l := rl.limiterFor(key)
		if !l.Allow() {
			metrics.RateLimited.Inc()
			rl.logger.Warn("rate limit exceeded", "user_id", key, "path", r.URL.Path)

			// Whole seconds until the next token, rounded up
			retryAfter := int((rl.interval + time.Second - 1) / time.Second)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			httputil.RespondErrorWithExtras(w, http.StatusTooManyRequests, "too many requests, slow down",
				map[string]interface{}{"retryAfterSeconds": retryAfter})
			return
		}

		next.ServeHTTP(w, r)
	})
}
