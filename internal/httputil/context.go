package httputil

import (
	"context"
	"net/http"
	"sync"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	scopeKey  contextKey = "requestScope"
)

// RequestScope collects the identifiers resolved while a request is served.
// Outer middleware installs it so it can log who and what a failing request
// was about, even though inner layers derive new request values.
type RequestScope struct {
	mu     sync.Mutex
	userID string
	tripID string
}

// WithRequestScope installs an empty scope on r.
func WithRequestScope(r *http.Request) (*http.Request, *RequestScope) {
	scope := &RequestScope{}
	return r.WithContext(context.WithValue(r.Context(), scopeKey, scope)), scope
}

// LogAttrs returns the known identifiers as slog key/value pairs.
func (s *RequestScope) LogAttrs() []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	var attrs []any
	if s.userID != "" {
		attrs = append(attrs, "user_id", s.userID)
	}
	if s.tripID != "" {
		attrs = append(attrs, "trip_id", s.tripID)
	}
	return attrs
}

func scopeFrom(r *http.Request) *RequestScope {
	scope, _ := r.Context().Value(scopeKey).(*RequestScope)
	return scope
}

// WithUserID adds userID to the request context
func WithUserID(r *http.Request, userID string) *http.Request {
	if scope := scopeFrom(r); scope != nil {
		scope.mu.Lock()
		scope.userID = userID
		scope.mu.Unlock()
	}
	return r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
}

// GetUserID retrieves userID from context, returns empty string if not found
func GetUserID(r *http.Request) string {
	userID, _ := r.Context().Value(userIDKey).(string)
	return userID
}

// SetTripID records the trip a request operates on. No-op without a scope.
func SetTripID(r *http.Request, tripID string) {
	if scope := scopeFrom(r); scope != nil {
		scope.mu.Lock()
		scope.tripID = tripID
		scope.mu.Unlock()
	}
}
