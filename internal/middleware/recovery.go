package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"rove/internal/httputil"
)

// Recovery turns a panic into a 500 and logs it with the user and trip the
// request was serving, as far as inner layers resolved them.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r, scope := httputil.WithRequestScope(r)
			defer func() {
				if err := recover(); err != nil {
					attrs := append([]any{
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
					}, scope.LogAttrs()...)
					attrs = append(attrs, "stack", string(debug.Stack()))
					logger.Error("panic recovered", attrs...)

					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
