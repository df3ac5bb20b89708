package middleware

import (
	"net/http"
	"time"

	"rbac-auth/backend/internal/telemetry"
	"rbac-auth/backend/internal/telemetry/domain"
)

const telemetrySource = "http_middleware"

// Telemetry emits one http_request event per request after it completes.
// Best-effort; no-op when emitter is nil.
func Telemetry(emitter telemetry.EventEmitter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if emitter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			tokenID, _ := TokenID(r.Context())
			telemetry.EmitAsync(emitter, r.Context(), &domain.Event{
				SessionID: tokenID,
				EventType: domain.EventHTTPRequest,
				Source:    telemetrySource,
				Metadata: map[string]any{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status_code": wrapped.statusCode,
					"duration_ms": time.Since(start).Milliseconds(),
					"client_ip":   ClientIP(r.Context()),
				},
			})
		})
	}
}
