package middleware

import (
	"net/http"
	"strings"
)

const (
	bearerPrefix  = "bearer "
	TokenIDHeader = "token-id"
)

// Credentials copies the Authorization bearer token and the token-id header into
// the request context. Requests are never rejected here.
func Credentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer := extractBearer(r.Header.Get("Authorization"))
		tokenID := strings.TrimSpace(r.Header.Get(TokenIDHeader))
		next.ServeHTTP(w, r.WithContext(WithCredentials(r.Context(), bearer, tokenID)))
	})
}

// extractBearer returns the token from an Authorization header value, or "" if missing or malformed.
func extractBearer(v string) string {
	v = strings.TrimSpace(v)
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
