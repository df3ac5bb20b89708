// Package middleware holds the HTTP middleware chain in front of the GraphQL endpoint.
package middleware

import "context"

type contextKey struct{ name string }

var (
	bearerKey   = contextKey{"bearer_token"}
	tokenIDKey  = contextKey{"token_id"}
	clientIPKey = contextKey{"client_ip"}
)

// WithCredentials returns a context carrying the raw bearer token and token-id header.
// Neither value is verified here; the authorization gate and the refresh handler do that.
func WithCredentials(ctx context.Context, bearer, tokenID string) context.Context {
	ctx = context.WithValue(ctx, bearerKey, bearer)
	ctx = context.WithValue(ctx, tokenIDKey, tokenID)
	return ctx
}

// BearerToken returns the bearer token from context and true if non-empty.
func BearerToken(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(bearerKey).(string)
	return v, ok && v != ""
}

// TokenID returns the token-id header value from context and true if non-empty.
func TokenID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(tokenIDKey).(string)
	return v, ok && v != ""
}

// WithClientIP returns a context carrying the client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP set by the ClientIP middleware, or "" if unset.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
