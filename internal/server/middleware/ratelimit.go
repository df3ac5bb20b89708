package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	limiterCacheSize = 10_000
	limiterIdleTTL   = 5 * time.Minute
)

// RateLimiter is a token bucket per client IP. Idle buckets expire from a bounded LRU.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

// NewRateLimiter returns a limiter allowing rps requests per second with the given burst per IP.
// Returns nil when rps <= 0; a nil *RateLimiter's Middleware passes every request.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](limiterCacheSize, nil, limiterIdleTTL),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request from ip may proceed now.
func (l *RateLimiter) Allow(ip string) bool {
	if ip == "" {
		ip = "unknown"
	}
	l.mu.Lock()
	lim, ok := l.limiters.Get(ip)
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
	}
	// Add refreshes the TTL so active clients keep their bucket.
	l.limiters.Add(ip, lim)
	l.mu.Unlock()
	return lim.Allow()
}

// Middleware rejects requests over the limit with 429. Requires ClientIPResolver earlier in the chain.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r.Context())) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
