package security

import "time"

// NewTestTokenProvider returns a TokenProvider with fixed secrets, 15m access and
// 24h refresh lifetimes. For unit tests only.
func NewTestTokenProvider() *TokenProvider {
	p, err := NewTokenProvider([]byte("test-access-secret"), []byte("test-refresh-secret"), "test-issuer", 15*time.Minute, 24*time.Hour)
	if err != nil {
		panic(err)
	}
	return p
}
