package domain

import "time"

// Session is a refresh-token record. Its ID is the token id handed to the
// client; only the SHA-256 hash of the refresh token is stored.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
