package repository

import (
	"context"
	"time"

	"rbac-auth/backend/internal/session/domain"
)

// Repository defines persistence for refresh-token records. Each call is a
// single-row statement; no multi-row transactions are needed.
type Repository interface {
	// GetByID returns the record or nil if it does not exist.
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// UpdateRefreshToken overwrites the stored hash and expiry of an existing record.
	UpdateRefreshToken(ctx context.Context, id, refreshTokenHash string, expiresAt time.Time) error
	// Delete removes the record and reports whether a row existed.
	Delete(ctx context.Context, id string) (bool, error)
}
