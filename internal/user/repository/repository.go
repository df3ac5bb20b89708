package repository

import (
	"context"

	"rbac-auth/backend/internal/user/domain"
)

// Repository defines persistence for users. Lookups return (nil, nil) when no row matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Create inserts u; returns domain.ErrEmailTaken when the email already exists.
	Create(ctx context.Context, u *domain.User) error
	// UpdateName overwrites first and last name and returns the updated user, or nil if id is unknown.
	UpdateName(ctx context.Context, id, firstName, lastName string) (*domain.User, error)
}
