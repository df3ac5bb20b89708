// Package service implements the user profile operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rbac-auth/backend/internal/platform/validation"
	"rbac-auth/backend/internal/user/domain"
)

// ErrUserNotFound is returned when the subject of a valid token no longer exists.
var ErrUserNotFound = errors.New("user not found")

// UserRepo is the user repository surface used by the profile service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateName(ctx context.Context, id, firstName, lastName string) (*domain.User, error)
}

// UpdateInput carries the editable profile fields.
type UpdateInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

// BlockInput names the account to block.
type BlockInput struct {
	Email string `json:"email" validate:"required,email"`
}

// UserService reads and updates user profiles.
type UserService struct {
	repo UserRepo
}

// NewUserService returns a UserService backed by repo.
func NewUserService(repo UserRepo) *UserService {
	return &UserService{repo: repo}
}

// FindAll returns every user's profile.
func (s *UserService) FindAll(ctx context.Context) ([]domain.Profile, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]domain.Profile, 0, len(users))
	for _, u := range users {
		out = append(out, u.Profile())
	}
	return out, nil
}

// FindOne returns the profile of user id.
func (s *UserService) FindOne(ctx context.Context, id string) (*domain.Profile, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	p := u.Profile()
	return &p, nil
}

// Update overwrites the first and last name of user id.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*domain.Profile, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.repo.UpdateName(ctx, id, in.FirstName, in.LastName)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	p := u.Profile()
	return &p, nil
}

// Block describes the block action for email. Accounts are not modified.
func (s *UserService) Block(ctx context.Context, in BlockInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return "", err
	}
	return fmt.Sprintf("This action will block user with email: %s", in.Email), nil
}
