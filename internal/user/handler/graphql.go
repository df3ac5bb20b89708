// Package handler exposes the user profile service as GraphQL resolvers.
package handler

import (
	"context"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	"rbac-auth/backend/internal/platform/gqlerr"
	"rbac-auth/backend/internal/platform/rbac"
	"rbac-auth/backend/internal/user/domain"
	"rbac-auth/backend/internal/user/service"
)

// ProfileService is the user service surface used by the resolvers.
type ProfileService interface {
	FindAll(ctx context.Context) ([]domain.Profile, error)
	FindOne(ctx context.Context, id string) (*domain.Profile, error)
	Update(ctx context.Context, id string, in service.UpdateInput) (*domain.Profile, error)
	Block(ctx context.Context, in service.BlockInput) (string, error)
}

// Authorizer is the authorization gate.
type Authorizer interface {
	Authorize(ctx context.Context, operation string) (rbac.Principal, error)
}

var errorMappings = []gqlerr.Mapping{
	{Target: service.ErrUserNotFound, Code: gqlerr.CodeNotFound, Msg: "user not found"},
}

// UserResolver resolves the user queries and mutations.
type UserResolver struct {
	users ProfileService
	gate  Authorizer
	log   *slog.Logger
}

// NewUserResolver returns a UserResolver.
func NewUserResolver(users ProfileService, gate Authorizer, log *slog.Logger) *UserResolver {
	if log == nil {
		log = slog.Default()
	}
	return &UserResolver{users: users, gate: gate, log: log}
}

// User is the GraphQL User object.
type User struct {
	ID        graphql.ID
	Email     string
	FirstName string
	LastName  string
}

// UpdateUserInput is the GraphQL UpdateUserInput.
type UpdateUserInput struct {
	FirstName string
	LastName  string
}

func toUser(p domain.Profile) *User {
	return &User{ID: graphql.ID(p.ID), Email: p.Email, FirstName: p.FirstName, LastName: p.LastName}
}

func (r *UserResolver) fail(ctx context.Context, err error) error {
	return gqlerr.Map(ctx, r.log, err, errorMappings...)
}

// FindAllUser resolves Query.findAllUser.
func (r *UserResolver) FindAllUser(ctx context.Context) ([]*User, error) {
	if _, err := r.gate.Authorize(ctx, "findAllUser"); err != nil {
		return nil, r.fail(ctx, err)
	}
	profiles, err := r.users.FindAll(ctx)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	out := make([]*User, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toUser(p))
	}
	return out, nil
}

// Me resolves Query.me for the token subject.
func (r *UserResolver) Me(ctx context.Context) (*User, error) {
	principal, err := r.gate.Authorize(ctx, "me")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	p, err := r.users.FindOne(ctx, principal.Subject)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return toUser(*p), nil
}

// UpdateUser resolves Mutation.updateUser for the token subject.
func (r *UserResolver) UpdateUser(ctx context.Context, args struct{ UpdateUserInput UpdateUserInput }) (*User, error) {
	principal, err := r.gate.Authorize(ctx, "updateUser")
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	p, err := r.users.Update(ctx, principal.Subject, service.UpdateInput{
		FirstName: args.UpdateUserInput.FirstName,
		LastName:  args.UpdateUserInput.LastName,
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return toUser(*p), nil
}

// BlockUser resolves Mutation.blockUser.
func (r *UserResolver) BlockUser(ctx context.Context, args struct{ Email string }) (string, error) {
	if _, err := r.gate.Authorize(ctx, "blockUser"); err != nil {
		return "", r.fail(ctx, err)
	}
	msg, err := r.users.Block(ctx, service.BlockInput{Email: args.Email})
	if err != nil {
		return "", r.fail(ctx, err)
	}
	return msg, nil
}
