// Package handler exposes the auth service as GraphQL resolvers.
package handler

import (
	"context"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	"rbac-auth/backend/internal/identity/domain"
	"rbac-auth/backend/internal/identity/service"
	"rbac-auth/backend/internal/platform/gqlerr"
	"rbac-auth/backend/internal/platform/rbac"
	"rbac-auth/backend/internal/security"
	"rbac-auth/backend/internal/server/middleware"
)

// Authenticator is the auth service surface used by the resolvers.
type Authenticator interface {
	SignUp(ctx context.Context, in domain.SignUpInput) (*domain.AuthResult, error)
	SignIn(ctx context.Context, in domain.SignInInput) (*domain.AuthResult, error)
	SignOut(ctx context.Context, tokenID string) (*domain.LogoutResult, error)
	GetNewTokens(ctx context.Context, refreshToken, tokenID string, payload domain.TokenPayload) (*domain.AuthResult, error)
}

// RefreshVerifier verifies refresh tokens.
type RefreshVerifier interface {
	ValidateRefresh(token string) (*security.Claims, error)
}

// Authorizer is the authorization gate.
type Authorizer interface {
	Authorize(ctx context.Context, operation string) (rbac.Principal, error)
}

var errorMappings = []gqlerr.Mapping{
	{Target: service.ErrCredentialsTaken, Code: gqlerr.CodeConflict, Msg: "credentials taken"},
	{Target: service.ErrCredentialsIncorrect, Code: gqlerr.CodeForbidden, Msg: "credentials incorrect"},
	{Target: service.ErrRefreshTokenInvalid, Code: gqlerr.CodeForbidden, Msg: "access denied"},
	{Target: service.ErrRefreshTokenNotFound, Code: gqlerr.CodeUnauthenticated, Msg: "unauthorized"},
	{Target: service.ErrBadRequest, Code: gqlerr.CodeBadRequest, Msg: "bad request"},
}

// AuthResolver resolves the auth mutations and the demo permission queries.
type AuthResolver struct {
	auth    Authenticator
	refresh RefreshVerifier
	gate    Authorizer
	log     *slog.Logger
}

// NewAuthResolver returns an AuthResolver.
func NewAuthResolver(auth Authenticator, refresh RefreshVerifier, gate Authorizer, log *slog.Logger) *AuthResolver {
	if log == nil {
		log = slog.Default()
	}
	return &AuthResolver{auth: auth, refresh: refresh, gate: gate, log: log}
}

// UserInfo is the GraphQL UserInfo object.
type UserInfo struct {
	ID    graphql.ID
	Email string
}

// AuthResponse is the GraphQL AuthResponse object.
type AuthResponse struct {
	AccessToken  string
	RefreshToken string
	TokenID      string
	UserInfo     *UserInfo
}

// LogoutResponse is the GraphQL LogoutResponse object.
type LogoutResponse struct {
	LoggedOut bool
}

// SignUpInput is the GraphQL SignUpInput.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// SignInInput is the GraphQL SignInInput.
type SignInInput struct {
	Email    string
	Password string
}

func toAuthResponse(res *domain.AuthResult) *AuthResponse {
	return &AuthResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenID:      res.TokenID,
		UserInfo:     &UserInfo{ID: graphql.ID(res.User.ID), Email: res.User.Email},
	}
}

func (r *AuthResolver) fail(ctx context.Context, err error) error {
	return gqlerr.Map(ctx, r.log, err, errorMappings...)
}

// Signup resolves Mutation.signup.
func (r *AuthResolver) Signup(ctx context.Context, args struct{ SignUpInput SignUpInput }) (*AuthResponse, error) {
	if _, err := r.gate.Authorize(ctx, "signup"); err != nil {
		return nil, r.fail(ctx, err)
	}
	in := args.SignUpInput
	res, err := r.auth.SignUp(ctx, domain.SignUpInput{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return toAuthResponse(res), nil
}

// Signin resolves Mutation.signin.
func (r *AuthResolver) Signin(ctx context.Context, args struct{ SignInInput SignInInput }) (*AuthResponse, error) {
	if _, err := r.gate.Authorize(ctx, "signin"); err != nil {
		return nil, r.fail(ctx, err)
	}
	res, err := r.auth.SignIn(ctx, domain.SignInInput{Email: args.SignInInput.Email, Password: args.SignInInput.Password})
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return toAuthResponse(res), nil
}

// Signout resolves Mutation.signout.
func (r *AuthResolver) Signout(ctx context.Context, args struct{ TokenID string }) (*LogoutResponse, error) {
	if _, err := r.gate.Authorize(ctx, "signout"); err != nil {
		return nil, r.fail(ctx, err)
	}
	res, err := r.auth.SignOut(ctx, args.TokenID)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return &LogoutResponse{LoggedOut: res.LoggedOut}, nil
}

// GetRefreshToken resolves Mutation.getRefreshToken. The bearer must be a refresh
// token and the token-id header must name its record.
func (r *AuthResolver) GetRefreshToken(ctx context.Context) (*AuthResponse, error) {
	if _, err := r.gate.Authorize(ctx, "getRefreshToken"); err != nil {
		return nil, r.fail(ctx, err)
	}
	token, ok := middleware.BearerToken(ctx)
	if !ok {
		return nil, r.fail(ctx, rbac.ErrUnauthenticated)
	}
	claims, err := r.refresh.ValidateRefresh(token)
	if err != nil {
		return nil, r.fail(ctx, rbac.ErrUnauthenticated)
	}
	tokenID, _ := middleware.TokenID(ctx)
	res, err := r.auth.GetNewTokens(ctx, token, tokenID, domain.TokenPayload{
		Subject:     claims.Subject,
		Email:       claims.Email,
		Permissions: claims.Permissions,
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	return toAuthResponse(res), nil
}

// Public resolves Query.public.
func (r *AuthResolver) Public(ctx context.Context) (string, error) {
	if _, err := r.gate.Authorize(ctx, "public"); err != nil {
		return "", r.fail(ctx, err)
	}
	return "hello! This query is public!", nil
}

// AdminCanQuery resolves Query.adminCanQuery.
func (r *AuthResolver) AdminCanQuery(ctx context.Context) (string, error) {
	if _, err := r.gate.Authorize(ctx, "adminCanQuery"); err != nil {
		return "", r.fail(ctx, err)
	}
	return "hello admin!", nil
}

// AdminAndUserCanQuery resolves Query.adminAndUserCanQuery.
func (r *AuthResolver) AdminAndUserCanQuery(ctx context.Context) (string, error) {
	if _, err := r.gate.Authorize(ctx, "adminAndUserCanQuery"); err != nil {
		return "", r.fail(ctx, err)
	}
	return "hello admin and user!", nil
}
