package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rbac-auth/backend/internal/audit"
	"rbac-auth/backend/internal/identity/domain"
	"rbac-auth/backend/internal/platform/validation"
	roledomain "rbac-auth/backend/internal/role/domain"
	"rbac-auth/backend/internal/security"
	sessiondomain "rbac-auth/backend/internal/session/domain"
	sessionrepo "rbac-auth/backend/internal/session/repository"
	"rbac-auth/backend/internal/telemetry"
	telemetrydomain "rbac-auth/backend/internal/telemetry/domain"
	userdomain "rbac-auth/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the GraphQL layer maps them to error codes.
var (
	ErrCredentialsTaken     = errors.New("credentials taken")
	ErrCredentialsIncorrect = errors.New("credentials incorrect")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenInvalid  = errors.New("refresh token invalid")
	ErrBadRequest           = errors.New("bad request")
)

const eventSource = "auth-service"

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// SessionRepo is the minimal refresh-token record repository needed by the auth service.
type SessionRepo interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
	Create(ctx context.Context, s *sessiondomain.Session) error
	UpdateRefreshToken(ctx context.Context, id, refreshTokenHash string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) (bool, error)
}

// PermissionResolver maps a role to its permission names.
type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, roleID int64) ([]string, error)
}

// PasswordHasher hashes new passwords and verifies stored ones.
type PasswordHasher interface {
	Hash(password []byte) (string, error)
	Compare(hash string, password []byte) error
}

// AuthService implements sign-up, sign-in, sign-out and refresh-token rotation.
type AuthService struct {
	userRepo    UserRepo
	sessionRepo SessionRepo
	permissions PermissionResolver
	hasher      PasswordHasher
	tokens      *security.TokenProvider
	audit       audit.AuditLogger
	events      telemetry.EventEmitter
	log         *slog.Logger
}

// NewAuthService returns an AuthService with the given dependencies.
// auditLogger and events may be nil.
func NewAuthService(
	userRepo UserRepo,
	sessionRepo SessionRepo,
	permissions PermissionResolver,
	hasher PasswordHasher,
	tokens *security.TokenProvider,
	auditLogger audit.AuditLogger,
	events telemetry.EventEmitter,
	log *slog.Logger,
) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		permissions: permissions,
		hasher:      hasher,
		tokens:      tokens,
		audit:       auditLogger,
		events:      events,
		log:         log,
	}
}

// SignUp registers a USER-role account and opens its first session.
func (s *AuthService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hashed, err := s.hasher.Hash([]byte(in.Password))
	if errors.Is(err, security.ErrPasswordTooLong) {
		return nil, &validation.Error{Fields: []validation.FieldError{{
			Field: "password", Rule: "max", Param: strconv.Itoa(security.BcryptMaxPasswordBytes),
		}}}
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	user := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: hashed,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		RoleID:       roledomain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, userdomain.ErrEmailTaken) {
			authEventsTotal.WithLabelValues("signup", outcomeFailure).Inc()
			return nil, ErrCredentialsTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.openSession(ctx, user, "signup", audit.ActionSignUp, telemetrydomain.EventSignUp)
}

// SignIn verifies email and password and opens a new session. Unknown email,
// password-less account and wrong password all yield ErrCredentialsIncorrect.
func (s *AuthService) SignIn(ctx context.Context, in domain.SignInInput) (*domain.AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		return nil, s.signInFailed(ctx, "", in.Email)
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(in.Password)); err != nil {
		if !errors.Is(err, security.ErrPasswordMismatch) {
			s.log.WarnContext(ctx, "stored password hash could not be verified", "user_id", user.ID, "error", err)
		}
		return nil, s.signInFailed(ctx, user.ID, in.Email)
	}
	return s.openSession(ctx, user, "signin", audit.ActionSignIn, telemetrydomain.EventSignIn)
}

func (s *AuthService) signInFailed(ctx context.Context, userID, email string) error {
	authEventsTotal.WithLabelValues("signin", outcomeFailure).Inc()
	s.auditEvent(ctx, userID, audit.ActionSignInFailure, map[string]any{"email": email})
	return ErrCredentialsIncorrect
}

// openSession resolves the user's permissions, signs a token pair and stores
// a new refresh-token record holding only the hash of the refresh token.
func (s *AuthService) openSession(ctx context.Context, user *userdomain.User, op, action, eventType string) (*domain.AuthResult, error) {
	perms, err := s.permissions.ResolvePermissions(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	pair, err := s.tokens.IssuePair(user.ID, user.Email, perms)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	sess := &sessiondomain.Session{
		ID:               uuid.New().String(),
		UserID:           user.ID,
		RefreshTokenHash: security.HashRefreshToken(pair.RefreshToken),
		ExpiresAt:        pair.RefreshExpiresAt,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	authEventsTotal.WithLabelValues(op, outcomeSuccess).Inc()
	s.auditEvent(ctx, user.ID, action, map[string]any{"token_id": sess.ID})
	s.emit(ctx, user.ID, sess.ID, eventType)

	return &domain.AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenID:      sess.ID,
		User:         domain.UserInfo{ID: user.ID, Email: user.Email},
	}, nil
}

// SignOut deletes the refresh-token record. Unknown ids and storage failures both
// return ErrBadRequest; the cause is logged, not surfaced.
func (s *AuthService) SignOut(ctx context.Context, tokenID string) (*domain.LogoutResult, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, ErrBadRequest
	}
	deleted, err := s.sessionRepo.Delete(ctx, tokenID)
	if err != nil {
		s.log.WarnContext(ctx, "sign-out failed", "token_id", tokenID, "error", err)
		authEventsTotal.WithLabelValues("signout", outcomeFailure).Inc()
		return nil, ErrBadRequest
	}
	if !deleted {
		authEventsTotal.WithLabelValues("signout", outcomeFailure).Inc()
		return nil, ErrBadRequest
	}
	authEventsTotal.WithLabelValues("signout", outcomeSuccess).Inc()
	s.auditEvent(ctx, "", audit.ActionSignOut, map[string]any{"token_id": tokenID})
	s.emit(ctx, "", tokenID, telemetrydomain.EventSignOut)
	return &domain.LogoutResult{LoggedOut: true}, nil
}

// GetNewTokens rotates the refresh token stored under tokenID. payload is the
// already-verified content of refreshToken; the new pair is signed from it, so
// permissions are carried over rather than re-resolved. A refresh token that does
// not match the stored hash deletes the record.
func (s *AuthService) GetNewTokens(ctx context.Context, refreshToken, tokenID string, payload domain.TokenPayload) (*domain.AuthResult, error) {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		authEventsTotal.WithLabelValues("refresh", outcomeFailure).Inc()
		return nil, ErrRefreshTokenNotFound
	}
	rec, err := s.sessionRepo.GetByID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if rec == nil {
		authEventsTotal.WithLabelValues("refresh", outcomeFailure).Inc()
		return nil, ErrRefreshTokenNotFound
	}

	if !security.RefreshTokenMatches(refreshToken, rec.RefreshTokenHash) {
		if _, err := s.sessionRepo.Delete(ctx, rec.ID); err != nil {
			s.log.WarnContext(ctx, "delete session after refresh mismatch", "token_id", rec.ID, "error", err)
		}
		authEventsTotal.WithLabelValues("refresh", outcomeFailure).Inc()
		s.auditEvent(ctx, rec.UserID, audit.ActionRefreshReuse, map[string]any{"token_id": rec.ID, "subject": payload.Subject})
		return nil, ErrRefreshTokenInvalid
	}

	pair, err := s.tokens.IssuePair(payload.Subject, payload.Email, payload.Permissions)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	err = s.sessionRepo.UpdateRefreshToken(ctx, rec.ID, security.HashRefreshToken(pair.RefreshToken), pair.RefreshExpiresAt)
	if errors.Is(err, sessionrepo.ErrSessionNotFound) {
		return nil, ErrRefreshTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	authEventsTotal.WithLabelValues("refresh", outcomeSuccess).Inc()
	s.auditEvent(ctx, payload.Subject, audit.ActionRefresh, map[string]any{"token_id": rec.ID})
	s.emit(ctx, payload.Subject, rec.ID, telemetrydomain.EventRefresh)

	return &domain.AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenID:      rec.ID,
		User:         domain.UserInfo{ID: payload.Subject, Email: payload.Email},
	}, nil
}

func (s *AuthService) auditEvent(ctx context.Context, userID, action string, metadata map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(ctx, userID, action, audit.ResourceAuth, metadata)
}

func (s *AuthService) emit(ctx context.Context, userID, sessionID, eventType string) {
	telemetry.EmitAsync(s.events, ctx, &telemetrydomain.Event{
		UserID:    userID,
		SessionID: sessionID,
		EventType: eventType,
		Source:    eventSource,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
