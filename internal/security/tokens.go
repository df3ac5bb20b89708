package security

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or signed with another secret.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWeakSecrets is returned by NewTokenProvider when a secret is empty or both secrets are equal.
	ErrWeakSecrets = errors.New("access and refresh secrets must be set and distinct")
)

// Claims is the payload carried by both access and refresh tokens.
// Subject is the user id; jti is random so every issued token string is unique.
type Claims struct {
	jwt.RegisteredClaims
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// TokenPair is an access and refresh token signed from the same claims.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// TokenProvider issues and validates HS256 JWTs. Access and refresh tokens use
// distinct secrets, so a token of one kind never validates as the other.
type TokenProvider struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenProvider returns a TokenProvider. issuer is optional; when set it is
// written to and required on every token.
func NewTokenProvider(accessSecret, refreshSecret []byte, issuer string, accessTTL, refreshTTL time.Duration) (*TokenProvider, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 || bytes.Equal(accessSecret, refreshSecret) {
		return nil, ErrWeakSecrets
	}
	return &TokenProvider{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// IssuePair signs an access and a refresh token for the given subject.
func (p *TokenProvider) IssuePair(subject, email string, permissions []string) (TokenPair, error) {
	access, accessExp, err := p.IssueAccess(subject, email, permissions)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := p.IssueRefresh(subject, email, permissions)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// IssueAccess issues a short-lived access token.
func (p *TokenProvider) IssueAccess(subject, email string, permissions []string) (string, time.Time, error) {
	return p.issue(p.accessSecret, p.accessTTL, subject, email, permissions)
}

// IssueRefresh issues a long-lived refresh token.
func (p *TokenProvider) IssueRefresh(subject, email string, permissions []string) (string, time.Time, error) {
	return p.issue(p.refreshSecret, p.refreshTTL, subject, email, permissions)
}

func (p *TokenProvider) issue(secret []byte, ttl time.Duration, subject, email string, permissions []string) (string, time.Time, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.now().UTC()
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:       email,
		Permissions: permissions,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateAccess verifies an access token's signature, expiry and issuer.
func (p *TokenProvider) ValidateAccess(tokenString string) (*Claims, error) {
	return p.validate(tokenString, p.accessSecret)
}

// ValidateRefresh verifies a refresh token's signature, expiry and issuer.
func (p *TokenProvider) ValidateRefresh(tokenString string) (*Claims, error) {
	return p.validate(tokenString, p.refreshSecret)
}

func (p *TokenProvider) validate(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, opts...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
