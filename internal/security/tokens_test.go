package security

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenProvider_IssuePairAndValidate(t *testing.T) {
	p := NewTestTokenProvider()
	perms := []string{"GENERAL_USER_PERMISSION"}

	pair, err := p.IssuePair("u1", "u1@example.com", perms)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token in pair")
	}
	if !pair.RefreshExpiresAt.After(pair.AccessExpiresAt) {
		t.Error("refresh token should outlive access token")
	}

	ac, err := p.ValidateAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if ac.Subject != "u1" || ac.Email != "u1@example.com" || !slices.Equal(ac.Permissions, perms) {
		t.Errorf("access claims = %+v", ac)
	}
	rc, err := p.ValidateRefresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if rc.Subject != "u1" || !slices.Equal(rc.Permissions, perms) {
		t.Errorf("refresh claims = %+v", rc)
	}
	if ac.ID == "" || ac.ID == rc.ID {
		t.Error("each token should carry its own jti")
	}
}

func TestTokenProvider_SecretsAreNotInterchangeable(t *testing.T) {
	p := NewTestTokenProvider()
	pair, err := p.IssuePair("u1", "e", nil)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	if _, err := p.ValidateAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := p.ValidateRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
}

func TestTokenProvider_ReissueChangesString(t *testing.T) {
	p := NewTestTokenProvider()
	a, _, _ := p.IssueRefresh("u1", "e", nil)
	b, _, _ := p.IssueRefresh("u1", "e", nil)
	if a == b {
		t.Fatal("tokens issued within the same second must differ")
	}
}

func TestTokenProvider_Expired(t *testing.T) {
	p := NewTestTokenProvider()
	issued := time.Now().Add(-time.Hour)
	p.now = func() time.Time { return issued }
	token, _, err := p.IssueAccess("u1", "e", nil)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	p.now = time.Now
	if _, err := p.ValidateAccess(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token should be invalid, got %v", err)
	}
}

func TestTokenProvider_RejectsInvalid(t *testing.T) {
	p := NewTestTokenProvider()
	other, err := NewTokenProvider([]byte("a"), []byte("b"), "test-issuer", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenProvider: %v", err)
	}
	foreign, _, _ := other.IssueAccess("u1", "e", nil)

	wrongIssuer, _ := NewTokenProvider([]byte("test-access-secret"), []byte("x"), "someone-else", time.Minute, time.Hour)
	otherIss, _, _ := wrongIssuer.IssueAccess("u1", "e", nil)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	for name, token := range map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"other secret": foreign,
		"wrong issuer": otherIss,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := p.ValidateAccess(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("ValidateAccess: want ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewTokenProvider_Secrets(t *testing.T) {
	cases := map[string][2]string{
		"empty access":  {"", "r"},
		"empty refresh": {"a", ""},
		"equal":         {"same", "same"},
	}
	for name, c := range cases {
		if _, err := NewTokenProvider([]byte(c[0]), []byte(c[1]), "", time.Minute, time.Hour); !errors.Is(err, ErrWeakSecrets) {
			t.Errorf("%s: want ErrWeakSecrets, got %v", name, err)
		}
	}
}
