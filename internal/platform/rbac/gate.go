package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"rbac-auth/backend/internal/audit"
	"rbac-auth/backend/internal/security"
	"rbac-auth/backend/internal/server/middleware"
)

var (
	// ErrUnauthenticated is returned when a protected operation has no valid access token.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied is returned when the token grants none of the declared permissions.
	ErrPermissionDenied = errors.New("permission denied")
)

var authzDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "authz_decisions_total",
	Help: "Authorization gate decisions by operation and result.",
}, []string{"operation", "result"})

// Principal is the verified caller. Anonymous is true for public operations.
type Principal struct {
	Subject     string
	Email       string
	Permissions []string
	Anonymous   bool
}

// AccessVerifier verifies an access token and returns its claims.
type AccessVerifier interface {
	ValidateAccess(token string) (*security.Claims, error)
}

// Decider answers whether granted satisfies required.
type Decider interface {
	Allow(ctx context.Context, required, granted []string) (bool, error)
}

// Gate checks each operation against the registry before its resolver runs.
type Gate struct {
	registry Registry
	verifier AccessVerifier
	decider  Decider
	audit    audit.AuditLogger
	log      *slog.Logger
}

// NewGate returns a Gate. auditLogger and log may be nil.
func NewGate(registry Registry, verifier AccessVerifier, decider Decider, auditLogger audit.AuditLogger, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{registry: registry, verifier: verifier, decider: decider, audit: auditLogger, log: log}
}

// Authorize admits or rejects the caller for operation. Undeclared operations are
// admitted without a token. Declared ones need a valid access token whose
// permissions include at least one declared permission.
func (g *Gate) Authorize(ctx context.Context, operation string) (Principal, error) {
	required, declared := g.registry.Required(operation)
	if !declared {
		g.log.DebugContext(ctx, "authorization skipped", "operation", operation)
		authzDecisionsTotal.WithLabelValues(operation, "public").Inc()
		return Principal{Anonymous: true}, nil
	}
	g.log.DebugContext(ctx, "authorization required", "operation", operation, "required", required)

	token, ok := middleware.BearerToken(ctx)
	if !ok {
		authzDecisionsTotal.WithLabelValues(operation, "unauthenticated").Inc()
		return Principal{}, ErrUnauthenticated
	}
	claims, err := g.verifier.ValidateAccess(token)
	if err != nil {
		authzDecisionsTotal.WithLabelValues(operation, "unauthenticated").Inc()
		return Principal{}, ErrUnauthenticated
	}

	allowed, err := g.decider.Allow(ctx, required, claims.Permissions)
	if err != nil {
		authzDecisionsTotal.WithLabelValues(operation, "error").Inc()
		return Principal{}, fmt.Errorf("authorize %s: %w", operation, err)
	}
	if !allowed {
		g.log.DebugContext(ctx, "authorization denied", "operation", operation, "subject", claims.Subject)
		authzDecisionsTotal.WithLabelValues(operation, "denied").Inc()
		if g.audit != nil {
			g.audit.LogEvent(ctx, claims.Subject, audit.ActionPermissionDenied, audit.OperationResource(operation),
				map[string]any{"operation": operation})
		}
		return Principal{}, ErrPermissionDenied
	}

	g.log.DebugContext(ctx, "authorization allowed", "operation", operation, "subject", claims.Subject)
	authzDecisionsTotal.WithLabelValues(operation, "allowed").Inc()
	return Principal{
		Subject:     claims.Subject,
		Email:       claims.Email,
		Permissions: claims.Permissions,
	}, nil
}
