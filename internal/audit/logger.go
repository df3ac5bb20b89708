// Package audit records security-relevant auth and authorization events.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rbac-auth/backend/internal/audit/domain"
	auditrepo "rbac-auth/backend/internal/audit/repository"
)

// Audited actions.
const (
	ActionSignUp           = "signup"
	ActionSignIn           = "signin"
	ActionSignInFailure    = "signin_failure"
	ActionSignOut          = "signout"
	ActionRefresh          = "refresh"
	ActionRefreshReuse     = "refresh_reuse"
	ActionPermissionDenied = "permission_denied"
)

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event. LogEvent is best-effort: failures are
// logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource string, metadata map[string]any)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	log         *slog.Logger
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for client IP.
// ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{repo: repo, ipExtractor: ipExtractor, log: log}
}

// LogEvent writes one audit log entry.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource string, metadata map[string]any) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		if v := l.ipExtractor(ctx); v != "" {
			ip = v
		}
	}
	var md string
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err != nil {
			l.log.WarnContext(ctx, "audit: metadata not serializable", "action", action, "error", err)
		} else {
			md = string(b)
		}
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  md,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.log.ErrorContext(ctx, "audit: failed to log event", "action", action, "resource", resource, "error", err)
	}
}
