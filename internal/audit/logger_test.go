package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"rbac-auth/backend/internal/audit/domain"
	"rbac-auth/backend/internal/logging"
)

type mockAuditRepo struct {
	mu        sync.Mutex
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	logger := NewLogger(repo, func(context.Context) string { return "192.168.1.1" }, logging.Discard())

	logger.LogEvent(context.Background(), "user-1", ActionSignIn, ResourceAuth, map[string]any{"token_id": "t1"})

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.UserID != "user-1" || entry.Action != ActionSignIn || entry.Resource != ResourceAuth {
		t.Errorf("entry = %+v", entry)
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want 192.168.1.1", entry.IP)
	}
	var md map[string]string
	if err := json.Unmarshal([]byte(entry.Metadata), &md); err != nil || md["token_id"] != "t1" {
		t.Errorf("metadata = %q (%v)", entry.Metadata, err)
	}
	if entry.ID == "" || entry.CreatedAt.IsZero() {
		t.Error("entry ID and CreatedAt should be set")
	}
}

func TestLogger_LogEvent_UnknownIP(t *testing.T) {
	for name, extractor := range map[string]IPExtractor{
		"nil extractor":   nil,
		"empty extractor": func(context.Context) string { return "" },
	} {
		repo := &mockAuditRepo{}
		NewLogger(repo, extractor, logging.Discard()).LogEvent(context.Background(), "", ActionSignInFailure, ResourceAuth, nil)
		if len(repo.entries) != 1 || repo.entries[0].IP != "unknown" {
			t.Errorf("%s: entries = %+v", name, repo.entries)
		}
		if repo.entries[0].Metadata != "" {
			t.Errorf("%s: empty metadata should stay empty, got %q", name, repo.entries[0].Metadata)
		}
	}
}

func TestLogger_LogEvent_RepositoryError(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("database error")}
	NewLogger(repo, nil, logging.Discard()).LogEvent(context.Background(), "user-1", ActionSignOut, ResourceAuth, nil)
}

func TestLogger_NilSafe(t *testing.T) {
	var l *Logger
	l.LogEvent(context.Background(), "u", ActionSignIn, ResourceAuth, nil)
	NewLogger(nil, nil, nil).LogEvent(context.Background(), "u", ActionSignIn, ResourceAuth, nil)
}
