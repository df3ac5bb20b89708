// Package producer writes service events to a message broker.
package producer

import (
	"context"

	"rbac-auth/backend/internal/telemetry/domain"
)

// Producer emits events to a broker. Callers use it best-effort: log and ignore errors.
type Producer interface {
	Emit(ctx context.Context, event *domain.Event) error
	// Close flushes and releases resources. Safe to call if already closed.
	Close() error
}
