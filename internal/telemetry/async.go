package telemetry

import (
	"context"
	"log/slog"
	"time"

	"rbac-auth/backend/internal/telemetry/domain"
)

// emitTimeout is the max time allowed for a single async emit.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long to wait after the listeners stop before shutting
// down OTel providers, so in-flight async emits can complete. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// EmitAsync runs Emit in a goroutine so the request is not blocked; errors are logged.
// emitter and event may be nil. The goroutine does not inherit request cancellation.
func EmitAsync(emitter EventEmitter, ctx context.Context, event *domain.Event) {
	if emitter == nil || event == nil {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		emitCtx, cancel := context.WithTimeout(detached, emitTimeout)
		defer cancel()
		if err := emitter.Emit(emitCtx, event); err != nil {
			slog.Default().WarnContext(emitCtx, "telemetry: async emit failed", "event_type", event.EventType, "error", err)
		}
	}()
}
