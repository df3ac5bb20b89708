package otel

import (
	"context"
	"encoding/json"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"rbac-auth/backend/internal/telemetry"
	"rbac-auth/backend/internal/telemetry/domain"
)

const instrumentationName = "rbac-auth.events"

// recordEmitter is the part of otellog.Logger the adapter needs.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewEventEmitter returns an EventEmitter that sends events as OTel log records via the given LoggerProvider.
// If provider is nil, returns a no-op emitter.
func NewEventEmitter(provider *sdklog.LoggerProvider) telemetry.EventEmitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger(instrumentationName)}
}

// NewEventEmitterWithLogger wraps an arbitrary record emitter. Used in tests.
func NewEventEmitterWithLogger(l recordEmitter) telemetry.EventEmitter {
	return &otelEmitter{logger: l}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.Event) error { return nil }

type otelEmitter struct {
	logger recordEmitter
}

// Emit converts the event to an OTel log record: metadata as JSON body, ids and type as attributes.
func (e *otelEmitter) Emit(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return nil
	}
	var rec otellog.Record
	ts := event.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetSeverity(otellog.SeverityInfo)
	if len(event.Metadata) > 0 {
		body, err := json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
		rec.SetBody(otellog.StringValue(string(body)))
	}
	attrs := []otellog.KeyValue{otellog.String("event_type", event.EventType)}
	if event.Source != "" {
		attrs = append(attrs, otellog.String("source", event.Source))
	}
	if event.UserID != "" {
		attrs = append(attrs, otellog.String("user_id", event.UserID))
	}
	if event.SessionID != "" {
		attrs = append(attrs, otellog.String("session_id", event.SessionID))
	}
	rec.AddAttributes(attrs...)
	e.logger.Emit(ctx, rec)
	return nil
}
