// Package telemetry fans auth and request events out to OTel logs and Kafka.
package telemetry

import (
	"context"
	"errors"

	"rbac-auth/backend/internal/telemetry/domain"
)

// EventEmitter emits telemetry events. Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}

// Fanout returns an emitter that forwards each event to every non-nil emitter
// and joins their errors. With no emitters it returns nil.
func Fanout(emitters ...EventEmitter) EventEmitter {
	var live []EventEmitter
	for _, e := range emitters {
		if e != nil {
			live = append(live, e)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return fanout(live)
}

type fanout []EventEmitter

func (f fanout) Emit(ctx context.Context, event *domain.Event) error {
	var errs []error
	for _, e := range f {
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
