package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rbac-auth/backend/internal/telemetry/domain"
)

type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*domain.Event
	emitErr error
	done    chan struct{}
}

func (m *mockEventEmitter) Emit(_ context.Context, event *domain.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

func TestEmitAsync_NilEmitterOrEvent(t *testing.T) {
	EmitAsync(nil, context.Background(), &domain.Event{EventType: "x"})
	m := &mockEventEmitter{}
	EmitAsync(m, context.Background(), nil)
	time.Sleep(20 * time.Millisecond)
	if len(m.getEvents()) != 0 {
		t.Error("nil event should not be emitted")
	}
}

func TestEmitAsync_SurvivesRequestCancel(t *testing.T) {
	m := &mockEventEmitter{done: make(chan struct{}, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	EmitAsync(m, ctx, &domain.Event{EventType: domain.EventSignIn, UserID: "u1"})

	select {
	case <-m.done:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not emitted")
	}
	events := m.getEvents()
	if len(events) != 1 || events[0].UserID != "u1" || events[0].CreatedAt.IsZero() {
		t.Errorf("events = %+v", events)
	}
}

func TestFanout(t *testing.T) {
	if Fanout() != nil || Fanout(nil, nil) != nil {
		t.Error("Fanout without emitters should be nil")
	}
	a := &mockEventEmitter{}
	if Fanout(nil, a) != EventEmitter(a) {
		t.Error("Fanout with one emitter should return it unchanged")
	}

	boom := errors.New("kafka down")
	b := &mockEventEmitter{emitErr: boom}
	err := Fanout(a, b).Emit(context.Background(), &domain.Event{EventType: "x"})
	if !errors.Is(err, boom) {
		t.Errorf("Fanout error = %v, want %v", err, boom)
	}
	if len(a.getEvents()) != 1 || len(b.getEvents()) != 1 {
		t.Error("every emitter should receive the event even when one fails")
	}
}
