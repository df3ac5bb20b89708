package producer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"

	"rbac-auth/backend/internal/telemetry/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNewKafkaProducer_DisabledWithoutConfig(t *testing.T) {
	if NewKafkaProducer(nil, "topic") != nil {
		t.Error("no brokers should disable the producer")
	}
	if NewKafkaProducer([]string{"localhost:9092"}, "") != nil {
		t.Error("no topic should disable the producer")
	}
	var p *KafkaProducer
	if err := p.Emit(context.Background(), &domain.Event{}); err != nil {
		t.Errorf("nil producer Emit: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("nil producer Close: %v", err)
	}
}

func TestKafkaProducer_Emit(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, topic: "events"}

	err := p.Emit(context.Background(), &domain.Event{UserID: "u1", EventType: domain.EventSignIn, Source: "auth-service"})
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "u1" {
		t.Errorf("key = %q, want u1", msg.Key)
	}
	var got domain.Event
	if err := json.Unmarshal(msg.Value, &got); err != nil || got.EventType != domain.EventSignIn {
		t.Errorf("payload = %s (%v)", msg.Value, err)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != domain.EventSignIn {
		t.Errorf("headers = %+v", msg.Headers)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Errorf("Close: %v, closed=%v", err, w.closed)
	}
}

func TestKafkaProducer_EmitError(t *testing.T) {
	boom := errors.New("broker unavailable")
	p := &KafkaProducer{writer: &fakeWriter{err: boom}, topic: "events"}
	if err := p.Emit(context.Background(), &domain.Event{EventType: "x"}); !errors.Is(err, boom) {
		t.Fatalf("want %v, got %v", boom, err)
	}
}
