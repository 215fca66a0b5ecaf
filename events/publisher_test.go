package events

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type recordingHandler struct {
	eventType string
	mu        sync.Mutex
	handled   []Event
	fail      bool
}

func (h *recordingHandler) Handle(ctx context.Context, event Event) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.fail {
		return errors.New("handler failure")
	}
	return nil
}

func (h *recordingHandler) EventType() string {
	return h.eventType
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

type silentLogger struct {
	mu    sync.Mutex
	lines int
}

func (l *silentLogger) Log(format string, args ...interface{}) {
	l.mu.Lock()
	l.lines++
	l.mu.Unlock()
}

func TestInMemoryEventPublisher_Publish(t *testing.T) {
	publisher := NewInMemoryEventPublisher()
	handler := &recordingHandler{eventType: "order.placed"}

	if err := publisher.Subscribe("order.placed", handler); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	event := NewBaseEvent("order.placed", "order-1")
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if handler.count() != 1 {
		t.Errorf("Expected 1 handled event, got %d", handler.count())
	}
}

func TestInMemoryEventPublisher_NoSubscribers(t *testing.T) {
	publisher := NewInMemoryEventPublisher()

	event := NewBaseEvent("order.placed", "order-1")
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Errorf("Expected no error without subscribers, got %v", err)
	}
}

func TestInMemoryEventPublisher_HandlerFailureIsolated(t *testing.T) {
	logger := &silentLogger{}
	publisher := NewInMemoryEventPublisher().WithLogger(logger)

	failing := &recordingHandler{eventType: "order.placed", fail: true}
	next := &recordingHandler{eventType: "order.placed"}

	if err := publisher.Subscribe("order.placed", failing); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	if err := publisher.Subscribe("order.placed", next); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	event := NewBaseEvent("order.placed", "order-1")
	err := publisher.Publish(context.Background(), event)

	// Сбой одного обработчика не эскалируется и не мешает остальным
	if err != nil {
		t.Errorf("Expected no error despite handler failure, got %v", err)
	}
	if next.count() != 1 {
		t.Errorf("Expected second handler to run, handled %d", next.count())
	}
	if logger.lines != 1 {
		t.Errorf("Expected 1 logged failure, got %d", logger.lines)
	}
}

func TestInMemoryEventPublisher_Unsubscribe(t *testing.T) {
	publisher := NewInMemoryEventPublisher()
	handler := &recordingHandler{eventType: "order.placed"}

	if err := publisher.Subscribe("order.placed", handler); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	if err := publisher.Unsubscribe("order.placed", handler); err != nil {
		t.Fatalf("Failed to unsubscribe: %v", err)
	}

	event := NewBaseEvent("order.placed", "order-1")
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if handler.count() != 0 {
		t.Errorf("Expected no handled events after unsubscribe, got %d", handler.count())
	}
}

func TestInMemoryEventPublisher_OrderPreserved(t *testing.T) {
	publisher := NewInMemoryEventPublisher()

	var order []string
	var mu sync.Mutex
	first := &EventHandlerFunc{Type: "order.placed", Fn: func(ctx context.Context, e Event) error {
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
		return nil
	}}
	second := &EventHandlerFunc{Type: "order.placed", Fn: func(ctx context.Context, e Event) error {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
		return nil
	}}

	_ = publisher.Subscribe("order.placed", first)
	_ = publisher.Subscribe("order.placed", second)

	event := NewBaseEvent("order.placed", "order-1")
	if err := publisher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("Expected handlers in subscription order, got %v", order)
	}
}

func TestBaseEvent_StampVersion(t *testing.T) {
	event := NewBaseEvent("order.placed", "order-1")
	if event.AggregateVersion() != 0 {
		t.Errorf("Expected version 0 before stamping, got %d", event.AggregateVersion())
	}

	event.StampVersion(3)
	if event.AggregateVersion() != 3 {
		t.Errorf("Expected version 3, got %d", event.AggregateVersion())
	}
}

func TestBaseEvent_Metadata(t *testing.T) {
	event := NewBaseEvent("order.placed", "order-1").
		WithCorrelationID("corr-1").
		WithUserID("user-1")

	if event.Metadata().CorrelationID() != "corr-1" {
		t.Errorf("Expected corr-1, got %s", event.Metadata().CorrelationID())
	}
	if event.Metadata().UserID() != "user-1" {
		t.Errorf("Expected user-1, got %s", event.Metadata().UserID())
	}
	if event.EventID() == "" {
		t.Error("Expected generated event ID")
	}
}
