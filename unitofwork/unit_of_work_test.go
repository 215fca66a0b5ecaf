package unitofwork

import (
	"testing"

	"github.com/akriventsev/margherita/aggregate"
	"github.com/akriventsev/margherita/events"
)

// counterAggregate минимальный агрегат для тестов
type counterAggregate struct {
	*aggregate.Root
	total int
}

func newCounterAggregate(id string) *counterAggregate {
	agg := &counterAggregate{Root: aggregate.NewRoot(id)}
	agg.SetApplier(agg)
	return agg
}

func (a *counterAggregate) Apply(event events.Event) error {
	switch e := event.(type) {
	case *incrementedEvent:
		a.total += e.By
	default:
		return events.ErrUnhandledEvent(event)
	}
	return nil
}

type incrementedEvent struct {
	*events.BaseEvent
	By int
}

func increment(a *counterAggregate, by int) {
	_ = a.Raise(&incrementedEvent{
		BaseEvent: events.NewBaseEvent("counter.incremented", a.ID()),
		By:        by,
	})
}

func TestUnitOfWork_RegisterAggregate_Idempotent(t *testing.T) {
	uow := New()
	agg := newCounterAggregate("c-1")

	uow.RegisterAggregate(agg)
	uow.RegisterAggregate(agg)
	uow.RegisterAggregate(agg)

	if uow.AggregateCount() != 1 {
		t.Errorf("Expected 1 registered aggregate, got %d", uow.AggregateCount())
	}
}

func TestUnitOfWork_DomainEvents_Ordered(t *testing.T) {
	uow := New()
	first := newCounterAggregate("c-1")
	second := newCounterAggregate("c-2")

	increment(first, 1)
	increment(first, 2)
	uow.RegisterAggregate(first)

	increment(second, 3)
	uow.RegisterAggregate(second)

	all := uow.DomainEvents()
	if len(all) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(all))
	}

	// События идут в порядке регистрации агрегатов
	if all[0].AggregateID() != "c-1" || all[1].AggregateID() != "c-1" {
		t.Error("Expected first aggregate's events first")
	}
	if all[2].AggregateID() != "c-2" {
		t.Error("Expected second aggregate's events last")
	}
}

func TestUnitOfWork_Clear(t *testing.T) {
	uow := New()
	agg := newCounterAggregate("c-1")
	increment(agg, 1)
	uow.RegisterAggregate(agg)

	uow.Clear()

	if uow.AggregateCount() != 0 {
		t.Errorf("Expected no aggregates after clear, got %d", uow.AggregateCount())
	}
	if len(uow.DomainEvents()) != 0 {
		t.Errorf("Expected no events after clear, got %d", len(uow.DomainEvents()))
	}

	// Ожидающие события агрегата тоже сброшены: повтор не продублирует доставку
	if len(agg.DomainEvents()) != 0 {
		t.Error("Expected aggregate pending events to be cleared")
	}
}

func TestUnitOfWork_FreshScopePerRequest(t *testing.T) {
	first := New()
	second := New()

	agg := newCounterAggregate("c-1")
	increment(agg, 1)
	first.RegisterAggregate(agg)

	if second.AggregateCount() != 0 {
		t.Error("Expected independent scopes")
	}
}
