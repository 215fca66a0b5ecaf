package mediator

import (
	"context"

	"github.com/akriventsev/margherita/events"
	"github.com/akriventsev/margherita/metrics"
)

// DomainEventDispatchBehavior публикует доменные события, накопленные
// в unit of work, после успешного завершения обработчика. При неуспешном
// Result события отбрасываются: наружу не уходит ни одно событие
// отмененной операции. Unit of work очищается на обоих путях, включая
// панику обработчика, чтобы повтор запроса не доставил события дважды.
type DomainEventDispatchBehavior struct {
	publisher events.EventPublisher
	metrics   *metrics.Metrics
}

// NewDomainEventDispatchBehavior создает behavior публикации доменных событий
func NewDomainEventDispatchBehavior(publisher events.EventPublisher) *DomainEventDispatchBehavior {
	return &DomainEventDispatchBehavior{publisher: publisher}
}

// WithMetrics подключает учет опубликованных событий
func (b *DomainEventDispatchBehavior) WithMetrics(m *metrics.Metrics) *DomainEventDispatchBehavior {
	b.metrics = m
	return b
}

// Handle реализует интерфейс Behavior
func (b *DomainEventDispatchBehavior) Handle(ctx context.Context, req RequestInfo, next Next) Result {
	uow := req.UnitOfWork
	if uow == nil {
		return next(ctx)
	}
	// Очистка регистрируется до вызова продолжения: область запроса
	// сбрасывается и при ошибке, и при панике обработчика, иначе
	// зависшие события уехали бы со следующей успешной командой.
	defer uow.Clear()

	result := next(ctx)

	if result.IsErr() {
		return result
	}

	for _, event := range uow.DomainEvents() {
		// Публикация изолирует сбои отдельных обработчиков,
		// поэтому ошибки здесь не влияют на Result операции.
		_ = b.publisher.Publish(ctx, event)
		if b.metrics != nil {
			b.metrics.RecordEvent(ctx, event.EventType())
		}
	}

	return result
}
