// Package events предоставляет реализации EventPublisher.
package events

import (
	"context"
	"log"
	"sync"
)

// Logger минимальный интерфейс логирования
type Logger interface {
	Log(format string, args ...interface{})
}

type defaultLogger struct{}

func (l *defaultLogger) Log(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// InMemoryEventPublisher публикатор событий в памяти.
// Рассылает событие всем подписчикам его типа. Ошибка одного обработчика
// изолируется: логируется и не мешает остальным обработчикам того же события
// и не откатывает уже зафиксированное изменение состояния.
type InMemoryEventPublisher struct {
	subscribers map[string][]EventHandler
	logger      Logger
	mu          sync.RWMutex
}

// NewInMemoryEventPublisher создает новый in-memory публикатор
func NewInMemoryEventPublisher() *InMemoryEventPublisher {
	return &InMemoryEventPublisher{
		subscribers: make(map[string][]EventHandler),
		logger:      &defaultLogger{},
	}
}

// WithLogger устанавливает logger для ошибок обработчиков
func (p *InMemoryEventPublisher) WithLogger(logger Logger) *InMemoryEventPublisher {
	p.logger = logger
	return p
}

// Publish публикует событие.
// Обработчики вызываются последовательно в порядке подписки. Семантика
// доставки at-least-once: события публикуются после фиксации записи,
// и сбой обработчика не влияет на исходную команду.
func (p *InMemoryEventPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	handlers := make([]EventHandler, len(p.subscribers[event.EventType()]))
	copy(handlers, p.subscribers[event.EventType()])
	p.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			p.logger.Log("event handler failed for %s (aggregate %s): %v",
				event.EventType(), event.AggregateID(), err)
		}
	}

	return nil
}

// Subscribe подписывается на тип события
func (p *InMemoryEventPublisher) Subscribe(eventType string, handler EventHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers[eventType] = append(p.subscribers[eventType], handler)
	return nil
}

// Unsubscribe отписывается от типа события
func (p *InMemoryEventPublisher) Unsubscribe(eventType string, handler EventHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	handlers := p.subscribers[eventType]
	for i, h := range handlers {
		if h == handler {
			p.subscribers[eventType] = append(handlers[:i], handlers[i+1:]...)
			return nil
		}
	}

	return nil
}

// HandlerCount возвращает количество подписчиков для типа события
func (p *InMemoryEventPublisher) HandlerCount(eventType string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.subscribers[eventType])
}
