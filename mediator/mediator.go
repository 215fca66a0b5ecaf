// Package mediator предоставляет реализацию медиатора CQRS.
package mediator

import (
	"context"
	"fmt"

	"github.com/akriventsev/margherita/core"
	"github.com/akriventsev/margherita/events"
	"github.com/akriventsev/margherita/unitofwork"
)

// Mediator разрешает обработчик для запроса и вызывает его через
// упорядоченную цепочку pipeline behaviors.
//
// Каждый входящий запрос выполняется как независимая логическая единица:
// медиатор привязывает к нему свежий Unit of Work и не разделяет
// изменяемое состояние между конкурентными запросами. Повторный вход
// (обработчик события вызывает медиатор) порождает новый независимый
// проход по цепочке и не приводит к взаимной блокировке.
type Mediator struct {
	registry  *Registry
	behaviors []Behavior
	publisher events.EventPublisher
}

// Option опция конфигурации медиатора
type Option func(*Mediator)

// WithBehaviors устанавливает цепочку behaviors.
// Порядок регистрации сохраняется: первый зарегистрированный - внешний.
func WithBehaviors(behaviors ...Behavior) Option {
	return func(m *Mediator) {
		m.behaviors = behaviors
	}
}

// WithPublisher устанавливает публикатор доменных событий
func WithPublisher(publisher events.EventPublisher) Option {
	return func(m *Mediator) {
		m.publisher = publisher
	}
}

// New создает новый медиатор
func New(registry *Registry, opts ...Option) *Mediator {
	m := &Mediator{
		registry:  registry,
		behaviors: make([]Behavior, 0),
		publisher: events.NewInMemoryEventPublisher(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute выполняет команду через цепочку behaviors.
// Ровно один обработчик должен быть зарегистрирован для типа команды.
func (m *Mediator) Execute(ctx context.Context, cmd Command) Result {
	handler, exists := m.registry.GetCommandHandler(cmd.CommandName())
	if !exists {
		return core.Err[any](core.NewInternalError(
			fmt.Sprintf("no handler registered for command: %s", cmd.CommandName())))
	}

	uow := unitofwork.New()
	ctx = unitofwork.NewContext(ctx, uow)

	info := RequestInfo{
		Kind:       RequestKindCommand,
		Name:       cmd.CommandName(),
		Request:    cmd,
		UnitOfWork: uow,
	}

	return m.invoke(ctx, info, func(ctx context.Context) Result {
		return handler.Handle(ctx, cmd)
	})
}

// Query выполняет запрос на чтение через цепочку behaviors
func (m *Mediator) Query(ctx context.Context, q Query) Result {
	handler, exists := m.registry.GetQueryHandler(q.QueryName())
	if !exists {
		return core.Err[any](core.NewInternalError(
			fmt.Sprintf("no handler registered for query: %s", q.QueryName())))
	}

	uow := unitofwork.New()
	ctx = unitofwork.NewContext(ctx, uow)

	info := RequestInfo{
		Kind:       RequestKindQuery,
		Name:       q.QueryName(),
		Request:    q,
		UnitOfWork: uow,
	}

	return m.invoke(ctx, info, func(ctx context.Context) Result {
		return handler.Handle(ctx, q)
	})
}

// Publish рассылает событие зарегистрированным обработчикам его типа.
// Сбои обработчиков изолируются публикатором и не эскалируются.
func (m *Mediator) Publish(ctx context.Context, event events.Event) error {
	return m.publisher.Publish(ctx, event)
}

// Publisher возвращает публикатор доменных событий медиатора
func (m *Mediator) Publisher() events.EventPublisher {
	return m.publisher
}

// Subscribe подписывает обработчик на тип доменного события.
// Отображение тип события -> обработчики разрешается в момент публикации:
// на один тип может быть подписано ноль и более обработчиков.
func (m *Mediator) Subscribe(eventType string, handler events.EventHandler) error {
	sub, ok := m.publisher.(events.EventSubscriber)
	if !ok {
		return fmt.Errorf("publisher does not support subscriptions")
	}
	return sub.Subscribe(eventType, handler)
}

// invoke композирует цепочку behaviors вокруг вызова обработчика.
// Цепочка собирается справа налево: первый behavior оказывается внешним.
func (m *Mediator) invoke(ctx context.Context, info RequestInfo, handle Next) Result {
	next := handle
	for i := len(m.behaviors) - 1; i >= 0; i-- {
		behavior := m.behaviors[i]
		prevNext := next
		next = func(ctx context.Context) Result {
			return behavior.Handle(ctx, info, prevNext)
		}
	}
	return next(ctx)
}
