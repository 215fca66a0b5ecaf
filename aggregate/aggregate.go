// Package aggregate предоставляет базовый тип для Event Sourced агрегатов.
//
// Бизнес-методы агрегата никогда не мутируют состояние напрямую: каждый метод
// регистрирует доменное событие и сразу применяет его через типизированный
// обработчик состояния. Повторное применение записанных событий к чистому
// состоянию восстанавливает идентичное состояние.
package aggregate

import (
	"fmt"

	"github.com/akriventsev/margherita/events"
)

// Applier интерфейс для состояний, которые могут применять события.
// Каждый тип события маршрутизируется ровно в один обработчик;
// событие без обработчика является ошибкой программирования.
type Applier interface {
	// Apply применяет конкретное событие к состоянию агрегата
	Apply(event events.Event) error
}

// Root базовый тип для Event Sourced агрегатов
type Root struct {
	id      string
	version int64
	pending []events.Event
	applier Applier
}

// NewRoot создает новый агрегат
func NewRoot(id string) *Root {
	return &Root{
		id:      id,
		version: 0,
		pending: make([]events.Event, 0),
	}
}

// NewRootWithApplier создает новый агрегат с Applier
func NewRootWithApplier(id string, applier Applier) *Root {
	r := NewRoot(id)
	r.applier = applier
	return r
}

// SetApplier устанавливает Applier для агрегата
func (r *Root) SetApplier(applier Applier) {
	r.applier = applier
}

// ID возвращает идентификатор агрегата
func (r *Root) ID() string {
	return r.id
}

// Version возвращает текущую версию агрегата:
// количество событий, зарегистрированных за время его жизни
func (r *Root) Version() int64 {
	return r.version
}

// RegisterEvent добавляет событие в список ожидающих диспетчеризации,
// присваивает ему версию агрегата и возвращает его неизменным.
// Версия равна количеству событий агрегата после добавления.
func (r *Root) RegisterEvent(event events.Event) events.Event {
	r.version++
	if stamper, ok := event.(events.VersionStamper); ok {
		stamper.StampVersion(r.version)
	}
	r.pending = append(r.pending, event)
	return event
}

// Apply применяет событие к состоянию агрегата через типизированный обработчик
func (r *Root) Apply(event events.Event) error {
	if r.applier == nil {
		return fmt.Errorf("applier not set for aggregate %s", r.id)
	}
	return r.applier.Apply(event)
}

// Raise регистрирует событие и сразу применяет его.
// Бизнес-методы всегда используют этот путь, чтобы событие было
// (а) захвачено для последующей диспетчеризации и
// (б) единственным источником истины для изменения состояния.
func (r *Root) Raise(event events.Event) error {
	return r.Apply(r.RegisterEvent(event))
}

// DomainEvents возвращает снимок ожидающих событий для сбора Unit of Work
func (r *Root) DomainEvents() []events.Event {
	snapshot := make([]events.Event, len(r.pending))
	copy(snapshot, r.pending)
	return snapshot
}

// ClearPendingEvents очищает список ожидающих событий
// после их надежной диспетчеризации
func (r *Root) ClearPendingEvents() {
	r.pending = r.pending[:0]
}

// Replay восстанавливает состояние агрегата из истории событий.
// События применяются последовательно, версия увеличивается на единицу
// за каждое примененное событие.
func (r *Root) Replay(history []events.Event) error {
	for i, event := range history {
		if err := r.Apply(event); err != nil {
			return fmt.Errorf("failed to apply event at index %d: %w", i, err)
		}
		r.version++
	}
	return nil
}

// SetVersion устанавливает версию агрегата (используется при загрузке)
func (r *Root) SetVersion(version int64) {
	r.version = version
}

// Aggregate интерфейс, которому удовлетворяют все Event Sourced агрегаты
type Aggregate interface {
	ID() string
	Version() int64
	DomainEvents() []events.Event
	ClearPendingEvents()
	Apply(event events.Event) error
}
