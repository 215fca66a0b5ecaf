// Package unitofwork предоставляет учет доменных событий в пределах одной команды.
//
// Unit of Work имеет область видимости одного запроса и никогда не разделяется
// между конкурентными запросами. Он ничего не знает о хранилище: его
// единственная задача - собрать события агрегатов, измененных в текущей
// логической транзакции, для диспетчеризации после успешной записи.
package unitofwork

import (
	"github.com/akriventsev/margherita/aggregate"
	"github.com/akriventsev/margherita/events"
)

// UnitOfWork реестр агрегатов, зарегистрировавших события в текущем запросе
type UnitOfWork struct {
	aggregates []aggregate.Aggregate
	seen       map[aggregate.Aggregate]struct{}
}

// New создает новый Unit of Work для одного запроса
func New() *UnitOfWork {
	return &UnitOfWork{
		aggregates: make([]aggregate.Aggregate, 0, 1),
		seen:       make(map[aggregate.Aggregate]struct{}),
	}
}

// RegisterAggregate регистрирует агрегат в области текущего запроса.
// Повторная регистрация одного экземпляра идемпотентна.
func (u *UnitOfWork) RegisterAggregate(agg aggregate.Aggregate) {
	if agg == nil {
		return
	}
	if _, ok := u.seen[agg]; ok {
		return
	}
	u.seen[agg] = struct{}{}
	u.aggregates = append(u.aggregates, agg)
}

// DomainEvents возвращает упорядоченный плоский список ожидающих событий
// всех зарегистрированных агрегатов в порядке регистрации
func (u *UnitOfWork) DomainEvents() []events.Event {
	var all []events.Event
	for _, agg := range u.aggregates {
		all = append(all, agg.DomainEvents()...)
	}
	return all
}

// Clear очищает область запроса: ожидающие события всех агрегатов
// сбрасываются, чтобы повтор команды не привел к повторной доставке.
// Вызывается после диспетчеризации независимо от ее исхода.
func (u *UnitOfWork) Clear() {
	for _, agg := range u.aggregates {
		agg.ClearPendingEvents()
	}
	u.aggregates = u.aggregates[:0]
	u.seen = make(map[aggregate.Aggregate]struct{})
}

// AggregateCount возвращает количество зарегистрированных агрегатов
func (u *UnitOfWork) AggregateCount() int {
	return len(u.aggregates)
}
