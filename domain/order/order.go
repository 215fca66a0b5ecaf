// Package order реализует агрегат заказа с машиной состояний
// жизненного цикла: pending → confirmed → cooking → ready →
// delivering → delivered, с отменой из любого недоставленного статуса.
//
// Состояние заказа никогда не изменяется напрямую: каждый бизнес-метод
// проверяет предусловие текущего статуса, регистрирует ровно одно
// событие и немедленно применяет его через обработчик состояния.
package order

import (
	"fmt"

	"github.com/akriventsev/margherita/aggregate"
	"github.com/akriventsev/margherita/core"
	"github.com/akriventsev/margherita/events"
)

// Order агрегат заказа
type Order struct {
	*aggregate.Root
	state *State
}

// New создает новый пустой агрегат заказа. Заказ начинает жизненный
// цикл только после вызова Place.
func New(id string) *Order {
	state := NewState()
	return &Order{
		Root:  aggregate.NewRootWithApplier(id, state),
		state: state,
	}
}

// LoadFromHistory восстанавливает заказ воспроизведением его событий
// против свежего состояния
func LoadFromHistory(id string, history []events.Event) (*Order, error) {
	o := New(id)
	if err := o.Replay(history); err != nil {
		return nil, core.Wrap(err, core.ErrorKindInternal,
			fmt.Sprintf("failed to replay order %s", id))
	}
	return o, nil
}

// Rehydrate восстанавливает заказ из сохраненного снимка состояния.
// Используется инфраструктурой хранения, а не бизнес-кодом.
func Rehydrate(id string, state *State, version int64) *Order {
	o := &Order{
		Root:  aggregate.NewRootWithApplier(id, state),
		state: state,
	}
	o.SetVersion(version)
	return o
}

// Clone возвращает независимый снимок заказа: состояние копируется
// глубоко, версия сохраняется, незавершенных событий у снимка нет.
// Хранилища используют Clone, чтобы вызывающие стороны не разделяли
// память с сохраненным экземпляром.
func (o *Order) Clone() *Order {
	return Rehydrate(o.ID(), o.state.Clone(), o.Version())
}

// State возвращает текущее состояние заказа
func (o *Order) State() *State {
	return o.state
}

// Status возвращает текущий статус заказа
func (o *Order) Status() Status {
	return o.state.Status
}

// Total возвращает текущую сумму заказа
func (o *Order) Total() int64 {
	return o.state.Total()
}

// Place размещает заказ. Допустим только для еще не начатого заказа
// и требует хотя бы одну позицию.
func (o *Order) Place(customerID string, items []LineItem) error {
	if o.state.Status != "" {
		return core.NewBusinessRuleError("order has already been placed")
	}
	if customerID == "" {
		return core.NewValidationError("customer id is required")
	}
	if len(items) == 0 {
		return core.NewValidationError("order must contain at least one line item")
	}
	return o.Raise(NewOrderPlacedEvent(o.ID(), customerID, items))
}

// Confirm подтверждает размещенный заказ
func (o *Order) Confirm() error {
	if o.state.Status != StatusPending {
		return core.NewBusinessRuleError("only pending orders can be confirmed")
	}
	return o.Raise(NewOrderConfirmedEvent(o.ID()))
}

// StartCooking переводит подтвержденный заказ в приготовление
func (o *Order) StartCooking(chef Performer) error {
	if o.state.Status != StatusConfirmed {
		return core.NewBusinessRuleError("only confirmed orders can be cooked")
	}
	if chef.ID == "" {
		return core.NewValidationError("chef id is required")
	}
	return o.Raise(NewCookingStartedEvent(o.ID(), chef))
}

// MarkReady отмечает готовящийся заказ готовым к выдаче
func (o *Order) MarkReady(readyBy Performer) error {
	if o.state.Status != StatusCooking {
		return core.NewBusinessRuleError("only cooking orders can be marked ready")
	}
	if readyBy.ID == "" {
		return core.NewValidationError("performer id is required")
	}
	return o.Raise(NewOrderReadyEvent(o.ID(), readyBy))
}

// AssignToDelivery назначает курьера готовому заказу
func (o *Order) AssignToDelivery(deliveryPerson Performer) error {
	if o.state.Status != StatusReady {
		return core.NewBusinessRuleError("only ready orders can be assigned to delivery")
	}
	if deliveryPerson.ID == "" {
		return core.NewValidationError("delivery person id is required")
	}
	return o.Raise(NewOrderAssignedToDeliveryEvent(o.ID(), deliveryPerson))
}

// Deliver завершает доставку заказа. Фактический исполнитель
// записывается как есть: ему не обязательно совпадать с назначенным
// курьером.
func (o *Order) Deliver(deliveredBy Performer) error {
	if o.state.Status != StatusDelivering {
		return core.NewBusinessRuleError("only delivering orders can be delivered")
	}
	if deliveredBy.ID == "" {
		return core.NewValidationError("performer id is required")
	}
	return o.Raise(NewOrderDeliveredEvent(o.ID(), deliveredBy))
}

// Cancel отменяет заказ. Допустимо из любого статуса до доставки.
func (o *Order) Cancel() error {
	if o.state.Status == "" {
		return core.NewBusinessRuleError("order has not been placed")
	}
	if o.state.Status.IsFinal() {
		return core.NewBusinessRuleError(
			fmt.Sprintf("cannot cancel an order in status %s", o.state.Status))
	}
	return o.Raise(NewOrderCancelledEvent(o.ID()))
}
