package order

import (
	"time"

	"github.com/akriventsev/margherita/events"
)

// Типы доменных событий заказа
const (
	EventTypeOrderPlaced             = "order.placed"
	EventTypeOrderConfirmed          = "order.confirmed"
	EventTypeCookingStarted          = "order.cooking_started"
	EventTypeOrderReady              = "order.ready"
	EventTypeOrderAssignedToDelivery = "order.assigned_to_delivery"
	EventTypeOrderDelivered          = "order.delivered"
	EventTypeOrderCancelled          = "order.cancelled"
)

// OrderPlacedEvent заказ размещен покупателем
type OrderPlacedEvent struct {
	*events.BaseEvent
	CustomerID string
	Items      []LineItem
	PlacedAt   time.Time
}

// NewOrderPlacedEvent создает событие размещения заказа
func NewOrderPlacedEvent(orderID, customerID string, items []LineItem) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseEvent:  events.NewBaseEvent(EventTypeOrderPlaced, orderID),
		CustomerID: customerID,
		Items:      items,
		PlacedAt:   time.Now(),
	}
}

// OrderConfirmedEvent заказ подтвержден
type OrderConfirmedEvent struct {
	*events.BaseEvent
	ConfirmedAt time.Time
}

// NewOrderConfirmedEvent создает событие подтверждения заказа
func NewOrderConfirmedEvent(orderID string) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseEvent:   events.NewBaseEvent(EventTypeOrderConfirmed, orderID),
		ConfirmedAt: time.Now(),
	}
}

// CookingStartedEvent кухня приступила к приготовлению
type CookingStartedEvent struct {
	*events.BaseEvent
	Chef      Performer
	StartedAt time.Time
}

// NewCookingStartedEvent создает событие начала приготовления
func NewCookingStartedEvent(orderID string, chef Performer) *CookingStartedEvent {
	return &CookingStartedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeCookingStarted, orderID),
		Chef:      chef,
		StartedAt: time.Now(),
	}
}

// OrderReadyEvent заказ готов к выдаче
type OrderReadyEvent struct {
	*events.BaseEvent
	ReadyBy Performer
	ReadyAt time.Time
}

// NewOrderReadyEvent создает событие готовности заказа
func NewOrderReadyEvent(orderID string, readyBy Performer) *OrderReadyEvent {
	return &OrderReadyEvent{
		BaseEvent: events.NewBaseEvent(EventTypeOrderReady, orderID),
		ReadyBy:   readyBy,
		ReadyAt:   time.Now(),
	}
}

// OrderAssignedToDeliveryEvent заказ передан курьеру
type OrderAssignedToDeliveryEvent struct {
	*events.BaseEvent
	DeliveryPerson   Performer
	OutForDeliveryAt time.Time
}

// NewOrderAssignedToDeliveryEvent создает событие назначения доставки
func NewOrderAssignedToDeliveryEvent(orderID string, deliveryPerson Performer) *OrderAssignedToDeliveryEvent {
	return &OrderAssignedToDeliveryEvent{
		BaseEvent:        events.NewBaseEvent(EventTypeOrderAssignedToDelivery, orderID),
		DeliveryPerson:   deliveryPerson,
		OutForDeliveryAt: time.Now(),
	}
}

// OrderDeliveredEvent заказ доставлен.
// DeliveredBy фиксирует фактического исполнителя, который может
// отличаться от назначенного курьера.
type OrderDeliveredEvent struct {
	*events.BaseEvent
	DeliveredBy Performer
	DeliveredAt time.Time
}

// NewOrderDeliveredEvent создает событие доставки заказа
func NewOrderDeliveredEvent(orderID string, deliveredBy Performer) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseEvent:   events.NewBaseEvent(EventTypeOrderDelivered, orderID),
		DeliveredBy: deliveredBy,
		DeliveredAt: time.Now(),
	}
}

// OrderCancelledEvent заказ отменен
type OrderCancelledEvent struct {
	*events.BaseEvent
	CancelledAt time.Time
}

// NewOrderCancelledEvent создает событие отмены заказа
func NewOrderCancelledEvent(orderID string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseEvent:   events.NewBaseEvent(EventTypeOrderCancelled, orderID),
		CancelledAt: time.Now(),
	}
}
