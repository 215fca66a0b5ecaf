// Package orders связывает агрегат заказа с медиатором: команды
// жизненного цикла, запрос чтения и их обработчики поверх репозитория.
package orders

import "github.com/akriventsev/margherita/domain/order"

// Имена команд и запросов
const (
	CommandPlaceOrder            = "orders.place"
	CommandConfirmOrder          = "orders.confirm"
	CommandStartCooking          = "orders.start_cooking"
	CommandMarkOrderReady        = "orders.mark_ready"
	CommandAssignOrderToDelivery = "orders.assign_to_delivery"
	CommandDeliverOrder          = "orders.deliver"
	CommandCancelOrder           = "orders.cancel"
	QueryGetOrder                = "orders.get"
)

// PlaceOrderCommand команда размещения заказа.
// OrderID может быть пустым: обработчик сгенерирует идентификатор.
type PlaceOrderCommand struct {
	OrderID    string
	CustomerID string
	Items      []order.LineItem
}

func (c PlaceOrderCommand) CommandName() string { return CommandPlaceOrder }

// ConfirmOrderCommand команда подтверждения заказа
type ConfirmOrderCommand struct {
	OrderID string
}

func (c ConfirmOrderCommand) CommandName() string { return CommandConfirmOrder }

// StartCookingCommand команда начала приготовления.
// Исполнитель передается явно вместе с командой.
type StartCookingCommand struct {
	OrderID string
	Chef    order.Performer
}

func (c StartCookingCommand) CommandName() string { return CommandStartCooking }

// MarkOrderReadyCommand команда готовности заказа
type MarkOrderReadyCommand struct {
	OrderID string
	ReadyBy order.Performer
}

func (c MarkOrderReadyCommand) CommandName() string { return CommandMarkOrderReady }

// AssignOrderToDeliveryCommand команда назначения курьера
type AssignOrderToDeliveryCommand struct {
	OrderID        string
	DeliveryPerson order.Performer
}

func (c AssignOrderToDeliveryCommand) CommandName() string { return CommandAssignOrderToDelivery }

// DeliverOrderCommand команда завершения доставки.
// DeliveredBy - фактический исполнитель, который может отличаться
// от назначенного курьера.
type DeliverOrderCommand struct {
	OrderID     string
	DeliveredBy order.Performer
}

func (c DeliverOrderCommand) CommandName() string { return CommandDeliverOrder }

// CancelOrderCommand команда отмены заказа
type CancelOrderCommand struct {
	OrderID string
}

func (c CancelOrderCommand) CommandName() string { return CommandCancelOrder }

// GetOrderQuery запрос чтения заказа
type GetOrderQuery struct {
	OrderID string
}

func (q GetOrderQuery) QueryName() string { return QueryGetOrder }
