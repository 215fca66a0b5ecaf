package order

import (
	"time"

	"github.com/akriventsev/margherita/events"
)

// Status статус заказа в жизненном цикле
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusCooking    Status = "cooking"
	StatusReady      Status = "ready"
	StatusDelivering Status = "delivering"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// IsFinal сообщает, является ли статус терминальным
func (s Status) IsFinal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// LineItem позиция заказа. Количества нет: повторная пицца - это
// повторная позиция.
type LineItem struct {
	Name      string
	Size      string
	BasePrice int64
	Toppings  []string
}

// Performer участник операции. Атрибуция всегда передается вызывающей
// стороной вместе с командой, а не выводится из назначения.
type Performer struct {
	ID   string
	Name string
}

// State проекция состояния заказа. Поля изменяются исключительно
// обработчиками событий в Apply: прямая мутация извне запрещена.
type State struct {
	OrderID    string
	CustomerID string
	Items      []LineItem
	Status     Status

	PlacedAt         time.Time
	ConfirmedAt      *time.Time
	CookingStartedAt *time.Time
	Chef             *Performer
	ActualReadyAt    *time.Time
	ReadyBy          *Performer
	DeliveryPerson   *Performer
	OutForDeliveryAt *time.Time
	DeliveredBy      *Performer
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
}

// NewState создает пустое состояние заказа
func NewState() *State {
	return &State{}
}

// Clone возвращает глубокую копию состояния
func (s *State) Clone() *State {
	clone := *s

	clone.Items = make([]LineItem, len(s.Items))
	copy(clone.Items, s.Items)
	for i, item := range s.Items {
		toppings := make([]string, len(item.Toppings))
		copy(toppings, item.Toppings)
		clone.Items[i].Toppings = toppings
	}

	clone.ConfirmedAt = cloneTime(s.ConfirmedAt)
	clone.CookingStartedAt = cloneTime(s.CookingStartedAt)
	clone.Chef = clonePerformer(s.Chef)
	clone.ActualReadyAt = cloneTime(s.ActualReadyAt)
	clone.ReadyBy = clonePerformer(s.ReadyBy)
	clone.DeliveryPerson = clonePerformer(s.DeliveryPerson)
	clone.OutForDeliveryAt = cloneTime(s.OutForDeliveryAt)
	clone.DeliveredBy = clonePerformer(s.DeliveredBy)
	clone.DeliveredAt = cloneTime(s.DeliveredAt)
	clone.CancelledAt = cloneTime(s.CancelledAt)

	return &clone
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func clonePerformer(p *Performer) *Performer {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Total возвращает сумму заказа. Сумма всегда вычисляется по текущим
// позициям и никогда не хранится отдельным полем.
func (s *State) Total() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.BasePrice
	}
	return total
}

// Apply маршрутизирует событие к обработчику его типа. Событие без
// обработчика - ошибка программирования, а не молчаливый пропуск.
func (s *State) Apply(event events.Event) error {
	switch e := event.(type) {
	case *OrderPlacedEvent:
		s.applyPlaced(e)
	case *OrderConfirmedEvent:
		s.applyConfirmed(e)
	case *CookingStartedEvent:
		s.applyCookingStarted(e)
	case *OrderReadyEvent:
		s.applyReady(e)
	case *OrderAssignedToDeliveryEvent:
		s.applyAssignedToDelivery(e)
	case *OrderDeliveredEvent:
		s.applyDelivered(e)
	case *OrderCancelledEvent:
		s.applyCancelled(e)
	default:
		return events.ErrUnhandledEvent(event)
	}
	return nil
}

func (s *State) applyPlaced(e *OrderPlacedEvent) {
	s.OrderID = e.AggregateID()
	s.CustomerID = e.CustomerID
	s.Items = make([]LineItem, len(e.Items))
	copy(s.Items, e.Items)
	s.PlacedAt = e.PlacedAt
	s.Status = StatusPending
}

func (s *State) applyConfirmed(e *OrderConfirmedEvent) {
	t := e.ConfirmedAt
	s.ConfirmedAt = &t
	s.Status = StatusConfirmed
}

func (s *State) applyCookingStarted(e *CookingStartedEvent) {
	t := e.StartedAt
	chef := e.Chef
	s.CookingStartedAt = &t
	s.Chef = &chef
	s.Status = StatusCooking
}

func (s *State) applyReady(e *OrderReadyEvent) {
	t := e.ReadyAt
	readyBy := e.ReadyBy
	s.ActualReadyAt = &t
	s.ReadyBy = &readyBy
	s.Status = StatusReady
}

func (s *State) applyAssignedToDelivery(e *OrderAssignedToDeliveryEvent) {
	t := e.OutForDeliveryAt
	person := e.DeliveryPerson
	s.OutForDeliveryAt = &t
	s.DeliveryPerson = &person
	s.Status = StatusDelivering
}

func (s *State) applyDelivered(e *OrderDeliveredEvent) {
	t := e.DeliveredAt
	deliveredBy := e.DeliveredBy
	s.DeliveredAt = &t
	s.DeliveredBy = &deliveredBy
	s.Status = StatusDelivered
}

func (s *State) applyCancelled(e *OrderCancelledEvent) {
	t := e.CancelledAt
	s.CancelledAt = &t
	s.Status = StatusCancelled
}
