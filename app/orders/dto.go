package orders

import (
	"time"

	"github.com/akriventsev/margherita/domain/order"
)

// LineItemDTO позиция заказа для чтения
type LineItemDTO struct {
	Name      string   `json:"name"`
	Size      string   `json:"size"`
	BasePrice int64    `json:"base_price"`
	Toppings  []string `json:"toppings,omitempty"`
}

// PerformerDTO участник операции для чтения
type PerformerDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderDTO проекция заказа для чтения
type OrderDTO struct {
	OrderID    string        `json:"order_id"`
	CustomerID string        `json:"customer_id"`
	Items      []LineItemDTO `json:"items"`
	Total      int64         `json:"total"`
	Status     string        `json:"status"`
	Version    int64         `json:"version"`

	PlacedAt         time.Time     `json:"placed_at"`
	ConfirmedAt      *time.Time    `json:"confirmed_at,omitempty"`
	CookingStartedAt *time.Time    `json:"cooking_started_at,omitempty"`
	Chef             *PerformerDTO `json:"chef,omitempty"`
	ActualReadyAt    *time.Time    `json:"actual_ready_at,omitempty"`
	ReadyBy          *PerformerDTO `json:"ready_by,omitempty"`
	DeliveryPerson   *PerformerDTO `json:"delivery_person,omitempty"`
	OutForDeliveryAt *time.Time    `json:"out_for_delivery_at,omitempty"`
	DeliveredBy      *PerformerDTO `json:"delivered_by,omitempty"`
	DeliveredAt      *time.Time    `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time    `json:"cancelled_at,omitempty"`
}

func performerDTO(p *order.Performer) *PerformerDTO {
	if p == nil {
		return nil
	}
	return &PerformerDTO{ID: p.ID, Name: p.Name}
}

// ToDTO преобразует агрегат заказа в проекцию для чтения
func ToDTO(o *order.Order) OrderDTO {
	state := o.State()

	items := make([]LineItemDTO, len(state.Items))
	for i, item := range state.Items {
		items[i] = LineItemDTO{
			Name:      item.Name,
			Size:      item.Size,
			BasePrice: item.BasePrice,
			Toppings:  item.Toppings,
		}
	}

	return OrderDTO{
		OrderID:          state.OrderID,
		CustomerID:       state.CustomerID,
		Items:            items,
		Total:            state.Total(),
		Status:           string(state.Status),
		Version:          o.Version(),
		PlacedAt:         state.PlacedAt,
		ConfirmedAt:      state.ConfirmedAt,
		CookingStartedAt: state.CookingStartedAt,
		Chef:             performerDTO(state.Chef),
		ActualReadyAt:    state.ActualReadyAt,
		ReadyBy:          performerDTO(state.ReadyBy),
		DeliveryPerson:   performerDTO(state.DeliveryPerson),
		OutForDeliveryAt: state.OutForDeliveryAt,
		DeliveredBy:      performerDTO(state.DeliveredBy),
		DeliveredAt:      state.DeliveredAt,
		CancelledAt:      state.CancelledAt,
	}
}
