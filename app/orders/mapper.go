package orders

import (
	"encoding/json"
	"time"

	"github.com/akriventsev/margherita/domain/order"
	"github.com/akriventsev/margherita/repository"
)

// orderRow форма хранения снимка заказа в JSONB-колонке
type orderRow struct {
	OrderID    string        `json:"order_id"`
	CustomerID string        `json:"customer_id"`
	Items      []LineItemDTO `json:"items"`
	Status     string        `json:"status"`

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

func rowPerformer(p *PerformerDTO) *order.Performer {
	if p == nil {
		return nil
	}
	return &order.Performer{ID: p.ID, Name: p.Name}
}

// OrderMapper преобразует агрегат заказа в строку JSONB-хранилища
// и обратно. Восстановление идет через Rehydrate: снимок состояния
// плюс сохраненная версия, без воспроизведения событий.
type OrderMapper struct{}

// NewOrderMapper создает mapper заказа
func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

// ToRow преобразует агрегат в строку хранилища
func (m *OrderMapper) ToRow(o *order.Order) (map[string]interface{}, error) {
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

	row := orderRow{
		OrderID:          state.OrderID,
		CustomerID:       state.CustomerID,
		Items:            items,
		Status:           string(state.Status),
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

	data, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FromRow восстанавливает агрегат из строки хранилища
func (m *OrderMapper) FromRow(id string, version int64, rawRow map[string]interface{}) (*order.Order, error) {
	data, err := json.Marshal(rawRow)
	if err != nil {
		return nil, err
	}

	var row orderRow
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}

	items := make([]order.LineItem, len(row.Items))
	for i, item := range row.Items {
		items[i] = order.LineItem{
			Name:      item.Name,
			Size:      item.Size,
			BasePrice: item.BasePrice,
			Toppings:  item.Toppings,
		}
	}

	state := order.NewState()
	state.OrderID = row.OrderID
	state.CustomerID = row.CustomerID
	state.Items = items
	state.Status = order.Status(row.Status)
	state.PlacedAt = row.PlacedAt
	state.ConfirmedAt = row.ConfirmedAt
	state.CookingStartedAt = row.CookingStartedAt
	state.Chef = rowPerformer(row.Chef)
	state.ActualReadyAt = row.ActualReadyAt
	state.ReadyBy = rowPerformer(row.ReadyBy)
	state.DeliveryPerson = rowPerformer(row.DeliveryPerson)
	state.OutForDeliveryAt = row.OutForDeliveryAt
	state.DeliveredBy = rowPerformer(row.DeliveredBy)
	state.DeliveredAt = row.DeliveredAt
	state.CancelledAt = row.CancelledAt

	return order.Rehydrate(id, state, version), nil
}

// PostgresOrderConfig возвращает конфигурацию хранения заказов
func PostgresOrderConfig(dsn string) repository.PostgresConfig {
	config := repository.DefaultPostgresConfig()
	config.DSN = dsn
	config.TableName = "orders"
	return config
}
