package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/akriventsev/margherita/core"
	"github.com/akriventsev/margherita/domain/order"
	"github.com/akriventsev/margherita/mediator"
	"github.com/akriventsev/margherita/repository"
	"github.com/akriventsev/margherita/unitofwork"
)

// OrderRepository репозиторий агрегатов заказа
type OrderRepository = repository.Repository[*order.Order]

// registerForDispatch регистрирует агрегат в unit of work текущего
// запроса. Вызывается после успешного сохранения: события уходят
// наружу только после того, как изменение состояния записано.
func registerForDispatch(ctx context.Context, o *order.Order) {
	if uow, ok := unitofwork.FromContext(ctx); ok {
		uow.RegisterAggregate(o)
	}
}

// mutateOrder загружает заказ, применяет бизнес-метод, сохраняет
// и регистрирует события для публикации
func mutateOrder(ctx context.Context, repo OrderRepository, orderID string, mutate func(*order.Order) error) mediator.Result {
	if orderID == "" {
		return core.Err[any](core.NewValidationError("order id is required"))
	}

	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return core.Err[any](err)
	}

	if err := mutate(o); err != nil {
		return core.Err[any](err)
	}

	if err := repo.Update(ctx, o); err != nil {
		return core.Err[any](err)
	}

	registerForDispatch(ctx, o)
	return core.Ok[any](ToDTO(o))
}

// PlaceOrderHandler обработчик размещения заказа
type PlaceOrderHandler struct {
	repo OrderRepository
}

// NewPlaceOrderHandler создает обработчик размещения заказа
func NewPlaceOrderHandler(repo OrderRepository) *PlaceOrderHandler {
	return &PlaceOrderHandler{repo: repo}
}

func (h *PlaceOrderHandler) CommandName() string { return CommandPlaceOrder }

func (h *PlaceOrderHandler) Handle(ctx context.Context, cmd mediator.Command) mediator.Result {
	c, ok := cmd.(PlaceOrderCommand)
	if !ok {
		return core.Err[any](core.NewValidationError(
			fmt.Sprintf("unexpected command type for %s", CommandPlaceOrder)))
	}

	orderID := c.OrderID
	if orderID == "" {
		orderID = uuid.New().String()
	}

	exists, err := h.repo.Contains(ctx, orderID)
	if err != nil {
		return core.Err[any](err)
	}
	if exists {
		return core.Err[any](core.NewConflictError(
			fmt.Sprintf("order already exists: %s", orderID)))
	}

	o := order.New(orderID)
	if err := o.Place(c.CustomerID, c.Items); err != nil {
		return core.Err[any](err)
	}

	if err := h.repo.Add(ctx, o); err != nil {
		return core.Err[any](err)
	}

	registerForDispatch(ctx, o)
	return core.Ok[any](ToDTO(o))
}

// ConfirmOrderHandler обработчик подтверждения заказа
type ConfirmOrderHandler struct {
	repo OrderRepository
}

// NewConfirmOrderHandler создает обработчик подтверждения заказа
func NewConfirmOrderHandler(repo OrderRepository) *ConfirmOrderHandler {
	return &ConfirmOrderHandler{repo: repo}
}

func (h *ConfirmOrderHandler) CommandName() string { return CommandConfirmOrder }

func (h *ConfirmOrderHandler) Handle(ctx context.Context, cmd mediator.Command) mediator.Result {
	c, ok := cmd.(ConfirmOrderCommand)
	if !ok {
		return core.Err[any](core.NewValidationError(
			fmt.Sprintf("unexpected command type for %s", CommandConfirmOrder)))
	}
	return mutateOrder(ctx, h.repo, c.OrderID, func(o *order.Order) error {
		return o.Confirm()
	})
}

// StartCookingHandler обработчик начала приготовления
type StartCookingHandler struct {
	repo OrderRepository
}

// NewStartCookingHandler создает обработчик начала приготовления
func NewStartCookingHandler(repo OrderRepository) *StartCookingHandler {
	return &StartCookingHandler{repo: repo}
}

func (h *StartCookingHandler) CommandName() string { return CommandStartCooking }

func (h *StartCookingHandler) Handle(ctx context.Context, cmd mediator.Command) mediator.Result {
	c, ok := cmd.(StartCookingCommand)
	if !ok {
		return core.Err[any](core.NewValidationError(
			fmt.Sprintf("unexpected command type for %s", CommandStartCooking)))
	}
	return mutateOrder(ctx, h.repo, c.OrderID, func(o *order.Order) error {
		return o.StartCooking(c.Chef)
	})
}

// MarkOrderReadyHandler обработчик готовности заказа
type MarkOrderReadyHandler struct {
	repo OrderRepository
}

// NewMarkOrderReadyHandler создает обработчик готовности заказа
func NewMarkOrderReadyHandler(repo OrderRepository) *MarkOrderReadyHandler {
	return &MarkOrderReadyHandler{repo: repo}
}

func (h *MarkOrderReadyHandler) CommandName() string { return CommandMarkOrderReady }

func (h *MarkOrderReadyHandler) Handle(ctx context.Context, cmd mediator.Command) mediator.Result {
	c, ok := cmd.(MarkOrderReadyCommand)
	if !ok {
		return core.Err[any](core.NewValidationError(
			fmt.Sprintf("unexpected command type for %s", CommandMarkOrderReady)))
	}
	return mutateOrder(ctx, h.repo, c.OrderID, func(o *order.Order) error {
		return o.MarkReady(c.ReadyBy)
	})
}

// AssignOrderToDeliveryHandler обработчик назначения курьера
type AssignOrderToDeliveryHandler struct {
	repo OrderRepository
}

// NewAssignOrderToDeliveryHandler создает обработчик назначения курьера
func NewAssignOrderToDeliveryHandler(repo OrderRepository) *AssignOrderToDeliveryHandler {
	return &AssignOrderToDeliveryHandler{repo: repo}
}

func (h *AssignOrderToDeliveryHandler) CommandName() string { return CommandAssignOrderToDelivery }

func (h *AssignOrderToDeliveryHandler) Handle(ctx context.Context, cmd mediator.Command) mediator.Result {
	c, ok := cmd.(AssignOrderToDeliveryCommand)
	if !ok {
		return core.Err[any](core.NewValidationError(
			fmt.Sprintf("unexpected command type for %s", CommandAssignOrderToDelivery)))
	}
	return mutateOrder(ctx, h.repo, c.OrderID, func(o *order.Order) error {
		return o.AssignToDelivery(c.DeliveryPerson)
	})
}

// DeliverOrderHandler обработчик завершения доставки
type DeliverOrderHandler struct {
	repo OrderRepository
}

// NewDeliverOrderHandler создает обработчик завершения доставки
func NewDeliverOrderHandler(repo OrderRepository) *DeliverOrderHandler {
	return &DeliverOrderHandler{repo: repo}
}

func (h *DeliverOrderHandler) CommandName() string { return CommandDeliverOrder }

func (h *DeliverOrderHandler) Handle(ctx context.Context, cmd mediator.Command) mediator.Result {
	c, ok := cmd.(DeliverOrderCommand)
	if !ok {
		return core.Err[any](core.NewValidationError(
			fmt.Sprintf("unexpected command type for %s", CommandDeliverOrder)))
	}
	return mutateOrder(ctx, h.repo, c.OrderID, func(o *order.Order) error {
		return o.Deliver(c.DeliveredBy)
	})
}

// CancelOrderHandler обработчик отмены заказа
type CancelOrderHandler struct {
	repo OrderRepository
}

// NewCancelOrderHandler создает обработчик отмены заказа
func NewCancelOrderHandler(repo OrderRepository) *CancelOrderHandler {
	return &CancelOrderHandler{repo: repo}
}

func (h *CancelOrderHandler) CommandName() string { return CommandCancelOrder }

func (h *CancelOrderHandler) Handle(ctx context.Context, cmd mediator.Command) mediator.Result {
	c, ok := cmd.(CancelOrderCommand)
	if !ok {
		return core.Err[any](core.NewValidationError(
			fmt.Sprintf("unexpected command type for %s", CommandCancelOrder)))
	}
	return mutateOrder(ctx, h.repo, c.OrderID, func(o *order.Order) error {
		return o.Cancel()
	})
}

// QueryCache кеш результатов запросов чтения
type QueryCache interface {
	// Get возвращает закешированное значение по ключу
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set сохраняет значение в кеш
	Set(ctx context.Context, key string, value []byte) error
	// Invalidate удаляет значение из кеша
	Invalidate(ctx context.Context, key string) error
}

// GetOrderHandler обработчик запроса чтения заказа
type GetOrderHandler struct {
	repo  OrderRepository
	cache QueryCache
}

// NewGetOrderHandler создает обработчик запроса чтения заказа
func NewGetOrderHandler(repo OrderRepository) *GetOrderHandler {
	return &GetOrderHandler{repo: repo}
}

// WithCache подключает кеш результатов
func (h *GetOrderHandler) WithCache(cache QueryCache) *GetOrderHandler {
	h.cache = cache
	return h
}

func (h *GetOrderHandler) QueryName() string { return QueryGetOrder }

func (h *GetOrderHandler) Handle(ctx context.Context, q mediator.Query) mediator.Result {
	query, ok := q.(GetOrderQuery)
	if !ok {
		return core.Err[any](core.NewValidationError(
			fmt.Sprintf("unexpected query type for %s", QueryGetOrder)))
	}
	if query.OrderID == "" {
		return core.Err[any](core.NewValidationError("order id is required"))
	}

	if h.cache != nil {
		// Промах и сбой кеша равнозначны: читаем из репозитория.
		if data, hit, err := h.cache.Get(ctx, cacheKey(query.OrderID)); err == nil && hit {
			var dto OrderDTO
			if err := json.Unmarshal(data, &dto); err == nil {
				return core.Ok[any](dto)
			}
		}
	}

	o, err := h.repo.Get(ctx, query.OrderID)
	if err != nil {
		return core.Err[any](err)
	}

	dto := ToDTO(o)

	if h.cache != nil {
		if data, err := json.Marshal(dto); err == nil {
			_ = h.cache.Set(ctx, cacheKey(query.OrderID), data)
		}
	}

	return core.Ok[any](dto)
}

func cacheKey(orderID string) string {
	return "orders:" + orderID
}

// RegisterHandlers регистрирует все обработчики заказа в реестре медиатора
func RegisterHandlers(registry *mediator.Registry, repo OrderRepository) error {
	commandHandlers := []mediator.CommandHandler{
		NewPlaceOrderHandler(repo),
		NewConfirmOrderHandler(repo),
		NewStartCookingHandler(repo),
		NewMarkOrderReadyHandler(repo),
		NewAssignOrderToDeliveryHandler(repo),
		NewDeliverOrderHandler(repo),
		NewCancelOrderHandler(repo),
	}
	for _, handler := range commandHandlers {
		if err := registry.RegisterCommandHandler(handler); err != nil {
			return err
		}
	}
	return registry.RegisterQueryHandler(NewGetOrderHandler(repo))
}
