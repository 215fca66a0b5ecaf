package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/akriventsev/margherita/core"
	"github.com/akriventsev/margherita/domain/order"
	"github.com/akriventsev/margherita/events"
	"github.com/akriventsev/margherita/mediator"
	"github.com/akriventsev/margherita/repository"
)

var testItems = []order.LineItem{
	{Name: "Margherita", Size: "medium", BasePrice: 1250, Toppings: []string{"basil"}},
	{Name: "Pepperoni", Size: "large", BasePrice: 1575},
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func newTestMediator(t *testing.T) (*mediator.Mediator, OrderRepository, *recordingPublisher) {
	t.Helper()

	repo := repository.NewInMemoryRepository[*order.Order](repository.DefaultInMemoryConfig())
	registry := mediator.NewRegistry()
	if err := RegisterHandlers(registry, repo); err != nil {
		t.Fatalf("Failed to register handlers: %v", err)
	}

	publisher := &recordingPublisher{}
	m := mediator.New(registry,
		mediator.WithPublisher(publisher),
		mediator.WithBehaviors(mediator.NewDomainEventDispatchBehavior(publisher)),
	)
	return m, repo, publisher
}

func placeOrder(t *testing.T, m *mediator.Mediator) OrderDTO {
	t.Helper()

	result := m.Execute(context.Background(), PlaceOrderCommand{
		OrderID:    "order-1",
		CustomerID: "customer-1",
		Items:      testItems,
	})
	if result.IsErr() {
		t.Fatalf("Failed to place order: %v", result.Error)
	}
	return result.Value.(OrderDTO)
}

func TestPlaceOrder(t *testing.T) {
	m, _, publisher := newTestMediator(t)

	dto := placeOrder(t, m)

	if dto.Status != string(order.StatusPending) {
		t.Errorf("Expected status pending, got %s", dto.Status)
	}
	if dto.Total != 2825 {
		t.Errorf("Expected total 2825, got %d", dto.Total)
	}
	if publisher.count() != 1 {
		t.Errorf("Expected 1 published event, got %d", publisher.count())
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	m, _, publisher := newTestMediator(t)

	result := m.Execute(context.Background(), PlaceOrderCommand{
		OrderID:    "order-1",
		CustomerID: "customer-1",
		Items:      nil,
	})
	if result.IsOk() {
		t.Fatal("Expected failure for empty order")
	}
	if core.KindOf(result.Error) != core.ErrorKindValidation {
		t.Errorf("Expected validation error, got %s", core.KindOf(result.Error))
	}
	if publisher.count() != 0 {
		t.Errorf("Expected no publications for failed command, got %d", publisher.count())
	}
}

func TestPlaceDuplicateOrder(t *testing.T) {
	m, _, _ := newTestMediator(t)
	placeOrder(t, m)

	result := m.Execute(context.Background(), PlaceOrderCommand{
		OrderID:    "order-1",
		CustomerID: "customer-2",
		Items:      testItems,
	})
	if result.IsOk() {
		t.Fatal("Expected failure for duplicate order id")
	}
	if core.KindOf(result.Error) != core.ErrorKindConflict {
		t.Errorf("Expected conflict error, got %s", core.KindOf(result.Error))
	}
}

func TestFullLifecycle(t *testing.T) {
	m, _, publisher := newTestMediator(t)
	placeOrder(t, m)
	ctx := context.Background()

	commands := []mediator.Command{
		ConfirmOrderCommand{OrderID: "order-1"},
		StartCookingCommand{OrderID: "order-1", Chef: order.Performer{ID: "chef-1", Name: "Chef One"}},
		MarkOrderReadyCommand{OrderID: "order-1", ReadyBy: order.Performer{ID: "chef-1", Name: "Chef One"}},
		AssignOrderToDeliveryCommand{OrderID: "order-1", DeliveryPerson: order.Performer{ID: "d-2", Name: "Dave Driver"}},
		DeliverOrderCommand{OrderID: "order-1", DeliveredBy: order.Performer{ID: "manager-1", Name: "Mary Manager"}},
	}
	for _, cmd := range commands {
		if result := m.Execute(ctx, cmd); result.IsErr() {
			t.Fatalf("Command %s failed: %v", cmd.CommandName(), result.Error)
		}
	}

	result := m.Query(ctx, GetOrderQuery{OrderID: "order-1"})
	if result.IsErr() {
		t.Fatalf("Failed to query order: %v", result.Error)
	}
	dto := result.Value.(OrderDTO)

	if dto.Status != string(order.StatusDelivered) {
		t.Errorf("Expected status delivered, got %s", dto.Status)
	}
	if dto.Chef == nil || dto.Chef.Name != "Chef One" {
		t.Errorf("Expected chef Chef One, got %+v", dto.Chef)
	}
	if dto.DeliveryPerson == nil || dto.DeliveryPerson.ID != "d-2" {
		t.Errorf("Expected assigned delivery person d-2, got %+v", dto.DeliveryPerson)
	}
	if dto.DeliveredBy == nil || dto.DeliveredBy.Name != "Mary Manager" {
		t.Errorf("Expected actual deliverer Mary Manager, got %+v", dto.DeliveredBy)
	}
	if dto.Version != 6 {
		t.Errorf("Expected version 6, got %d", dto.Version)
	}

	// Одно событие на команду, каждое опубликовано ровно один раз.
	if publisher.count() != 6 {
		t.Errorf("Expected 6 published events, got %d", publisher.count())
	}
}

func TestIllegalTransitionRejected(t *testing.T) {
	m, _, publisher := newTestMediator(t)
	placeOrder(t, m)
	ctx := context.Background()

	if result := m.Execute(ctx, ConfirmOrderCommand{OrderID: "order-1"}); result.IsErr() {
		t.Fatalf("Failed to confirm: %v", result.Error)
	}
	publishedBefore := publisher.count()

	result := m.Execute(ctx, AssignOrderToDeliveryCommand{
		OrderID:        "order-1",
		DeliveryPerson: order.Performer{ID: "d-2", Name: "Dave Driver"},
	})
	if result.IsOk() {
		t.Fatal("Expected failure for assigning a confirmed order")
	}
	if core.KindOf(result.Error) != core.ErrorKindBusinessRule {
		t.Errorf("Expected business rule error, got %s", core.KindOf(result.Error))
	}
	if publisher.count() != publishedBefore {
		t.Error("Expected no publications for rejected transition")
	}

	query := m.Query(ctx, GetOrderQuery{OrderID: "order-1"})
	if query.IsErr() {
		t.Fatalf("Failed to query order: %v", query.Error)
	}
	if dto := query.Value.(OrderDTO); dto.Status != string(order.StatusConfirmed) {
		t.Errorf("Expected status to remain confirmed, got %s", dto.Status)
	}
}

// Конкурентные команды над одним заказом работают с независимыми
// снимками из хранилища: гонка разрешается проверкой версии при
// Update, а не разделяемой памятью агрегата.
func TestConcurrentCommandsOnSameOrder(t *testing.T) {
	m, _, _ := newTestMediator(t)
	placeOrder(t, m)
	ctx := context.Background()

	commands := []mediator.Command{
		ConfirmOrderCommand{OrderID: "order-1"},
		CancelOrderCommand{OrderID: "order-1"},
	}
	results := make([]mediator.Result, len(commands))

	var wg sync.WaitGroup
	for i, cmd := range commands {
		wg.Add(1)
		go func(i int, cmd mediator.Command) {
			defer wg.Done()
			results[i] = m.Execute(ctx, cmd)
		}(i, cmd)
	}
	wg.Wait()

	succeeded := 0
	for i, result := range results {
		if result.IsOk() {
			succeeded++
			continue
		}
		kind := core.KindOf(result.Error)
		if kind != core.ErrorKindConflict && kind != core.ErrorKindBusinessRule {
			t.Errorf("Command %s failed with unexpected kind %s: %v",
				commands[i].CommandName(), kind, result.Error)
		}
	}
	if succeeded == 0 {
		t.Error("Expected at least one concurrent command to succeed")
	}

	query := m.Query(ctx, GetOrderQuery{OrderID: "order-1"})
	if query.IsErr() {
		t.Fatalf("Failed to query order: %v", query.Error)
	}
	dto := query.Value.(OrderDTO)
	if dto.Status != string(order.StatusConfirmed) && dto.Status != string(order.StatusCancelled) {
		t.Errorf("Expected status confirmed or cancelled, got %s", dto.Status)
	}
	if dto.Version < 2 {
		t.Errorf("Expected version of at least 2, got %d", dto.Version)
	}
}

func TestGetMissingOrder(t *testing.T) {
	m, _, _ := newTestMediator(t)

	result := m.Query(context.Background(), GetOrderQuery{OrderID: "missing"})
	if result.IsOk() {
		t.Fatal("Expected failure for missing order")
	}
	if core.KindOf(result.Error) != core.ErrorKindNotFound {
		t.Errorf("Expected not found error, got %s", core.KindOf(result.Error))
	}
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return data, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func TestGetOrderUsesCache(t *testing.T) {
	repo := repository.NewInMemoryRepository[*order.Order](repository.DefaultInMemoryConfig())
	cache := newFakeCache()
	handler := NewGetOrderHandler(repo).WithCache(cache)

	o := order.New("order-1")
	if err := o.Place("customer-1", testItems); err != nil {
		t.Fatalf("Failed to place order: %v", err)
	}
	if err := repo.Add(context.Background(), o); err != nil {
		t.Fatalf("Failed to add order: %v", err)
	}

	for i := 0; i < 2; i++ {
		result := handler.Handle(context.Background(), GetOrderQuery{OrderID: "order-1"})
		if result.IsErr() {
			t.Fatalf("Failed to query order: %v", result.Error)
		}
		if dto := result.Value.(OrderDTO); dto.OrderID != "order-1" {
			t.Errorf("Expected order-1, got %s", dto.OrderID)
		}
	}

	if cache.hits != 1 {
		t.Errorf("Expected 1 cache hit, got %d", cache.hits)
	}
}

func TestOrderMapperRoundTrip(t *testing.T) {
	o := order.New("order-1")
	if err := o.Place("customer-1", testItems); err != nil {
		t.Fatalf("Failed to place order: %v", err)
	}
	if err := o.Confirm(); err != nil {
		t.Fatalf("Failed to confirm: %v", err)
	}
	if err := o.StartCooking(order.Performer{ID: "chef-1", Name: "Chef One"}); err != nil {
		t.Fatalf("Failed to start cooking: %v", err)
	}

	mapper := NewOrderMapper()
	row, err := mapper.ToRow(o)
	if err != nil {
		t.Fatalf("Failed to map order to row: %v", err)
	}

	restored, err := mapper.FromRow(o.ID(), o.Version(), row)
	if err != nil {
		t.Fatalf("Failed to map row to order: %v", err)
	}

	if restored.ID() != o.ID() {
		t.Errorf("Expected id %s, got %s", o.ID(), restored.ID())
	}
	if restored.Version() != o.Version() {
		t.Errorf("Expected version %d, got %d", o.Version(), restored.Version())
	}
	if restored.Status() != order.StatusCooking {
		t.Errorf("Expected status cooking, got %s", restored.Status())
	}
	if restored.Total() != o.Total() {
		t.Errorf("Expected total %d, got %d", o.Total(), restored.Total())
	}
	if restored.State().Chef == nil || restored.State().Chef.Name != "Chef One" {
		t.Errorf("Expected chef Chef One, got %+v", restored.State().Chef)
	}

	// Восстановленный агрегат остается рабочим: принимает следующую команду.
	if err := restored.MarkReady(order.Performer{ID: "chef-1", Name: "Chef One"}); err != nil {
		t.Errorf("Expected restored order to accept next transition, got %v", err)
	}
}
