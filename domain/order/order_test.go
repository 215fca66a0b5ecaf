package order

import (
	"testing"

	"github.com/akriventsev/margherita/core"
)

var testItems = []LineItem{
	{Name: "Margherita", Size: "medium", BasePrice: 1250, Toppings: []string{"basil"}},
	{Name: "Pepperoni", Size: "large", BasePrice: 1575, Toppings: []string{"pepperoni", "extra cheese"}},
}

func placedOrder(t *testing.T) *Order {
	t.Helper()
	o := New("order-1")
	if err := o.Place("customer-1", testItems); err != nil {
		t.Fatalf("Failed to place order: %v", err)
	}
	return o
}

func orderInStatus(t *testing.T, status Status) *Order {
	t.Helper()
	o := placedOrder(t)

	steps := []func() error{
		o.Confirm,
		func() error { return o.StartCooking(Performer{ID: "chef-1", Name: "Chef One"}) },
		func() error { return o.MarkReady(Performer{ID: "chef-1", Name: "Chef One"}) },
		func() error { return o.AssignToDelivery(Performer{ID: "d-2", Name: "Dave Driver"}) },
		func() error { return o.Deliver(Performer{ID: "d-2", Name: "Dave Driver"}) },
	}
	targets := []Status{StatusConfirmed, StatusCooking, StatusReady, StatusDelivering, StatusDelivered}

	if status == StatusPending {
		return o
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("Failed to advance order to %s: %v", targets[i], err)
		}
		if targets[i] == status {
			return o
		}
	}
	t.Fatalf("Unknown target status: %s", status)
	return nil
}

func TestPlaceOrder(t *testing.T) {
	o := placedOrder(t)

	if o.Status() != StatusPending {
		t.Errorf("Expected status %s, got %s", StatusPending, o.Status())
	}
	if o.Total() != 2825 {
		t.Errorf("Expected total 2825, got %d", o.Total())
	}
	if len(o.State().Items) != 2 {
		t.Errorf("Expected 2 line items, got %d", len(o.State().Items))
	}
	if o.State().PlacedAt.IsZero() {
		t.Error("Expected placed time to be set")
	}
	if len(o.DomainEvents()) != 1 {
		t.Errorf("Expected 1 pending event, got %d", len(o.DomainEvents()))
	}
}

func TestPlaceRequiresLineItems(t *testing.T) {
	o := New("order-1")

	err := o.Place("customer-1", nil)
	if err == nil {
		t.Fatal("Expected error for empty order")
	}
	if core.KindOf(err) != core.ErrorKindValidation {
		t.Errorf("Expected validation error, got %s", core.KindOf(err))
	}
	if len(o.DomainEvents()) != 0 {
		t.Error("Expected no events registered on rejected place")
	}
}

func TestPlaceTwiceRejected(t *testing.T) {
	o := placedOrder(t)

	err := o.Place("customer-2", testItems)
	if err == nil {
		t.Fatal("Expected error for second place")
	}
	if core.KindOf(err) != core.ErrorKindBusinessRule {
		t.Errorf("Expected business rule error, got %s", core.KindOf(err))
	}
}

func TestFullLifecycle(t *testing.T) {
	o := placedOrder(t)

	if err := o.Confirm(); err != nil {
		t.Fatalf("Failed to confirm: %v", err)
	}
	if o.Status() != StatusConfirmed {
		t.Errorf("Expected status %s, got %s", StatusConfirmed, o.Status())
	}
	if o.State().ConfirmedAt == nil {
		t.Error("Expected confirmed time to be set")
	}

	if err := o.StartCooking(Performer{ID: "chef-1", Name: "Chef One"}); err != nil {
		t.Fatalf("Failed to start cooking: %v", err)
	}
	if o.Status() != StatusCooking {
		t.Errorf("Expected status %s, got %s", StatusCooking, o.Status())
	}
	if o.State().Chef == nil || o.State().Chef.Name != "Chef One" {
		t.Errorf("Expected chef Chef One, got %+v", o.State().Chef)
	}

	if err := o.MarkReady(Performer{ID: "chef-1", Name: "Chef One"}); err != nil {
		t.Fatalf("Failed to mark ready: %v", err)
	}
	if o.Status() != StatusReady {
		t.Errorf("Expected status %s, got %s", StatusReady, o.Status())
	}
	if o.State().ActualReadyAt == nil {
		t.Error("Expected ready time to be set")
	}

	if err := o.AssignToDelivery(Performer{ID: "d-2", Name: "Dave Driver"}); err != nil {
		t.Fatalf("Failed to assign to delivery: %v", err)
	}
	if o.Status() != StatusDelivering {
		t.Errorf("Expected status %s, got %s", StatusDelivering, o.Status())
	}
	if o.State().DeliveryPerson == nil || o.State().DeliveryPerson.ID != "d-2" {
		t.Errorf("Expected delivery person d-2, got %+v", o.State().DeliveryPerson)
	}

	// Доставку завершает другой пользователь: записывается фактический
	// исполнитель, а не назначенный курьер.
	if err := o.Deliver(Performer{ID: "manager-1", Name: "Mary Manager"}); err != nil {
		t.Fatalf("Failed to deliver: %v", err)
	}
	if o.Status() != StatusDelivered {
		t.Errorf("Expected status %s, got %s", StatusDelivered, o.Status())
	}
	if o.State().DeliveredBy == nil || o.State().DeliveredBy.Name != "Mary Manager" {
		t.Errorf("Expected deliverer Mary Manager, got %+v", o.State().DeliveredBy)
	}
	if o.State().DeliveryPerson.ID != "d-2" {
		t.Errorf("Expected assigned delivery person to remain d-2, got %s", o.State().DeliveryPerson.ID)
	}

	if len(o.DomainEvents()) != 6 {
		t.Errorf("Expected 6 pending events, got %d", len(o.DomainEvents()))
	}
}

func TestAssignToDeliveryRequiresReady(t *testing.T) {
	o := orderInStatus(t, StatusConfirmed)
	eventsBefore := len(o.DomainEvents())

	err := o.AssignToDelivery(Performer{ID: "d-2", Name: "Dave Driver"})
	if err == nil {
		t.Fatal("Expected error for assigning a confirmed order")
	}
	if core.KindOf(err) != core.ErrorKindBusinessRule {
		t.Errorf("Expected business rule error, got %s", core.KindOf(err))
	}
	if o.Status() != StatusConfirmed {
		t.Errorf("Expected status to remain %s, got %s", StatusConfirmed, o.Status())
	}
	if len(o.DomainEvents()) != eventsBefore {
		t.Error("Expected no event registered for rejected transition")
	}
}

func TestCancelAvailability(t *testing.T) {
	cancellable := []Status{StatusPending, StatusConfirmed, StatusCooking, StatusReady, StatusDelivering}
	for _, status := range cancellable {
		o := orderInStatus(t, status)
		if err := o.Cancel(); err != nil {
			t.Errorf("Expected cancel from %s to succeed, got %v", status, err)
		}
		if o.Status() != StatusCancelled {
			t.Errorf("Expected status %s after cancel from %s, got %s", StatusCancelled, status, o.Status())
		}
	}

	delivered := orderInStatus(t, StatusDelivered)
	if err := delivered.Cancel(); err == nil {
		t.Error("Expected cancel of delivered order to fail")
	}

	cancelled := orderInStatus(t, StatusPending)
	if err := cancelled.Cancel(); err != nil {
		t.Fatalf("Failed to cancel: %v", err)
	}
	if err := cancelled.Cancel(); err == nil {
		t.Error("Expected cancel of cancelled order to fail")
	}
}

func TestFinalOrderRejectsFurtherMethods(t *testing.T) {
	o := orderInStatus(t, StatusDelivered)

	if err := o.Confirm(); err == nil {
		t.Error("Expected confirm of delivered order to fail")
	}
	if err := o.StartCooking(Performer{ID: "chef-1", Name: "Chef One"}); err == nil {
		t.Error("Expected start cooking of delivered order to fail")
	}
	if err := o.Deliver(Performer{ID: "d-2", Name: "Dave Driver"}); err == nil {
		t.Error("Expected repeated deliver to fail")
	}
}

func TestMonotonicVersions(t *testing.T) {
	o := orderInStatus(t, StatusDelivered)

	for i, event := range o.DomainEvents() {
		expected := int64(i + 1)
		if event.AggregateVersion() != expected {
			t.Errorf("Expected version %d at position %d, got %d", expected, i, event.AggregateVersion())
		}
	}
	if o.Version() != int64(len(o.DomainEvents())) {
		t.Errorf("Expected aggregate version %d, got %d", len(o.DomainEvents()), o.Version())
	}
}

func TestReplayReconstructsIdenticalState(t *testing.T) {
	live := orderInStatus(t, StatusDelivered)

	replayed, err := LoadFromHistory(live.ID(), live.DomainEvents())
	if err != nil {
		t.Fatalf("Failed to replay order: %v", err)
	}

	a, b := live.State(), replayed.State()
	if a.Status != b.Status {
		t.Errorf("Expected status %s, got %s", a.Status, b.Status)
	}
	if a.CustomerID != b.CustomerID {
		t.Errorf("Expected customer %s, got %s", a.CustomerID, b.CustomerID)
	}
	if a.Total() != b.Total() {
		t.Errorf("Expected total %d, got %d", a.Total(), b.Total())
	}
	if len(a.Items) != len(b.Items) {
		t.Fatalf("Expected %d items, got %d", len(a.Items), len(b.Items))
	}
	if !a.PlacedAt.Equal(b.PlacedAt) {
		t.Error("Expected identical placed time after replay")
	}
	if b.Chef == nil || a.Chef.Name != b.Chef.Name {
		t.Error("Expected identical chef after replay")
	}
	if b.DeliveredBy == nil || a.DeliveredBy.Name != b.DeliveredBy.Name {
		t.Error("Expected identical deliverer after replay")
	}
	if live.Version() != replayed.Version() {
		t.Errorf("Expected version %d, got %d", live.Version(), replayed.Version())
	}
}

func TestCloneIsIndependentSnapshot(t *testing.T) {
	original := orderInStatus(t, StatusCooking)

	clone := original.Clone()
	if len(clone.DomainEvents()) != 0 {
		t.Errorf("Expected clone without pending events, got %d", len(clone.DomainEvents()))
	}
	if clone.Version() != original.Version() {
		t.Errorf("Expected version %d, got %d", original.Version(), clone.Version())
	}
	if clone.Status() != original.Status() {
		t.Errorf("Expected status %s, got %s", original.Status(), clone.Status())
	}
	if clone.State() == original.State() {
		t.Fatal("Expected clone to own its state")
	}

	if err := clone.MarkReady(Performer{ID: "chef-1", Name: "Chef One"}); err != nil {
		t.Fatalf("Failed to mark clone ready: %v", err)
	}
	if original.Status() != StatusCooking {
		t.Errorf("Expected original to stay cooking, got %s", original.Status())
	}
	if original.State().ReadyBy != nil {
		t.Error("Expected original state to be untouched by clone mutation")
	}

	clone.State().Items[0].Toppings = append(clone.State().Items[0].Toppings, "extra cheese")
	if len(original.State().Items[0].Toppings) == len(clone.State().Items[0].Toppings) {
		t.Error("Expected clone items to be deeply copied")
	}
}
