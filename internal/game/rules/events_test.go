package rules

import (
	"testing"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	rentCount := 0
	boughtCount := 0

	handle1 := bus.SubscribeTyped(EventRentPaid, func(e Event) {
		rentCount++
	})
	handle2 := bus.SubscribeTyped(EventPropertyBought, func(e Event) {
		boughtCount++
	})

	bus.Publish(NewEventWithAmount(EventRentPaid, "alice", 6, 12, "alice paid rent"))
	if rentCount != 1 {
		t.Fatalf("expected rent count 1, got %d", rentCount)
	}
	if boughtCount != 0 {
		t.Fatalf("expected bought count 0, got %d", boughtCount)
	}

	bus.Publish(NewEventWithAmount(EventPropertyBought, "bob", 6, 100, "bob bought"))
	if boughtCount != 1 {
		t.Fatalf("expected bought count 1, got %d", boughtCount)
	}

	bus.Unsubscribe(handle1)
	bus.Publish(NewEventWithAmount(EventRentPaid, "alice", 6, 12, "alice paid rent"))
	if rentCount != 1 {
		t.Fatalf("expected rent count still 1 after unsubscribe, got %d", rentCount)
	}

	bus.Unsubscribe(handle2)
	bus.Publish(NewEventWithAmount(EventPropertyBought, "bob", 8, 100, "bob bought"))
	if boughtCount != 1 {
		t.Fatalf("expected bought count still 1 after unsubscribe, got %d", boughtCount)
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	count := 0
	handle := bus.Subscribe(func(e Event) {
		count++
	})

	bus.Publish(NewEvent(EventDiceRolled, "alice", NoTile, "rolled"))
	bus.Publish(NewEvent(EventMoved, "alice", 7, "moved"))
	bus.Publish(NewEvent(EventTurnEnded, "alice", NoTile, "ended"))
	if count != 3 {
		t.Fatalf("expected 3 events, got %d", count)
	}

	bus.Unsubscribe(handle)
	bus.Publish(NewEvent(EventTurnEnded, "bob", NoTile, "ended"))
	if count != 3 {
		t.Fatalf("expected no delivery after unsubscribe, got %d", count)
	}
}

func TestEventBusIgnoresNilListeners(t *testing.T) {
	bus := NewEventBus()
	if h := bus.Subscribe(nil); h != -1 {
		t.Fatalf("expected -1 handle for nil listener, got %d", h)
	}
	if h := bus.SubscribeTyped(EventMoved, nil); h != -1 {
		t.Fatalf("expected -1 handle for nil typed listener, got %d", h)
	}
	bus.Publish(NewEvent(EventMoved, "alice", 1, "moved"))
}

func TestNewEventFields(t *testing.T) {
	evt := NewEventWithAmount(EventTaxPaid, "carol", 4, 200, "income tax")
	if evt.Type != EventTaxPaid || evt.Player != "carol" || evt.Tile != 4 || evt.Amount != 200 {
		t.Fatalf("unexpected event %+v", evt)
	}
	if evt.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}
