package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a game event.
type EventType string

const (
	// Turn events
	EventGameStarted  EventType = "GAME_STARTED"
	EventTurnStarted  EventType = "TURN_STARTED"
	EventTurnEnded    EventType = "TURN_ENDED"
	EventPhaseChanged EventType = "PHASE_CHANGED"
	EventGameOver     EventType = "GAME_OVER"

	// Movement events
	EventDiceRolled EventType = "DICE_ROLLED"
	EventMoved      EventType = "MOVED"
	EventPassedGo   EventType = "PASSED_GO"

	// Money events
	EventRentPaid      EventType = "RENT_PAID"
	EventTaxPaid       EventType = "TAX_PAID"
	EventPayment       EventType = "PAYMENT"
	EventDebtIncurred  EventType = "DEBT_INCURRED"
	EventDebtSettled   EventType = "DEBT_SETTLED"
	EventBankrupt      EventType = "BANKRUPT"
	EventCardDrawn     EventType = "CARD_DRAWN"
	EventJailCardGiven EventType = "JAIL_CARD_GIVEN"

	// Property events
	EventPropertyBought   EventType = "PROPERTY_BOUGHT"
	EventPurchaseDeclined EventType = "PURCHASE_DECLINED"
	EventHouseBuilt       EventType = "HOUSE_BUILT"
	EventHotelBuilt       EventType = "HOTEL_BUILT"
	EventHouseSold        EventType = "HOUSE_SOLD"
	EventMortgaged        EventType = "MORTGAGED"
	EventUnmortgaged      EventType = "UNMORTGAGED"

	// Auction events
	EventAuctionStarted EventType = "AUCTION_STARTED"
	EventBidPlaced      EventType = "BID_PLACED"
	EventAuctionPassed  EventType = "AUCTION_PASSED"
	EventAuctionWon     EventType = "AUCTION_WON"
	EventAuctionUnsold  EventType = "AUCTION_UNSOLD"

	// Jail events
	EventSentToJail     EventType = "SENT_TO_JAIL"
	EventReleased       EventType = "RELEASED_FROM_JAIL"
	EventJailRollFailed EventType = "JAIL_ROLL_FAILED"
)

// NoTile marks events that do not concern a board tile.
const NoTile = -1

// Event describes one state change. Player and Counterparty are display names.
type Event struct {
	Type         EventType `json:"type"`
	Seq          int       `json:"seq"`
	Turn         int       `json:"turn"`
	Player       string    `json:"player,omitempty"`
	Counterparty string    `json:"counterparty,omitempty"`
	Tile         int       `json:"tile"`
	Amount       int       `json:"amount,omitempty"`
	Description  string    `json:"description"`
	Timestamp    time.Time `json:"timestamp"`
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener defines a callback that reacts to a specific event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu             sync.RWMutex
	listeners      map[int]Listener
	typedListeners map[EventType][]TypedListener
	nextHandle     int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	return handle
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle, typed or not.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.listeners, handle)
	for eventType, listeners := range bus.typedListeners {
		for i := len(listeners) - 1; i >= 0; i-- {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Publish delivers the event to all registered listeners synchronously.
// Listeners must not publish or subscribe from inside the callback.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	for _, listener := range bus.listeners {
		listener(event)
	}
	for _, listener := range bus.typedListeners[event.Type] {
		listener.Callback(event)
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, player string, tile int, description string) Event {
	return Event{
		Type:        eventType,
		Player:      player,
		Tile:        tile,
		Description: description,
		Timestamp:   time.Now(),
	}
}

// NewEventWithAmount creates a new event carrying a money amount.
func NewEventWithAmount(eventType EventType, player string, tile, amount int, description string) Event {
	evt := NewEvent(eventType, player, tile, description)
	evt.Amount = amount
	return evt
}
