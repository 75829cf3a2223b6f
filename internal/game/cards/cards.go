package cards

import (
	"errors"
	"math/rand/v2"

	"github.com/thraizz/monopoly-server-go/internal/game/board"
)

// DeckKind names one of the two decks.
type DeckKind string

const (
	Chance         DeckKind = "chance"
	CommunityChest DeckKind = "community_chest"
)

// Effect tags what a card does when drawn.
type Effect string

const (
	EffectAdvanceTo             Effect = "advance_to"
	EffectAdvanceToNearest      Effect = "advance_to_nearest"
	EffectCollect               Effect = "collect"
	EffectPay                   Effect = "pay"
	EffectJailFree              Effect = "jail_free"
	EffectMoveBack              Effect = "move_back"
	EffectGoToJail              Effect = "go_to_jail"
	EffectRepairs               Effect = "repairs"
	EffectPayEachPlayer         Effect = "pay_each_player"
	EffectCollectFromEachPlayer Effect = "collect_from_each_player"
)

// Card is one entry of a deck. Only the fields relevant to Effect are set.
type Card struct {
	ID             int        `json:"id"`
	Deck           DeckKind   `json:"deck"`
	Text           string     `json:"text"`
	Effect         Effect     `json:"effect"`
	Destination    int        `json:"destination,omitempty"`
	Amount         int        `json:"amount,omitempty"`
	HouseCost      int        `json:"house_cost,omitempty"`
	HotelCost      int        `json:"hotel_cost,omitempty"`
	Target         board.Kind `json:"target,omitempty"`
	RentMultiplier int        `json:"rent_multiplier,omitempty"`
	CollectSalary  bool       `json:"collect_salary,omitempty"`
}

// ErrEmptyDeck is returned when every card of a deck is held by players.
var ErrEmptyDeck = errors.New("deck is empty")

// Deck is an ordered draw pile plus the discards waiting for the next reshuffle.
type Deck struct {
	kind    DeckKind
	draw    []Card
	discard []Card
	rng     *rand.Rand
}

// NewDeck creates a deck over cards. A nil rng keeps the given order,
// both initially and on every reshuffle.
func NewDeck(kind DeckKind, cards []Card, rng *rand.Rand) *Deck {
	d := &Deck{
		kind: kind,
		draw: append([]Card(nil), cards...),
		rng:  rng,
	}
	d.shuffle(d.draw)
	return d
}

// RestoreDeck rebuilds a deck from a saved draw and discard order.
func RestoreDeck(kind DeckKind, draw, discard []Card, rng *rand.Rand) *Deck {
	return &Deck{
		kind:    kind,
		draw:    append([]Card(nil), draw...),
		discard: append([]Card(nil), discard...),
		rng:     rng,
	}
}

// Kind returns which deck this is.
func (d *Deck) Kind() DeckKind {
	return d.kind
}

// Draw takes the front card. When the draw pile is exhausted the discards
// are shuffled into a new pile first.
func (d *Deck) Draw() (Card, error) {
	if len(d.draw) == 0 {
		d.reshuffle()
	}
	if len(d.draw) == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.draw[0]
	d.draw = d.draw[1:]
	return c, nil
}

// Discard places a resolved card on the discard pile.
func (d *Deck) Discard(c Card) {
	d.discard = append(d.discard, c)
}

// Return puts a held jail card back at the bottom of the draw pile.
func (d *Deck) Return(c Card) {
	d.draw = append(d.draw, c)
}

// Order returns the current draw pile, front first.
func (d *Deck) Order() []Card {
	return append([]Card(nil), d.draw...)
}

// Discarded returns the discard pile.
func (d *Deck) Discarded() []Card {
	return append([]Card(nil), d.discard...)
}

// Len is the number of cards in play for this deck, held cards excluded.
func (d *Deck) Len() int {
	return len(d.draw) + len(d.discard)
}

func (d *Deck) reshuffle() {
	d.draw = append(d.draw, d.discard...)
	d.discard = nil
	d.shuffle(d.draw)
}

func (d *Deck) shuffle(cs []Card) {
	if d.rng == nil {
		return
	}
	d.rng.Shuffle(len(cs), func(i, j int) { cs[i], cs[j] = cs[j], cs[i] })
}
