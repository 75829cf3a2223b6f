package player

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/thraizz/monopoly-server-go/internal/game/cards"
)

// StartingCash is the classic opening balance.
const StartingCash = 1500

// Player is the mutable per-player ledger. Only the engine mutates it.
type Player struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Cash           int          `json:"cash"`
	Position       int          `json:"position"`
	Owned          []int        `json:"owned"`
	JailCards      []cards.Card `json:"jail_cards,omitempty"`
	InJail         bool         `json:"in_jail"`
	JailAttempts   int          `json:"jail_attempts"`
	Bankrupt       bool         `json:"bankrupt"`
	// BankruptReason says what the player could not pay.
	BankruptReason string       `json:"bankrupt_reason,omitempty"`
}

// New creates a player at Go with the given starting cash.
func New(name string, cash int) *Player {
	return &Player{
		ID:    uuid.NewString(),
		Name:  name,
		Cash:  cash,
		Owned: []int{},
	}
}

// Credit adds cash.
func (p *Player) Credit(amount int) {
	p.Cash += amount
}

// Debit removes cash. It refuses to take the balance below zero.
func (p *Player) Debit(amount int) error {
	if amount > p.Cash {
		return fmt.Errorf("player %s has %d, needs %d", p.Name, p.Cash, amount)
	}
	p.Cash -= amount
	return nil
}

// Owns reports whether the player holds the tile.
func (p *Player) Owns(tile int) bool {
	i := sort.SearchInts(p.Owned, tile)
	return i < len(p.Owned) && p.Owned[i] == tile
}

// AddTile records ownership, keeping Owned sorted.
func (p *Player) AddTile(tile int) {
	if p.Owns(tile) {
		return
	}
	p.Owned = append(p.Owned, tile)
	sort.Ints(p.Owned)
}

// RemoveTile drops ownership of a tile.
func (p *Player) RemoveTile(tile int) {
	i := sort.SearchInts(p.Owned, tile)
	if i < len(p.Owned) && p.Owned[i] == tile {
		p.Owned = append(p.Owned[:i], p.Owned[i+1:]...)
	}
}

// GiveJailCard hands a held jail card to the player.
func (p *Player) GiveJailCard(c cards.Card) {
	p.JailCards = append(p.JailCards, c)
}

// TakeJailCard removes the oldest held jail card.
func (p *Player) TakeJailCard() (cards.Card, bool) {
	if len(p.JailCards) == 0 {
		return cards.Card{}, false
	}
	c := p.JailCards[0]
	p.JailCards = p.JailCards[1:]
	return c, true
}

// SendToJail sets the jail flag, resets attempts and parks the token on the jail tile.
func (p *Player) SendToJail(jailIndex int) {
	p.InJail = true
	p.JailAttempts = 0
	p.Position = jailIndex
}

// Release clears jail state.
func (p *Player) Release() {
	p.InJail = false
	p.JailAttempts = 0
}

// Clone returns a deep copy.
func (p *Player) Clone() *Player {
	c := *p
	c.Owned = append([]int{}, p.Owned...)
	c.JailCards = append([]cards.Card(nil), p.JailCards...)
	return &c
}
