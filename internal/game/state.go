package game

import (
	"fmt"
	"time"

	"github.com/thraizz/monopoly-server-go/internal/game/auction"
	"github.com/thraizz/monopoly-server-go/internal/game/bank"
	"github.com/thraizz/monopoly-server-go/internal/game/cards"
	"github.com/thraizz/monopoly-server-go/internal/game/player"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// StateVersion is bumped whenever SavedState changes shape.
const StateVersion = 1

// DeckState is a deck's draw pile and discards, front first.
type DeckState struct {
	Draw    []cards.Card `json:"draw"`
	Discard []cards.Card `json:"discard"`
}

// SavedState is everything needed to resume a game. It carries no history
// beyond the recent event log.
type SavedState struct {
	Version        int              `json:"version"`
	ID             string           `json:"id"`
	Players        []player.Player  `json:"players"`
	Holdings       []Holding        `json:"holdings"`
	Bank           bank.Bank        `json:"bank"`
	Chance         DeckState        `json:"chance"`
	CommunityChest DeckState        `json:"community_chest"`
	Current        int              `json:"current"`
	Phase          rules.Phase      `json:"phase"`
	Auction        *auction.Auction `json:"auction,omitempty"`
	LastRoll       *Roll            `json:"last_roll,omitempty"`
	Doubles        int              `json:"doubles"`
	ExtraRoll      bool             `json:"extra_roll"`
	Turn           int              `json:"turn"`
	Debt           *Debt            `json:"debt,omitempty"`
	Winner         string           `json:"winner,omitempty"`
	Salary         int              `json:"salary"`
	Bail           int              `json:"bail"`
	Seq            int              `json:"seq"`
	Events         []rules.Event    `json:"events"`
	SavedAt        time.Time        `json:"saved_at"`
	Checksum       string           `json:"checksum"`
}

// Export captures the current state with a fresh checksum.
func (g *Game) Export() (*SavedState, error) {
	s := &SavedState{
		Version:   StateVersion,
		ID:        g.id,
		Holdings:  g.sortedHoldings(),
		Bank:      *g.bank.Clone(),
		Current:   g.current,
		Phase:     g.phase,
		Doubles:   g.doubles,
		ExtraRoll: g.extraRoll,
		Turn:      g.turn,
		Debt:      g.debt.clone(),
		Winner:    g.winner,
		Salary:    g.opts.Salary,
		Bail:      g.opts.Bail,
		Seq:       g.seq,
		Events:    g.log.Events(),
		SavedAt:   time.Now().UTC(),
	}
	for _, p := range g.players {
		s.Players = append(s.Players, *p.Clone())
	}
	for kind, deck := range g.decks {
		ds := DeckState{Draw: deck.Order(), Discard: deck.Discarded()}
		if kind == cards.Chance {
			s.Chance = ds
		} else {
			s.CommunityChest = ds
		}
	}
	if g.auction != nil {
		s.Auction = g.auction.Clone()
	}
	if g.lastRoll != nil {
		r := *g.lastRoll
		s.LastRoll = &r
	}

	sum, err := s.ComputeChecksum()
	if err != nil {
		return nil, err
	}
	s.Checksum = sum.Hash
	return s, nil
}

// Restore rebuilds a game from a saved state. A non-empty checksum must match.
// Options supply the runtime collaborators: dice, shuffle source and logger.
func Restore(s *SavedState, opts Options) (*Game, error) {
	if s == nil {
		return nil, fmt.Errorf("no saved state")
	}
	if s.Version != StateVersion {
		return nil, fmt.Errorf("unsupported state version %d", s.Version)
	}
	if s.Checksum != "" {
		ok, err := s.VerifyChecksum(&SerializationChecksum{Hash: s.Checksum})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("state %s failed checksum verification", s.ID)
		}
	}
	if len(s.Players) < MinPlayers {
		return nil, fmt.Errorf("state %s has %d players", s.ID, len(s.Players))
	}
	if s.Current < 0 || s.Current >= len(s.Players) {
		return nil, fmt.Errorf("state %s has current player %d out of range", s.ID, s.Current)
	}
	if s.Phase == rules.PhaseAuctionInProgress && s.Auction == nil {
		return nil, fmt.Errorf("state %s is mid-auction without an auction", s.ID)
	}

	opts.ID = s.ID
	if s.Salary > 0 {
		opts.Salary = s.Salary
	}
	if s.Bail > 0 {
		opts.Bail = s.Bail
	}
	opts = opts.withDefaults()
	g := newGame(opts)

	names := make(map[string]bool, len(s.Players))
	for i := range s.Players {
		p := s.Players[i].Clone()
		names[p.Name] = true
		g.players = append(g.players, p)
	}
	for _, h := range s.Holdings {
		if !names[h.Owner] {
			return nil, fmt.Errorf("state %s: tile %d owned by unknown player %q", s.ID, h.Tile, h.Owner)
		}
		if _, ok := g.board.Tile(h.Tile); !ok {
			return nil, fmt.Errorf("state %s: holding on unknown tile %d", s.ID, h.Tile)
		}
		h := h
		g.holdings[h.Tile] = &h
	}
	g.bank = s.Bank.Clone()
	g.decks = map[cards.DeckKind]*cards.Deck{
		cards.Chance:         cards.RestoreDeck(cards.Chance, s.Chance.Draw, s.Chance.Discard, opts.Shuffle),
		cards.CommunityChest: cards.RestoreDeck(cards.CommunityChest, s.CommunityChest.Draw, s.CommunityChest.Discard, opts.Shuffle),
	}
	g.current = s.Current
	g.phase = s.Phase
	if s.Auction != nil {
		g.auction = s.Auction.Clone()
	}
	if s.LastRoll != nil {
		r := *s.LastRoll
		g.lastRoll = &r
	}
	g.doubles = s.Doubles
	g.extraRoll = s.ExtraRoll
	g.turn = s.Turn
	g.debt = s.Debt.clone()
	g.winner = s.Winner
	g.seq = s.Seq
	for _, evt := range s.Events {
		g.log.Append(evt)
	}
	return g, nil
}

// Rollback returns the game to s in place. Subscribed listeners stay attached.
func (g *Game) Rollback(s *SavedState) error {
	if s == nil || s.ID != g.id {
		return fmt.Errorf("rollback state does not belong to game %s", g.id)
	}
	r, err := Restore(s, g.opts)
	if err != nil {
		return err
	}
	bus, log := g.bus, g.log
	*g = *r
	g.bus, g.log = bus, log
	g.log.reset(s.Events)
	return nil
}
