package game

import (
	"github.com/thraizz/monopoly-server-go/internal/game/board"
)

// Holding is the mutable ownership record of a bought tile.
type Holding struct {
	Tile      int    `json:"tile"`
	Owner     string `json:"owner"`
	Mortgaged bool   `json:"mortgaged"`
	Houses    int    `json:"houses"`
	Hotel     bool   `json:"hotel"`
}

// Level is the development level: houses, or 5 with a hotel.
func (h *Holding) Level() int {
	if h.Hotel {
		return board.HotelLevel
	}
	return h.Houses
}

func (h *Holding) hasBuildings() bool {
	return h.Hotel || h.Houses > 0
}

// unmortgageCost is the mortgage value plus 10% interest, rounded up.
func unmortgageCost(t board.Tile) int {
	mv := t.MortgageValue()
	return mv + (mv+9)/10
}

// ownsGroup reports whether owner holds every street of the group, mortgaged or not.
func (g *Game) ownsGroup(owner string, group board.Group) bool {
	for _, idx := range g.board.Group(group) {
		h := g.holdings[idx]
		if h == nil || h.Owner != owner {
			return false
		}
	}
	return true
}

func (g *Game) countOwnedOfKind(owner string, kind board.Kind) int {
	n := 0
	for _, idx := range g.board.OfKind(kind) {
		if h := g.holdings[idx]; h != nil && h.Owner == owner {
			n++
		}
	}
	return n
}

// rentModifier carries card-driven adjustments to a single rent charge.
type rentModifier struct {
	railroadMultiplier int
	utilityMultiplier  int
}

// rentFor computes the rent owed on an owned, unmortgaged tile.
func (g *Game) rentFor(t board.Tile, h *Holding, diceSum int, mod rentModifier) int {
	if h == nil || h.Mortgaged {
		return 0
	}
	switch t.Kind {
	case board.KindStreet:
		level := h.Level()
		if level == 0 {
			rent := t.Street.Rents[0]
			if g.ownsGroup(h.Owner, t.Street.Group) {
				rent *= 2
			}
			return rent
		}
		return t.Street.Rents[level]
	case board.KindRailroad:
		n := g.countOwnedOfKind(h.Owner, board.KindRailroad)
		rent := 25 << (n - 1)
		if mod.railroadMultiplier > 1 {
			rent *= mod.railroadMultiplier
		}
		return rent
	case board.KindUtility:
		mult := 4
		if g.countOwnedOfKind(h.Owner, board.KindUtility) >= 2 {
			mult = 10
		}
		if mod.utilityMultiplier > 0 {
			mult = mod.utilityMultiplier
		}
		return diceSum * mult
	}
	return 0
}
