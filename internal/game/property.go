package game

import (
	"fmt"

	"github.com/thraizz/monopoly-server-go/internal/game/board"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// ownedTile resolves a tile the current player must own.
func (g *Game) ownedTile(action rules.Action, index int) (board.Tile, *Holding, error) {
	if err := g.requirePhase(action); err != nil {
		return board.Tile{}, nil, err
	}
	t, err := g.tile(index)
	if err != nil {
		return board.Tile{}, nil, err
	}
	if !t.Purchasable() {
		return board.Tile{}, nil, &rules.IllegalActionError{Action: action, Phase: g.phase,
			Reason: fmt.Sprintf("%s cannot be owned", t.Name)}
	}
	h := g.holdings[index]
	if h == nil || h.Owner != g.CurrentPlayer() {
		return board.Tile{}, nil, &rules.OwnershipError{Tile: index, Reason: fmt.Sprintf("%s is not owned by %s", t.Name, g.CurrentPlayer())}
	}
	return t, h, nil
}

func (g *Game) groupLevels(group board.Group) (lo, hi int) {
	lo, hi = board.HotelLevel, 0
	for _, idx := range g.board.Group(group) {
		lvl := 0
		if h := g.holdings[idx]; h != nil {
			lvl = h.Level()
		}
		lo = min(lo, lvl)
		hi = max(hi, lvl)
	}
	return lo, hi
}

func (g *Game) checkBuild(index int) (board.Tile, *Holding, error) {
	t, h, err := g.ownedTile(rules.ActionBuildHouse, index)
	if err != nil {
		return t, h, err
	}
	p := g.currentPlayer()
	if g.debt != nil {
		return t, h, &rules.IllegalActionError{Action: rules.ActionBuildHouse, Phase: g.phase, Reason: "debt must be settled first"}
	}
	if t.Kind != board.KindStreet {
		return t, h, &rules.IllegalActionError{Action: rules.ActionBuildHouse, Phase: g.phase, Reason: fmt.Sprintf("%s is not a street", t.Name)}
	}
	if !g.ownsGroup(p.Name, t.Street.Group) {
		return t, h, &rules.OwnershipError{Tile: index, Reason: fmt.Sprintf("%s does not own every %s street", p.Name, t.Street.Group)}
	}
	for _, idx := range g.board.Group(t.Street.Group) {
		if g.holdings[idx].Mortgaged {
			return t, h, &rules.OwnershipError{Tile: index, Reason: fmt.Sprintf("tile %d of the group is mortgaged", idx)}
		}
	}
	level := h.Level()
	if level == board.HotelLevel {
		return t, h, &rules.IllegalActionError{Action: rules.ActionBuildHouse, Phase: g.phase, Reason: fmt.Sprintf("%s already has a hotel", t.Name)}
	}
	lo, hi := g.groupLevels(t.Street.Group)
	if level+1-lo > 1 {
		return t, h, &rules.UnevenBuildError{Tile: index, Level: level, GroupMin: lo, GroupMax: hi}
	}
	if p.Cash < t.Street.HouseCost {
		return t, h, &rules.InsufficientFundsError{Player: p.Name, Needed: t.Street.HouseCost, Cash: p.Cash}
	}
	if level == board.HotelLevel-1 && g.bank.Hotels < 1 {
		return t, h, &rules.InsufficientStockError{Item: "hotels", Needed: 1, Available: g.bank.Hotels}
	}
	if level < board.HotelLevel-1 && g.bank.Houses < 1 {
		return t, h, &rules.InsufficientStockError{Item: "houses", Needed: 1, Available: g.bank.Houses}
	}
	return t, h, nil
}

// BuildHouse adds one level of development to a street. The fifth level
// swaps four houses for a hotel.
func (g *Game) BuildHouse(index int) (*Result, error) {
	t, h, err := g.checkBuild(index)
	if err != nil {
		return nil, err
	}
	g.begin()
	p := g.currentPlayer()
	g.transfer(p, nil, t.Street.HouseCost)
	if h.Houses == board.HotelLevel-1 {
		_ = g.bank.TakeHotel()
		g.bank.ReturnHouses(h.Houses)
		h.Houses = 0
		h.Hotel = true
		g.emit(rules.NewEventWithAmount(rules.EventHotelBuilt, p.Name, index, t.Street.HouseCost,
			fmt.Sprintf("%s built a hotel on %s", p.Name, t.Name)))
	} else {
		_ = g.bank.TakeHouse()
		h.Houses++
		g.emit(rules.NewEventWithAmount(rules.EventHouseBuilt, p.Name, index, t.Street.HouseCost,
			fmt.Sprintf("%s built house %d on %s", p.Name, h.Houses, t.Name)))
	}
	return g.finish(rules.ActionBuildHouse, p.Name, nil), nil
}

// SellHouse sells one level of development back to the bank at half cost.
func (g *Game) SellHouse(index int) (*Result, error) {
	t, h, err := g.ownedTile(rules.ActionSellHouse, index)
	if err != nil {
		return nil, err
	}
	if t.Kind != board.KindStreet || !h.hasBuildings() {
		return nil, &rules.IllegalActionError{Action: rules.ActionSellHouse, Phase: g.phase, Reason: fmt.Sprintf("%s has no buildings", t.Name)}
	}
	lo, hi := g.groupLevels(t.Street.Group)
	if h.Level() < hi {
		return nil, &rules.UnevenBuildError{Tile: index, Level: h.Level(), GroupMin: lo, GroupMax: hi}
	}
	if h.Hotel && g.bank.Houses < board.HotelLevel-1 {
		return nil, &rules.InsufficientStockError{Item: "houses", Needed: board.HotelLevel - 1, Available: g.bank.Houses}
	}

	g.begin()
	p := g.currentPlayer()
	refund := t.Street.HouseCost / 2
	if h.Hotel {
		g.bank.ReturnHotel()
		g.bank.Houses -= board.HotelLevel - 1
		h.Hotel = false
		h.Houses = board.HotelLevel - 1
	} else {
		g.bank.ReturnHouses(1)
		h.Houses--
	}
	g.transfer(nil, p, refund)
	g.emit(rules.NewEventWithAmount(rules.EventHouseSold, p.Name, index, refund,
		fmt.Sprintf("%s sold a building on %s for $%d", p.Name, t.Name, refund)))
	g.afterLiquidation()
	return g.finish(rules.ActionSellHouse, p.Name, nil), nil
}

// MortgageProperty pledges an undeveloped tile to the bank for half its price.
func (g *Game) MortgageProperty(index int) (*Result, error) {
	t, h, err := g.ownedTile(rules.ActionMortgageProperty, index)
	if err != nil {
		return nil, err
	}
	if h.Mortgaged {
		return nil, &rules.IllegalActionError{Action: rules.ActionMortgageProperty, Phase: g.phase, Reason: fmt.Sprintf("%s is already mortgaged", t.Name)}
	}
	if h.hasBuildings() {
		return nil, &rules.IllegalActionError{Action: rules.ActionMortgageProperty, Phase: g.phase, Reason: fmt.Sprintf("%s still has buildings", t.Name)}
	}

	g.begin()
	p := g.currentPlayer()
	h.Mortgaged = true
	g.transfer(nil, p, t.MortgageValue())
	g.emit(rules.NewEventWithAmount(rules.EventMortgaged, p.Name, index, t.MortgageValue(),
		fmt.Sprintf("%s mortgaged %s for $%d", p.Name, t.Name, t.MortgageValue())))
	g.afterLiquidation()
	return g.finish(rules.ActionMortgageProperty, p.Name, nil), nil
}

// UnmortgageProperty lifts a mortgage for its value plus 10% interest.
func (g *Game) UnmortgageProperty(index int) (*Result, error) {
	t, h, err := g.ownedTile(rules.ActionUnmortgageProperty, index)
	if err != nil {
		return nil, err
	}
	if !h.Mortgaged {
		return nil, &rules.IllegalActionError{Action: rules.ActionUnmortgageProperty, Phase: g.phase, Reason: fmt.Sprintf("%s is not mortgaged", t.Name)}
	}
	if g.debt != nil {
		return nil, &rules.IllegalActionError{Action: rules.ActionUnmortgageProperty, Phase: g.phase, Reason: "debt must be settled first"}
	}
	p := g.currentPlayer()
	cost := unmortgageCost(t)
	if p.Cash < cost {
		return nil, &rules.InsufficientFundsError{Player: p.Name, Needed: cost, Cash: p.Cash}
	}

	g.begin()
	h.Mortgaged = false
	g.transfer(p, nil, cost)
	g.emit(rules.NewEventWithAmount(rules.EventUnmortgaged, p.Name, index, cost,
		fmt.Sprintf("%s lifted the mortgage on %s for $%d", p.Name, t.Name, cost)))
	return g.finish(rules.ActionUnmortgageProperty, p.Name, nil), nil
}
