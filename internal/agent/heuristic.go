package agent

import (
	"context"
	"fmt"

	"github.com/thraizz/monopoly-server-go/internal/game/board"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// Heuristic is the rule-of-thumb player used when no smarter client is
// attached, and as the fallback when a client's decision fails.
type Heuristic struct {
	board *board.Board

	// BuyAbove is the cash a player must hold to buy a property it lands on.
	BuyAbove int
	// BailAbove is the cash a player must hold to pay bail instead of rolling.
	BailAbove int
	// Reserve is the cash kept back when building, bidding or lifting mortgages.
	Reserve int
	// BidStep is the raise over the current high bid.
	BidStep int
}

// NewHeuristic creates a heuristic provider for the standard board.
func NewHeuristic() *Heuristic {
	return &Heuristic{
		board:     board.Standard(),
		BuyAbove:  200,
		BailAbove: 100,
		Reserve:   300,
		BidStep:   10,
	}
}

func (h *Heuristic) Name() string { return "heuristic" }

func (h *Heuristic) Decide(_ context.Context, obs Observation) (Decision, error) {
	me, ok := obs.Self()
	if !ok {
		return Decision{}, fmt.Errorf("player %q is not seated", obs.Player)
	}

	switch obs.Actions.Phase {
	case rules.PhaseAuctionInProgress:
		return h.bid(obs, me.Cash), nil
	case rules.PhaseInJail:
		if obs.Can(rules.ActionUseJailCard) {
			return call(rules.ActionUseJailCard), nil
		}
		if obs.Can(rules.ActionPayBail) && me.Cash > h.BailAbove {
			return call(rules.ActionPayBail), nil
		}
		return call(rules.ActionRollForDoubles), nil
	}

	if obs.Actions.Debt > 0 {
		if d, ok := h.raise(obs); ok {
			return d, nil
		}
	}

	switch obs.Actions.Phase {
	case rules.PhaseAwaitingPurchaseDecision:
		if obs.Can(rules.ActionBuyProperty) && me.Cash > h.BuyAbove {
			return call(rules.ActionBuyProperty), nil
		}
		return call(rules.ActionDeclinePurchase), nil
	case rules.PhaseAwaitingRoll:
		if d, ok := h.build(obs, me.Cash); ok {
			return d, nil
		}
		return call(rules.ActionRollAndMove), nil
	case rules.PhaseAwaitingEndTurn:
		if obs.Actions.Debt == 0 {
			if d, ok := h.unmortgage(obs, me.Cash); ok {
				return d, nil
			}
			if d, ok := h.build(obs, me.Cash); ok {
				return d, nil
			}
		}
		return call(rules.ActionEndTurn), nil
	}
	return Decision{}, fmt.Errorf("no move for %s in phase %s", obs.Player, obs.Actions.Phase)
}

// raise picks the cheapest way to free cash: sell a building, then mortgage.
func (h *Heuristic) raise(obs Observation) (Decision, bool) {
	if spec, ok := obs.Spec(rules.ActionSellHouse); ok && len(spec.Tiles) > 0 {
		return onTile(rules.ActionSellHouse, spec.Tiles[0]), true
	}
	if spec, ok := obs.Spec(rules.ActionMortgageProperty); ok && len(spec.Tiles) > 0 {
		return onTile(rules.ActionMortgageProperty, spec.Tiles[0]), true
	}
	return Decision{}, false
}

func (h *Heuristic) build(obs Observation, cash int) (Decision, bool) {
	spec, ok := obs.Spec(rules.ActionBuildHouse)
	if !ok {
		return Decision{}, false
	}
	for _, idx := range spec.Tiles {
		t, ok := h.board.Tile(idx)
		if !ok || t.Street == nil {
			continue
		}
		if cash-t.Street.HouseCost >= h.Reserve {
			return onTile(rules.ActionBuildHouse, idx), true
		}
	}
	return Decision{}, false
}

func (h *Heuristic) unmortgage(obs Observation, cash int) (Decision, bool) {
	spec, ok := obs.Spec(rules.ActionUnmortgageProperty)
	if !ok {
		return Decision{}, false
	}
	for _, idx := range spec.Tiles {
		t, ok := h.board.Tile(idx)
		if !ok {
			continue
		}
		mv := t.MortgageValue()
		if cash-(mv+(mv+9)/10) >= 2*h.Reserve {
			return onTile(rules.ActionUnmortgageProperty, idx), true
		}
	}
	return Decision{}, false
}

// bid raises by BidStep while the price stays under the tile's list price and
// the reserve is kept.
func (h *Heuristic) bid(obs Observation, cash int) Decision {
	a := obs.State.Auction
	if a == nil {
		return pass(obs.Player)
	}
	t, ok := h.board.Tile(a.Tile)
	if !ok {
		return pass(obs.Player)
	}
	next := a.HighBid + h.BidStep
	if next <= t.Price && cash-next >= h.Reserve/2 {
		return bid(obs.Player, next)
	}
	return pass(obs.Player)
}
