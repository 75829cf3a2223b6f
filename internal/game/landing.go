package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game/board"
	"github.com/thraizz/monopoly-server-go/internal/game/cards"
	"github.com/thraizz/monopoly-server-go/internal/game/player"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// resolveLanding applies the effect of the tile the player now occupies.
func (g *Game) resolveLanding(p *player.Player, diceSum int, mod rentModifier) {
	t, _ := g.board.Tile(p.Position)
	switch t.Kind {
	case board.KindStreet, board.KindRailroad, board.KindUtility:
		g.landOnProperty(p, t, diceSum, mod)
	case board.KindTax:
		g.charge(p, nil, t.Amount, rules.EventTaxPaid, t.Name)
	case board.KindChance:
		g.drawCard(p, cards.Chance)
	case board.KindCommunityChest:
		g.drawCard(p, cards.CommunityChest)
	case board.KindGoToJail:
		g.sendToJail(p, "landed on Go To Jail")
	}
}

func (g *Game) landOnProperty(p *player.Player, t board.Tile, diceSum int, mod rentModifier) {
	h := g.holdings[t.Index]
	switch {
	case h == nil:
		g.setPhase(rules.PhaseAwaitingPurchaseDecision)
	case h.Owner == p.Name:
	case h.Mortgaged:
		g.emit(rules.NewEvent(rules.EventRentPaid, p.Name, t.Index,
			fmt.Sprintf("%s is mortgaged, no rent due", t.Name)))
	default:
		if t.Kind == board.KindUtility && mod.utilityMultiplier > 0 {
			diceSum = g.throw(p).Sum()
		}
		owner, err := g.findPlayer(h.Owner)
		if err != nil {
			g.logger.Error("holding owner missing", zap.Int("tile", t.Index), zap.String("owner", h.Owner))
			return
		}
		rent := g.rentFor(t, h, diceSum, mod)
		g.charge(p, owner, rent, rules.EventRentPaid, "rent on "+t.Name)
	}
}

func (g *Game) drawCard(p *player.Player, kind cards.DeckKind) {
	deck := g.decks[kind]
	c, err := deck.Draw()
	if err != nil {
		g.logger.Warn("no card to draw", zap.String("deck", string(kind)), zap.Error(err))
		return
	}
	evt := rules.NewEvent(rules.EventCardDrawn, p.Name, p.Position, c.Text)
	g.emit(evt)

	if c.Effect == cards.EffectJailFree {
		p.GiveJailCard(c)
		g.emit(rules.NewEvent(rules.EventJailCardGiven, p.Name, rules.NoTile,
			fmt.Sprintf("%s keeps a Get Out of Jail Free card", p.Name)))
		return
	}
	deck.Discard(c)
	g.applyCard(p, c)
}

func (g *Game) applyCard(p *player.Player, c cards.Card) {
	diceSum := 0
	if g.lastRoll != nil {
		diceSum = g.lastRoll.Sum()
	}

	switch c.Effect {
	case cards.EffectAdvanceTo:
		passed := c.Destination < p.Position
		g.moveTo(p, c.Destination, passed && c.CollectSalary)
		g.resolveLanding(p, diceSum, rentModifier{})
	case cards.EffectAdvanceToNearest:
		dest := g.board.NearestRailroad(p.Position)
		mod := rentModifier{railroadMultiplier: c.RentMultiplier}
		if c.Target == board.KindUtility {
			dest = g.board.NearestUtility(p.Position)
			mod = rentModifier{utilityMultiplier: c.RentMultiplier}
		}
		g.moveTo(p, dest, dest < p.Position)
		g.resolveLanding(p, diceSum, mod)
	case cards.EffectCollect:
		g.transfer(nil, p, c.Amount)
		g.emit(rules.NewEventWithAmount(rules.EventPayment, p.Name, rules.NoTile, c.Amount,
			fmt.Sprintf("%s collected $%d from the bank", p.Name, c.Amount)))
	case cards.EffectPay:
		g.charge(p, nil, c.Amount, rules.EventPayment, c.Text)
	case cards.EffectMoveBack:
		g.moveTo(p, (p.Position-c.Amount+board.Size)%board.Size, false)
		g.resolveLanding(p, diceSum, rentModifier{})
	case cards.EffectGoToJail:
		g.sendToJail(p, "card")
	case cards.EffectRepairs:
		houses, hotels := 0, 0
		for _, idx := range p.Owned {
			if h := g.holdings[idx]; h != nil {
				houses += h.Houses
				if h.Hotel {
					hotels++
				}
			}
		}
		g.charge(p, nil, houses*c.HouseCost+hotels*c.HotelCost, rules.EventPayment, c.Text)
	case cards.EffectPayEachPlayer:
		for _, other := range g.activePlayers() {
			if other != p {
				g.charge(p, other, c.Amount, rules.EventPayment, c.Text)
			}
		}
	case cards.EffectCollectFromEachPlayer:
		for _, other := range g.activePlayers() {
			if other != p {
				g.charge(other, p, c.Amount, rules.EventPayment, c.Text)
			}
		}
	}
}
