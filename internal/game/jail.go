package game

import (
	"fmt"

	"github.com/thraizz/monopoly-server-go/internal/game/player"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// PayBail releases the current player for the bail fee; they then roll normally.
func (g *Game) PayBail() (*Result, error) {
	if err := g.requirePhase(rules.ActionPayBail); err != nil {
		return nil, err
	}
	p := g.currentPlayer()
	if p.Cash < g.opts.Bail {
		return nil, &rules.InsufficientFundsError{Player: p.Name, Needed: g.opts.Bail, Cash: p.Cash}
	}
	g.begin()
	g.transfer(p, nil, g.opts.Bail)
	g.release(p, fmt.Sprintf("%s paid $%d bail", p.Name, g.opts.Bail), g.opts.Bail)
	g.setPhase(rules.PhaseAwaitingRoll)
	return g.finish(rules.ActionPayBail, p.Name, nil), nil
}

// UseJailCard spends a held Get Out of Jail Free card, returning it to its deck.
func (g *Game) UseJailCard() (*Result, error) {
	if err := g.requirePhase(rules.ActionUseJailCard); err != nil {
		return nil, err
	}
	p := g.currentPlayer()
	if len(p.JailCards) == 0 {
		return nil, &rules.NoJailCardError{Player: p.Name}
	}
	g.begin()
	c, _ := p.TakeJailCard()
	g.decks[c.Deck].Return(c)
	g.release(p, fmt.Sprintf("%s used a Get Out of Jail Free card", p.Name), 0)
	g.setPhase(rules.PhaseAwaitingRoll)
	return g.finish(rules.ActionUseJailCard, p.Name, nil), nil
}

// RollForDoubles tries to leave jail by rolling doubles. Doubles move the
// player without granting another roll; the third miss forces bail.
func (g *Game) RollForDoubles() (*Result, error) {
	if err := g.requirePhase(rules.ActionRollForDoubles); err != nil {
		return nil, err
	}
	g.begin()
	p := g.currentPlayer()
	roll := g.throw(p)
	g.extraRoll = false

	if roll.Doubles() {
		g.release(p, fmt.Sprintf("%s rolled doubles and left jail", p.Name), 0)
		g.setPhase(rules.PhaseResolvingLanding)
		g.advance(p, roll.Sum())
		g.resolveLanding(p, roll.Sum(), rentModifier{})
		g.settleAfterMove(p)
		return g.finish(rules.ActionRollForDoubles, p.Name, &roll), nil
	}

	p.JailAttempts++
	g.emit(rules.NewEventWithAmount(rules.EventJailRollFailed, p.Name, p.Position, p.JailAttempts,
		fmt.Sprintf("%s failed to roll doubles (attempt %d)", p.Name, p.JailAttempts)))
	if p.JailAttempts >= maxJailAttempts {
		g.release(p, fmt.Sprintf("%s served the maximum jail time", p.Name), 0)
		g.charge(p, nil, g.opts.Bail, rules.EventPayment, "forced bail")
	}
	if g.phase != rules.PhaseGameOver {
		g.setPhase(rules.PhaseAwaitingEndTurn)
	}
	return g.finish(rules.ActionRollForDoubles, p.Name, &roll), nil
}

func (g *Game) release(p *player.Player, description string, amount int) {
	p.Release()
	g.emit(rules.NewEventWithAmount(rules.EventReleased, p.Name, p.Position, amount, description))
}
