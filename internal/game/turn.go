package game

import (
	"fmt"

	"github.com/thraizz/monopoly-server-go/internal/game/board"
	"github.com/thraizz/monopoly-server-go/internal/game/player"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// RollAndMove throws the dice for the current player and resolves the landing.
func (g *Game) RollAndMove() (*Result, error) {
	if err := g.requirePhase(rules.ActionRollAndMove); err != nil {
		return nil, err
	}
	g.begin()
	p := g.currentPlayer()
	roll := g.throw(p)

	if roll.Doubles() {
		g.doubles++
		if g.doubles >= maxDoubles {
			g.extraRoll = false
			g.sendToJail(p, "rolled doubles three times")
			g.setPhase(rules.PhaseAwaitingEndTurn)
			return g.finish(rules.ActionRollAndMove, p.Name, &roll), nil
		}
	}
	g.extraRoll = roll.Doubles()

	g.setPhase(rules.PhaseResolvingLanding)
	g.advance(p, roll.Sum())
	g.resolveLanding(p, roll.Sum(), rentModifier{})
	g.settleAfterMove(p)
	return g.finish(rules.ActionRollAndMove, p.Name, &roll), nil
}

func (g *Game) throw(p *player.Player) Roll {
	roll := g.dice.Roll()
	g.lastRoll = &roll
	evt := rules.NewEventWithAmount(rules.EventDiceRolled, p.Name, rules.NoTile, roll.Sum(),
		fmt.Sprintf("%s rolled %d and %d", p.Name, roll.D1, roll.D2))
	g.emit(evt)
	return roll
}

// advance moves forward by steps and pays salary when the token wraps past Go.
func (g *Game) advance(p *player.Player, steps int) {
	from := p.Position
	to := (from + steps) % board.Size
	g.moveTo(p, to, from+steps >= board.Size)
}

// moveTo places the token on to, paying salary if passedGo.
func (g *Game) moveTo(p *player.Player, to int, passedGo bool) {
	p.Position = to
	t, _ := g.board.Tile(to)
	g.emit(rules.NewEvent(rules.EventMoved, p.Name, to, fmt.Sprintf("%s moved to %s", p.Name, t.Name)))
	if passedGo {
		g.transfer(nil, p, g.opts.Salary)
		g.emit(rules.NewEventWithAmount(rules.EventPassedGo, p.Name, board.GoIndex, g.opts.Salary,
			fmt.Sprintf("%s passed Go and collected $%d", p.Name, g.opts.Salary)))
	}
}

func (g *Game) sendToJail(p *player.Player, reason string) {
	p.SendToJail(board.JailIndex)
	g.emit(rules.NewEvent(rules.EventSentToJail, p.Name, board.JailIndex,
		fmt.Sprintf("%s went to jail (%s)", p.Name, reason)))
}

// settleAfterMove picks the phase once a landing has been resolved.
func (g *Game) settleAfterMove(p *player.Player) {
	switch {
	case g.phase == rules.PhaseGameOver, g.phase == rules.PhaseAwaitingPurchaseDecision:
		return
	case p.InJail:
		g.extraRoll = false
		g.setPhase(rules.PhaseAwaitingEndTurn)
	default:
		g.setPhase(g.continuationPhase())
	}
}

// continuationPhase is where the mover goes after a purchase, auction or landing.
func (g *Game) continuationPhase() rules.Phase {
	if g.extraRoll && g.debt == nil && !g.currentPlayer().InJail {
		return rules.PhaseAwaitingRoll
	}
	return rules.PhaseAwaitingEndTurn
}

// EndTurn passes play to the next solvent player. An outstanding debt
// the player still cannot pay bankrupts them.
func (g *Game) EndTurn() (*Result, error) {
	if err := g.requirePhase(rules.ActionEndTurn); err != nil {
		return nil, err
	}
	g.begin()
	actor := g.currentPlayer().Name
	g.closeTurn()
	return g.finish(rules.ActionEndTurn, actor, nil), nil
}

// ForceEndTurn ends the turn from any live phase. A pending purchase or
// auction is abandoned with the tile left unowned.
func (g *Game) ForceEndTurn() (*Result, error) {
	if g.phase == rules.PhaseGameOver {
		return nil, &rules.IllegalActionError{Action: rules.ActionEndTurn, Phase: g.phase, Reason: "game is over"}
	}
	g.begin()
	actor := g.currentPlayer().Name
	if g.auction != nil {
		g.emit(rules.NewEvent(rules.EventAuctionUnsold, actor, g.auction.Tile, "auction abandoned, tile stays with the bank"))
		g.auction = nil
	}
	g.closeTurn()
	return g.finish(rules.ActionEndTurn, actor, nil), nil
}

func (g *Game) closeTurn() {
	p := g.currentPlayer()
	if g.debt != nil && !g.trySettleDebt() {
		g.bankrupt(p, g.debt.Obligations, "ended the turn in debt")
		if g.Over() {
			return
		}
	}
	g.emit(rules.NewEvent(rules.EventTurnEnded, p.Name, rules.NoTile, fmt.Sprintf("%s ended the turn", p.Name)))
	if g.checkGameOver() {
		return
	}
	g.nextPlayer()
}

func (g *Game) nextPlayer() {
	g.doubles = 0
	g.extraRoll = false
	g.lastRoll = nil
	g.turn++
	for i := 1; i <= len(g.players); i++ {
		idx := (g.current + i) % len(g.players)
		if !g.players[idx].Bankrupt {
			g.current = idx
			break
		}
	}
	p := g.currentPlayer()
	if p.InJail {
		g.setPhase(rules.PhaseInJail)
	} else {
		g.setPhase(rules.PhaseAwaitingRoll)
	}
	g.emit(rules.NewEvent(rules.EventTurnStarted, p.Name, rules.NoTile,
		fmt.Sprintf("turn %d: %s to play", g.turn, p.Name)))
}
