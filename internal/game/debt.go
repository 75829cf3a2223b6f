package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game/player"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// Obligation is money owed to a creditor. An empty Creditor is the bank.
type Obligation struct {
	Creditor string `json:"creditor,omitempty"`
	Amount   int    `json:"amount"`
	Reason   string `json:"reason"`
}

// Debt is an unpaid balance the current player must clear before ending the turn.
type Debt struct {
	Debtor      string       `json:"debtor"`
	Obligations []Obligation `json:"obligations"`
}

// Total is the sum owed.
func (d *Debt) Total() int {
	total := 0
	for _, o := range d.Obligations {
		total += o.Amount
	}
	return total
}

func (d *Debt) clone() *Debt {
	if d == nil {
		return nil
	}
	c := *d
	c.Obligations = append([]Obligation(nil), d.Obligations...)
	return &c
}

func creditorName(creditor *player.Player) string {
	if creditor == nil {
		return "the bank"
	}
	return creditor.Name
}

// transfer moves cash the payer is known to have. A nil party is the bank.
func (g *Game) transfer(payer, creditor *player.Player, amount int) {
	if payer == nil {
		g.bank.Pay(amount)
	} else {
		payer.Cash -= amount
	}
	if creditor == nil {
		g.bank.Receive(amount)
	} else {
		creditor.Credit(amount)
	}
}

// charge collects a mandatory payment. The current player defers what they
// cannot cover as a debt; anyone else who cannot pay is bankrupted at once.
func (g *Game) charge(payer, creditor *player.Player, amount int, kind rules.EventType, reason string) {
	if amount <= 0 || payer.Bankrupt {
		return
	}
	owesAlready := g.debt != nil && g.debt.Debtor == payer.Name
	if !owesAlready && payer.Cash >= amount {
		g.transfer(payer, creditor, amount)
		evt := rules.NewEventWithAmount(kind, payer.Name, payer.Position, amount,
			fmt.Sprintf("%s paid $%d to %s (%s)", payer.Name, amount, creditorName(creditor), reason))
		if creditor != nil {
			evt.Counterparty = creditor.Name
		}
		g.emit(evt)
		return
	}

	ob := Obligation{Amount: amount, Reason: reason}
	if creditor != nil {
		ob.Creditor = creditor.Name
	}
	if payer != g.currentPlayer() {
		// Off-turn players cannot liquidate, so an unpayable charge ends them.
		g.bankrupt(payer, []Obligation{ob}, "could not pay out of turn")
		return
	}
	if g.debt == nil {
		g.debt = &Debt{Debtor: payer.Name}
	}
	g.debt.Obligations = append(g.debt.Obligations, ob)
	evt := rules.NewEventWithAmount(rules.EventDebtIncurred, payer.Name, payer.Position, amount,
		fmt.Sprintf("%s owes $%d to %s (%s) and must raise cash", payer.Name, amount, creditorName(creditor), reason))
	evt.Counterparty = ob.Creditor
	g.emit(evt)
}

// trySettleDebt pays off the pending debt when the debtor can now cover all of it.
func (g *Game) trySettleDebt() bool {
	if g.debt == nil {
		return true
	}
	debtor, err := g.findPlayer(g.debt.Debtor)
	if err != nil || debtor.Cash < g.debt.Total() {
		return false
	}
	for _, ob := range g.debt.Obligations {
		creditor := g.creditor(ob.Creditor)
		g.transfer(debtor, creditor, ob.Amount)
	}
	total := g.debt.Total()
	g.debt = nil
	g.emit(rules.NewEventWithAmount(rules.EventDebtSettled, debtor.Name, rules.NoTile, total,
		fmt.Sprintf("%s settled $%d of debts", debtor.Name, total)))
	return true
}

// afterLiquidation settles what it can and restores a pending extra roll.
func (g *Game) afterLiquidation() {
	if g.debt == nil || !g.trySettleDebt() {
		return
	}
	if g.phase == rules.PhaseAwaitingEndTurn && g.extraRoll && !g.currentPlayer().InJail {
		g.setPhase(rules.PhaseAwaitingRoll)
	}
}

func (g *Game) creditor(name string) *player.Player {
	if name == "" {
		return nil
	}
	p, err := g.findPlayer(name)
	if err != nil || p.Bankrupt {
		return nil
	}
	return p
}

// bankrupt removes a player from the game. Remaining cash goes to the
// creditors in order; holdings, buildings and jail cards go back to the bank.
func (g *Game) bankrupt(p *player.Player, owed []Obligation, why string) {
	for _, ob := range owed {
		if p.Cash == 0 {
			break
		}
		amount := ob.Amount
		if amount > p.Cash {
			amount = p.Cash
		}
		g.transfer(p, g.creditor(ob.Creditor), amount)
	}
	if p.Cash > 0 {
		g.transfer(p, nil, p.Cash)
	}

	for _, idx := range append([]int(nil), p.Owned...) {
		if h := g.holdings[idx]; h != nil {
			if h.Hotel {
				g.bank.ReturnHotel()
			}
			g.bank.ReturnHouses(h.Houses)
			delete(g.holdings, idx)
		}
		p.RemoveTile(idx)
	}
	for {
		c, ok := p.TakeJailCard()
		if !ok {
			break
		}
		g.decks[c.Deck].Return(c)
	}
	p.Bankrupt = true
	p.BankruptReason = bankruptReason(why, owed)
	p.Release()
	if g.debt != nil && g.debt.Debtor == p.Name {
		g.debt = nil
	}

	g.emit(rules.NewEvent(rules.EventBankrupt, p.Name, rules.NoTile,
		fmt.Sprintf("%s is bankrupt: %s", p.Name, p.BankruptReason)))
	g.logger.Info("player bankrupt", zap.String("player", p.Name), zap.Int("turn", g.turn))

	g.checkGameOver()
}

func bankruptReason(why string, owed []Obligation) string {
	parts := make([]string, 0, len(owed))
	for _, ob := range owed {
		to := ob.Creditor
		if to == "" {
			to = "the bank"
		}
		parts = append(parts, fmt.Sprintf("$%d to %s for %s", ob.Amount, to, ob.Reason))
	}
	if len(parts) == 0 {
		return why
	}
	return why + ": " + strings.Join(parts, ", ")
}

// checkGameOver ends the game once a single solvent player remains.
func (g *Game) checkGameOver() bool {
	active := g.activePlayers()
	if len(active) != 1 {
		return false
	}
	g.winner = active[0].Name
	g.auction = nil
	g.setPhase(rules.PhaseGameOver)
	g.emit(rules.NewEvent(rules.EventGameOver, g.winner, rules.NoTile,
		fmt.Sprintf("%s wins", g.winner)))
	g.logger.Info("game over", zap.String("winner", g.winner), zap.Int("turn", g.turn))
	return true
}
