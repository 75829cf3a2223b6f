package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thraizz/monopoly-server-go/internal/game/cards"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

func actionNames(set ActionSet) []rules.Action {
	out := make([]rules.Action, len(set.Actions))
	for i, a := range set.Actions {
		out[i] = a.Name
	}
	return out
}

func TestDebtSettledByMortgage(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{StartingCash: 100}, Roll{1, 3})
	g.give(t, "A", 39)
	before := g.totalCash()

	res := mustOK(t)(g.RollAndMove())
	assert.Contains(t, eventTypes(res), rules.EventDebtIncurred)
	require.NotNil(t, g.debt)
	assert.Equal(t, 200, g.debt.Total())
	assert.Equal(t, rules.PhaseAwaitingEndTurn, g.Phase())

	set := g.AvailableActions()
	assert.Equal(t, 200, set.Debt)
	assert.Contains(t, actionNames(set), rules.ActionMortgageProperty)
	assert.NotContains(t, actionNames(set), rules.ActionUnmortgageProperty)

	res = mustOK(t)(g.MortgageProperty(39))
	assert.Contains(t, eventTypes(res), rules.EventDebtSettled)
	assert.Nil(t, g.debt)
	assert.Equal(t, 100, g.p(t, "A").Cash)
	assert.Equal(t, before, g.totalCash())
}

func TestDebtBlocksBuildingAndUnmortgage(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{StartingCash: 100}, Roll{1, 3})
	g.give(t, "A", mediterranean, baltic, 39)
	g.holdings[39].Mortgaged = true

	mustOK(t)(g.RollAndMove())
	require.NotNil(t, g.debt)

	_, err := g.BuildHouse(mediterranean)
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err))
	_, err = g.UnmortgageProperty(39)
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err))
}

func TestSettlingDebtRestoresExtraRoll(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{StartingCash: 100}, Roll{2, 2})
	g.give(t, "A", 39)

	mustOK(t)(g.RollAndMove())
	require.NotNil(t, g.debt)
	assert.Equal(t, rules.PhaseAwaitingEndTurn, g.Phase())

	mustOK(t)(g.MortgageProperty(39))
	assert.Nil(t, g.debt)
	assert.Equal(t, rules.PhaseAwaitingRoll, g.Phase())
}

func TestEndTurnWithDebtBankrupts(t *testing.T) {
	g := newTestGame(t, []string{"A", "B", "C"}, Options{StartingCash: 100}, Roll{2, 4})
	g.give(t, "B", 6, 8, 9)
	g.holdings[6].Hotel = true
	g.give(t, "A", 39)
	jailCard := cards.ChanceCards()[8]
	g.p(t, "A").GiveJailCard(jailCard)
	before := g.totalCash()

	mustOK(t)(g.RollAndMove())
	require.NotNil(t, g.debt)
	assert.Equal(t, 550, g.debt.Total())

	res := mustOK(t)(g.EndTurn())
	assert.Contains(t, eventTypes(res), rules.EventBankrupt)
	a := g.p(t, "A")
	assert.True(t, a.Bankrupt)
	assert.Contains(t, a.BankruptReason, "ended the turn in debt: $550 to B")
	assert.Zero(t, a.Cash)
	assert.Empty(t, a.Owned)
	assert.Empty(t, a.JailCards)
	assert.Nil(t, g.holdings[39])
	assert.Equal(t, 200, g.p(t, "B").Cash, "creditor takes what was left")
	assert.Equal(t, before, g.totalCash())

	order := g.decks[cards.Chance].Order()
	assert.Equal(t, 8, order[len(order)-1].ID)

	assert.False(t, g.Over())
	assert.Equal(t, "B", g.CurrentPlayer())
	assert.Equal(t, rules.PhaseAwaitingRoll, g.Phase())

	// Bankrupt players are skipped in rotation.
	g.dice.Push(Roll{1, 2})
	mustOK(t)(g.RollAndMove())
	mustOK(t)(g.ForceEndTurn())
	assert.Equal(t, "C", g.CurrentPlayer())
	g.dice.Push(Roll{1, 2})
	mustOK(t)(g.RollAndMove())
	mustOK(t)(g.ForceEndTurn())
	assert.Equal(t, "B", g.CurrentPlayer())
}

func TestBankruptcyReturnsBuildingsToBank(t *testing.T) {
	g := newTestGame(t, []string{"A", "B", "C"}, Options{StartingCash: 100}, Roll{1, 3})
	g.give(t, "A", mediterranean, baltic)
	mustOK(t)(g.BuildHouse(mediterranean))
	mustOK(t)(g.BuildHouse(baltic))
	assert.Zero(t, g.p(t, "A").Cash)
	housesBefore := g.bank.Houses

	mustOK(t)(g.RollAndMove())
	mustOK(t)(g.EndTurn())
	assert.True(t, g.p(t, "A").Bankrupt)
	assert.Equal(t, housesBefore+2, g.bank.Houses)
}

func TestLastPlayerStandingWins(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{StartingCash: 100}, Roll{1, 3})

	mustOK(t)(g.RollAndMove())
	res := mustOK(t)(g.EndTurn())
	assert.Contains(t, eventTypes(res), rules.EventGameOver)
	assert.True(t, g.Over())
	assert.Equal(t, "B", g.Winner())
	assert.Empty(t, g.AvailableActions().Actions)

	_, err := g.RollAndMove()
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err))
	_, err = g.ForceEndTurn()
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err))

	standings := g.Standings()
	require.Len(t, standings, 2)
	assert.Equal(t, "B", standings[0].Name)
	assert.Equal(t, 1, standings[0].Rank)
	assert.True(t, standings[1].Bankrupt)
}
