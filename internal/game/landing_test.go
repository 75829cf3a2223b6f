package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thraizz/monopoly-server-go/internal/game/cards"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

func chance(ids ...int) []cards.Card {
	all := cards.ChanceCards()
	out := make([]cards.Card, len(ids))
	for i, id := range ids {
		out[i] = all[id]
	}
	return out
}

func chest(ids ...int) []cards.Card {
	all := cards.CommunityChestCards()
	out := make([]cards.Card, len(ids))
	for i, id := range ids {
		out[i] = all[id]
	}
	return out
}

func TestChanceAdvanceToBoardwalkOffersPurchase(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{}, Roll{3, 4})

	res := mustOK(t)(g.RollAndMove())
	assert.Contains(t, eventTypes(res), rules.EventCardDrawn)
	assert.Equal(t, 39, g.p(t, "A").Position)
	assert.Equal(t, 1500, g.p(t, "A").Cash)
	assert.Equal(t, rules.PhaseAwaitingPurchaseDecision, g.Phase())
}

func TestChanceAdvanceToGoPaysSalary(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{ChanceCards: chance(1)}, Roll{3, 4})

	res := mustOK(t)(g.RollAndMove())
	assert.Contains(t, eventTypes(res), rules.EventPassedGo)
	assert.Equal(t, 0, g.p(t, "A").Position)
	assert.Equal(t, 1700, g.p(t, "A").Cash)
	assert.Equal(t, rules.PhaseAwaitingEndTurn, g.Phase())
}

func TestChanceNearestRailroadDoublesRent(t *testing.T) {
	t.Run("forward without passing Go", func(t *testing.T) {
		g := newTestGame(t, []string{"A", "B"}, Options{ChanceCards: chance(4)}, Roll{3, 4})
		g.give(t, "B", 15)

		mustOK(t)(g.RollAndMove())
		assert.Equal(t, 15, g.p(t, "A").Position)
		assert.Equal(t, 1450, g.p(t, "A").Cash)
		assert.Equal(t, 1550, g.p(t, "B").Cash)
	})

	t.Run("wrapping past Go", func(t *testing.T) {
		g := newTestGame(t, []string{"A", "B"}, Options{ChanceCards: chance(5)}, Roll{1, 2})
		g.p(t, "A").Position = 33
		g.give(t, "B", 5)

		mustOK(t)(g.RollAndMove())
		assert.Equal(t, 5, g.p(t, "A").Position)
		assert.Equal(t, 1500+200-50, g.p(t, "A").Cash)
	})
}

func TestChanceNearestUtilityThrowsAgain(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{ChanceCards: chance(6)}, Roll{3, 4}, Roll{2, 3})
	g.give(t, "B", 12)

	res := mustOK(t)(g.RollAndMove())
	rolls := 0
	for _, e := range res.Events {
		if e.Type == rules.EventDiceRolled {
			rolls++
		}
	}
	assert.Equal(t, 2, rolls)
	assert.Equal(t, 12, g.p(t, "A").Position)
	assert.Equal(t, 1500-50, g.p(t, "A").Cash)
}

func TestCardEffects(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		setup func(t *testing.T, g *testGame)
		start int
		roll  Roll
		check func(t *testing.T, g *testGame)
		phase rules.Phase
	}{
		{
			name:  "go back three spaces onto income tax",
			opts:  Options{ChanceCards: chance(9)},
			roll:  Roll{3, 4},
			phase: rules.PhaseAwaitingEndTurn,
			check: func(t *testing.T, g *testGame) {
				assert.Equal(t, 4, g.p(t, "A").Position)
				assert.Equal(t, 1300, g.p(t, "A").Cash)
			},
		},
		{
			name:  "go to jail",
			opts:  Options{ChanceCards: chance(10)},
			roll:  Roll{3, 4},
			phase: rules.PhaseAwaitingEndTurn,
			check: func(t *testing.T, g *testGame) {
				a := g.p(t, "A")
				assert.True(t, a.InJail)
				assert.Equal(t, 10, a.Position)
				assert.Equal(t, 1500, a.Cash)
			},
		},
		{
			name: "general repairs",
			opts: Options{ChanceCards: chance(11)},
			setup: func(t *testing.T, g *testGame) {
				g.give(t, "A", mediterranean, baltic)
				g.holdings[mediterranean].Houses = 2
				g.holdings[baltic].Hotel = true
			},
			roll:  Roll{3, 4},
			phase: rules.PhaseAwaitingEndTurn,
			check: func(t *testing.T, g *testGame) {
				assert.Equal(t, 1500-2*25-100, g.p(t, "A").Cash)
			},
		},
		{
			name:  "pay each player",
			opts:  Options{ChanceCards: chance(14)},
			roll:  Roll{3, 4},
			phase: rules.PhaseAwaitingEndTurn,
			check: func(t *testing.T, g *testGame) {
				assert.Equal(t, 1400, g.p(t, "A").Cash)
				assert.Equal(t, 1550, g.p(t, "B").Cash)
				assert.Equal(t, 1550, g.p(t, "C").Cash)
			},
		},
		{
			name:  "birthday",
			opts:  Options{CommunityChestCards: chest(8)},
			start: 14,
			roll:  Roll{1, 2},
			phase: rules.PhaseAwaitingEndTurn,
			check: func(t *testing.T, g *testGame) {
				assert.Equal(t, 1520, g.p(t, "A").Cash)
				assert.Equal(t, 1490, g.p(t, "B").Cash)
				assert.Equal(t, 1490, g.p(t, "C").Cash)
			},
		},
		{
			name:  "bank error",
			opts:  Options{CommunityChestCards: chest(1)},
			start: 14,
			roll:  Roll{1, 2},
			phase: rules.PhaseAwaitingEndTurn,
			check: func(t *testing.T, g *testGame) {
				assert.Equal(t, 1700, g.p(t, "A").Cash)
			},
		},
		{
			name:  "unpayable fine becomes a debt",
			opts:  Options{ChanceCards: chance(12)},
			setup: func(t *testing.T, g *testGame) { g.p(t, "A").Cash = 10 },
			roll:  Roll{3, 4},
			phase: rules.PhaseAwaitingEndTurn,
			check: func(t *testing.T, g *testGame) {
				require.NotNil(t, g.debt)
				assert.Equal(t, 15, g.debt.Total())
				assert.Equal(t, 10, g.p(t, "A").Cash)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, []string{"A", "B", "C"}, tc.opts, tc.roll)
			g.p(t, "A").Position = tc.start
			if tc.setup != nil {
				tc.setup(t, g)
			}
			mustOK(t)(g.RollAndMove())
			assert.Equal(t, tc.phase, g.Phase())
			tc.check(t, g)
		})
	}
}

func TestBirthdayBankruptsBrokePayer(t *testing.T) {
	t.Run("game continues", func(t *testing.T) {
		g := newTestGame(t, []string{"A", "B", "C"}, Options{CommunityChestCards: chest(8)}, Roll{1, 2})
		g.p(t, "A").Position = 14
		g.p(t, "B").Cash = 5
		g.give(t, "B", oriental)

		res := mustOK(t)(g.RollAndMove())
		assert.Contains(t, eventTypes(res), rules.EventBankrupt)
		assert.True(t, g.p(t, "B").Bankrupt)
		assert.Contains(t, g.p(t, "B").BankruptReason, "could not pay out of turn")
		assert.Contains(t, g.p(t, "B").BankruptReason, "to A")
		for _, s := range g.Standings() {
			if s.Name == "B" {
				assert.Equal(t, g.p(t, "B").BankruptReason, s.Reason)
			}
		}
		view, err := g.PlayerStatus("B")
		require.NoError(t, err)
		assert.Equal(t, g.p(t, "B").BankruptReason, view.BankruptReason)
		assert.Nil(t, g.holdings[oriental])
		assert.Equal(t, 1515, g.p(t, "A").Cash)
		assert.Equal(t, 1490, g.p(t, "C").Cash)
		assert.False(t, g.Over())
	})

	t.Run("last opponent out", func(t *testing.T) {
		g := newTestGame(t, []string{"A", "B"}, Options{CommunityChestCards: chest(8)}, Roll{1, 2})
		g.p(t, "A").Position = 14
		g.p(t, "B").Cash = 5

		res := mustOK(t)(g.RollAndMove())
		assert.Contains(t, eventTypes(res), rules.EventGameOver)
		assert.True(t, g.Over())
		assert.Equal(t, "A", g.Winner())
		assert.Equal(t, rules.PhaseGameOver, res.Phase)
	})
}

func TestGoToJailTileEndsExtraRoll(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{}, Roll{2, 2})
	g.p(t, "A").Position = 26

	res := mustOK(t)(g.RollAndMove())
	assert.Contains(t, eventTypes(res), rules.EventSentToJail)
	a := g.p(t, "A")
	assert.True(t, a.InJail)
	assert.Equal(t, 10, a.Position)
	assert.Equal(t, 1500, a.Cash, "no salary on the way to jail")
	assert.Equal(t, rules.PhaseAwaitingEndTurn, g.Phase())
}

func TestLuxuryTax(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{}, Roll{1, 2})
	g.p(t, "A").Position = 35
	bankBefore := g.bank.Cash

	res := mustOK(t)(g.RollAndMove())
	assert.Contains(t, eventTypes(res), rules.EventTaxPaid)
	assert.Equal(t, 1400, g.p(t, "A").Cash)
	assert.Equal(t, bankBefore+100, g.bank.Cash)
}

func TestDrawnCardsCycleThroughDiscards(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{ChanceCards: chance(7, 15)})
	a := g.p(t, "A")
	for i := 0; i < 3; i++ {
		g.drawCard(a, cards.Chance)
	}
	assert.Equal(t, 1500+50+150+50, a.Cash)
	assert.Equal(t, 2, g.decks[cards.Chance].Len())
}
