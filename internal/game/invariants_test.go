package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game/bank"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// randomStep performs one random legal action and returns its error.
func randomStep(g *Game, rng *rand.Rand) error {
	set := g.AvailableActions()
	if len(set.Actions) == 0 {
		return nil
	}
	spec := set.Actions[rng.IntN(len(set.Actions))]
	tile := func() int { return spec.Tiles[rng.IntN(len(spec.Tiles))] }

	var err error
	switch spec.Name {
	case rules.ActionRollAndMove:
		_, err = g.RollAndMove()
	case rules.ActionBuyProperty:
		_, err = g.BuyCurrentProperty()
	case rules.ActionDeclinePurchase:
		_, err = g.DeclinePurchase()
	case rules.ActionPlaceBid:
		bidder := set.Bidders[rng.IntN(len(set.Bidders))]
		_, err = g.PlaceBid(bidder, set.HighBid+1+rng.IntN(40))
		if rules.CodeOf(err) == rules.CodeInsufficientFunds || rules.CodeOf(err) == rules.CodeAuctionState {
			err = nil
		}
	case rules.ActionPassAuction:
		for _, b := range set.Bidders {
			if b != set.HighBidder {
				_, err = g.PassAuction(b)
				break
			}
		}
	case rules.ActionPayBail:
		_, err = g.PayBail()
	case rules.ActionUseJailCard:
		_, err = g.UseJailCard()
	case rules.ActionRollForDoubles:
		_, err = g.RollForDoubles()
	case rules.ActionBuildHouse:
		_, err = g.BuildHouse(tile())
	case rules.ActionSellHouse:
		_, err = g.SellHouse(tile())
	case rules.ActionMortgageProperty:
		_, err = g.MortgageProperty(tile())
	case rules.ActionUnmortgageProperty:
		_, err = g.UnmortgageProperty(tile())
	case rules.ActionEndTurn:
		_, err = g.EndTurn()
	}
	return err
}

func checkInvariants(t *testing.T, g *Game, cash int) {
	t.Helper()
	total := g.bank.Cash
	for _, p := range g.players {
		total += p.Cash
		if !p.Bankrupt {
			require.GreaterOrEqual(t, p.Cash, 0, "%s has negative cash", p.Name)
		}
		require.True(t, p.Position >= 0 && p.Position < 40)
	}
	require.Equal(t, cash, total, "money is neither created nor destroyed")

	houses, hotels := g.bank.Houses, g.bank.Hotels
	for idx, h := range g.holdings {
		owner, err := g.findPlayer(h.Owner)
		require.NoError(t, err)
		require.False(t, owner.Bankrupt)
		require.True(t, owner.Owns(idx))
		require.LessOrEqual(t, h.Level(), 5)
		require.False(t, h.Mortgaged && h.hasBuildings())
		houses += h.Houses
		if h.Hotel {
			hotels++
		}
	}
	require.Equal(t, bank.DefaultHouses, houses)
	require.Equal(t, bank.DefaultHotels, hotels)
}

func TestRandomPlayPreservesInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		g, err := New([]string{"A", "B", "C", "D"}, Options{
			Dice:    NewRandomDice(seed),
			Shuffle: rand.New(rand.NewPCG(seed, seed)),
			Logger:  zap.NewNop(),
		})
		require.NoError(t, err)
		rng := rand.New(rand.NewPCG(seed, 0))
		cash := g.bank.Cash + 4*1500

		for step := 0; step < 3000 && !g.Over(); step++ {
			require.NoError(t, randomStep(g, rng), "seed %d step %d", seed, step)
			checkInvariants(t, g, cash)
		}
		if g.Over() {
			assert.NotEmpty(t, g.Winner())
			assert.Len(t, g.activePlayers(), 1)
		}
	}
}
