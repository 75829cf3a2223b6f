package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// Mediterranean (1) and Baltic (3) form the two-tile brown group, $50 houses.
const (
	mediterranean = 1
	baltic        = 3
)

func TestBuildRequiresCleanMonopoly(t *testing.T) {
	tests := []struct {
		name      string
		owned     []int
		mortgaged []int
		code      rules.Code
	}{
		{"partial group", []int{mediterranean}, nil, rules.CodeOwnership},
		{"mortgaged group tile", []int{mediterranean, baltic}, []int{baltic}, rules.CodeOwnership},
		{"clean monopoly", []int{mediterranean, baltic}, nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, []string{"A", "B"}, Options{})
			g.give(t, "A", tc.owned...)
			for _, idx := range tc.mortgaged {
				g.holdings[idx].Mortgaged = true
			}

			_, err := g.BuildHouse(mediterranean)
			if tc.code == "" {
				require.NoError(t, err)
				assert.Equal(t, 1, g.holdings[mediterranean].Houses)
				assert.Equal(t, 1450, g.p(t, "A").Cash)
				assert.Equal(t, 31, g.bank.Houses)
				return
			}
			assert.Equal(t, tc.code, rules.CodeOf(err))
		})
	}
}

func TestBuildErrors(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{})
	g.give(t, "A", mediterranean, baltic, 5)

	_, err := g.BuildHouse(99)
	assert.Equal(t, rules.CodeNotFound, rules.CodeOf(err))

	_, err = g.BuildHouse(5)
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err), "railroads take no houses")

	_, err = g.BuildHouse(oriental)
	assert.Equal(t, rules.CodeOwnership, rules.CodeOf(err))
}

func TestBuildMustBeEven(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{})
	g.give(t, "A", mediterranean, baltic)

	mustOK(t)(g.BuildHouse(mediterranean))
	_, err := g.BuildHouse(mediterranean)
	var uneven *rules.UnevenBuildError
	require.ErrorAs(t, err, &uneven)
	assert.Equal(t, 0, uneven.GroupMin)

	mustOK(t)(g.BuildHouse(baltic))
	mustOK(t)(g.BuildHouse(mediterranean))

	// Selling must also keep the group even.
	_, err = g.SellHouse(baltic)
	assert.Equal(t, rules.CodeUnevenBuild, rules.CodeOf(err))
	mustOK(t)(g.SellHouse(mediterranean))
	assert.Equal(t, 1, g.holdings[mediterranean].Houses)
}

func TestFifthLevelInstallsHotel(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{})
	g.give(t, "A", mediterranean, baltic)

	for i := 0; i < 4; i++ {
		mustOK(t)(g.BuildHouse(mediterranean))
		mustOK(t)(g.BuildHouse(baltic))
	}
	assert.Equal(t, 24, g.bank.Houses)

	res := mustOK(t)(g.BuildHouse(mediterranean))
	assert.Contains(t, eventTypes(res), rules.EventHotelBuilt)
	h := g.holdings[mediterranean]
	assert.True(t, h.Hotel)
	assert.Equal(t, 0, h.Houses)
	assert.Equal(t, 28, g.bank.Houses)
	assert.Equal(t, 11, g.bank.Hotels)

	_, err := g.BuildHouse(baltic)
	require.NoError(t, err)
	_, err = g.BuildHouse(mediterranean)
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err), "already a hotel")

	info, err := g.TileInfo(mediterranean)
	require.NoError(t, err)
	assert.Equal(t, 250, info.CurrentRent)

	// Selling a hotel puts four houses back on the tile.
	mustOK(t)(g.SellHouse(mediterranean))
	assert.Equal(t, 4, g.holdings[mediterranean].Houses)
	assert.False(t, g.holdings[mediterranean].Hotel)
}

func TestBuildStockExhaustion(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{Houses: 1, Hotels: 1})
	g.give(t, "A", mediterranean, baltic)

	mustOK(t)(g.BuildHouse(mediterranean))
	_, err := g.BuildHouse(baltic)
	var stock *rules.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, "houses", stock.Item)
}

func TestBuildWithoutCash(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{StartingCash: 40})
	g.give(t, "A", mediterranean, baltic)
	_, err := g.BuildHouse(mediterranean)
	assert.Equal(t, rules.CodeInsufficientFunds, rules.CodeOf(err))
}

func TestBuildingRent(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{}, Roll{1, 2})
	g.give(t, "B", mediterranean, baltic)
	g.holdings[baltic].Houses = 2

	mustOK(t)(g.RollAndMove())
	assert.Equal(t, 1440, g.p(t, "A").Cash)
	assert.Equal(t, 1560, g.p(t, "B").Cash)
}

func TestMortgageCycle(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{})
	g.give(t, "A", oriental)

	res := mustOK(t)(g.MortgageProperty(oriental))
	assert.Equal(t, 1550, g.p(t, "A").Cash)
	assert.True(t, g.holdings[oriental].Mortgaged)
	assert.Contains(t, eventTypes(res), rules.EventMortgaged)

	_, err := g.MortgageProperty(oriental)
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err))

	mustOK(t)(g.UnmortgageProperty(oriental))
	assert.Equal(t, 1550-55, g.p(t, "A").Cash)
	assert.False(t, g.holdings[oriental].Mortgaged)

	_, err = g.UnmortgageProperty(oriental)
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err))
}

func TestUnmortgageCostRoundsUp(t *testing.T) {
	tests := []struct {
		tile int
		cost int
	}{
		{mediterranean, 33},
		{oriental, 55},
		{9, 66},
		{5, 110},
		{12, 83},
		{39, 220},
	}
	b := newTestGame(t, []string{"A", "B"}, Options{}).board
	for _, tc := range tests {
		tile, _ := b.Tile(tc.tile)
		assert.Equal(t, tc.cost, unmortgageCost(tile), tile.Name)
	}
}

func TestUnmortgageWithoutCashIsSideEffectFree(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{StartingCash: 10})
	g.give(t, "A", 39)
	mustOK(t)(g.MortgageProperty(39))
	g.p(t, "A").Cash = 100

	_, err := g.UnmortgageProperty(39)
	assert.Equal(t, rules.CodeInsufficientFunds, rules.CodeOf(err))
	assert.True(t, g.holdings[39].Mortgaged)
	assert.Equal(t, 100, g.p(t, "A").Cash)
}

func TestMortgageRequiresOwnershipAndNoBuildings(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{})
	g.give(t, "B", oriental)
	_, err := g.MortgageProperty(oriental)
	assert.Equal(t, rules.CodeOwnership, rules.CodeOf(err))

	_, err = g.MortgageProperty(0)
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err), "Go cannot be owned")

	g.give(t, "A", mediterranean, baltic)
	mustOK(t)(g.BuildHouse(mediterranean))
	_, err = g.MortgageProperty(mediterranean)
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err))
}

func TestMortgagedTileChargesNoRent(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{}, Roll{2, 4})
	g.give(t, "B", oriental)
	g.holdings[oriental].Mortgaged = true

	mustOK(t)(g.RollAndMove())
	assert.Equal(t, 1500, g.p(t, "A").Cash)
	assert.Equal(t, 1500, g.p(t, "B").Cash)
}

func TestMortgageKeepsMonopolyRentDoubling(t *testing.T) {
	g := newTestGame(t, []string{"A", "B"}, Options{}, Roll{2, 4})
	g.give(t, "B", 6, 8, 9)
	g.holdings[9].Mortgaged = true

	mustOK(t)(g.RollAndMove())
	assert.Equal(t, 1500-12, g.p(t, "A").Cash)
}

func TestRailroadAndUtilityRent(t *testing.T) {
	t.Run("railroads scale with count", func(t *testing.T) {
		for n, want := range map[int]int{1: 25, 2: 50, 3: 100, 4: 200} {
			g := newTestGame(t, []string{"A", "B"}, Options{}, Roll{2, 3})
			g.give(t, "B", []int{5, 15, 25, 35}[:n]...)
			mustOK(t)(g.RollAndMove())
			assert.Equal(t, 1500-want, g.p(t, "A").Cash, "%d railroads", n)
		}
	})

	t.Run("utilities multiply the dice", func(t *testing.T) {
		g := newTestGame(t, []string{"A", "B"}, Options{}, Roll{4, 5})
		g.p(t, "A").Position = 3
		g.give(t, "B", 12)
		mustOK(t)(g.RollAndMove())
		assert.Equal(t, 1500-36, g.p(t, "A").Cash)

		g2 := newTestGame(t, []string{"A", "B"}, Options{}, Roll{4, 5})
		g2.p(t, "A").Position = 3
		g2.give(t, "B", 12, 28)
		mustOK(t)(g2.RollAndMove())
		assert.Equal(t, 1500-90, g2.p(t, "A").Cash)
	})
}
