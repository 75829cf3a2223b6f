package game

import (
	"sort"

	"github.com/thraizz/monopoly-server-go/internal/game/auction"
	"github.com/thraizz/monopoly-server-go/internal/game/bank"
	"github.com/thraizz/monopoly-server-go/internal/game/board"
	"github.com/thraizz/monopoly-server-go/internal/game/player"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// PlayerView is the read-only status of one player.
type PlayerView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Cash           int    `json:"cash"`
	Position       int    `json:"position"`
	PositionName   string `json:"position_name"`
	Owned          []int  `json:"owned"`
	JailCards      int    `json:"jail_cards"`
	InJail         bool   `json:"in_jail"`
	JailAttempts   int    `json:"jail_attempts"`
	Bankrupt       bool   `json:"bankrupt"`
	BankruptReason string `json:"bankrupt_reason,omitempty"`
	NetWorth       int    `json:"net_worth"`
	Debt           int    `json:"debt,omitempty"`
}

// TileView combines a tile's static data with its holding, if any.
type TileView struct {
	Index         int    `json:"index"`
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	Group         string `json:"group,omitempty"`
	Price         int    `json:"price,omitempty"`
	Amount        int    `json:"amount,omitempty"`
	HouseCost     int    `json:"house_cost,omitempty"`
	Rents         []int  `json:"rents,omitempty"`
	MortgageValue int    `json:"mortgage_value,omitempty"`
	Owner         string `json:"owner,omitempty"`
	Mortgaged     bool   `json:"mortgaged"`
	Houses        int    `json:"houses"`
	Hotel         bool   `json:"hotel"`
	// CurrentRent is the charge for a non-owner landing now; utilities assume a roll of 7.
	CurrentRent int `json:"current_rent"`
}

// GameView is a full snapshot for clients.
type GameView struct {
	ID            string           `json:"id"`
	Phase         rules.Phase      `json:"phase"`
	Turn          int              `json:"turn"`
	CurrentPlayer string           `json:"current_player"`
	Players       []PlayerView     `json:"players"`
	Holdings      []Holding        `json:"holdings"`
	Bank          bank.Bank        `json:"bank"`
	Auction       *auction.Auction `json:"auction,omitempty"`
	LastRoll      *Roll            `json:"last_roll,omitempty"`
	Debt          *Debt            `json:"debt,omitempty"`
	Winner        string           `json:"winner,omitempty"`
	Events        []rules.Event    `json:"events"`
}

// ActionSpec describes one callable action and its parameters.
type ActionSpec struct {
	Name   rules.Action `json:"name"`
	Params []string     `json:"params,omitempty"`
	// Tiles lists the tile indices the action currently accepts.
	Tiles []int `json:"tiles,omitempty"`
}

// ActionSet is the authoritative list of what may be called right now.
type ActionSet struct {
	Phase      rules.Phase  `json:"phase"`
	Actor      string       `json:"actor"`
	Actions    []ActionSpec `json:"actions"`
	Bidders    []string     `json:"bidders,omitempty"`
	HighBid    int          `json:"high_bid,omitempty"`
	HighBidder string       `json:"high_bidder,omitempty"`
	Debt       int          `json:"debt,omitempty"`
}

// Standing is one row of the final ranking.
type Standing struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Cash     int    `json:"cash"`
	NetWorth int    `json:"net_worth"`
	Bankrupt bool   `json:"bankrupt"`
	Reason   string `json:"reason,omitempty"`
}

// Snapshot returns the full game state.
func (g *Game) Snapshot() GameView {
	view := GameView{
		ID:            g.id,
		Phase:         g.phase,
		Turn:          g.turn,
		CurrentPlayer: g.CurrentPlayer(),
		Bank:          *g.bank,
		Debt:          g.debt.clone(),
		Winner:        g.winner,
		Events:        g.log.Events(),
		Holdings:      g.sortedHoldings(),
	}
	for _, p := range g.players {
		view.Players = append(view.Players, g.playerView(p))
	}
	if g.auction != nil {
		view.Auction = g.auction.Clone()
	}
	if g.lastRoll != nil {
		r := *g.lastRoll
		view.LastRoll = &r
	}
	return view
}

// PlayerStatus returns one player's status.
func (g *Game) PlayerStatus(name string) (PlayerView, error) {
	p, err := g.findPlayer(name)
	if err != nil {
		return PlayerView{}, err
	}
	return g.playerView(p), nil
}

// TileInfo returns a tile with its ownership state.
func (g *Game) TileInfo(index int) (TileView, error) {
	t, err := g.tile(index)
	if err != nil {
		return TileView{}, err
	}
	v := TileView{
		Index:  t.Index,
		Name:   t.Name,
		Kind:   t.Kind.String(),
		Price:  t.Price,
		Amount: t.Amount,
	}
	if t.Purchasable() {
		v.MortgageValue = t.MortgageValue()
	}
	if t.Street != nil {
		v.Group = string(t.Street.Group)
		v.HouseCost = t.Street.HouseCost
		v.Rents = t.Street.Rents[:]
	}
	if h := g.holdings[index]; h != nil {
		v.Owner = h.Owner
		v.Mortgaged = h.Mortgaged
		v.Houses = h.Houses
		v.Hotel = h.Hotel
		v.CurrentRent = g.rentFor(t, h, 7, rentModifier{})
	}
	return v, nil
}

// Events returns the retained event log, oldest first.
func (g *Game) Events() []rules.Event {
	return g.log.Events()
}

// AvailableActions lists the actions that would currently succeed for the actor.
func (g *Game) AvailableActions() ActionSet {
	set := ActionSet{Phase: g.phase, Actor: g.CurrentPlayer()}
	if g.debt != nil {
		set.Debt = g.debt.Total()
	}
	p := g.currentPlayer()
	add := func(a rules.Action, params ...string) {
		set.Actions = append(set.Actions, ActionSpec{Name: a, Params: params})
	}
	addTiles := func(a rules.Action, ok func(int) bool) {
		var tiles []int
		for _, idx := range p.Owned {
			if ok(idx) {
				tiles = append(tiles, idx)
			}
		}
		if len(tiles) > 0 {
			set.Actions = append(set.Actions, ActionSpec{Name: a, Params: []string{"tile"}, Tiles: tiles})
		}
	}
	propertyActions := func() {
		if rules.IsAllowed(rules.ActionBuildHouse, g.phase) {
			addTiles(rules.ActionBuildHouse, func(i int) bool { _, _, err := g.checkBuild(i); return err == nil })
		}
		addTiles(rules.ActionSellHouse, func(i int) bool { return g.canSell(i) })
		addTiles(rules.ActionMortgageProperty, func(i int) bool {
			h := g.holdings[i]
			return !h.Mortgaged && !h.hasBuildings()
		})
		if g.debt == nil {
			addTiles(rules.ActionUnmortgageProperty, func(i int) bool {
				t, _ := g.board.Tile(i)
				return g.holdings[i].Mortgaged && p.Cash >= unmortgageCost(t)
			})
		}
	}

	switch g.phase {
	case rules.PhaseAwaitingRoll:
		add(rules.ActionRollAndMove)
		propertyActions()
	case rules.PhaseAwaitingPurchaseDecision:
		t, _ := g.board.Tile(p.Position)
		if p.Cash >= t.Price {
			add(rules.ActionBuyProperty)
		}
		add(rules.ActionDeclinePurchase)
		propertyActions()
	case rules.PhaseAuctionInProgress:
		set.Actor = ""
		set.Bidders = append([]string(nil), g.auction.Bidders...)
		set.HighBid = g.auction.HighBid
		set.HighBidder = g.auction.HighBidder
		add(rules.ActionPlaceBid, "player_name", "amount")
		add(rules.ActionPassAuction, "player_name")
	case rules.PhaseInJail:
		if p.Cash >= g.opts.Bail {
			add(rules.ActionPayBail)
		}
		if len(p.JailCards) > 0 {
			add(rules.ActionUseJailCard)
		}
		add(rules.ActionRollForDoubles)
	case rules.PhaseAwaitingEndTurn:
		propertyActions()
		add(rules.ActionEndTurn)
	}
	return set
}

func (g *Game) canSell(index int) bool {
	t, _ := g.board.Tile(index)
	h := g.holdings[index]
	if t.Street == nil || h == nil || !h.hasBuildings() {
		return false
	}
	_, hi := g.groupLevels(t.Street.Group)
	if h.Level() < hi {
		return false
	}
	return !h.Hotel || g.bank.Houses >= board.HotelLevel-1
}

// Standings ranks solvent players by net worth, bankrupt players last.
func (g *Game) Standings() []Standing {
	out := make([]Standing, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, Standing{Name: p.Name, Cash: p.Cash, NetWorth: g.netWorth(p), Bankrupt: p.Bankrupt, Reason: p.BankruptReason})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bankrupt != out[j].Bankrupt {
			return !out[i].Bankrupt
		}
		return out[i].NetWorth > out[j].NetWorth
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// netWorth is cash plus what the bank would pay for everything owned.
func (g *Game) netWorth(p *player.Player) int {
	total := p.Cash
	for _, idx := range p.Owned {
		t, _ := g.board.Tile(idx)
		h := g.holdings[idx]
		if h == nil {
			continue
		}
		if !h.Mortgaged {
			total += t.MortgageValue()
		}
		if t.Street != nil {
			total += h.Level() * t.Street.HouseCost / 2
		}
	}
	return total
}

func (g *Game) playerView(p *player.Player) PlayerView {
	t, _ := g.board.Tile(p.Position)
	v := PlayerView{
		ID:             p.ID,
		Name:           p.Name,
		Cash:           p.Cash,
		Position:       p.Position,
		PositionName:   t.Name,
		Owned:          append([]int{}, p.Owned...),
		JailCards:      len(p.JailCards),
		InJail:         p.InJail,
		JailAttempts:   p.JailAttempts,
		Bankrupt:       p.Bankrupt,
		BankruptReason: p.BankruptReason,
		NetWorth:       g.netWorth(p),
	}
	if g.debt != nil && g.debt.Debtor == p.Name {
		v.Debt = g.debt.Total()
	}
	return v
}

func (g *Game) sortedHoldings() []Holding {
	out := make([]Holding, 0, len(g.holdings))
	for _, h := range g.holdings {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tile < out[j].Tile })
	return out
}
