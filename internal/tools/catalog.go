package tools

import (
	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// Query tool names.
const (
	GetGameState        = "get_game_state"
	GetPlayerStatus     = "get_player_status"
	GetTileInfo         = "get_tile_info"
	GetAvailableActions = "get_available_actions"
	GetStandings        = "get_standings"
)

var (
	tileParam   = Param{Name: "tile", Type: "integer", Description: "board index 0-39 (alias: property_position)", Required: true}
	playerParam = Param{Name: "player_name", Type: "string", Description: "name of the player", Required: true}
	amountParam = Param{Name: "amount", Type: "integer", Description: "bid in dollars, above the current high bid", Required: true}
)

func action(name rules.Action, description string, aliases []string, params []Param,
	call func(g *game.Game, args Args) (*game.Result, error)) *Tool {
	return &Tool{
		Name:        string(name),
		Description: description,
		Params:      params,
		Aliases:     aliases,
		Mutates:     true,
		call: func(g *game.Game, args Args) (any, error) {
			return call(g, args)
		},
	}
}

func withTile(tool rules.Action, fn func(g *game.Game, tile int) (*game.Result, error)) func(*game.Game, Args) (*game.Result, error) {
	return func(g *game.Game, args Args) (*game.Result, error) {
		tile, err := args.Int(string(tool), "tile")
		if err != nil {
			return nil, err
		}
		return fn(g, tile)
	}
}

func standardTools() []*Tool {
	return []*Tool{
		action(rules.ActionRollAndMove, "Roll two dice, move, and resolve the landing.",
			[]string{"roll_dice_and_move"}, nil,
			func(g *game.Game, _ Args) (*game.Result, error) { return g.RollAndMove() }),
		action(rules.ActionBuyProperty, "Buy the unowned property you are standing on.",
			[]string{"buy_property"}, nil,
			func(g *game.Game, _ Args) (*game.Result, error) { return g.BuyCurrentProperty() }),
		action(rules.ActionDeclinePurchase, "Decline the purchase and send the property to auction.",
			nil, nil,
			func(g *game.Game, _ Args) (*game.Result, error) { return g.DeclinePurchase() }),
		action(rules.ActionPlaceBid, "Bid in the running auction.",
			nil, []Param{playerParam, amountParam},
			func(g *game.Game, args Args) (*game.Result, error) {
				name, err := args.String(string(rules.ActionPlaceBid), "player_name")
				if err != nil {
					return nil, err
				}
				amount, err := args.Int(string(rules.ActionPlaceBid), "amount")
				if err != nil {
					return nil, err
				}
				return g.PlaceBid(name, amount)
			}),
		action(rules.ActionPassAuction, "Withdraw from the running auction.",
			nil, []Param{playerParam},
			func(g *game.Game, args Args) (*game.Result, error) {
				name, err := args.String(string(rules.ActionPassAuction), "player_name")
				if err != nil {
					return nil, err
				}
				return g.PassAuction(name)
			}),
		action(rules.ActionPayBail, "Pay $50 to leave jail, then roll normally.",
			[]string{"pay_jail_bail"}, nil,
			func(g *game.Game, _ Args) (*game.Result, error) { return g.PayBail() }),
		action(rules.ActionUseJailCard, "Use a Get Out of Jail Free card.",
			nil, nil,
			func(g *game.Game, _ Args) (*game.Result, error) { return g.UseJailCard() }),
		action(rules.ActionRollForDoubles, "Try to roll doubles to leave jail.",
			nil, nil,
			func(g *game.Game, _ Args) (*game.Result, error) { return g.RollForDoubles() }),
		action(rules.ActionBuildHouse, "Build a house (or a hotel on four houses) on a street of a complete group.",
			nil, []Param{tileParam},
			withTile(rules.ActionBuildHouse, (*game.Game).BuildHouse)),
		action(rules.ActionSellHouse, "Sell a house or hotel back to the bank for half its cost.",
			nil, []Param{tileParam},
			withTile(rules.ActionSellHouse, (*game.Game).SellHouse)),
		action(rules.ActionMortgageProperty, "Mortgage an undeveloped property for half its price.",
			nil, []Param{tileParam},
			withTile(rules.ActionMortgageProperty, (*game.Game).MortgageProperty)),
		action(rules.ActionUnmortgageProperty, "Lift a mortgage for its value plus 10%.",
			nil, []Param{tileParam},
			withTile(rules.ActionUnmortgageProperty, (*game.Game).UnmortgageProperty)),
		action(rules.ActionEndTurn, "End your turn. Unpaid debt at this point is bankruptcy.",
			nil, nil,
			func(g *game.Game, _ Args) (*game.Result, error) { return g.EndTurn() }),

		{
			Name:        GetGameState,
			Description: "Full snapshot: players, holdings, bank, phase, auction and recent events.",
			call:        func(g *game.Game, _ Args) (any, error) { return g.Snapshot(), nil },
		},
		{
			Name:        GetPlayerStatus,
			Description: "Cash, position, holdings and jail state of one player.",
			Params:      []Param{playerParam},
			Aliases:     []string{"get_my_status"},
			call: func(g *game.Game, args Args) (any, error) {
				name, err := args.String(GetPlayerStatus, "player_name")
				if err != nil {
					return nil, err
				}
				return g.PlayerStatus(name)
			},
		},
		{
			Name:        GetTileInfo,
			Description: "Static data and ownership of one tile.",
			Params:      []Param{tileParam},
			Aliases:     []string{"get_property_info"},
			call: func(g *game.Game, args Args) (any, error) {
				tile, err := args.Int(GetTileInfo, "tile")
				if err != nil {
					return nil, err
				}
				return g.TileInfo(tile)
			},
		},
		{
			Name:        GetAvailableActions,
			Description: "The actions legal right now, with parameters and candidate tiles.",
			call:        func(g *game.Game, _ Args) (any, error) { return g.AvailableActions(), nil },
		},
		{
			Name:        GetStandings,
			Description: "Players ranked by net worth, bankrupt players last.",
			call:        func(g *game.Game, _ Args) (any, error) { return g.Standings(), nil },
		},
	}
}
