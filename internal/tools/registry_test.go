package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
	"github.com/thraizz/monopoly-server-go/internal/session"
)

func TestRegistryCoversEveryAction(t *testing.T) {
	r := NewRegistry()
	for _, a := range rules.Actions {
		tool, ok := r.Lookup(string(a))
		require.True(t, ok, "missing tool for %s", a)
		assert.True(t, tool.Mutates)
	}
	for _, name := range []string{GetGameState, GetPlayerStatus, GetTileInfo, GetAvailableActions, GetStandings} {
		tool, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.False(t, tool.Mutates)
	}

	list := r.List()
	assert.Len(t, list, len(rules.Actions)+5)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}
}

func TestLookupAliases(t *testing.T) {
	r := NewRegistry()
	cases := map[string]string{
		"roll_dice_and_move": string(rules.ActionRollAndMove),
		"buy_property":       string(rules.ActionBuyProperty),
		"pay_jail_bail":      string(rules.ActionPayBail),
		"get_my_status":      GetPlayerStatus,
		"get_property_info":  GetTileInfo,
	}
	for alias, want := range cases {
		tool, ok := r.Lookup(alias)
		require.True(t, ok, alias)
		assert.Equal(t, want, tool.Name)
	}
	_, ok := r.Lookup("trade_property")
	assert.False(t, ok)
}

func TestArgsInt(t *testing.T) {
	tests := []struct {
		name    string
		args    Args
		want    int
		wantErr bool
	}{
		{name: "int", args: Args{"tile": 3}, want: 3},
		{name: "int64", args: Args{"tile": int64(39)}, want: 39},
		{name: "json float", args: Args{"tile": float64(11)}, want: 11},
		{name: "json number", args: Args{"tile": json.Number("24")}, want: 24},
		{name: "numeric string", args: Args{"tile": " 6 "}, want: 6},
		{name: "legacy alias", args: Args{"property_position": 1.0}, want: 1},
		{name: "canonical wins over alias", args: Args{"tile": 5, "position": 9}, want: 5},
		{name: "fraction", args: Args{"tile": 1.5}, wantErr: true},
		{name: "word", args: Args{"tile": "boardwalk"}, wantErr: true},
		{name: "bool", args: Args{"tile": true}, wantErr: true},
		{name: "missing", args: Args{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.args.Int("build_house", "tile")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, CodeInvalidArgument, rules.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArgsString(t *testing.T) {
	name, err := Args{"player": "ada"}.String("pass_auction", "player_name")
	require.NoError(t, err)
	assert.Equal(t, "ada", name)

	_, err = Args{"player_name": "  "}.String("pass_auction", "player_name")
	assert.Equal(t, CodeInvalidArgument, rules.CodeOf(err))
	_, err = Args{"player_name": 7}.String("pass_auction", "player_name")
	assert.Equal(t, CodeInvalidArgument, rules.CodeOf(err))
}

func TestCallAgainstGame(t *testing.T) {
	dice := game.NewScriptedDice(game.Roll{D1: 2, D2: 4})
	g, err := game.New([]string{"ada", "bo"}, game.Options{Dice: dice})
	require.NoError(t, err)
	r := NewRegistry()

	call := func(name string, args Args) any {
		t.Helper()
		tool, ok := r.Lookup(name)
		require.True(t, ok, name)
		out, err := tool.Call(g, args)
		require.NoError(t, err)
		return out
	}

	res := call("roll_dice_and_move", nil).(*game.Result)
	assert.Equal(t, rules.ActionRollAndMove, res.Action)
	assert.Equal(t, rules.PhaseAwaitingPurchaseDecision, res.Phase)

	res = call("buy_property", nil).(*game.Result)
	assert.Equal(t, 1400, res.Cash["ada"])

	info := call("get_property_info", Args{"property_position": 6}).(game.TileView)
	assert.Equal(t, "ada", info.Owner)

	status := call("get_my_status", Args{"player_name": "ada"}).(game.PlayerView)
	assert.Equal(t, []int{6}, status.Owned)

	tool, _ := r.Lookup(GetPlayerStatus)
	_, err = tool.Call(g, Args{"player_name": "nobody"})
	assert.Equal(t, rules.CodeNotFound, rules.CodeOf(err))
}

func TestDispatchThroughManager(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(nil, session.Config{Seed: 1}, zaptest.NewLogger(t))
	view, err := m.Create(ctx, []string{"ada", "bo"})
	require.NoError(t, err)
	r := NewRegistry()

	out, err := r.Dispatch(ctx, m, view.ID, GetAvailableActions, nil)
	require.NoError(t, err)
	set := out.(game.ActionSet)
	assert.Equal(t, "ada", set.Actor)
	require.NotEmpty(t, set.Actions)
	assert.Equal(t, rules.ActionRollAndMove, set.Actions[0].Name)

	out, err = r.Dispatch(ctx, m, view.ID, "roll_dice_and_move", nil)
	require.NoError(t, err)
	res := out.(*game.Result)
	assert.Equal(t, "ada", res.Player)
	assert.NotNil(t, res.Roll)

	out, err = r.Dispatch(ctx, m, view.ID, GetGameState, nil)
	require.NoError(t, err)
	assert.NotEqual(t, rules.PhaseAwaitingRoll, out.(game.GameView).Phase)
}

func TestDispatchErrors(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(nil, session.Config{Seed: 1}, zaptest.NewLogger(t))
	view, err := m.Create(ctx, []string{"ada", "bo"})
	require.NoError(t, err)
	r := NewRegistry()

	tests := []struct {
		name   string
		gameID string
		tool   string
		args   Args
		want   rules.Code
	}{
		{name: "unknown tool", gameID: view.ID, tool: "trade_property", want: rules.CodeNotFound},
		{name: "unknown game", gameID: "missing", tool: GetGameState, want: rules.CodeNotFound},
		{name: "missing tile", gameID: view.ID, tool: "build_house", want: CodeInvalidArgument},
		{name: "bad amount", gameID: view.ID, tool: "place_bid", args: Args{"player_name": "ada", "amount": "lots"}, want: CodeInvalidArgument},
		{name: "wrong phase", gameID: view.ID, tool: "end_turn", want: rules.CodeIllegalAction},
		{name: "unowned tile", gameID: view.ID, tool: "mortgage_property", args: Args{"tile": 1}, want: rules.CodeOwnership},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Dispatch(ctx, m, tt.gameID, tt.tool, tt.args)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, tt.want, rules.CodeOf(err))
		})
	}
}
