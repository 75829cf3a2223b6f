package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/thraizz/monopoly-server-go/internal/game/board"
	"github.com/thraizz/monopoly-server-go/internal/tools"
)

// Lua runs a user script that defines a global decide(obs) function. decide
// gets the observation as a table and returns either a tool name or a table
// {tool = "...", args = {...}}. The script also sees tile(i), which returns
// the static data of board tile i.
type Lua struct {
	name string

	mu sync.Mutex
	L  *lua.LState
}

var luaLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// NewLua compiles script. Only the base, table, string and math libraries
// are opened.
func NewLua(name, script string) (*Lua, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range luaLibs {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("failed to open lua library %s: %w", lib.name, err)
		}
	}
	L.SetGlobal("tile", L.NewFunction(tileFunc(board.Standard())))

	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load script %s: %w", name, err)
	}
	if L.GetGlobal("decide").Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("script %s does not define decide(obs)", name)
	}
	return &Lua{name: name, L: L}, nil
}

func (p *Lua) Name() string { return "lua:" + p.name }

func (p *Lua) Decide(ctx context.Context, obs Observation) (Decision, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	arg, err := toLua(p.L, obs)
	if err != nil {
		return Decision{}, err
	}
	p.L.SetContext(ctx)
	defer p.L.RemoveContext()

	if err := p.L.CallByParam(lua.P{
		Fn:      p.L.GetGlobal("decide"),
		NRet:    1,
		Protect: true,
	}, arg); err != nil {
		return Decision{}, fmt.Errorf("%s: decide failed: %w", p.name, err)
	}
	ret := p.L.Get(-1)
	p.L.Pop(1)
	return decisionFromLua(ret)
}

// Close releases the interpreter.
func (p *Lua) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.L.Close()
}

func tileFunc(b *board.Board) lua.LGFunction {
	return func(L *lua.LState) int {
		t, ok := b.Tile(L.CheckInt(1))
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		tbl := L.NewTable()
		tbl.RawSetString("index", lua.LNumber(t.Index))
		tbl.RawSetString("name", lua.LString(t.Name))
		tbl.RawSetString("kind", lua.LString(t.Kind.String()))
		tbl.RawSetString("price", lua.LNumber(t.Price))
		if t.Street != nil {
			tbl.RawSetString("group", lua.LString(t.Street.Group))
			tbl.RawSetString("house_cost", lua.LNumber(t.Street.HouseCost))
		}
		L.Push(tbl)
		return 1
	}
}

// toLua converts v through its JSON form so the script sees the same field
// names as HTTP clients.
func toLua(L *lua.LState, v any) (lua.LValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode observation: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode observation: %w", err)
	}
	return luaValue(L, generic), nil
}

func luaValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case float64:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case []any:
		tbl := L.CreateTable(len(x), 0)
		for _, item := range x {
			tbl.Append(luaValue(L, item))
		}
		return tbl
	case map[string]any:
		tbl := L.CreateTable(0, len(x))
		for k, item := range x {
			tbl.RawSetString(k, luaValue(L, item))
		}
		return tbl
	}
	return lua.LNil
}

func decisionFromLua(v lua.LValue) (Decision, error) {
	switch x := v.(type) {
	case lua.LString:
		return Decision{Tool: string(x)}, nil
	case *lua.LTable:
		tool, ok := x.RawGetString("tool").(lua.LString)
		if !ok || tool == "" {
			return Decision{}, fmt.Errorf("decide returned a table without a tool name")
		}
		d := Decision{Tool: string(tool)}
		if args, ok := x.RawGetString("args").(*lua.LTable); ok {
			d.Args = tools.Args{}
			args.ForEach(func(k, val lua.LValue) {
				if key, ok := k.(lua.LString); ok {
					d.Args[string(key)] = goValue(val)
				}
			})
		}
		return d, nil
	}
	return Decision{}, fmt.Errorf("decide returned %s, want a string or table", v.Type())
}

func goValue(v lua.LValue) any {
	switch x := v.(type) {
	case lua.LNumber:
		f := float64(x)
		if f == math.Trunc(f) {
			return int(f)
		}
		return f
	case lua.LString:
		return string(x)
	case lua.LBool:
		return bool(x)
	}
	return nil
}
