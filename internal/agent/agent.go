// Package agent holds scripted decision makers. A provider looks at one
// observation and names the next tool call; it never touches the engine.
package agent

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
	"github.com/thraizz/monopoly-server-go/internal/tools"
)

// Decision is one tool call chosen by a provider.
type Decision struct {
	Tool string     `json:"tool"`
	Args tools.Args `json:"args,omitempty"`
}

func (d Decision) String() string {
	if len(d.Args) == 0 {
		return d.Tool
	}
	return fmt.Sprintf("%s%v", d.Tool, map[string]any(d.Args))
}

// Observation is what a provider sees when asked to act.
type Observation struct {
	// Player is the name of the player being asked.
	Player  string         `json:"player"`
	State   game.GameView  `json:"state"`
	Actions game.ActionSet `json:"actions"`
}

// Observe captures an observation of g for player.
func Observe(g *game.Game, player string) Observation {
	return Observation{
		Player:  player,
		State:   g.Snapshot(),
		Actions: g.AvailableActions(),
	}
}

// Self returns the observing player's status.
func (o Observation) Self() (game.PlayerView, bool) {
	for _, p := range o.State.Players {
		if p.Name == o.Player {
			return p, true
		}
	}
	return game.PlayerView{}, false
}

// Spec returns the action spec for a, if a is currently available.
func (o Observation) Spec(a rules.Action) (game.ActionSpec, bool) {
	for _, spec := range o.Actions.Actions {
		if spec.Name == a {
			return spec, true
		}
	}
	return game.ActionSpec{}, false
}

// Can reports whether a is currently available.
func (o Observation) Can(a rules.Action) bool {
	_, ok := o.Spec(a)
	return ok
}

// DecisionProvider picks the next tool call for a player.
type DecisionProvider interface {
	Name() string
	Decide(ctx context.Context, obs Observation) (Decision, error)
}

func call(a rules.Action) Decision {
	return Decision{Tool: string(a)}
}

func onTile(a rules.Action, tile int) Decision {
	return Decision{Tool: string(a), Args: tools.Args{"tile": tile}}
}

func bid(player string, amount int) Decision {
	return Decision{Tool: string(rules.ActionPlaceBid), Args: tools.Args{"player_name": player, "amount": amount}}
}

func pass(player string) Decision {
	return Decision{Tool: string(rules.ActionPassAuction), Args: tools.Args{"player_name": player}}
}

// FromSpec builds a provider from a short description: "random",
// "heuristic" or "lua:<path to script>".
func FromSpec(spec string, seed uint64) (DecisionProvider, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(spec), ":")
	switch kind {
	case "random":
		return NewRandom(seed), nil
	case "heuristic", "":
		return NewHeuristic(), nil
	case "lua":
		if arg == "" {
			return nil, fmt.Errorf("lua provider needs a script path")
		}
		src, err := os.ReadFile(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read lua script: %w", err)
		}
		return NewLua(arg, string(src))
	}
	return nil, fmt.Errorf("unknown provider %q", kind)
}
