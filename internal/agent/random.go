package agent

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// Random picks uniformly among the legal actions. It is useful for soak
// tests; the runner's per-turn action cap keeps it from dithering forever.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random provider with a fixed seed.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Decide(_ context.Context, obs Observation) (Decision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	specs := obs.Actions.Actions
	if len(specs) == 0 {
		return Decision{}, fmt.Errorf("no legal action in phase %s", obs.Actions.Phase)
	}

	if obs.Actions.Phase == rules.PhaseAuctionInProgress {
		me, _ := obs.Self()
		amount := obs.Actions.HighBid + 1 + r.rng.IntN(40)
		if r.rng.IntN(3) == 0 || amount > me.Cash {
			return pass(obs.Player), nil
		}
		return bid(obs.Player, amount), nil
	}

	spec := specs[r.rng.IntN(len(specs))]
	if len(spec.Tiles) > 0 {
		return onTile(spec.Name, spec.Tiles[r.rng.IntN(len(spec.Tiles))]), nil
	}
	return call(spec.Name), nil
}
