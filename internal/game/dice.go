package game

import (
	"math/rand/v2"
	"sync"
)

// Roll is one throw of two dice.
type Roll struct {
	D1 int `json:"d1"`
	D2 int `json:"d2"`
}

// Sum is the total pip count.
func (r Roll) Sum() int { return r.D1 + r.D2 }

// Doubles reports whether both dice match.
func (r Roll) Doubles() bool { return r.D1 == r.D2 }

// Dice produces throws. Implementations need not be safe for concurrent use.
type Dice interface {
	Roll() Roll
}

// RandomDice draws two independent uniform values in [1,6].
type RandomDice struct {
	rng *rand.Rand
}

// NewRandomDice creates dice from a seeded PCG source.
func NewRandomDice(seed uint64) *RandomDice {
	return &RandomDice{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (d *RandomDice) Roll() Roll {
	return Roll{D1: d.rng.IntN(6) + 1, D2: d.rng.IntN(6) + 1}
}

// ScriptedDice replays a fixed sequence of throws and cycles when exhausted.
type ScriptedDice struct {
	mu    sync.Mutex
	rolls []Roll
	next  int
}

// NewScriptedDice creates dice that return rolls in order.
func NewScriptedDice(rolls ...Roll) *ScriptedDice {
	return &ScriptedDice{rolls: rolls}
}

// Push appends throws to the script.
func (d *ScriptedDice) Push(rolls ...Roll) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rolls = append(d.rolls, rolls...)
}

func (d *ScriptedDice) Roll() Roll {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.rolls) == 0 {
		return Roll{D1: 1, D2: 2}
	}
	r := d.rolls[d.next%len(d.rolls)]
	d.next++
	return r
}
