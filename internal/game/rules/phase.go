package rules

import (
	"encoding/json"
	"fmt"
)

// Phase is the turn state machine position.
type Phase int

const (
	PhaseAwaitingRoll Phase = iota
	PhaseResolvingLanding
	PhaseAwaitingPurchaseDecision
	PhaseAuctionInProgress
	PhaseAwaitingEndTurn
	PhaseInJail
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseAwaitingRoll:             "AWAITING_ROLL",
	PhaseResolvingLanding:         "RESOLVING_LANDING",
	PhaseAwaitingPurchaseDecision: "AWAITING_PURCHASE_DECISION",
	PhaseAuctionInProgress:        "AUCTION_IN_PROGRESS",
	PhaseAwaitingEndTurn:          "AWAITING_END_TURN",
	PhaseInJail:                   "IN_JAIL",
	PhaseGameOver:                 "GAME_OVER",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// ParsePhase maps a phase name back to its value.
func ParsePhase(name string) (Phase, error) {
	for p, n := range phaseNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// MarshalJSON encodes the phase by name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a phase name.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePhase(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
