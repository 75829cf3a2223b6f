package rules

// Action names the engine's state mutators.
type Action string

const (
	ActionRollAndMove        Action = "roll_and_move"
	ActionBuyProperty        Action = "buy_current_property"
	ActionDeclinePurchase    Action = "decline_purchase"
	ActionPlaceBid           Action = "place_bid"
	ActionPassAuction        Action = "pass_auction"
	ActionPayBail            Action = "pay_bail"
	ActionUseJailCard        Action = "use_jail_card"
	ActionRollForDoubles     Action = "roll_for_doubles"
	ActionBuildHouse         Action = "build_house"
	ActionSellHouse          Action = "sell_house"
	ActionMortgageProperty   Action = "mortgage_property"
	ActionUnmortgageProperty Action = "unmortgage_property"
	ActionEndTurn            Action = "end_turn"
)

// Actions lists every action in a stable order.
var Actions = []Action{
	ActionRollAndMove,
	ActionBuyProperty,
	ActionDeclinePurchase,
	ActionPlaceBid,
	ActionPassAuction,
	ActionPayBail,
	ActionUseJailCard,
	ActionRollForDoubles,
	ActionBuildHouse,
	ActionSellHouse,
	ActionMortgageProperty,
	ActionUnmortgageProperty,
	ActionEndTurn,
}

var propertyPhases = []Phase{PhaseAwaitingRoll, PhaseAwaitingPurchaseDecision, PhaseAwaitingEndTurn}

var allowedPhases = map[Action][]Phase{
	ActionRollAndMove:        {PhaseAwaitingRoll},
	ActionBuyProperty:        {PhaseAwaitingPurchaseDecision},
	ActionDeclinePurchase:    {PhaseAwaitingPurchaseDecision},
	ActionPlaceBid:           {PhaseAuctionInProgress},
	ActionPassAuction:        {PhaseAuctionInProgress},
	ActionPayBail:            {PhaseInJail},
	ActionUseJailCard:        {PhaseInJail},
	ActionRollForDoubles:     {PhaseInJail},
	ActionBuildHouse:         {PhaseAwaitingRoll, PhaseAwaitingEndTurn},
	ActionSellHouse:          propertyPhases,
	ActionMortgageProperty:   propertyPhases,
	ActionUnmortgageProperty: propertyPhases,
	ActionEndTurn:            {PhaseAwaitingEndTurn},
}

// AllowedPhases returns the phases in which action may be taken.
func AllowedPhases(action Action) []Phase {
	return append([]Phase(nil), allowedPhases[action]...)
}

// IsAllowed reports whether action is legal in phase, ignoring actor and state.
func IsAllowed(action Action, phase Phase) bool {
	for _, p := range allowedPhases[action] {
		if p == phase {
			return true
		}
	}
	return false
}

// CheckPhase returns an IllegalActionError when action is not legal in phase.
func CheckPhase(action Action, phase Phase) error {
	if _, known := allowedPhases[action]; !known {
		return &IllegalActionError{Action: action, Phase: phase, Reason: "unknown action"}
	}
	if !IsAllowed(action, phase) {
		return &IllegalActionError{Action: action, Phase: phase, Allowed: AllowedPhases(action)}
	}
	return nil
}

// ActionsFor returns the actions whose phase gate admits phase, in stable order.
func ActionsFor(phase Phase) []Action {
	var out []Action
	for _, a := range Actions {
		if IsAllowed(a, phase) {
			out = append(out, a)
		}
	}
	return out
}
