package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable machine-readable error kind for transports.
type Code string

const (
	CodeIllegalAction     Code = "ILLEGAL_ACTION"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeOwnership         Code = "OWNERSHIP"
	CodeUnevenBuild       Code = "UNEVEN_BUILD"
	CodeInsufficientStock Code = "INSUFFICIENT_STOCK"
	CodeNoJailCard        Code = "NO_JAIL_CARD"
	CodeAuctionState      Code = "AUCTION_STATE"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeInternal          Code = "INTERNAL"
)

// Coded is implemented by every rule error.
type Coded interface {
	error
	Code() Code
}

// CodeOf returns the code of the first rule error in err's chain,
// or CodeInternal for anything else.
func CodeOf(err error) Code {
	var c Coded
	if errors.As(err, &c) {
		return c.Code()
	}
	return CodeInternal
}

// IllegalActionError means the action is not valid in the current phase or for the caller.
type IllegalActionError struct {
	Action  Action
	Phase   Phase
	Allowed []Phase
	Reason  string
}

func (e *IllegalActionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("illegal action %s: %s", e.Action, e.Reason)
	}
	names := make([]string, len(e.Allowed))
	for i, p := range e.Allowed {
		names[i] = p.String()
	}
	return fmt.Sprintf("illegal action %s in phase %s (requires %s)", e.Action, e.Phase, strings.Join(names, " or "))
}

func (e *IllegalActionError) Code() Code { return CodeIllegalAction }

// NotFoundError means an unknown player name or tile index.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Code() Code { return CodeNotFound }

// SetupError rejects a game configuration such as a bad player list.
type SetupError struct {
	Reason string
}

func (e *SetupError) Error() string { return "invalid game setup: " + e.Reason }

func (e *SetupError) Code() Code { return CodeInvalidArgument }

// InsufficientFundsError means the actor cannot cover a voluntary payment.
type InsufficientFundsError struct {
	Player string
	Needed int
	Cash   int
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("%s needs $%d but has $%d", e.Player, e.Needed, e.Cash)
}

func (e *InsufficientFundsError) Code() Code { return CodeInsufficientFunds }

// OwnershipError covers acting on a tile the actor does not own, or that is
// already owned, or a build without a clean monopoly.
type OwnershipError struct {
	Tile   int
	Reason string
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("tile %d: %s", e.Tile, e.Reason)
}

func (e *OwnershipError) Code() Code { return CodeOwnership }

// UnevenBuildError means a build or sale would break even development.
type UnevenBuildError struct {
	Tile     int
	Level    int
	GroupMin int
	GroupMax int
}

func (e *UnevenBuildError) Error() string {
	return fmt.Sprintf("tile %d at level %d would break even building (group range %d..%d)", e.Tile, e.Level, e.GroupMin, e.GroupMax)
}

func (e *UnevenBuildError) Code() Code { return CodeUnevenBuild }

// InsufficientStockError means the bank's house or hotel pool is exhausted.
type InsufficientStockError struct {
	Item      string
	Needed    int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("bank has %d %s, needs %d", e.Available, e.Item, e.Needed)
}

func (e *InsufficientStockError) Code() Code { return CodeInsufficientStock }

// NoJailCardError means use_jail_card without holding one.
type NoJailCardError struct {
	Player string
}

func (e *NoJailCardError) Error() string {
	return fmt.Sprintf("%s holds no Get Out of Jail Free card", e.Player)
}

func (e *NoJailCardError) Code() Code { return CodeNoJailCard }

// AuctionStateError covers bids and passes that the auction cannot accept.
type AuctionStateError struct {
	Player string
	Reason string
}

func (e *AuctionStateError) Error() string {
	if e.Player == "" {
		return "auction: " + e.Reason
	}
	return fmt.Sprintf("auction: %s %s", e.Player, e.Reason)
}

func (e *AuctionStateError) Code() Code { return CodeAuctionState }
