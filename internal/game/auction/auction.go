package auction

import (
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// MinimumPrice is what a sole survivor pays when nobody ever bid.
const MinimumPrice = 1

// Bid is one entry in the auction log.
type Bid struct {
	Bidder string `json:"bidder"`
	Amount int    `json:"amount"`
}

// Auction tracks open bidding on a single tile. Bidders are player names in
// seat order; a name leaves the slice when it passes.
type Auction struct {
	Tile       int      `json:"tile"`
	Bidders    []string `json:"bidders"`
	HighBid    int      `json:"high_bid"`
	HighBidder string   `json:"high_bidder,omitempty"`
	Log        []Bid    `json:"log"`
	Passes     int      `json:"passes"`
}

// Outcome is the resolution of an auction.
type Outcome struct {
	Resolved bool
	Sold     bool
	Winner   string
	Price    int
}

// New opens an auction on tile for the given bidders.
func New(tile int, bidders []string) *Auction {
	return &Auction{
		Tile:    tile,
		Bidders: append([]string(nil), bidders...),
		Log:     []Bid{},
	}
}

// IsActive reports whether name is still bidding.
func (a *Auction) IsActive(name string) bool {
	return a.index(name) >= 0
}

// CheckBid reports whether the auction would accept the bid.
func (a *Auction) CheckBid(name string, amount int) error {
	if !a.IsActive(name) {
		return &rules.AuctionStateError{Player: name, Reason: "is not an active bidder"}
	}
	if amount <= a.HighBid {
		return &rules.AuctionStateError{Player: name, Reason: "must bid more than the current high bid"}
	}
	return nil
}

// Bid raises the high bid. Cash checks belong to the caller.
func (a *Auction) Bid(name string, amount int) error {
	if err := a.CheckBid(name, amount); err != nil {
		return err
	}
	a.HighBid = amount
	a.HighBidder = name
	a.Log = append(a.Log, Bid{Bidder: name, Amount: amount})
	return nil
}

// Pass withdraws name from the auction. The high bidder cannot pass.
func (a *Auction) Pass(name string) error {
	i := a.index(name)
	if i < 0 {
		return &rules.AuctionStateError{Player: name, Reason: "is not an active bidder"}
	}
	if name == a.HighBidder {
		return &rules.AuctionStateError{Player: name, Reason: "holds the high bid and cannot pass"}
	}
	a.Bidders = append(a.Bidders[:i], a.Bidders[i+1:]...)
	a.Passes++
	return nil
}

// Outcome reports whether the auction has resolved and how. One survivor
// resolves it once anyone has passed or bid; none left means no sale.
func (a *Auction) Outcome() Outcome {
	switch {
	case len(a.Bidders) == 0:
		return Outcome{Resolved: true}
	case len(a.Bidders) == 1 && (a.Passes > 0 || len(a.Log) > 0):
		winner := a.Bidders[0]
		price := a.HighBid
		if a.HighBidder != winner {
			price = MinimumPrice
		}
		return Outcome{Resolved: true, Sold: true, Winner: winner, Price: price}
	default:
		return Outcome{}
	}
}

// Clone returns a deep copy.
func (a *Auction) Clone() *Auction {
	c := *a
	c.Bidders = append([]string(nil), a.Bidders...)
	c.Log = append([]Bid{}, a.Log...)
	return &c
}

func (a *Auction) index(name string) int {
	for i, b := range a.Bidders {
		if b == name {
			return i
		}
	}
	return -1
}
