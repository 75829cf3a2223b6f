package game

import (
	"fmt"

	"github.com/thraizz/monopoly-server-go/internal/game/auction"
	"github.com/thraizz/monopoly-server-go/internal/game/player"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// BuyCurrentProperty buys the unowned tile the current player stands on.
func (g *Game) BuyCurrentProperty() (*Result, error) {
	if err := g.requirePhase(rules.ActionBuyProperty); err != nil {
		return nil, err
	}
	p := g.currentPlayer()
	t, err := g.tile(p.Position)
	if err != nil {
		return nil, err
	}
	if g.holdings[t.Index] != nil {
		return nil, &rules.OwnershipError{Tile: t.Index, Reason: "already owned"}
	}
	if p.Cash < t.Price {
		return nil, &rules.InsufficientFundsError{Player: p.Name, Needed: t.Price, Cash: p.Cash}
	}

	g.begin()
	g.transfer(p, nil, t.Price)
	g.grant(p, t.Index)
	g.emit(rules.NewEventWithAmount(rules.EventPropertyBought, p.Name, t.Index, t.Price,
		fmt.Sprintf("%s bought %s for $%d", p.Name, t.Name, t.Price)))
	g.setPhase(g.continuationPhase())
	return g.finish(rules.ActionBuyProperty, p.Name, nil), nil
}

// DeclinePurchase passes on the tile and opens an auction among everyone else.
func (g *Game) DeclinePurchase() (*Result, error) {
	if err := g.requirePhase(rules.ActionDeclinePurchase); err != nil {
		return nil, err
	}
	g.begin()
	p := g.currentPlayer()
	t, _ := g.board.Tile(p.Position)

	var bidders []string
	for i := 1; i < len(g.players); i++ {
		other := g.players[(g.current+i)%len(g.players)]
		if !other.Bankrupt {
			bidders = append(bidders, other.Name)
		}
	}
	g.auction = auction.New(t.Index, bidders)
	g.emit(rules.NewEvent(rules.EventPurchaseDeclined, p.Name, t.Index,
		fmt.Sprintf("%s declined to buy %s", p.Name, t.Name)))
	g.emit(rules.NewEvent(rules.EventAuctionStarted, p.Name, t.Index,
		fmt.Sprintf("auction for %s opened to %v", t.Name, bidders)))
	g.setPhase(rules.PhaseAuctionInProgress)
	g.resolveAuctionIfDone()
	return g.finish(rules.ActionDeclinePurchase, p.Name, nil), nil
}

// PlaceBid raises the high bid on the open auction.
func (g *Game) PlaceBid(name string, amount int) (*Result, error) {
	if err := g.requirePhase(rules.ActionPlaceBid); err != nil {
		return nil, err
	}
	bidder, err := g.findPlayer(name)
	if err != nil {
		return nil, err
	}
	if err := g.auction.CheckBid(name, amount); err != nil {
		return nil, err
	}
	if amount > bidder.Cash {
		return nil, &rules.InsufficientFundsError{Player: name, Needed: amount, Cash: bidder.Cash}
	}
	if err := g.auction.Bid(name, amount); err != nil {
		return nil, err
	}

	g.begin()
	g.emit(rules.NewEventWithAmount(rules.EventBidPlaced, name, g.auction.Tile, amount,
		fmt.Sprintf("%s bid $%d", name, amount)))
	g.resolveAuctionIfDone()
	return g.finish(rules.ActionPlaceBid, name, nil), nil
}

// PassAuction withdraws a bidder from the open auction.
func (g *Game) PassAuction(name string) (*Result, error) {
	if err := g.requirePhase(rules.ActionPassAuction); err != nil {
		return nil, err
	}
	if _, err := g.findPlayer(name); err != nil {
		return nil, err
	}
	if err := g.auction.Pass(name); err != nil {
		return nil, err
	}

	g.begin()
	g.emit(rules.NewEvent(rules.EventAuctionPassed, name, g.auction.Tile, fmt.Sprintf("%s passed", name)))
	g.resolveAuctionIfDone()
	return g.finish(rules.ActionPassAuction, name, nil), nil
}

func (g *Game) resolveAuctionIfDone() {
	out := g.auction.Outcome()
	if !out.Resolved {
		return
	}
	t, _ := g.board.Tile(g.auction.Tile)
	g.auction = nil

	var winner *player.Player
	if out.Sold {
		winner, _ = g.findPlayer(out.Winner)
	}
	if winner == nil || winner.Cash < out.Price {
		g.emit(rules.NewEvent(rules.EventAuctionUnsold, g.CurrentPlayer(), t.Index,
			fmt.Sprintf("%s stays with the bank", t.Name)))
	} else {
		g.transfer(winner, nil, out.Price)
		g.grant(winner, t.Index)
		g.emit(rules.NewEventWithAmount(rules.EventAuctionWon, winner.Name, t.Index, out.Price,
			fmt.Sprintf("%s won %s for $%d", winner.Name, t.Name, out.Price)))
	}
	g.setPhase(g.continuationPhase())
}

func (g *Game) grant(p *player.Player, tile int) {
	g.holdings[tile] = &Holding{Tile: tile, Owner: p.Name}
	p.AddTile(tile)
}
