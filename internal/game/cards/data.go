package cards

import "github.com/thraizz/monopoly-server-go/internal/game/board"

// ChanceCards returns the 16 standard Chance cards in printed order.
func ChanceCards() []Card {
	c := func(id int, text string, effect Effect) Card {
		return Card{ID: id, Deck: Chance, Text: text, Effect: effect}
	}
	advance := func(id int, text string, dest int) Card {
		card := c(id, text, EffectAdvanceTo)
		card.Destination = dest
		card.CollectSalary = true
		return card
	}
	nearest := func(id int, text string, target board.Kind, mult int) Card {
		card := c(id, text, EffectAdvanceToNearest)
		card.Target = target
		card.RentMultiplier = mult
		return card
	}
	amount := func(card Card, n int) Card {
		card.Amount = n
		return card
	}

	railroadText := "Advance to the nearest Railroad. If unowned, you may buy it from the Bank. If owned, pay owner twice the rental to which they are otherwise entitled."
	repairs := c(11, "Make general repairs on all your property. For each house pay $25. For each hotel pay $100.", EffectRepairs)
	repairs.HouseCost, repairs.HotelCost = 25, 100

	return []Card{
		advance(0, "Advance to Boardwalk.", 39),
		advance(1, "Advance to Go (Collect $200).", board.GoIndex),
		advance(2, "Advance to Illinois Avenue. If you pass Go, collect $200.", 24),
		advance(3, "Advance to St. Charles Place. If you pass Go, collect $200.", 11),
		nearest(4, railroadText, board.KindRailroad, 2),
		nearest(5, railroadText, board.KindRailroad, 2),
		nearest(6, "Advance token to nearest Utility. If unowned, you may buy it from the Bank. If owned, throw dice and pay owner a total ten times amount thrown.", board.KindUtility, 10),
		amount(c(7, "Bank pays you dividend of $50.", EffectCollect), 50),
		c(8, "Get Out of Jail Free.", EffectJailFree),
		amount(c(9, "Go Back 3 Spaces.", EffectMoveBack), 3),
		c(10, "Go to Jail. Go directly to Jail, do not pass Go, do not collect $200.", EffectGoToJail),
		repairs,
		amount(c(12, "Speeding fine $15.", EffectPay), 15),
		advance(13, "Take a trip to Reading Railroad. If you pass Go, collect $200.", 5),
		amount(c(14, "You have been elected Chairman of the Board. Pay each player $50.", EffectPayEachPlayer), 50),
		amount(c(15, "Your building loan matures. Collect $150.", EffectCollect), 150),
	}
}

// CommunityChestCards returns the 16 standard Community Chest cards in printed order.
func CommunityChestCards() []Card {
	c := func(id int, text string, effect Effect, n int) Card {
		return Card{ID: id, Deck: CommunityChest, Text: text, Effect: effect, Amount: n}
	}
	toGo := c(0, "Advance to Go (Collect $200).", EffectAdvanceTo, 0)
	toGo.Destination = board.GoIndex
	toGo.CollectSalary = true
	repairs := c(13, "You are assessed for street repairs. $40 per house. $115 per hotel.", EffectRepairs, 0)
	repairs.HouseCost, repairs.HotelCost = 40, 115

	return []Card{
		toGo,
		c(1, "Bank error in your favor. Collect $200.", EffectCollect, 200),
		c(2, "Doctor's fees. Pay $50.", EffectPay, 50),
		c(3, "From sale of stock you get $50.", EffectCollect, 50),
		c(4, "Get Out of Jail Free.", EffectJailFree, 0),
		c(5, "Go to Jail. Go directly to Jail, do not pass Go, do not collect $200.", EffectGoToJail, 0),
		c(6, "Holiday Fund matures. Receive $100.", EffectCollect, 100),
		c(7, "Income tax refund. Collect $20.", EffectCollect, 20),
		c(8, "It is your birthday. Collect $10 from every player.", EffectCollectFromEachPlayer, 10),
		c(9, "Life insurance matures. Collect $100.", EffectCollect, 100),
		c(10, "Pay hospital fees of $100.", EffectPay, 100),
		c(11, "Pay school fees of $50.", EffectPay, 50),
		c(12, "Receive $25 consultancy fee.", EffectCollect, 25),
		repairs,
		c(14, "You have won second prize in a beauty contest. Collect $10.", EffectCollect, 10),
		c(15, "You inherit $100.", EffectCollect, 100),
	}
}
