package board

func street(index int, name string, group Group, price, houseCost int, rents [6]int) Tile {
	return Tile{
		Index: index,
		Name:  name,
		Kind:  KindStreet,
		Price: price,
		Street: &StreetInfo{
			Group:     group,
			Rents:     rents,
			HouseCost: houseCost,
		},
	}
}

func railroad(index int, name string) Tile {
	return Tile{Index: index, Name: name, Kind: KindRailroad, Price: 200}
}

func utility(index int, name string) Tile {
	return Tile{Index: index, Name: name, Kind: KindUtility, Price: 150}
}

func special(index int, name string, kind Kind) Tile {
	return Tile{Index: index, Name: name, Kind: kind}
}

func tax(index int, name string, amount int) Tile {
	return Tile{Index: index, Name: name, Kind: KindTax, Amount: amount}
}

// standardTiles is the US edition layout.
func standardTiles() []Tile {
	return []Tile{
		special(0, "Go", KindGo),
		street(1, "Mediterranean Avenue", Brown, 60, 50, [6]int{2, 10, 30, 90, 160, 250}),
		special(2, "Community Chest", KindCommunityChest),
		street(3, "Baltic Avenue", Brown, 60, 50, [6]int{4, 20, 60, 180, 320, 450}),
		tax(4, "Income Tax", 200),
		railroad(5, "Reading Railroad"),
		street(6, "Oriental Avenue", LightBlue, 100, 50, [6]int{6, 30, 90, 270, 400, 550}),
		special(7, "Chance", KindChance),
		street(8, "Vermont Avenue", LightBlue, 100, 50, [6]int{6, 30, 90, 270, 400, 550}),
		street(9, "Connecticut Avenue", LightBlue, 120, 50, [6]int{8, 40, 100, 300, 450, 600}),
		special(10, "Jail", KindJail),
		street(11, "St. Charles Place", Pink, 140, 100, [6]int{10, 50, 150, 450, 625, 750}),
		utility(12, "Electric Company"),
		street(13, "States Avenue", Pink, 140, 100, [6]int{10, 50, 150, 450, 625, 750}),
		street(14, "Virginia Avenue", Pink, 160, 100, [6]int{12, 60, 180, 500, 700, 900}),
		railroad(15, "Pennsylvania Railroad"),
		street(16, "St. James Place", Orange, 180, 100, [6]int{14, 70, 200, 550, 750, 950}),
		special(17, "Community Chest", KindCommunityChest),
		street(18, "Tennessee Avenue", Orange, 180, 100, [6]int{14, 70, 200, 550, 750, 950}),
		street(19, "New York Avenue", Orange, 200, 100, [6]int{16, 80, 220, 600, 800, 1000}),
		special(20, "Free Parking", KindFreeParking),
		street(21, "Kentucky Avenue", Red, 220, 150, [6]int{18, 90, 250, 700, 875, 1050}),
		special(22, "Chance", KindChance),
		street(23, "Indiana Avenue", Red, 220, 150, [6]int{18, 90, 250, 700, 875, 1050}),
		street(24, "Illinois Avenue", Red, 240, 150, [6]int{20, 100, 300, 750, 925, 1100}),
		railroad(25, "B. & O. Railroad"),
		street(26, "Atlantic Avenue", Yellow, 260, 150, [6]int{22, 110, 330, 800, 975, 1150}),
		street(27, "Ventnor Avenue", Yellow, 260, 150, [6]int{22, 110, 330, 800, 975, 1150}),
		utility(28, "Water Works"),
		street(29, "Marvin Gardens", Yellow, 280, 150, [6]int{24, 120, 360, 850, 1025, 1200}),
		special(30, "Go To Jail", KindGoToJail),
		street(31, "Pacific Avenue", Green, 300, 200, [6]int{26, 130, 390, 900, 1100, 1275}),
		street(32, "North Carolina Avenue", Green, 300, 200, [6]int{26, 130, 390, 900, 1100, 1275}),
		special(33, "Community Chest", KindCommunityChest),
		street(34, "Pennsylvania Avenue", Green, 320, 200, [6]int{28, 150, 450, 1000, 1200, 1400}),
		railroad(35, "Short Line"),
		special(36, "Chance", KindChance),
		street(37, "Park Place", DarkBlue, 350, 200, [6]int{35, 175, 500, 1100, 1300, 1500}),
		tax(38, "Luxury Tax", 100),
		street(39, "Boardwalk", DarkBlue, 400, 200, [6]int{50, 200, 600, 1400, 1700, 2000}),
	}
}
