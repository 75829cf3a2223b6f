package board

import (
	"fmt"
	"sort"
)

// Size is the number of tiles on the board.
const Size = 40

// Fixed tile positions referenced by the rules.
const (
	GoIndex       = 0
	JailIndex     = 10
	GoToJailIndex = 30
)

// Kind distinguishes the tile variants.
type Kind int

const (
	KindGo Kind = iota
	KindStreet
	KindRailroad
	KindUtility
	KindTax
	KindChance
	KindCommunityChest
	KindJail
	KindGoToJail
	KindFreeParking
)

var kindNames = map[Kind]string{
	KindGo:             "GO",
	KindStreet:         "STREET",
	KindRailroad:       "RAILROAD",
	KindUtility:        "UTILITY",
	KindTax:            "TAX",
	KindChance:         "CHANCE",
	KindCommunityChest: "COMMUNITY_CHEST",
	KindJail:           "JAIL",
	KindGoToJail:       "GO_TO_JAIL",
	KindFreeParking:    "FREE_PARKING",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Group identifies a street color group.
type Group string

const (
	Brown     Group = "brown"
	LightBlue Group = "light_blue"
	Pink      Group = "pink"
	Orange    Group = "orange"
	Red       Group = "red"
	Yellow    Group = "yellow"
	Green     Group = "green"
	DarkBlue  Group = "dark_blue"
)

// HotelLevel is the development level of a street carrying a hotel.
const HotelLevel = 5

// StreetInfo carries the economics only streets have.
type StreetInfo struct {
	Group Group
	// Rents is indexed by development level: 0..4 houses, then hotel.
	Rents     [6]int
	HouseCost int
}

// Tile is an immutable board square. Street is set only for KindStreet.
// Price is set for purchasable kinds, Amount for taxes.
type Tile struct {
	Index  int
	Name   string
	Kind   Kind
	Price  int
	Amount int
	Street *StreetInfo
}

// Purchasable reports whether the tile can be owned.
func (t Tile) Purchasable() bool {
	return t.Kind == KindStreet || t.Kind == KindRailroad || t.Kind == KindUtility
}

// MortgageValue is half the purchase price.
func (t Tile) MortgageValue() int {
	return t.Price / 2
}

// Board is a read-only lookup over the tile layout.
type Board struct {
	tiles  []Tile
	groups map[Group][]int
}

// New builds a board from a full tile layout.
func New(tiles []Tile) (*Board, error) {
	if len(tiles) != Size {
		return nil, fmt.Errorf("board needs %d tiles, got %d", Size, len(tiles))
	}
	b := &Board{
		tiles:  make([]Tile, Size),
		groups: make(map[Group][]int),
	}
	for i, t := range tiles {
		if t.Index != i {
			return nil, fmt.Errorf("tile %q at slot %d has index %d", t.Name, i, t.Index)
		}
		if t.Kind == KindStreet && t.Street == nil {
			return nil, fmt.Errorf("street %q has no street info", t.Name)
		}
		b.tiles[i] = t
		if t.Street != nil {
			b.groups[t.Street.Group] = append(b.groups[t.Street.Group], i)
		}
	}
	return b, nil
}

// Standard returns the classic 40-tile board.
func Standard() *Board {
	b, err := New(standardTiles())
	if err != nil {
		panic(err)
	}
	return b
}

// Tile returns the tile at index.
func (b *Board) Tile(index int) (Tile, bool) {
	if index < 0 || index >= len(b.tiles) {
		return Tile{}, false
	}
	return b.tiles[index], true
}

// Tiles returns a copy of the layout.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// Group returns the tile indices of a color group in board order.
func (b *Board) Group(g Group) []int {
	return append([]int(nil), b.groups[g]...)
}

// Groups returns every color group name, sorted.
func (b *Board) Groups() []Group {
	out := make([]Group, 0, len(b.groups))
	for g := range b.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// OfKind returns all tile indices of the given kind in board order.
func (b *Board) OfKind(k Kind) []int {
	var out []int
	for _, t := range b.tiles {
		if t.Kind == k {
			out = append(out, t.Index)
		}
	}
	return out
}

// NearestRailroad returns the next railroad strictly ahead of pos.
func (b *Board) NearestRailroad(pos int) int {
	return b.nearest(pos, KindRailroad)
}

// NearestUtility returns the next utility strictly ahead of pos.
func (b *Board) NearestUtility(pos int) int {
	return b.nearest(pos, KindUtility)
}

// nearest walks forward modulo the board size; it never moves backward.
func (b *Board) nearest(pos int, k Kind) int {
	for step := 1; step <= Size; step++ {
		i := (pos + step) % Size
		if b.tiles[i].Kind == k {
			return i
		}
	}
	return pos
}

// Distance is the forward distance from one tile to another.
func Distance(from, to int) int {
	return ((to-from)%Size + Size) % Size
}
