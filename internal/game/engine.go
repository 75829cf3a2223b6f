package game

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game/auction"
	"github.com/thraizz/monopoly-server-go/internal/game/bank"
	"github.com/thraizz/monopoly-server-go/internal/game/board"
	"github.com/thraizz/monopoly-server-go/internal/game/cards"
	"github.com/thraizz/monopoly-server-go/internal/game/player"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
)

// Classic economic constants.
const (
	DefaultSalary       = 200
	DefaultBail         = 50
	DefaultEventLogSize = 50
	MinPlayers          = 2
	MaxPlayers          = 8
	maxJailAttempts     = 3
	maxDoubles          = 3
)

// Options configures a new or restored game. Zero values take the classic defaults.
type Options struct {
	ID     string
	Board  *board.Board
	Dice   Dice
	Logger *zap.Logger

	// Shuffle orders the card decks; nil keeps the printed order.
	Shuffle *rand.Rand

	ChanceCards         []cards.Card
	CommunityChestCards []cards.Card

	StartingCash int
	Salary       int
	Bail         int
	BankCash     int
	Houses       int
	Hotels       int
	EventLogSize int
}

func (o Options) withDefaults() Options {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Board == nil {
		o.Board = board.Standard()
	}
	if o.Dice == nil {
		o.Dice = NewRandomDice(rand.Uint64())
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.ChanceCards == nil {
		o.ChanceCards = cards.ChanceCards()
	}
	if o.CommunityChestCards == nil {
		o.CommunityChestCards = cards.CommunityChestCards()
	}
	if o.StartingCash == 0 {
		o.StartingCash = player.StartingCash
	}
	if o.Salary == 0 {
		o.Salary = DefaultSalary
	}
	if o.Bail == 0 {
		o.Bail = DefaultBail
	}
	if o.BankCash == 0 {
		o.BankCash = bank.DefaultCash
	}
	if o.Houses == 0 {
		o.Houses = bank.DefaultHouses
	}
	if o.Hotels == 0 {
		o.Hotels = bank.DefaultHotels
	}
	if o.EventLogSize <= 0 {
		o.EventLogSize = DefaultEventLogSize
	}
	return o
}

// Game is one Monopoly game. It is not safe for concurrent use; the hosting
// layer serializes every call.
type Game struct {
	id     string
	opts   Options
	board  *board.Board
	bank   *bank.Bank
	dice   Dice
	logger *zap.Logger

	players  []*player.Player
	holdings map[int]*Holding
	decks    map[cards.DeckKind]*cards.Deck

	current   int
	phase     rules.Phase
	auction   *auction.Auction
	lastRoll  *Roll
	doubles   int
	extraRoll bool
	turn      int
	debt      *Debt
	winner    string

	bus     *rules.EventBus
	log     *EventLog
	seq     int
	pending []rules.Event
}

// New starts a game for the named players in seat order.
func New(names []string, opts Options) (*Game, error) {
	if len(names) < MinPlayers || len(names) > MaxPlayers {
		return nil, &rules.SetupError{Reason: fmt.Sprintf("need %d to %d players, got %d", MinPlayers, MaxPlayers, len(names))}
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return nil, &rules.SetupError{Reason: "player name must not be empty"}
		}
		if seen[n] {
			return nil, &rules.SetupError{Reason: fmt.Sprintf("duplicate player name %q", n)}
		}
		seen[n] = true
	}

	opts = opts.withDefaults()
	g := newGame(opts)
	g.bank = bank.New(opts.BankCash, opts.Houses, opts.Hotels)
	g.decks = map[cards.DeckKind]*cards.Deck{
		cards.Chance:         cards.NewDeck(cards.Chance, opts.ChanceCards, opts.Shuffle),
		cards.CommunityChest: cards.NewDeck(cards.CommunityChest, opts.CommunityChestCards, opts.Shuffle),
	}
	for _, n := range names {
		g.players = append(g.players, player.New(n, opts.StartingCash))
	}
	g.turn = 1
	g.phase = rules.PhaseAwaitingRoll

	g.emit(rules.NewEvent(rules.EventGameStarted, "", rules.NoTile,
		fmt.Sprintf("game started with %s", strings.Join(names, ", "))))
	g.emit(rules.NewEvent(rules.EventTurnStarted, names[0], rules.NoTile,
		fmt.Sprintf("turn 1: %s to play", names[0])))
	g.pending = nil

	g.logger.Info("game created",
		zap.String("game_id", g.id),
		zap.Strings("players", names),
	)
	return g, nil
}

func newGame(opts Options) *Game {
	g := &Game{
		id:       opts.ID,
		opts:     opts,
		board:    opts.Board,
		dice:     opts.Dice,
		logger:   opts.Logger.With(zap.String("game_id", opts.ID)),
		holdings: make(map[int]*Holding),
		bus:      rules.NewEventBus(),
		log:      NewEventLog(opts.EventLogSize),
	}
	g.bus.Subscribe(g.log.Append)
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Phase returns the current phase.
func (g *Game) Phase() rules.Phase { return g.phase }

// Board returns the static board.
func (g *Game) Board() *board.Board { return g.board }

// Turn returns the turn counter, starting at 1.
func (g *Game) Turn() int { return g.turn }

// Winner returns the winner's name once the game is over.
func (g *Game) Winner() string { return g.winner }

// Over reports whether the game has ended.
func (g *Game) Over() bool { return g.phase == rules.PhaseGameOver }

// CurrentPlayer returns the name of the player whose turn it is.
func (g *Game) CurrentPlayer() string {
	return g.players[g.current].Name
}

// Subscribe attaches a listener to every future event.
func (g *Game) Subscribe(listener rules.Listener) int {
	return g.bus.Subscribe(listener)
}

// Unsubscribe detaches a listener.
func (g *Game) Unsubscribe(handle int) {
	g.bus.Unsubscribe(handle)
}

func (g *Game) currentPlayer() *player.Player {
	return g.players[g.current]
}

func (g *Game) findPlayer(name string) (*player.Player, error) {
	for _, p := range g.players {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, &rules.NotFoundError{Kind: "player", Key: name}
}

func (g *Game) tile(index int) (board.Tile, error) {
	t, ok := g.board.Tile(index)
	if !ok {
		return board.Tile{}, &rules.NotFoundError{Kind: "tile", Key: fmt.Sprint(index)}
	}
	return t, nil
}

func (g *Game) activePlayers() []*player.Player {
	var out []*player.Player
	for _, p := range g.players {
		if !p.Bankrupt {
			out = append(out, p)
		}
	}
	return out
}

// emit stamps an event, records it for the running action, and publishes it.
func (g *Game) emit(evt rules.Event) {
	g.seq++
	evt.Seq = g.seq
	evt.Turn = g.turn
	g.pending = append(g.pending, evt)
	g.bus.Publish(evt)
}

func (g *Game) setPhase(p rules.Phase) {
	if g.phase == p {
		return
	}
	g.logger.Debug("phase changed",
		zap.Stringer("from", g.phase),
		zap.Stringer("to", p),
	)
	from := g.phase
	g.phase = p
	g.emit(rules.NewEvent(rules.EventPhaseChanged, g.currentPlayer().Name, rules.NoTile,
		fmt.Sprintf("%s -> %s", from, p)))
}

// Result describes what one action did.
type Result struct {
	Action rules.Action   `json:"action"`
	Player string         `json:"player"`
	Roll   *Roll          `json:"roll,omitempty"`
	Phase  rules.Phase    `json:"phase"`
	Events []rules.Event  `json:"events"`
	Cash   map[string]int `json:"cash"`
}

// begin opens an action after its checks passed; finish closes it.
func (g *Game) begin() {
	g.pending = nil
}

func (g *Game) finish(action rules.Action, actor string, roll *Roll) *Result {
	cash := make(map[string]int, len(g.players))
	for _, p := range g.players {
		cash[p.Name] = p.Cash
	}
	res := &Result{
		Action: action,
		Player: actor,
		Roll:   roll,
		Phase:  g.phase,
		Events: g.pending,
		Cash:   cash,
	}
	g.pending = nil
	g.logger.Debug("action applied",
		zap.String("action", string(action)),
		zap.String("player", actor),
		zap.Stringer("phase", g.phase),
		zap.Int("events", len(res.Events)),
	)
	return res
}

// requirePhase checks the phase gate for action.
func (g *Game) requirePhase(action rules.Action) error {
	if g.phase == rules.PhaseGameOver {
		return &rules.IllegalActionError{Action: action, Phase: g.phase, Reason: "game is over"}
	}
	return rules.CheckPhase(action, g.phase)
}
