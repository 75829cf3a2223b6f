// Package tournament plays a series of simulated games between the same
// players and keeps a points table across them.
package tournament

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/runner"
)

// SeriesState represents the state of a series
type SeriesState int

const (
	SeriesStateWaiting SeriesState = iota
	SeriesStateInProgress
	SeriesStateFinished
)

func (s SeriesState) String() string {
	switch s {
	case SeriesStateWaiting:
		return "WAITING"
	case SeriesStateInProgress:
		return "IN_PROGRESS"
	case SeriesStateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the state by name.
func (s SeriesState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Host creates games and gives the runner access to them.
type Host interface {
	Create(ctx context.Context, players []string) (game.GameView, error)
	Do(ctx context.Context, id string, fn func(*game.Game) error) error
	View(ctx context.Context, id string, fn func(*game.Game) error) error
}

// Entrant is one player's running totals.
type Entrant struct {
	Name         string
	Points       int
	Wins         int
	Bankruptcies int
	NetWorth     int
}

// Round is one finished game of the series.
type Round struct {
	Number  int               `json:"number"`
	GameID  string            `json:"game_id"`
	Seating []string          `json:"seating"`
	Reason  runner.StopReason `json:"reason"`
	Winner  string            `json:"winner,omitempty"`
	Turns   int               `json:"turns"`
}

// EntrantSnapshot is one row of the points table.
type EntrantSnapshot struct {
	Name         string `json:"name"`
	Points       int    `json:"points"`
	Wins         int    `json:"wins"`
	Bankruptcies int    `json:"bankruptcies"`
	AvgNetWorth  int    `json:"avg_net_worth"`
	RoundsPlayed int    `json:"rounds_played"`
}

// Snapshot captures a consistent view of a series.
type Snapshot struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	State     SeriesState       `json:"state"`
	NumRounds int               `json:"num_rounds"`
	Table     []EntrantSnapshot `json:"table"`
	Rounds    []Round           `json:"rounds"`
	StartTime *time.Time        `json:"start_time,omitempty"`
	EndTime   *time.Time        `json:"end_time,omitempty"`
}

// Series rotates the seating every round so each player moves first equally
// often. A game's points are awarded by final rank: last place gets zero,
// each place above it one more.
type Series struct {
	ID        string
	Name      string
	State     SeriesState
	NumRounds int
	Rounds    []Round
	StartTime *time.Time
	EndTime   *time.Time

	players  []string
	entrants map[string]*Entrant
	logger   *zap.Logger
	mu       sync.RWMutex
}

// NewSeries creates a series of numRounds games between players.
func NewSeries(name string, players []string, numRounds int, logger *zap.Logger) (*Series, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if numRounds <= 0 {
		return nil, fmt.Errorf("series needs at least one round")
	}
	if len(players) < game.MinPlayers {
		return nil, fmt.Errorf("not enough players")
	}
	entrants := make(map[string]*Entrant, len(players))
	for _, p := range players {
		if _, exists := entrants[p]; exists {
			return nil, fmt.Errorf("player %s already joined", p)
		}
		entrants[p] = &Entrant{Name: p}
	}
	return &Series{
		ID:        uuid.New().String(),
		Name:      name,
		State:     SeriesStateWaiting,
		NumRounds: numRounds,
		players:   append([]string(nil), players...),
		entrants:  entrants,
		logger:    logger,
	}, nil
}

// Seating returns the seat order for a 1-based round number.
func (s *Series) Seating(round int) []string {
	n := len(s.players)
	shift := (round - 1) % n
	out := make([]string, 0, n)
	out = append(out, s.players[shift:]...)
	return append(out, s.players[:shift]...)
}

// Play runs every remaining round on host with r.
func (s *Series) Play(ctx context.Context, host Host, r *runner.Runner) error {
	s.mu.Lock()
	if s.State == SeriesStateFinished {
		s.mu.Unlock()
		return fmt.Errorf("series already finished")
	}
	if s.StartTime == nil {
		now := time.Now()
		s.StartTime = &now
	}
	s.State = SeriesStateInProgress
	next := len(s.Rounds) + 1
	s.mu.Unlock()

	for round := next; round <= s.NumRounds; round++ {
		seating := s.Seating(round)
		view, err := host.Create(ctx, seating)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		out, err := r.Run(ctx, view.ID)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		s.record(round, seating, out)
		s.logger.Info("series round finished",
			zap.String("series_id", s.ID),
			zap.Int("round", round),
			zap.String("winner", out.Winner),
			zap.Int("turns", out.Turns),
		)
	}

	s.mu.Lock()
	now := time.Now()
	s.EndTime = &now
	s.State = SeriesStateFinished
	s.mu.Unlock()
	return nil
}

func (s *Series) record(round int, seating []string, out *runner.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Rounds = append(s.Rounds, Round{
		Number:  round,
		GameID:  out.GameID,
		Seating: seating,
		Reason:  out.Reason,
		Winner:  out.Winner,
		Turns:   out.Turns,
	})
	n := len(out.Standings)
	for _, st := range out.Standings {
		e, ok := s.entrants[st.Name]
		if !ok {
			continue
		}
		e.Points += n - st.Rank
		e.NetWorth += st.NetWorth
		if st.Bankrupt {
			e.Bankruptcies++
		}
		if st.Name == out.Winner {
			e.Wins++
		}
	}
}

// Snapshot returns a consistent copy of the series, table sorted by points,
// then wins, then name.
func (s *Series) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	played := len(s.Rounds)
	table := make([]EntrantSnapshot, 0, len(s.players))
	for _, name := range s.players {
		e := s.entrants[name]
		row := EntrantSnapshot{
			Name:         e.Name,
			Points:       e.Points,
			Wins:         e.Wins,
			Bankruptcies: e.Bankruptcies,
			RoundsPlayed: played,
		}
		if played > 0 {
			row.AvgNetWorth = e.NetWorth / played
		}
		table = append(table, row)
	}
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].Wins != table[j].Wins {
			return table[i].Wins > table[j].Wins
		}
		return table[i].Name < table[j].Name
	})

	rounds := make([]Round, len(s.Rounds))
	for i, r := range s.Rounds {
		r.Seating = append([]string(nil), r.Seating...)
		rounds[i] = r
	}

	return Snapshot{
		ID:        s.ID,
		Name:      s.Name,
		State:     s.State,
		NumRounds: s.NumRounds,
		Table:     table,
		Rounds:    rounds,
		StartTime: cloneTime(s.StartTime),
		EndTime:   cloneTime(s.EndTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
