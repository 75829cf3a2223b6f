package tournament

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/monopoly-server-go/internal/runner"
	"github.com/thraizz/monopoly-server-go/internal/session"
)

func TestNewSeriesValidation(t *testing.T) {
	tests := []struct {
		name    string
		players []string
		rounds  int
	}{
		{name: "no rounds", players: []string{"ada", "bo"}, rounds: 0},
		{name: "one player", players: []string{"ada"}, rounds: 1},
		{name: "duplicate", players: []string{"ada", "ada"}, rounds: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSeries("cup", tt.players, tt.rounds, nil)
			assert.Error(t, err)
		})
	}
}

func TestSeatingRotates(t *testing.T) {
	s, err := NewSeries("cup", []string{"ada", "bo", "cy"}, 4, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"ada", "bo", "cy"}, s.Seating(1))
	assert.Equal(t, []string{"bo", "cy", "ada"}, s.Seating(2))
	assert.Equal(t, []string{"cy", "ada", "bo"}, s.Seating(3))
	assert.Equal(t, []string{"ada", "bo", "cy"}, s.Seating(4))
}

func TestPlaySeriesTalliesPoints(t *testing.T) {
	logger := zaptest.NewLogger(t)
	host := session.NewManager(nil, session.Config{Seed: 5}, logger)
	r := runner.New(host, nil, nil, runner.Config{MaxTurns: 40}, logger)

	s, err := NewSeries("cup", []string{"ada", "bo", "cy"}, 3, logger)
	require.NoError(t, err)
	assert.Equal(t, SeriesStateWaiting, s.Snapshot().State)

	require.NoError(t, s.Play(context.Background(), host, r))

	snap := s.Snapshot()
	assert.Equal(t, SeriesStateFinished, snap.State)
	require.Len(t, snap.Rounds, 3)
	require.Len(t, snap.Table, 3)
	require.NotNil(t, snap.StartTime)
	require.NotNil(t, snap.EndTime)

	// Each game hands out 0+1+2 points.
	points, wins := 0, 0
	for _, row := range snap.Table {
		points += row.Points
		wins += row.Wins
		assert.Equal(t, 3, row.RoundsPlayed)
	}
	assert.Equal(t, 9, points)

	winners := 0
	for i, round := range snap.Rounds {
		assert.Equal(t, i+1, round.Number)
		assert.Equal(t, s.Seating(i+1), round.Seating)
		if round.Winner != "" {
			winners++
		}
	}
	assert.Equal(t, winners, wins)

	for i := 1; i < len(snap.Table); i++ {
		assert.GreaterOrEqual(t, snap.Table[i-1].Points, snap.Table[i].Points)
	}

	assert.Error(t, s.Play(context.Background(), host, r))
}
