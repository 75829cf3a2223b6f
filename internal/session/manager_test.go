package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
	"github.com/thraizz/monopoly-server-go/internal/store"
)

func newTestManager(t *testing.T, st store.Store) *Manager {
	t.Helper()
	return NewManager(st, Config{Seed: 42}, zaptest.NewLogger(t))
}

func TestCreatePersistsSnapshot(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := newTestManager(t, st)

	view, err := m.Create(ctx, []string{"ada", "bo"})
	require.NoError(t, err)
	assert.Equal(t, rules.PhaseAwaitingRoll, view.Phase)
	assert.Equal(t, "ada", view.CurrentPlayer)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{view.ID}, ids)
	assert.Equal(t, 1, m.Count())

	_, err = m.Create(ctx, []string{"solo"})
	assert.Error(t, err)
}

func TestDoPersistsOnlySuccessfulActions(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := newTestManager(t, st)
	view, err := m.Create(ctx, []string{"ada", "bo"})
	require.NoError(t, err)

	before, err := st.Load(ctx, view.ID)
	require.NoError(t, err)

	err = m.Do(ctx, view.ID, func(g *game.Game) error {
		_, err := g.EndTurn()
		return err
	})
	assert.Equal(t, rules.CodeIllegalAction, rules.CodeOf(err))
	after, err := st.Load(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Checksum, after.Checksum)

	require.NoError(t, m.Do(ctx, view.ID, func(g *game.Game) error {
		_, err := g.RollAndMove()
		return err
	}))
	after, err = st.Load(ctx, view.ID)
	require.NoError(t, err)
	assert.NotEqual(t, before.Checksum, after.Checksum)
}

// flakyStore fails every Save once failSaves is set.
type flakyStore struct {
	store.Store
	failSaves bool
}

func (s *flakyStore) Save(ctx context.Context, state *game.SavedState) error {
	if s.failSaves {
		return errors.New("disk full")
	}
	return s.Store.Save(ctx, state)
}

func TestFailedSaveRollsBackLiveGame(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Store: store.NewMemory()}
	m := newTestManager(t, st)
	view, err := m.Create(ctx, []string{"ada", "bo"})
	require.NoError(t, err)

	var seen []rules.EventType
	_, err = m.Subscribe(ctx, view.ID, func(evt rules.Event) {
		seen = append(seen, evt.Type)
	})
	require.NoError(t, err)

	st.failSaves = true
	err = m.Do(ctx, view.ID, func(g *game.Game) error {
		_, err := g.RollAndMove()
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	require.NoError(t, m.View(ctx, view.ID, func(g *game.Game) error {
		assert.Equal(t, rules.PhaseAwaitingRoll, g.Phase())
		assert.Equal(t, "ada", g.CurrentPlayer())
		snap := g.Snapshot()
		for _, p := range snap.Players {
			assert.Zero(t, p.Position, p.Name)
		}
		return nil
	}))

	st.failSaves = false
	seen = nil
	require.NoError(t, m.Do(ctx, view.ID, func(g *game.Game) error {
		_, err := g.RollAndMove()
		return err
	}))
	assert.Contains(t, seen, rules.EventDiceRolled)
}

func TestUnknownGame(t *testing.T) {
	m := newTestManager(t, nil)
	err := m.View(context.Background(), "missing", func(*game.Game) error { return nil })
	assert.Equal(t, rules.CodeNotFound, rules.CodeOf(err))
	assert.Equal(t, rules.CodeNotFound, rules.CodeOf(m.Delete(context.Background(), "missing")))
}

func TestGamesRehydrateFromStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	first := newTestManager(t, st)
	view, err := first.Create(ctx, []string{"ada", "bo"})
	require.NoError(t, err)
	require.NoError(t, first.Do(ctx, view.ID, func(g *game.Game) error {
		_, err := g.RollAndMove()
		return err
	}))
	var want game.GameView
	require.NoError(t, first.View(ctx, view.ID, func(g *game.Game) error {
		want = g.Snapshot()
		return nil
	}))

	second := newTestManager(t, st)
	assert.Zero(t, second.Count())
	var got game.GameView
	require.NoError(t, second.View(ctx, view.ID, func(g *game.Game) error {
		got = g.Snapshot()
		return nil
	}))
	assert.Equal(t, want.Phase, got.Phase)
	assert.Equal(t, want.Players, got.Players)
	assert.Equal(t, want.Holdings, got.Holdings)
	assert.Equal(t, 1, second.Count())
}

func TestSubscribeReceivesEvents(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil)
	view, err := m.Create(ctx, []string{"ada", "bo"})
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []rules.EventType
	cancel, err := m.Subscribe(ctx, view.ID, func(evt rules.Event) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, evt.Type)
	})
	require.NoError(t, err)

	require.NoError(t, m.Do(ctx, view.ID, func(g *game.Game) error {
		_, err := g.RollAndMove()
		return err
	}))
	mu.Lock()
	assert.Contains(t, seen, rules.EventDiceRolled)
	n := len(seen)
	mu.Unlock()

	cancel()
	_ = m.Do(ctx, view.ID, func(g *game.Game) error {
		_, err := g.ForceEndTurn()
		return err
	})
	mu.Lock()
	assert.Len(t, seen, n)
	mu.Unlock()
}

func TestConcurrentCallsAreSerialized(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil)
	view, err := m.Create(ctx, []string{"ada", "bo", "cy"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(ctx, view.ID, func(g *game.Game) error {
				if g.Over() {
					return nil
				}
				_, err := g.ForceEndTurn()
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, m.View(ctx, view.ID, func(g *game.Game) error {
		assert.Equal(t, 51, g.Turn())
		return nil
	}))
}

func TestDeleteRemovesGame(t *testing.T) {
	ctx := context.Background()
	m := newTestManager(t, nil)
	view, err := m.Create(ctx, []string{"ada", "bo"})
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, view.ID))
	assert.Zero(t, m.Count())
	err = m.View(ctx, view.ID, func(*game.Game) error { return nil })
	assert.Equal(t, rules.CodeNotFound, rules.CodeOf(err))
}
