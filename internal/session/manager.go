// Package session hosts live games: it serializes every call into a game,
// persists a snapshot after each successful change and fans events out.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thraizz/monopoly-server-go/internal/game"
	"github.com/thraizz/monopoly-server-go/internal/game/rules"
	"github.com/thraizz/monopoly-server-go/internal/store"
)

// Config tunes the games a Manager creates.
type Config struct {
	// Seed makes dice and deck order reproducible; zero picks a random seed per game.
	Seed         uint64 `mapstructure:"seed"`
	EventLogSize int    `mapstructure:"event_log_size"`
}

// Manager owns every live game and one mutex per game.
type Manager struct {
	cfg    Config
	store  store.Store
	logger *zap.Logger

	mu    sync.RWMutex
	games map[string]*hosted
}

type hosted struct {
	mu   sync.Mutex
	game *game.Game
}

// NewManager creates a session manager backed by st.
func NewManager(st store.Store, cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if st == nil {
		st = store.NewMemory()
	}
	return &Manager{
		cfg:    cfg,
		store:  st,
		logger: logger,
		games:  make(map[string]*hosted),
	}
}

func (m *Manager) options(id string) game.Options {
	seed := m.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return game.Options{
		ID:           id,
		Dice:         game.NewRandomDice(seed),
		Shuffle:      rand.New(rand.NewPCG(seed, seed>>1|1)),
		Logger:       m.logger,
		EventLogSize: m.cfg.EventLogSize,
	}
}

// Create starts a new game and persists its first snapshot.
func (m *Manager) Create(ctx context.Context, players []string) (game.GameView, error) {
	id := uuid.NewString()
	g, err := game.New(players, m.options(id))
	if err != nil {
		return game.GameView{}, err
	}
	if err := m.persist(ctx, g); err != nil {
		return game.GameView{}, err
	}

	m.mu.Lock()
	m.games[id] = &hosted{game: g}
	m.mu.Unlock()

	m.logger.Info("game hosted", zap.String("game_id", id), zap.Strings("players", players))
	return g.Snapshot(), nil
}

// lookup returns the hosted game, rehydrating it from the store on first use.
func (m *Manager) lookup(ctx context.Context, id string) (*hosted, error) {
	m.mu.RLock()
	h, ok := m.games[id]
	m.mu.RUnlock()
	if ok {
		return h, nil
	}

	state, err := m.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &rules.NotFoundError{Kind: "game", Key: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	g, err := game.Restore(state, m.options(id))
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.games[id]; ok {
		return existing, nil
	}
	h = &hosted{game: g}
	m.games[id] = h
	m.logger.Info("game restored from store", zap.String("game_id", id), zap.Stringer("phase", g.Phase()))
	return h, nil
}

// Do runs fn with exclusive access to the game and persists the result when
// fn succeeds. A failed fn leaves nothing to persist; a failed save rolls the
// live game back to its state before fn.
func (m *Manager) Do(ctx context.Context, id string, fn func(*game.Game) error) error {
	h, err := m.lookup(ctx, id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	before, err := h.game.Export()
	if err != nil {
		return fmt.Errorf("failed to export game %s: %w", id, err)
	}
	if err := fn(h.game); err != nil {
		return err
	}
	if err := m.persist(ctx, h.game); err != nil {
		if rbErr := h.game.Rollback(before); rbErr != nil {
			m.logger.Error("failed to roll back game, evicting", zap.String("game_id", id), zap.Error(rbErr))
			m.evict(id, h)
		}
		return err
	}
	return nil
}

// evict drops h from memory so the next lookup reloads the stored snapshot.
func (m *Manager) evict(id string, h *hosted) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.games[id] == h {
		delete(m.games, id)
	}
}

// View runs fn with exclusive access to the game without persisting.
func (m *Manager) View(ctx context.Context, id string, fn func(*game.Game) error) error {
	h, err := m.lookup(ctx, id)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.game)
}

func (m *Manager) persist(ctx context.Context, g *game.Game) error {
	state, err := g.Export()
	if err != nil {
		return fmt.Errorf("failed to export game %s: %w", g.ID(), err)
	}
	if err := m.store.Save(ctx, state); err != nil {
		m.logger.Error("failed to persist game", zap.String("game_id", g.ID()), zap.Error(err))
		return fmt.Errorf("failed to persist game %s: %w", g.ID(), err)
	}
	return nil
}

// Subscribe streams the game's future events to listener. The returned
// function detaches it.
func (m *Manager) Subscribe(ctx context.Context, id string, listener rules.Listener) (func(), error) {
	h, err := m.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	handle := h.game.Subscribe(listener)
	return func() { h.game.Unsubscribe(handle) }, nil
}

// Delete drops a game from memory and from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, live := m.games[id]
	delete(m.games, id)
	m.mu.Unlock()

	err := m.store.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		if live {
			return nil
		}
		return &rules.NotFoundError{Kind: "game", Key: id}
	}
	if err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	m.logger.Info("game deleted", zap.String("game_id", id))
	return nil
}

// List returns the ids of every stored game.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Count returns the number of games held in memory.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}

// Close releases the backing store.
func (m *Manager) Close() error {
	m.mu.Lock()
	m.games = make(map[string]*hosted)
	m.mu.Unlock()
	return m.store.Close()
}
