package store

import (
	"context"
	"sort"
	"sync"

	"github.com/thraizz/monopoly-server-go/internal/game"
)

// Memory keeps gob-encoded snapshots in a map, so callers never share state.
type Memory struct {
	mu    sync.RWMutex
	games map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{games: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, state *game.SavedState) error {
	data, err := state.SerializeToBytes()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[state.ID] = data
	return nil
}

func (m *Memory) Load(_ context.Context, id string) (*game.SavedState, error) {
	m.mu.RLock()
	data, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return game.DeserializeFromBytes(data)
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.games))
	for id := range m.games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *Memory) Close() error { return nil }
