// internal/store/memory.go
//
// In-memory implementation of Store. Lightweight persistence for ephemeral
// games; state is lost when the process restarts.

package store

import (
	"context"
	"sync"

	"github.com/wordduel/server/internal/game"
)

// memory is a map-based Store implementation, safe for concurrent use.
type memory struct {
	mu     sync.RWMutex
	states map[string]game.State
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{states: make(map[string]game.State)}
}

func (m *memory) Load(ctx context.Context, id string) (game.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.states[id]; ok {
		return st, nil
	}
	return game.State{}, ErrNotFound
}

func (m *memory) Save(ctx context.Context, st game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[st.ID] = st
	return nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.states[id]; !ok {
		return ErrNotFound
	}
	delete(m.states, id)
	return nil
}
