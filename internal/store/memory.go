// internal/store/memory.go
//
// In-memory implementation of the Store interface for board sessions.
// Sessions are ephemeral by design: a restart discards and replaces the
// whole board, and nothing about reveal state needs to survive the
// process.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - ErrNotFound is returned for missing game IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/jeopardy/internal/game"
)

// ErrNotFound is returned by Get when no session has the given ID.
var ErrNotFound = errors.New("store: game not found")

// Store defines the persistence interface for board sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a board session.
	Save(ctx context.Context, g *game.Game) error

	// Get retrieves a session by ID.
	// Returns ErrNotFound if the session is missing.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Delete discards a session. Deleting an unknown ID is not an error;
	// restart semantics are "drop whatever was there".
	Delete(ctx context.Context, id string) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[g.ID] = g
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, ErrNotFound
}

// Delete removes a session if present.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
	return nil
}
