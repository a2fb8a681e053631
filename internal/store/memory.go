// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// A session wraps one live round engine; engines are single-writer, so
// the session carries its own mutex and handlers serialize on it.
//
// Characteristics:
//   - Stores *Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; only finished rounds are
//     persisted, by the HTTP layer.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pco10/mastermind-server/internal/game"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// Session is one live game bound to a player connection.
type Session struct {
	ID        string
	Variant   string // "bullscows" | "mastermind"
	Game      *game.Game
	StartedAt time.Time

	// Mu serializes engine access; the engine itself is not safe for
	// concurrent use.
	Mu sync.Mutex
}

// Store defines the session registry interface.
// Implementations may be backed by memory (this package), Redis, etc.
type Store interface {
	// Save registers or updates a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}
