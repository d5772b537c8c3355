// internal/store/memory.go
//
// In-memory registry of live game sessions.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Sessions idle longer than a cutoff are closed and dropped by Sweep.
//   - State is lost when the process restarts; durable saves go through savegame.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/unscrambler/internal/game"
)

var ErrNotFound = errors.New("not found")

// Store defines the registry interface for live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by ID, returning ErrNotFound if missing.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete closes and removes a session. Missing IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Sweep closes and removes sessions not touched within idle.
	Sweep(ctx context.Context, idle time.Duration) int
}

type entry struct {
	s       *game.Session
	touched time.Time
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.sessions[s.ID]; ok && old.s != s {
		old.s.Close()
	}
	m.sessions[s.ID] = &entry{s: s, touched: m.now()}
	return nil
}

// Get looks up a session by ID and marks it as recently used.
func (m *memory) Get(ctx context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	m.mu.Lock()
	e.touched = m.now()
	m.mu.Unlock()
	return e.s, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		e.s.Close()
	}
	return nil
}

func (m *memory) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	var stale []*game.Session

	m.mu.Lock()
	for id, e := range m.sessions {
		if e.touched.Before(cutoff) {
			stale = append(stale, e.s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}
