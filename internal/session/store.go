package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is the explicit absence signal for an unknown session ID.
var ErrNotFound = errors.New("session not found")

// Store persists the full aggregate. Put writes the whole session
// atomically; there is no partial-field persistence and no version
// check, so concurrent writers are last-write-wins.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
}

// MemoryStore keeps sessions in a mutex-guarded map. Used in tests and
// when the server runs without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := s
	return &copied, nil
}

func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.SessionID] = *s
	return nil
}
