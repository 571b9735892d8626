// Package session holds the one piece of durable client state: the bearer
// token and the signed-in user it belongs to. The store is injected into
// every workflow so tests can swap in the memory implementation.
package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned when no token has been stored or the session was
// cleared (logout, detected expiry).
var ErrNoSession = errors.New("no stored session")

type Session struct {
	Token    string
	UserID   int
	Username string
}

type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the session in process memory. Used by tests and by
// one-shot invocations that should not persist anything.
type MemoryStore struct {
	mu      sync.Mutex
	current *Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoSession
	}
	s := *m.current
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *s
	m.current = &copied
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	return nil
}
