package session

import (
	"context"
	"fmt"
	"sync"
)

// Store persists a single session. Load returns ErrNoSession when nothing
// is stored; Save rejects sessions that are not fully present.
type Store interface {
	Load(ctx context.Context) (Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// Provider is the read-only view the route guard consults on every
// navigation. The second return value is false when no session exists.
type Provider interface {
	Current() (Session, bool)
}

// MemoryStore keeps the session in memory. It implements both Store and
// Provider, which makes it the usual choice for interactive hosts that
// hydrate it from a persistent store at startup.
type MemoryStore struct {
	mu      sync.RWMutex
	session Session
	present bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session or ErrNoSession.
func (m *MemoryStore) Load(_ context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.present {
		return Session{}, ErrNoSession
	}
	return m.session, nil
}

// Save stores the session. Partial sessions are rejected.
func (m *MemoryStore) Save(_ context.Context, s Session) error {
	if !s.Present() {
		return fmt.Errorf("refusing to save partial session")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = s
	m.present = true
	return nil
}

// Clear removes the stored session.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{}
	m.present = false
	return nil
}

// Current implements Provider.
func (m *MemoryStore) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, m.present
}
