package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. It is the default for development and
// the backing store in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	seq      uint64
	now      func() time.Time
}

// memoryEntry tags a session with its write order so GetByShop stays
// deterministic when two writes share a clock reading.
type memoryEntry struct {
	Session
	seq uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, sessionID string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	s.ID = sessionID
	s.CreatedAt = now
	if prev, ok := m.sessions[sessionID]; ok {
		s.CreatedAt = prev.CreatedAt
	}
	s.UpdatedAt = now
	m.seq++
	m.sessions[sessionID] = memoryEntry{Session: s, seq: m.seq}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	s := e.Session
	return &s, nil
}

func (m *MemoryStore) GetByShop(_ context.Context, shop string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var (
		latest memoryEntry
		found  bool
	)
	for _, e := range m.sessions {
		if e.Shop != shop {
			continue
		}
		if !found || newer(e, latest) {
			latest, found = e, true
		}
	}
	if !found {
		return nil, ErrNotFound
	}
	s := latest.Session
	return &s, nil
}

func (m *MemoryStore) DeleteShop(_ context.Context, shop string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.Shop == shop {
			delete(m.sessions, id)
		}
	}
	return nil
}

func newer(a, b memoryEntry) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.seq > b.seq
}
