package assistant

import (
	"context"
	"sync"
	"time"

	"waly/models"
)

// SessionStore persists session snapshots between requests.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*models.SessionSnapshot, error)
	Save(ctx context.Context, snap models.SessionSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// MemorySessionStore keeps snapshots in process memory.
type MemorySessionStore struct {
	mu    sync.RWMutex
	items map[string]models.SessionSnapshot
	ttl   time.Duration
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{items: make(map[string]models.SessionSnapshot), ttl: ttl}
}

func (s *MemorySessionStore) Load(_ context.Context, sessionID string) (*models.SessionSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.items[sessionID]
	if !ok || s.expired(snap, time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &snap, nil
}

func (s *MemorySessionStore) Save(_ context.Context, snap models.SessionSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[snap.ID] = snap
	return nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

// Sweep drops expired snapshots and reports how many were removed.
func (s *MemorySessionStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, snap := range s.items {
		if s.expired(snap, now) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

func (s *MemorySessionStore) expired(snap models.SessionSnapshot, now time.Time) bool {
	return s.ttl > 0 && now.Sub(snap.UpdatedAt) > s.ttl
}
