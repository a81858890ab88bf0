package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/mkowalik/carscout/internal/assist"
	"github.com/mkowalik/carscout/internal/session"
)

type entry struct {
	state     assist.State
	expiresAt time.Time
}

// Store is the in-process session backend, used by default and in tests.
// Expired entries are evicted lazily on read and on write.
type Store struct {
	sessions map[string]entry
	mu       sync.RWMutex
	now      func() time.Time
}

func NewStore() session.Store {
	return &Store{sessions: make(map[string]entry), now: time.Now}
}

func (s *Store) GetSession(_ context.Context, id string) (assist.State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return assist.State{}, false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, id)
		return assist.State{}, false, nil
	}
	return e.state, true, nil
}

func (s *Store) SaveSession(_ context.Context, id string, st assist.State, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, k)
		}
	}
	s.sessions[id] = entry{state: st, expiresAt: now.Add(ttl)}
	return nil
}
