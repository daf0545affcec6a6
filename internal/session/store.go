package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

type entry struct {
	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

// Store keeps session states in memory. Sessions idle for longer than the TTL
// are dropped lazily on access or by StartCleanup.
type Store struct {
	entries  map[string]*entry
	mu       sync.RWMutex
	ttl      time.Duration
	pageSize int
	now      func() time.Time
}

// NewStore creates a Store whose new sessions start with the given page size.
func NewStore(ttl time.Duration, pageSize int) *Store {
	return &Store{
		entries:  make(map[string]*entry),
		ttl:      ttl,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Create starts a new session and returns its id.
func (s *Store) Create() string {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry{state: NewState(s.pageSize), lastSeen: s.now()}
	return id
}

// lookup returns the live entry for id, deleting it if it has expired.
func (s *Store) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	expired := s.now().Sub(e.lastSeen) > s.ttl
	e.mu.Unlock()
	if expired {
		s.mu.Lock()
		if s.entries[id] == e {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e, true
}

// Get returns the current state of session id and marks it as used.
func (s *Store) Get(id string) (State, bool) {
	e, ok := s.lookup(id)
	if !ok {
		return State{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()
	return e.state, true
}

// Dispatch applies a to the state of session id and returns the new state.
// Steps on the same session are serialized.
func (s *Store) Dispatch(id string, a Action) (State, error) {
	e, ok := s.lookup(id)
	if !ok {
		return State{}, ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Reduce(e.state, a)
	e.lastSeen = s.now()
	return e.state, nil
}

// Len returns the number of stored sessions, expired ones included until they
// are collected.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartCleanup periodically removes expired sessions until ctx is cancelled.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.collect()
			}
		}
	}()
}

func (s *Store) collect() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, e := range s.entries {
		e.mu.Lock()
		expired := now.Sub(e.lastSeen) > s.ttl
		e.mu.Unlock()
		if expired {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}
