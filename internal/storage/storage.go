// Package storage keeps one interaction state machine per browser session.
package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowerview/flowerview/internal/session"
)

// Factory builds the machine for a new session.
type Factory func() *session.Machine

type entry struct {
	machine  *session.Machine
	lastSeen time.Time
}

type SessionStore struct {
	sessions map[string]*entry
	mu       sync.RWMutex
	factory  Factory
	ttl      time.Duration
	now      func() time.Time
}

// New returns a store. A ttl of zero keeps sessions until they are deleted.
func New(factory Factory, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entry),
		factory:  factory,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the machine for sessionID and refreshes its last access time.
func (s *SessionStore) Get(sessionID string) (*session.Machine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, exists := s.sessions[sessionID]
	if !exists || s.expired(e) {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.machine, true
}

// GetOrCreate returns the machine for sessionID, creating a fresh session
// under a new UUID when sessionID is empty, unknown or expired. The
// returned ID is the one the caller should hand back to the client.
func (s *SessionStore) GetOrCreate(sessionID string) (string, *session.Machine, bool) {
	if m, ok := s.Get(sessionID); ok {
		return sessionID, m, false
	}

	id := uuid.NewString()
	m := s.factory()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &entry{machine: m, lastSeen: s.now()}
	return id, m, true
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Evict drops every expired session and returns how many were removed.
func (s *SessionStore) Evict() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// expired must be called with s.mu held.
func (s *SessionStore) expired(e *entry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}
