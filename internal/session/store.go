package session

import (
	"errors"
	"sync"
	"time"

	"storefront/internal/suggest"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Create() *Session
	Get(id string) (*Session, error)
	Delete(id string)
	Sweep(now time.Time) int
	Len() int
}

// TrackerFactory builds the hint tracker for a new session.
type TrackerFactory func() *suggest.Tracker

// MemoryStore keeps sessions in process memory with an idle TTL.
type MemoryStore struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	ttl        time.Duration
	newTracker TrackerFactory
	now        func() time.Time
}

func NewMemoryStore(ttl time.Duration, newTracker TrackerFactory) *MemoryStore {
	return &MemoryStore{
		sessions:   make(map[string]*Session),
		ttl:        ttl,
		newTracker: newTracker,
		now:        time.Now,
	}
}

func (m *MemoryStore) Create() *Session {
	var tr *suggest.Tracker
	if m.newTracker != nil {
		tr = m.newTracker()
	}
	s := New(uuid.NewString(), tr, m.now())

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session and refreshes its idle timer.
func (m *MemoryStore) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	now := m.now()
	if m.expired(s, now) {
		m.Delete(id)
		return nil, ErrNotFound
	}
	s.Touch(now)
	return s, nil
}

func (m *MemoryStore) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.close()
	}
}

// Sweep removes idle sessions and reports how many were dropped.
func (m *MemoryStore) Sweep(now time.Time) int {
	var dead []*Session

	m.mu.Lock()
	for id, s := range m.sessions {
		if m.expired(s, now) {
			dead = append(dead, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range dead {
		s.close()
	}
	return len(dead)
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) expired(s *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.LastSeen()) > m.ttl
}
