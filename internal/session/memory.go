package session

import (
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("session store closed")

// MemoryStore holds history for the lifetime of the process. There is no
// eviction and no size bound.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
	closed   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]Message)}
}

// Append adds msgs to the session in order. Messages passed in one call are
// stored contiguously.
func (s *MemoryStore) Append(_ context.Context, sessionID string, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], msgs...)
	return nil
}

// Get returns a copy of the session history.
func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	hist := s.sessions[sessionID]
	out := make([]Message, len(hist))
	copy(out, hist)
	return out, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close drops all sessions; later calls fail with ErrClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.sessions = nil
	return nil
}
