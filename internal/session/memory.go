package session

import "sync"

// MemoryStore keeps the session in process memory only. It backs tests and
// hosts without a usable keyring backend.
type MemoryStore struct {
	mu      sync.Mutex
	current Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Set replaces the current session.
func (s *MemoryStore) Set(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	return nil
}

// Get returns the current session.
func (s *MemoryStore) Get() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear removes the current session.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Session{}
	return nil
}
