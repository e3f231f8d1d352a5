package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/99designs/keyring"

	"github.com/nhle/tasktrack/internal/model"
)

const serviceName = "tasktrack"

const (
	tokenKey = "token"
	userKey  = "user"
)

// KeyringStore persists the session in the system keyring. The current
// session is mirrored in memory under a mutex, so readers see either the
// full prior session or the full new one while a write is in progress.
type KeyringStore struct {
	ring keyring.Keyring

	mu      sync.Mutex
	current Session
}

// OpenKeyring opens the system keyring and loads any stored session.
func OpenKeyring() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/tasktrack/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("tasktrack-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}

	s := &KeyringStore{ring: ring}
	s.current = s.load()
	return s, nil
}

// load reads a stored session from the keyring. A session missing either
// half, or with an unparseable profile, counts as absent.
func (s *KeyringStore) load() Session {
	tokenItem, err := s.ring.Get(tokenKey)
	if err != nil {
		return Session{}
	}

	userItem, err := s.ring.Get(userKey)
	if err != nil {
		return Session{}
	}

	var user model.User
	if err := json.Unmarshal(userItem.Data, &user); err != nil {
		return Session{}
	}

	return Session{Token: string(tokenItem.Data), User: &user}
}

// Set persists the session, replacing any prior one. Readers observe the
// new session only after both halves are written.
func (s *KeyringStore) Set(sess Session) error {
	data, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encoding user profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.ring.Set(keyring.Item{Key: tokenKey, Data: []byte(sess.Token)})
	if err != nil {
		return fmt.Errorf("storing token: %w", err)
	}

	if err := s.ring.Set(keyring.Item{Key: userKey, Data: data}); err != nil {
		// Roll back the token so load() never sees half a session.
		_ = s.ring.Remove(tokenKey)
		return fmt.Errorf("storing user profile: %w", err)
	}

	s.current = sess
	return nil
}

// Get returns the current session, or the zero session when none is stored.
func (s *KeyringStore) Get() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (s *KeyringStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = Session{}

	for _, key := range []string{tokenKey, userKey} {
		err := s.ring.Remove(key)
		if err != nil && err != keyring.ErrKeyNotFound {
			return fmt.Errorf("removing %s: %w", key, err)
		}
	}

	return nil
}
