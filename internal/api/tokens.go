package api

import (
	"sync"

	"golang.org/x/oauth2"
)

// TokenStore persists the access/refresh token pair between runs.
//
// Implementations must tolerate Load before any Save (returning nil, nil).
// The SQLite-backed implementation lives in internal/repositories.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(token *oauth2.Token) error
	Clear() error
}

// MemTokenStore is an in-memory [TokenStore] for tests and ephemeral sessions.
type MemTokenStore struct {
	mu    sync.Mutex
	token *oauth2.Token
}

// NewMemTokenStore creates an empty in-memory token store.
func NewMemTokenStore() *MemTokenStore {
	return &MemTokenStore{}
}

func (s *MemTokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemTokenStore) Save(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}
