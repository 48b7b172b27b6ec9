package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

// Session tracks the authenticated user. Token persistence and refresh live
// in the api client; this store owns the user object and the authenticated
// flag that the route guard consults.
type Session struct {
	mu      sync.Mutex
	client  *api.Client
	logger  *log.Logger
	user    *models.User
	lastErr string
}

// NewSession creates a session store backed by the given client. Register
// the store's Expire method as the client's auth-expired callback so a
// failed refresh drops the user here as well.
func NewSession(client *api.Client, logger *log.Logger) *Session {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Session{client: client, logger: logger}
}

// CurrentUser returns the authenticated user, or nil.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// IsAuthenticated reports whether a user is signed in.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Err returns the display message recorded by the last failed action.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Login authenticates with email and password.
func (s *Session) Login(ctx context.Context, email, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}

	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.user = &resp.User
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Info("signed in", "user", resp.User.Username)
	return &resp.User, nil
}

// Register creates an account and signs in.
func (s *Session) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: email, username and password are required", shared.ErrInvalidInput)
	}

	resp, err := s.client.Register(ctx, email, username, password)
	if err != nil {
		s.recordErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.user = &resp.User
	s.lastErr = ""
	s.mu.Unlock()

	s.logger.Info("account created", "user", resp.User.Username)
	return &resp.User, nil
}

// Restore tries to resume a persisted session by fetching the account for
// the stored tokens. An expired access token is refreshed transparently by
// the client; only a dead refresh token fails the restore.
func (s *Session) Restore(ctx context.Context) (*models.User, error) {
	user, err := s.client.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotAuthenticated, err)
	}

	s.mu.Lock()
	s.user = user
	s.lastErr = ""
	s.mu.Unlock()
	return user, nil
}

// Logout clears the persisted tokens and drops the user.
func (s *Session) Logout() error {
	err := s.client.Logout()

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err != nil {
		s.recordErr(err)
		return err
	}
	s.logger.Info("signed out")
	return nil
}

// Expire drops the user without touching tokens. Wire this as the client's
// auth-expired callback so a failed token refresh forces a re-login.
func (s *Session) Expire() {
	s.mu.Lock()
	wasAuthed := s.user != nil
	s.user = nil
	s.mu.Unlock()

	if wasAuthed {
		s.logger.Warn("session expired, sign in again")
	}
}

func (s *Session) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
}
