package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// TokenRepository persists the session token pair in the auth_tokens table.
//
// The table holds at most one row (id = 1); saving replaces it. Implements
// api.TokenStore.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Load returns the stored token pair, or nil when no session is persisted.
func (r *TokenRepository) Load() (*oauth2.Token, error) {
	query := `SELECT access_token, refresh_token, expires_at FROM auth_tokens WHERE id = 1`

	var (
		access  string
		refresh string
		expires sql.NullTime
	)

	err := r.db.QueryRow(query).Scan(&access, &refresh, &expires)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query tokens: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
	}
	if expires.Valid {
		token.Expiry = expires.Time
	}

	return token, nil
}

// Save stores the token pair, replacing any previous session.
func (r *TokenRepository) Save(token *oauth2.Token) error {
	if token == nil {
		return r.Clear()
	}

	query := `
		INSERT INTO auth_tokens (id, access_token, refresh_token, expires_at, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at
	`

	var expires any
	if !token.Expiry.IsZero() {
		expires = token.Expiry
	}

	if _, err := r.db.Exec(query, token.AccessToken, token.RefreshToken, expires, time.Now()); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}

	return nil
}

// Clear removes the persisted session.
func (r *TokenRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM auth_tokens WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}
