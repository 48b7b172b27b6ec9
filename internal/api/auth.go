package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/krolx/nicemusic/internal/models"
	"golang.org/x/oauth2"
)

// Login authenticates with email and password and persists the issued tokens.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	payload := models.LoginRequest{Email: email, Password: password}

	var resp models.AuthResponse
	if err := c.Post(ctx, "/auth/login", payload, &resp); err != nil {
		return nil, err
	}

	if err := c.saveTokenPair(resp.Tokens); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Register creates an account and persists the issued tokens.
func (c *Client) Register(ctx context.Context, email, username, password string) (*models.AuthResponse, error) {
	payload := models.RegisterRequest{Email: email, Username: username, Password: password}

	var resp models.AuthResponse
	if err := c.Post(ctx, "/auth/register", payload, &resp); err != nil {
		return nil, err
	}

	if err := c.saveTokenPair(resp.Tokens); err != nil {
		return nil, err
	}

	return &resp, nil
}

// Me returns the account for the current access token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.Get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout clears persisted tokens. The API is stateless; there is no remote call.
func (c *Client) Logout() error {
	return c.tokens.Clear()
}

// Health checks API availability. It does not require authentication.
func (c *Client) Health(ctx context.Context) error {
	return c.Get(ctx, "/health", nil)
}

func (c *Client) saveTokenPair(pair models.TokenPair) error {
	token := &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       ExpiryFromNow(pair.ExpiresIn),
	}

	if err := c.tokens.Save(token); err != nil {
		return normalizeTransport(fmt.Errorf("failed to persist tokens: %w", err))
	}
	return nil
}

func unmarshalTokenPair(body []byte, pair *models.TokenPair) error {
	if err := json.Unmarshal(body, pair); err != nil {
		return normalizeTransport(fmt.Errorf("failed to decode token response: %w", err))
	}
	if pair.AccessToken == "" {
		return normalizeTransport(fmt.Errorf("token response missing access_token"))
	}
	return nil
}
