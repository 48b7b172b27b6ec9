package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
	"golang.org/x/oauth2"
)

// awaitRefresh ensures at most one refresh round-trip is in flight.
//
// The first caller to hit a 401 performs the refresh; every concurrent caller
// is queued on a channel and resumed with the refresh outcome. This is the
// guard against a thundering herd of refresh requests when many calls expire
// at once.
func (c *Client) awaitRefresh(ctx context.Context) error {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan error, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return normalizeTransport(ctx.Err())
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	err := c.refresh(ctx)

	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}

	return err
}

// refresh exchanges the stored refresh token for a new token pair.
//
// On success the new pair is persisted. On any failure all stored tokens are
// cleared and the auth-expired hook fires, forcing the caller back to login.
func (c *Client) refresh(ctx context.Context) error {
	token, err := c.tokens.Load()
	if err != nil || token == nil || token.RefreshToken == "" {
		c.expireSession()
		return &Error{
			Status:  http.StatusUnauthorized,
			Message: shared.ErrNoRefreshToken.Error(),
		}
	}

	payload := map[string]string{"refresh_token": token.RefreshToken}

	status, body, sendErr := c.send(ctx, http.MethodPost, "/auth/refresh", payload, false)
	if sendErr != nil {
		c.expireSession()
		return sendErr
	}
	if status < 200 || status >= 300 {
		c.expireSession()
		apiErr := normalizeResponse(status, body)
		apiErr.Message = fmt.Sprintf("%s: %s", shared.ErrRefreshFailed.Error(), apiErr.Message)
		return apiErr
	}

	var pair models.TokenPair
	if err := unmarshalTokenPair(body, &pair); err != nil {
		c.expireSession()
		return err
	}

	refreshed := &oauth2.Token{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       ExpiryFromNow(pair.ExpiresIn),
	}
	if refreshed.RefreshToken == "" {
		// Server rotated only the access token; keep the old refresh token.
		refreshed.RefreshToken = token.RefreshToken
	}

	if err := c.tokens.Save(refreshed); err != nil {
		return normalizeTransport(fmt.Errorf("failed to persist tokens: %w", err))
	}

	c.logger.Debug("access token refreshed")
	return nil
}

func (c *Client) expireSession() {
	if err := c.tokens.Clear(); err != nil {
		c.logger.Warn("failed to clear stored tokens", "error", err)
	}
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}
