// Package api implements the HTTP client adapter for the music library API.
//
// A single [Client] is shared by all stores. It attaches the current access
// token as a bearer credential, normalizes every failure into [*Error], and
// retries a call at most once after refreshing an expired token. The refresh
// path is the only coordinated concurrency in the client: however many calls
// fail with 401 at the same time, exactly one refresh round-trip happens and
// the rest wait for its outcome.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/krolx/nicemusic/internal/shared"
)

// BasePath is the versioned API prefix appended to the configured base URL.
const BasePath = "/api/v1"

const defaultTimeout = 30 * time.Second

// Client is the shared HTTP adapter for the music library API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     *log.Logger

	// onAuthExpired is invoked after a failed refresh clears stored tokens.
	// The navigation layer uses it to force the login view.
	onAuthExpired func()

	// refresh coordination state, owned by the client so tests can reset it
	// by constructing a fresh instance
	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
}

// Opts configures a [Client].
type Opts struct {
	BaseURL       string
	HTTPClient    *http.Client
	Tokens        TokenStore
	Logger        *log.Logger
	Timeout       time.Duration
	OnAuthExpired func()
}

// NewClient creates a client for the API at opts.BaseURL.
func NewClient(opts Opts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8000"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Tokens == nil {
		opts.Tokens = NewMemTokenStore()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:       opts.BaseURL,
		httpClient:    opts.HTTPClient,
		tokens:        opts.Tokens,
		logger:        opts.Logger,
		onAuthExpired: opts.OnAuthExpired,
	}
}

// Tokens exposes the client's token store.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// SetOnAuthExpired registers the callback invoked after a failed refresh
// clears stored tokens. Call before issuing requests.
func (c *Client) SetOnAuthExpired(fn func()) {
	c.onAuthExpired = fn
}

// Get performs an authenticated GET, decoding the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch performs an authenticated PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Put performs an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete performs an authenticated DELETE, decoding any JSON response into
// out when it is non-nil.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// do executes one logical API call: attach bearer, send, and on a 401 join
// the refresh flow and retry exactly once with fresh credentials.
//
// A stored expiry in the past means the access token is certainly stale, so
// the refresh happens up front instead of spending a round-trip on a
// guaranteed 401.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.tokenExpired() {
		c.logger.Debug("refreshing before request", "reason", shared.ErrTokenExpired)
		if err := c.awaitRefresh(ctx); err != nil {
			return &Error{
				Status:  http.StatusUnauthorized,
				Message: fmt.Sprintf("%s: %v", shared.ErrTokenExpired.Error(), err),
			}
		}
	}

	status, respBody, err := c.send(ctx, method, path, body, true)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		if err := c.awaitRefresh(ctx); err != nil {
			return err
		}

		status, respBody, err = c.send(ctx, method, path, body, true)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		apiErr := normalizeResponse(status, respBody)
		c.logger.Debug("request failed", "method", method, "path", path, "status", status, "message", apiErr.Message)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return normalizeTransport(fmt.Errorf("failed to decode response: %w", err))
		}
	}

	return nil
}

// tokenExpired reports whether a stored access token carries an expiry that
// has already passed. Tokens without an expiry are assumed live until the
// server says otherwise.
func (c *Client) tokenExpired() bool {
	token, err := c.tokens.Load()
	return err == nil && token != nil && token.AccessToken != "" &&
		!token.Expiry.IsZero() && time.Now().After(token.Expiry)
}

// send performs a single round-trip with no retry. Transport failures come
// back as [*Error]; HTTP statuses are returned to the caller untouched.
func (c *Client) send(ctx context.Context, method, path string, body any, authed bool) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, normalizeTransport(fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+BasePath+path, reader)
	if err != nil {
		return 0, nil, normalizeTransport(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token, err := c.tokens.Load(); err == nil && token != nil && token.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, normalizeTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, normalizeTransport(fmt.Errorf("failed to read response: %w", err))
	}

	return resp.StatusCode, respBody, nil
}

// ExpiryFromNow converts an expires_in value in seconds to an absolute time.
// Zero seconds means the expiry is unknown and left unset.
func ExpiryFromNow(seconds int) time.Time {
	if seconds <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(seconds) * time.Second)
}
