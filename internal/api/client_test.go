package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/krolx/nicemusic/internal/shared"
	"golang.org/x/oauth2"
)

func TestNewClient(t *testing.T) {
	t.Run("With Defaults", func(t *testing.T) {
		client := NewClient(Opts{})

		if client.baseURL != "http://localhost:8000" {
			t.Errorf("expected default base URL, got %s", client.baseURL)
		}
		if client.tokens == nil {
			t.Error("expected a token store to be created")
		}
		if client.httpClient == nil {
			t.Error("expected an HTTP client to be created")
		}
	})

	t.Run("With Custom BaseURL", func(t *testing.T) {
		client := NewClient(Opts{BaseURL: "http://example.com"})

		if client.baseURL != "http://example.com" {
			t.Errorf("expected custom base URL, got %s", client.baseURL)
		}
	})
}

func TestClientRequests(t *testing.T) {
	t.Run("Get Decodes JSON Response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			if r.URL.Path != BasePath+"/songs/abc" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "abc", "title": "Song"})
		}))
		defer server.Close()

		client := NewClient(Opts{BaseURL: server.URL})

		var out struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		}
		if err := client.Get(context.Background(), "/songs/abc", &out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Title != "Song" {
			t.Errorf("expected decoded title, got %q", out.Title)
		}
	})

	t.Run("Attaches Bearer Token", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		tokens := NewMemTokenStore()
		tokens.Save(&oauth2.Token{AccessToken: "tok-123", RefreshToken: "ref"})
		client := NewClient(Opts{BaseURL: server.URL, Tokens: tokens})

		if err := client.Get(context.Background(), "/auth/me", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotAuth != "Bearer tok-123" {
			t.Errorf("expected bearer header, got %q", gotAuth)
		}
	})

	t.Run("Post Sends JSON Body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["name"] != "Morning" {
				t.Errorf("expected body name, got %q", body["name"])
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"p1","name":"Morning"}`))
		}))
		defer server.Close()

		client := NewClient(Opts{BaseURL: server.URL})

		var out struct {
			ID string `json:"id"`
		}
		err := client.Post(context.Background(), "/playlists", map[string]string{"name": "Morning"}, &out)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.ID != "p1" {
			t.Errorf("expected created id, got %q", out.ID)
		}
	})

	t.Run("Transport Failure Normalized To Error", func(t *testing.T) {
		client := NewClient(Opts{BaseURL: "http://127.0.0.1:1"})

		err := client.Get(context.Background(), "/songs", nil)
		if err == nil {
			t.Fatal("expected an error")
		}
		apiErr, ok := err.(*Error)
		if !ok {
			t.Fatalf("expected *Error, got %T", err)
		}
		if apiErr.Status != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", apiErr.Status)
		}
	})

	t.Run("Timeout Normalized To 504", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("{}"))
		}))
		defer server.Close()

		client := NewClient(Opts{BaseURL: server.URL, Timeout: 20 * time.Millisecond})

		err := client.Get(context.Background(), "/songs", nil)
		if err == nil {
			t.Fatal("expected an error")
		}
		apiErr, ok := err.(*Error)
		if !ok {
			t.Fatalf("expected *Error, got %T", err)
		}
		if apiErr.Status != http.StatusGatewayTimeout {
			t.Errorf("expected status 504, got %d", apiErr.Status)
		}
		if !strings.Contains(apiErr.Message, shared.ErrTimeout.Error()) {
			t.Errorf("expected the timeout message, got %q", apiErr.Message)
		}
	})
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{
			name:        "detail object",
			status:      http.StatusNotFound,
			body:        `{"detail":{"code":"SONG_NOT_FOUND","message":"song does not exist"}}`,
			wantCode:    "SONG_NOT_FOUND",
			wantMessage: "song does not exist",
		},
		{
			name:        "detail string",
			status:      http.StatusBadRequest,
			body:        `{"detail":"invalid sort field"}`,
			wantMessage: "invalid sort field",
		},
		{
			name:        "non-JSON body falls back to status text",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: http.StatusText(http.StatusBadGateway),
		},
		{
			name:        "empty body",
			status:      http.StatusInternalServerError,
			body:        "",
			wantMessage: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := normalizeResponse(tt.status, []byte(tt.body))

			if apiErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.Status)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("expected code %q, got %q", tt.wantCode, apiErr.Code)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, apiErr.Message)
			}
		})
	}

	t.Run("IsAuthError", func(t *testing.T) {
		if !(&Error{Status: http.StatusUnauthorized}).IsAuthError() {
			t.Error("expected 401 to be an auth error")
		}
		if (&Error{Status: http.StatusForbidden}).IsAuthError() {
			t.Error("expected 403 to not be an auth error")
		}
	})
}

func TestMemTokenStore(t *testing.T) {
	store := NewMemTokenStore()

	token, err := store.Load()
	if err != nil || token != nil {
		t.Fatalf("expected empty load, got %v, %v", token, err)
	}

	if err := store.Save(&oauth2.Token{AccessToken: "a"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	token, _ = store.Load()
	if token == nil || token.AccessToken != "a" {
		t.Error("expected saved token back")
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	token, _ = store.Load()
	if token != nil {
		t.Error("expected cleared store")
	}
}
