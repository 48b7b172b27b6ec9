package nav

import (
	"context"
	"errors"
	"testing"

	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

// fakeSession is a minimal Authenticator with scripted restore behavior.
type fakeSession struct {
	authed      bool
	restoreUser *models.User
	restoreErr  error
	restores    int
}

func (f *fakeSession) IsAuthenticated() bool {
	return f.authed
}

func (f *fakeSession) Restore(ctx context.Context) (*models.User, error) {
	f.restores++
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	f.authed = true
	return f.restoreUser, nil
}

func TestRegistry(t *testing.T) {
	t.Run("Lookup", func(t *testing.T) {
		route, ok := Lookup(RouteLibrary)
		if !ok {
			t.Fatal("expected the library route registered")
		}
		if route.Path != "/library" || !route.RequiresAuth {
			t.Errorf("unexpected route %+v", route)
		}

		if _, ok := Lookup("settings"); ok {
			t.Error("expected an unregistered name to miss")
		}
	})

	t.Run("Title Falls Back To Name", func(t *testing.T) {
		if got := Title(RouteChains); got != "Mood Chains" {
			t.Errorf("unexpected title %q", got)
		}
		if got := Title("mystery"); got != "mystery" {
			t.Errorf("expected the name itself, got %q", got)
		}
	})

	t.Run("Login And Register Are Guest Only", func(t *testing.T) {
		for _, name := range []string{RouteLogin, RouteRegister} {
			route, _ := Lookup(name)
			if !route.GuestOnly || route.RequiresAuth {
				t.Errorf("expected %s guest-only, got %+v", name, route)
			}
		}
	})
}

func TestGuard(t *testing.T) {
	ctx := context.Background()

	t.Run("Unauthenticated Protected Route Goes To Login", func(t *testing.T) {
		session := &fakeSession{restoreErr: errors.New("no stored tokens")}
		guard := NewGuard(session, nil)

		route, err := guard.Resolve(ctx, RouteStats)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if route.Name != RouteLogin {
			t.Errorf("expected login, got %s", route.Name)
		}
		if guard.Intended() != RouteStats {
			t.Errorf("expected the destination remembered, got %q", guard.Intended())
		}
	})

	t.Run("Consume Clears And Defaults To Home", func(t *testing.T) {
		session := &fakeSession{restoreErr: errors.New("no stored tokens")}
		guard := NewGuard(session, nil)
		guard.Resolve(ctx, RouteUpload)

		if got := guard.Consume(); got.Name != RouteUpload {
			t.Errorf("expected the recorded destination, got %s", got.Name)
		}
		if got := guard.Consume(); got.Name != RouteHome {
			t.Errorf("expected home after the destination was consumed, got %s", got.Name)
		}
	})

	t.Run("Authenticated Guest Route Goes Home", func(t *testing.T) {
		guard := NewGuard(&fakeSession{authed: true}, nil)

		route, err := guard.Resolve(ctx, RouteLogin)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if route.Name != RouteHome {
			t.Errorf("expected home, got %s", route.Name)
		}
	})

	t.Run("Unknown Route", func(t *testing.T) {
		guard := NewGuard(&fakeSession{authed: true}, nil)

		_, err := guard.Resolve(ctx, "mystery")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected invalid argument, got %v", err)
		}
	})

	t.Run("Restores A Persisted Session Once", func(t *testing.T) {
		session := &fakeSession{restoreUser: &models.User{Username: "kim"}}
		guard := NewGuard(session, nil)

		route, err := guard.Resolve(ctx, RouteLibrary)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if route.Name != RouteLibrary {
			t.Errorf("expected the restored session to pass the guard, got %s", route.Name)
		}

		guard.Resolve(ctx, RouteStats)
		guard.Resolve(ctx, RoutePlaylists)
		if session.restores != 1 {
			t.Errorf("expected one restore attempt, got %d", session.restores)
		}
	})

	t.Run("Failed Restore Is Not Retried", func(t *testing.T) {
		session := &fakeSession{restoreErr: errors.New("refresh token revoked")}
		guard := NewGuard(session, nil)

		guard.Resolve(ctx, RouteLibrary)
		guard.Resolve(ctx, RouteLibrary)

		if session.restores != 1 {
			t.Errorf("expected one restore attempt, got %d", session.restores)
		}
	})
}
