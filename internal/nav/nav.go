// Package nav defines the client's screen registry and the auth guard that
// decides which screen a navigation actually lands on.
package nav

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/krolx/nicemusic/internal/models"
	"github.com/krolx/nicemusic/internal/shared"
)

// Route names. Navigation is by name; paths exist for display and deep links.
const (
	RouteHome      = "home"
	RouteLibrary   = "library"
	RoutePlaylists = "playlists"
	RouteChains    = "chains"
	RouteStats     = "stats"
	RouteUpload    = "upload"
	RouteSearch    = "search"
	RouteLogin     = "login"
	RouteRegister  = "register"
)

// Route describes a navigable screen.
type Route struct {
	Name         string
	Path         string
	Title        string
	RequiresAuth bool // Redirects to login when unauthenticated
	GuestOnly    bool // Bounces to home when authenticated
}

var routes = []Route{
	{Name: RouteHome, Path: "/", Title: "Home", RequiresAuth: true},
	{Name: RouteLibrary, Path: "/library", Title: "Library", RequiresAuth: true},
	{Name: RoutePlaylists, Path: "/playlists", Title: "Playlists", RequiresAuth: true},
	{Name: RouteChains, Path: "/chains", Title: "Mood Chains", RequiresAuth: true},
	{Name: RouteStats, Path: "/stats", Title: "Statistics", RequiresAuth: true},
	{Name: RouteUpload, Path: "/upload", Title: "Upload", RequiresAuth: true},
	{Name: RouteSearch, Path: "/search", Title: "Search", RequiresAuth: true},
	{Name: RouteLogin, Path: "/login", Title: "Sign In", GuestOnly: true},
	{Name: RouteRegister, Path: "/register", Title: "Create Account", GuestOnly: true},
}

// Lookup returns the route with the given name.
func Lookup(name string) (Route, bool) {
	for _, r := range routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Title returns the display title for a route name, or the name itself when
// unregistered.
func Title(name string) string {
	if r, ok := Lookup(name); ok {
		return r.Title
	}
	return name
}

// Routes returns the full registry in declaration order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Authenticator is the slice of the session store the guard consults.
type Authenticator interface {
	IsAuthenticated() bool
	Restore(ctx context.Context) (*models.User, error)
}

// Guard resolves navigation targets against the session. When a protected
// route is hit without a session, the guard records the intended destination
// and sends the user to login; completing login resumes it.
type Guard struct {
	mu       sync.Mutex
	session  Authenticator
	logger   *log.Logger
	restored bool
	intended string
}

// NewGuard creates a guard over the given session.
func NewGuard(session Authenticator, logger *log.Logger) *Guard {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Guard{session: session, logger: logger}
}

// Resolve returns the route a navigation to name actually lands on.
//
// On the first call the guard tries once to restore a persisted session, so
// a relaunched client goes straight to its destination instead of login.
// Unauthenticated hits on protected routes resolve to login with the
// destination remembered; authenticated hits on guest-only routes resolve
// to home.
func (g *Guard) Resolve(ctx context.Context, name string) (Route, error) {
	target, ok := Lookup(name)
	if !ok {
		return Route{}, fmt.Errorf("%w: unknown route %q", shared.ErrInvalidArgument, name)
	}

	g.restoreOnce(ctx)
	authed := g.session.IsAuthenticated()

	if target.RequiresAuth && !authed {
		g.mu.Lock()
		g.intended = target.Name
		g.mu.Unlock()

		login, _ := Lookup(RouteLogin)
		return login, nil
	}

	if target.GuestOnly && authed {
		home, _ := Lookup(RouteHome)
		return home, nil
	}

	return target, nil
}

// Consume returns and clears the destination recorded before a login
// redirect, defaulting to home.
func (g *Guard) Consume() Route {
	g.mu.Lock()
	name := g.intended
	g.intended = ""
	g.mu.Unlock()

	if name == "" {
		name = RouteHome
	}
	r, _ := Lookup(name)
	return r
}

// Intended returns the pending post-login destination name, if any.
func (g *Guard) Intended() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.intended
}

func (g *Guard) restoreOnce(ctx context.Context) {
	g.mu.Lock()
	done := g.restored
	g.restored = true
	g.mu.Unlock()

	if done || g.session.IsAuthenticated() {
		return
	}

	if _, err := g.session.Restore(ctx); err != nil {
		msg := strings.TrimSpace(err.Error())
		g.logger.Debug("no resumable session", "reason", msg)
	}
}
