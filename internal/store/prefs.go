package store

import (
	"fmt"
	"sync"

	"github.com/krolx/nicemusic/internal/repositories"
	"github.com/krolx/nicemusic/internal/shared"
)

// Known theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Prefs exposes user preferences backed by the local database, with an
// in-memory cache so reads after the first do not hit sqlite.
type Prefs struct {
	mu    sync.Mutex
	repo  *repositories.PrefsRepository
	cache map[string]string
}

// NewPrefs creates a preference store over the given repository.
func NewPrefs(repo *repositories.PrefsRepository) *Prefs {
	return &Prefs{repo: repo, cache: make(map[string]string)}
}

// Theme returns the stored theme name, defaulting to dark.
func (p *Prefs) Theme() string {
	theme, err := p.get(repositories.PrefTheme, ThemeDark)
	if err != nil {
		return ThemeDark
	}
	return theme
}

// SetTheme stores the theme name.
func (p *Prefs) SetTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return fmt.Errorf("%w: unknown theme %q", shared.ErrInvalidInput, theme)
	}
	return p.set(repositories.PrefTheme, theme)
}

func (p *Prefs) get(key, fallback string) (string, error) {
	p.mu.Lock()
	if v, ok := p.cache[key]; ok {
		p.mu.Unlock()
		return v, nil
	}
	p.mu.Unlock()

	v, err := p.repo.Get(key, fallback)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.cache[key] = v
	p.mu.Unlock()
	return v, nil
}

func (p *Prefs) set(key, value string) error {
	if err := p.repo.Set(key, value); err != nil {
		return err
	}
	p.mu.Lock()
	p.cache[key] = value
	p.mu.Unlock()
	return nil
}
