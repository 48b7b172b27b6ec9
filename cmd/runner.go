package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/krolx/nicemusic/internal/api"
	"github.com/krolx/nicemusic/internal/nav"
	"github.com/krolx/nicemusic/internal/repositories"
	"github.com/krolx/nicemusic/internal/shared"
	"github.com/krolx/nicemusic/internal/store"
	"github.com/krolx/nicemusic/internal/uploads"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	client    *api.Client
	db        *sql.DB
	session   *store.Session
	library   *store.Library
	playlists *store.Playlists
	chains    *store.Chains
	tags      *store.Tags
	stats     *store.Stats
	prefs     *store.Prefs
	guard     *nav.Guard
	queue     *uploads.Queue
	processor *uploads.Processor
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Client *api.Client
	DB     *sql.DB
	Logger *log.Logger
	Output io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config: opts.Config,
		db:     opts.DB,
		logger: opts.Logger,
		output: opts.Output,
	}

	var cache *repositories.SongCacheRepository
	var prefsRepo *repositories.PrefsRepository
	var tokens api.TokenStore
	if opts.DB != nil {
		tokens = repositories.NewTokenRepository(opts.DB)
		cache = repositories.NewSongCacheRepository(opts.DB)
		prefsRepo = repositories.NewPrefsRepository(opts.DB)
	}

	r.client = opts.Client
	if r.client == nil {
		r.client = api.NewClient(api.Opts{
			BaseURL: opts.Config.Server.BaseURL,
			Timeout: time.Duration(opts.Config.Server.TimeoutSeconds) * time.Second,
			Tokens:  tokens,
			Logger:  opts.Logger,
		})
	}

	r.session = store.NewSession(r.client, opts.Logger)
	r.client.SetOnAuthExpired(r.session.Expire)
	r.library = store.NewLibrary(store.LibraryOpts{Client: r.client, Cache: cache, Logger: opts.Logger})
	r.playlists = store.NewPlaylists(r.client, opts.Logger)
	r.chains = store.NewChains(r.client, opts.Logger)
	r.tags = store.NewTags(r.client, opts.Logger)
	r.stats = store.NewStats(r.client, opts.Logger)
	if prefsRepo != nil {
		r.prefs = store.NewPrefs(prefsRepo)
	}
	r.guard = nav.NewGuard(r.session, opts.Logger)
	r.queue = uploads.NewQueue()
	r.processor = uploads.NewProcessor(r.queue, r.client, opts.Logger)

	return r
}

// SetLogger swaps the runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, songsCommand, playlistsCommand, chainsCommand, tagsCommand, statsCommand, recommendCommand, uploadCommand, searchCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// theme returns the display theme, preferring the local preference over config.
func (r *Runner) theme() string {
	if r.prefs != nil {
		return r.prefs.Theme()
	}
	return r.config.UI.Theme
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
