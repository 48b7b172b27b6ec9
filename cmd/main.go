package main

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/krolx/nicemusic/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	// The local database holds the session, preferences and the offline song
	// cache. Until `setup database` has run, everything degrades to in-memory
	// state and the session will not survive restarts.
	var db *sql.DB
	if _, err := os.Stat(config.Database.Path); err == nil {
		if opened, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(opened, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			db = opened
			defer db.Close()
		} else {
			logger.Warn("failed to open local database", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		DB:     db,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "nicemusic",
		Usage:    "Browse, upload and organize your music library",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
