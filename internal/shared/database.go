package shared

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/mattn/go-sqlite3"
)

// NewDatabase opens the client's local SQLite database at path, or a private
// in-memory database when path is ":memory:".
//
// The local database holds the session tokens, preferences and the offline
// song cache. File-backed databases get WAL journaling and a busy timeout so
// a one-shot CLI invocation and a long-running TUI can share the same file
// without tripping over each other's writes.
func NewDatabase(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		params := url.Values{}
		params.Set("_journal_mode", "WAL")
		params.Set("_busy_timeout", "5000")
		dsn = fmt.Sprintf("file:%s?%s", path, params.Encode())
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ConfigureDatabase applies the configured connection pool limits.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}
