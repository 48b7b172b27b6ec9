package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// Preference keys known to the client.
const (
	PrefTheme = "theme"
)

// PrefsRepository persists user preferences as key/value pairs.
type PrefsRepository struct {
	db *sql.DB
}

// NewPrefsRepository creates a new [PrefsRepository] with the given database connection
func NewPrefsRepository(db *sql.DB) *PrefsRepository {
	return &PrefsRepository{db: db}
}

// Get returns the value for key, or fallback when the key is unset.
func (r *PrefsRepository) Get(key, fallback string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query preference %s: %w", key, err)
	}
	return value, nil
}

// Set stores the value for key, replacing any previous value.
func (r *PrefsRepository) Set(key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to set preference %s: %w", key, err)
	}
	return nil
}
