package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Uploads  UploadsConfig  `toml:"uploads"`
	UI       UIConfig       `toml:"ui"`
}

// ServerConfig contains settings for the remote music library API.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DatabaseConfig contains local database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// UploadsConfig contains upload queue settings.
type UploadsConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	Theme string `toml:"theme"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// A .env file in the working directory (if present) and NICEMUSIC_* environment
// variables override file values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidConfig)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv layers .env and NICEMUSIC_* environment variables over the loaded config.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("NICEMUSIC_API_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("NICEMUSIC_API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("NICEMUSIC_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("NICEMUSIC_THEME"); v != "" {
		c.UI.Theme = v
	}
}
