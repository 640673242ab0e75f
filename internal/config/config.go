// Package config loads ragctl configuration from the environment with an
// optional JSON file fallback in the XDG config dir. The resulting Config is
// an explicit value handed to constructors; nothing in this package is
// process-wide mutable state, so tests can build configs with fake
// credentials directly.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"ragctl/cli/internal/xdg"
)

// DefaultBatchSize bounds how many texts are grouped into one embedding batch.
const DefaultBatchSize = 100

// Config holds the settings consumed by the session and embedding constructors.
type Config struct {
	// DatabaseURL is the Postgres DSN. Empty means the SQL session will
	// refuse to connect; this is reported, not fatal.
	DatabaseURL string `json:"database_url"`
	// GeminiAPIKey is the embedding provider credential. Required for the
	// embedding pipeline; its absence is fatal at pipeline construction.
	GeminiAPIKey string `json:"gemini_api_key"`
	// EmbedBatchSize is the maximum number of texts per embedding batch.
	EmbedBatchSize int `json:"embed_batch_size"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load resolves configuration with environment precedence:
// RAGCTL_DSN then DATABASE_URL for the connection string, GEMINI_API_KEY for
// the credential. Values absent from the environment fall back to the config
// file; a missing file yields defaults.
func Load() (Config, error) {
	c, err := loadFile()
	if err != nil {
		return c, err
	}

	if env := strings.TrimSpace(os.Getenv("RAGCTL_DSN")); env != "" {
		c.DatabaseURL = env
	} else if env := strings.TrimSpace(os.Getenv("DATABASE_URL")); env != "" {
		c.DatabaseURL = env
	}
	if env := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); env != "" {
		c.GeminiAPIKey = env
	}
	if c.EmbedBatchSize <= 0 {
		c.EmbedBatchSize = DefaultBatchSize
	}
	return c, nil
}

// loadFile reads the JSON config file; a missing file returns defaults.
func loadFile() (Config, error) {
	var c Config
	c.EmbedBatchSize = DefaultBatchSize
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.EmbedBatchSize <= 0 {
		c.EmbedBatchSize = DefaultBatchSize
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
