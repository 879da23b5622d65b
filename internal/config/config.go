// Package config resolves gestion settings from defaults, an optional YAML
// file and GESTION_* environment variables, in that order of precedence.
// Command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config path is given. It may be absent.
const DefaultFile = "gestion.yaml"

// Defaults.
const (
	DefaultDatabase = "gestion.db"
	DefaultFormat   = "text"
	DefaultPageSize = 100
)

// Environment variables.
const (
	EnvDatabase = "GESTION_DB"
	EnvFormat   = "GESTION_FORMAT"
	EnvPageSize = "GESTION_PAGE_SIZE"
	EnvVerbose  = "GESTION_VERBOSE"
)

// Config holds the resolved settings.
type Config struct {
	Database string `yaml:"database"`
	Format   string `yaml:"format"`
	PageSize int    `yaml:"page_size"`
	Verbose  bool   `yaml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database: DefaultDatabase,
		Format:   DefaultFormat,
		PageSize: DefaultPageSize,
	}
}

// Load resolves the configuration. An empty path reads DefaultFile if it
// exists; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg.Database = getEnv(EnvDatabase, cfg.Database)
	cfg.Format = getEnv(EnvFormat, cfg.Format)
	cfg.PageSize = parseInt(EnvPageSize, cfg.PageSize)
	cfg.Verbose = parseBool(EnvVerbose, cfg.Verbose)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays the fields set in the YAML file at path.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		// A file with no documents changes nothing.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Format != "text" && c.Format != "json" {
		return fmt.Errorf("invalid format %q: must be text or json", c.Format)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer in environment", "key", key, "value", v)
			return def
		}
		return n
	}
	return def
}

func parseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean in environment", "key", key, "value", v)
			return def
		}
		return b
	}
	return def
}
