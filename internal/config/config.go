package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName    = "crateq"
	dbFileName = "crateq.db"

	defaultSearchLimit = 200
)

// DefaultBpmFuzzyRange is the relative tolerance of fuzzy BPM searches when
// none is configured.
const DefaultBpmFuzzyRange = 0.06

type Config struct {
	Database       string   `koanf:"database"`        // path of the SQLite database
	LibrarySources []string `koanf:"library_sources"` // paths to scan for music library

	Search SearchConfig `koanf:"search"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	BpmFuzzyRange *float64 `koanf:"bpm_fuzzy_range"` // relative BPM tolerance (default: 0.06)
	FuzzyKey      bool     `koanf:"fuzzy_key"`       // match compatible keys by default
	Limit         int      `koanf:"limit"`           // rows printed by find (default: 200)
}

// Load reads the user config then ./config.toml, the latter winning.
// Missing files are skipped.
func Load() (*Config, error) {
	return load(getConfigPaths(), false)
}

// LoadFile reads a single config file, which must exist.
func LoadFile(path string) (*Config, error) {
	return load([]string{expandPath(path)}, true)
}

func load(paths []string, required bool) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if required {
				return nil, err
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Database != "" {
		cfg.Database = expandPath(cfg.Database)
	}

	// Expand ~ in library_sources
	for i, src := range cfg.LibrarySources {
		cfg.LibrarySources[i] = expandPath(src)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/crateq/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DBPath returns the configured database path, or crateq/crateq.db in the
// XDG data directory. The parent directory is created.
func (c *Config) DBPath() (string, error) {
	if c.Database == "" {
		return xdg.DataFile(filepath.Join(appName, dbFileName))
	}
	if err := os.MkdirAll(filepath.Dir(c.Database), 0o755); err != nil {
		return "", err
	}
	return c.Database, nil
}

// GetSearchConfig returns the search configuration with defaults applied.
func (c *Config) GetSearchConfig() SearchConfig {
	cfg := c.Search

	if cfg.BpmFuzzyRange == nil || *cfg.BpmFuzzyRange < 0 {
		r := DefaultBpmFuzzyRange
		cfg.BpmFuzzyRange = &r
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultSearchLimit
	}

	return cfg
}
