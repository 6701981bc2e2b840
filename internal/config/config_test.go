package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	if len(paths) == 0 {
		t.Fatal("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	if len(paths) > 1 && filepath.Base(filepath.Dir(paths[0])) != appName {
		t.Errorf("user config path = %q, want it under %q", paths[0], appName)
	}
}

func TestGetSearchConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	got := cfg.GetSearchConfig()

	if got.BpmFuzzyRange == nil || *got.BpmFuzzyRange != DefaultBpmFuzzyRange {
		t.Errorf("BpmFuzzyRange = %v, want %v", got.BpmFuzzyRange, DefaultBpmFuzzyRange)
	}
	if got.Limit != defaultSearchLimit {
		t.Errorf("Limit = %d, want %d", got.Limit, defaultSearchLimit)
	}
	if got.FuzzyKey {
		t.Error("FuzzyKey = true, want false")
	}
}

func TestGetSearchConfig_Values(t *testing.T) {
	zero := 0.0
	negative := -0.5
	wide := 0.1

	tests := []struct {
		name      string
		search    SearchConfig
		wantRange float64
		wantLimit int
	}{
		{
			name:      "explicit zero range is kept",
			search:    SearchConfig{BpmFuzzyRange: &zero, Limit: 10},
			wantRange: 0,
			wantLimit: 10,
		},
		{
			name:      "negative range falls back",
			search:    SearchConfig{BpmFuzzyRange: &negative},
			wantRange: DefaultBpmFuzzyRange,
			wantLimit: defaultSearchLimit,
		},
		{
			name:      "custom range",
			search:    SearchConfig{BpmFuzzyRange: &wide, Limit: -1},
			wantRange: 0.1,
			wantLimit: defaultSearchLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Search: tt.search}
			got := cfg.GetSearchConfig()
			if *got.BpmFuzzyRange != tt.wantRange {
				t.Errorf("BpmFuzzyRange = %v, want %v", *got.BpmFuzzyRange, tt.wantRange)
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", got.Limit, tt.wantLimit)
			}
		})
	}
}

func TestDBPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "crateq.db")
	cfg := &Config{Database: path}

	got, err := cfg.DBPath()
	if err != nil {
		t.Fatalf("DBPath() error = %v", err)
	}
	if got != path {
		t.Errorf("DBPath() = %q, want %q", got, path)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("parent directory not created: %v", err)
	}
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("could not get working directory: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("could not change to temp directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
	})
	return tmpDir
}

func TestLoad_EmptyConfig(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("config.toml", []byte(""), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
}

func TestLoadFile_BasicConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crateq.toml")

	configContent := `
database = "~/crates/crateq.db"
library_sources = ["/music", "~/library"]

[search]
bpm_fuzzy_range = 0.1
fuzzy_key = true
limit = 50
`
	if err := os.WriteFile(path, []byte(configContent), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "crates", "crateq.db"); cfg.Database != want {
		t.Errorf("Database = %q, want %q", cfg.Database, want)
	}

	if len(cfg.LibrarySources) != 2 {
		t.Fatalf("LibrarySources length = %d, want 2", len(cfg.LibrarySources))
	}
	if cfg.LibrarySources[0] != "/music" {
		t.Errorf("LibrarySources[0] = %q, want %q", cfg.LibrarySources[0], "/music")
	}
	if want := filepath.Join(home, "library"); cfg.LibrarySources[1] != want {
		t.Errorf("LibrarySources[1] = %q, want %q", cfg.LibrarySources[1], want)
	}

	search := cfg.GetSearchConfig()
	if *search.BpmFuzzyRange != 0.1 {
		t.Errorf("BpmFuzzyRange = %v, want 0.1", *search.BpmFuzzyRange)
	}
	if !search.FuzzyKey {
		t.Error("FuzzyKey = false, want true")
	}
	if search.Limit != 50 {
		t.Errorf("Limit = %d, want 50", search.Limit)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Error("LoadFile() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidToml(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("config.toml", []byte("invalid = [[["), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid TOML, got nil")
	}
}

func TestLoad_LocalConfigWins(t *testing.T) {
	chdirTemp(t)

	if err := os.WriteFile("config.toml", []byte("[search]\nlimit = 7\n"), 0o600); err != nil {
		t.Fatalf("could not write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.Limit != 7 {
		t.Errorf("Search.Limit = %d, want 7", cfg.Search.Limit)
	}
}
