package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// DataDir holds the channel template document, the persisted content
	// pool, and the cooldown database.
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	Language          string `toml:"language"`
	WatchRegion       string `toml:"watch_region"`
	RequestIntervalMS int    `toml:"request_interval_ms"`
}

// Scheduling contains slot-filling policy knobs. The overflow tolerance and
// cooldown window encode policy, not mechanism, so they are configurable.
type Scheduling struct {
	CooldownDays             int    `toml:"cooldown_days"`
	OverflowToleranceMinutes int    `toml:"overflow_tolerance_minutes"`
	DefaultMovieRuntime      int    `toml:"default_movie_runtime"`
	DefaultEpisodeRuntime    int    `toml:"default_episode_runtime"`
	CooldownBackend          string `toml:"cooldown_backend"` // "sqlite" or "json"
}

// Discovery contains content pool construction settings.
type Discovery struct {
	PoolTargetSize       int `toml:"pool_target_size"`
	MaxResultsPerSlot    int `toml:"max_results_per_slot"`
	KeywordSearchLimit   int `toml:"keyword_search_limit"`
	PageLimit            int `toml:"page_limit"`
	RefreshIntervalHours int `toml:"refresh_interval_hours"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for airguide.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - TMDB: catalog API credentials, region, and throttling
//   - Providers: subscribed streaming services (name -> TMDB provider id)
//   - Scheduling: cooldown window, overflow tolerance, runtime fallbacks
//   - Discovery: pool sizing and per-query caps
//   - Logging: log format and level
type Config struct {
	Paths      Paths            `toml:"paths"`
	TMDB       TMDB             `toml:"tmdb"`
	Providers  map[string]int64 `toml:"providers"`
	Scheduling Scheduling       `toml:"scheduling"`
	Discovery  Discovery        `toml:"discovery"`
	Logging    Logging          `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/airguide/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was found at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("airguide.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TemplatesPath returns the channel template document location.
func (c *Config) TemplatesPath() string {
	return filepath.Join(c.Paths.DataDir, "channel_templates.json")
}

// PoolPath returns the persisted content pool location.
func (c *Config) PoolPath() string {
	return filepath.Join(c.Paths.DataDir, "content_pool.json")
}

// CooldownDBPath returns the SQLite cooldown database location.
func (c *Config) CooldownDBPath() string {
	return filepath.Join(c.Paths.DataDir, "cooldowns.db")
}

// CooldownJSONPath returns the JSON cooldown export location.
func (c *Config) CooldownJSONPath() string {
	return filepath.Join(c.Paths.DataDir, "cooldowns.json")
}

// ProviderIDs returns the subscribed provider ids in deterministic order.
func (c *Config) ProviderIDs() []int64 {
	ids := make([]int64, 0, len(c.Providers))
	seen := make(map[int64]struct{}, len(c.Providers))
	for _, name := range sortedKeys(c.Providers) {
		id := c.Providers[name]
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
