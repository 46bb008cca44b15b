package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeScheduling()
	c.normalizeDiscovery()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.BaseURL = strings.TrimRight(c.TMDB.BaseURL, "/")
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.Language == "" {
		c.TMDB.Language = defaultTMDBLanguage
	}
	c.TMDB.WatchRegion = strings.ToUpper(strings.TrimSpace(c.TMDB.WatchRegion))
	if c.TMDB.WatchRegion == "" {
		c.TMDB.WatchRegion = defaultWatchRegion
	}
	if c.TMDB.RequestIntervalMS <= 0 {
		c.TMDB.RequestIntervalMS = defaultRequestIntervalMS
	}
	if c.Providers == nil {
		c.Providers = defaultProviders()
	}
}

func (c *Config) normalizeScheduling() {
	if c.Scheduling.CooldownDays <= 0 {
		c.Scheduling.CooldownDays = defaultCooldownDays
	}
	if c.Scheduling.OverflowToleranceMinutes < 0 {
		c.Scheduling.OverflowToleranceMinutes = defaultOverflowToleranceMinutes
	}
	if c.Scheduling.DefaultMovieRuntime <= 0 {
		c.Scheduling.DefaultMovieRuntime = defaultMovieRuntime
	}
	if c.Scheduling.DefaultEpisodeRuntime <= 0 {
		c.Scheduling.DefaultEpisodeRuntime = defaultEpisodeRuntime
	}
	c.Scheduling.CooldownBackend = strings.ToLower(strings.TrimSpace(c.Scheduling.CooldownBackend))
	if c.Scheduling.CooldownBackend == "" {
		c.Scheduling.CooldownBackend = defaultCooldownBackend
	}
}

func (c *Config) normalizeDiscovery() {
	if c.Discovery.PoolTargetSize <= 0 {
		c.Discovery.PoolTargetSize = defaultPoolTargetSize
	}
	if c.Discovery.MaxResultsPerSlot <= 0 {
		c.Discovery.MaxResultsPerSlot = defaultMaxResultsPerSlot
	}
	if c.Discovery.KeywordSearchLimit <= 0 {
		c.Discovery.KeywordSearchLimit = defaultKeywordSearchLimit
	}
	if c.Discovery.PageLimit <= 0 {
		c.Discovery.PageLimit = defaultPageLimit
	}
	if c.Discovery.RefreshIntervalHours <= 0 {
		c.Discovery.RefreshIntervalHours = defaultRefreshIntervalHours
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
