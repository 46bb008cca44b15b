package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports configuration values that cannot work at runtime.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Paths.DataDir) == "" {
		problems = append(problems, "paths.data_dir is required")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		problems = append(problems, "paths.log_dir is required")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format: unsupported value %q", c.Logging.Format))
	}
	switch c.Scheduling.CooldownBackend {
	case "sqlite", "json":
	default:
		problems = append(problems, fmt.Sprintf("scheduling.cooldown_backend: unsupported value %q", c.Scheduling.CooldownBackend))
	}
	if len(c.TMDB.WatchRegion) != 2 {
		problems = append(problems, fmt.Sprintf("tmdb.watch_region: expected ISO 3166-1 code, got %q", c.TMDB.WatchRegion))
	}
	for name, id := range c.Providers {
		if id <= 0 {
			problems = append(problems, fmt.Sprintf("providers.%s: provider id must be positive", name))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}
