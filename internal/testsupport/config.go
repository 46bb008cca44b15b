// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"airguide/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.TMDB.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithCooldownDays overrides the scheduling cooldown window.
func WithCooldownDays(days int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scheduling.CooldownDays = days
	}
}

// WithOverflowTolerance overrides the slot overflow tolerance in minutes.
func WithOverflowTolerance(minutes int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Scheduling.OverflowToleranceMinutes = minutes
	}
}
