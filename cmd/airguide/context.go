package main

import (
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"airguide/internal/catalog"
	"airguide/internal/config"
	"airguide/internal/pool"
	"airguide/internal/schedule"
	"airguide/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// quietLogger keeps engine internals from interleaving with rendered
// CLI output.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openEngine wires stores and, when withDiscovery is set, the catalog
// client into a ready engine. The caller owns closing the returned
// cooldown store.
func (c *commandContext) openEngine(withDiscovery bool) (*schedule.Engine, store.CooldownStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	var cooldownStore store.CooldownStore
	if cfg.Scheduling.CooldownBackend == "json" {
		cooldownStore = store.NewJSONCooldownStore(cfg.CooldownJSONPath())
	} else {
		cooldownStore, err = store.OpenSQLiteCooldownStore(cfg.CooldownDBPath())
		if err != nil {
			return nil, nil, err
		}
	}

	var discoverer schedule.Discoverer
	if withDiscovery {
		client, err := catalog.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, cfg.TMDB.WatchRegion,
			catalog.WithProviders(cfg.ProviderIDs()),
			catalog.WithRequestInterval(time.Duration(cfg.TMDB.RequestIntervalMS)*time.Millisecond))
		if err != nil {
			_ = cooldownStore.Close()
			return nil, nil, err
		}
		discoverer = pool.NewBuilder(cfg, quietLogger(), client)
	}

	engine, err := schedule.NewEngine(cfg, quietLogger(),
		store.NewJSONPoolStore(cfg.PoolPath()), cooldownStore, discoverer)
	if err != nil {
		_ = cooldownStore.Close()
		return nil, nil, err
	}
	return engine, cooldownStore, nil
}
