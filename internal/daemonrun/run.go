// Package daemonrun composes the daemon process: logger, stores,
// catalog client, engine, and the background daemon itself.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"airguide/internal/catalog"
	"airguide/internal/config"
	"airguide/internal/daemon"
	"airguide/internal/logging"
	"airguide/internal/pool"
	"airguide/internal/schedule"
	"airguide/internal/store"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the airguide daemon runtime loop and blocks until the
// process receives SIGINT or SIGTERM.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("airguide-%s.log", runID))

	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "airguided.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	cooldownStore, err := openCooldownStore(cfg)
	if err != nil {
		logger.Error("open cooldown store", logging.Error(err))
		return err
	}
	defer cooldownStore.Close()

	client, err := catalog.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, cfg.TMDB.WatchRegion,
		catalog.WithProviders(cfg.ProviderIDs()),
		catalog.WithRequestInterval(time.Duration(cfg.TMDB.RequestIntervalMS)*time.Millisecond))
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	builder := pool.NewBuilder(cfg, logger, client)
	engine, err := schedule.NewEngine(cfg, logger,
		store.NewJSONPoolStore(cfg.PoolPath()), cooldownStore, builder)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	d, err := daemon.New(cfg, logger, engine)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		return err
	}

	<-signalCtx.Done()
	logger.Info("airguide daemon shutting down")
	return nil
}

func openCooldownStore(cfg *config.Config) (store.CooldownStore, error) {
	if cfg.Scheduling.CooldownBackend == "json" {
		return store.NewJSONCooldownStore(cfg.CooldownJSONPath()), nil
	}
	return store.OpenSQLiteCooldownStore(cfg.CooldownDBPath())
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
