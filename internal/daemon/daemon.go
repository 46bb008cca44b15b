package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"airguide/internal/config"
	"airguide/internal/logging"
	"airguide/internal/schedule"
)

// Daemon coordinates pool maintenance and enforces single-instance
// execution via a file lock.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *schedule.Engine

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PoolSize     int
	Channels     int
	LockFilePath string
}

// New constructs a daemon around an engine.
func New(cfg *config.Config, logger *slog.Logger, engine *schedule.Engine) (*Daemon, error) {
	if cfg == nil || logger == nil || engine == nil {
		return nil, errors.New("daemon requires config, logger, and engine")
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "airguided.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "daemon"),
		engine:   engine,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, ensures the pool exists, and begins
// the periodic refresh loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another airguide daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running.Store(true)

	if d.engine.PoolSize() == 0 {
		if err := d.engine.BuildPool(runCtx); err != nil {
			d.logger.Warn("initial pool build failed", logging.Error(err))
		}
	}
	if err := d.engine.ExpandPool(runCtx); err != nil {
		d.logger.Warn("initial pool expansion failed", logging.Error(err))
	}

	d.wg.Add(1)
	go d.refreshLoop(runCtx)

	d.logger.Info("daemon started", logging.String("lock", d.lockPath))
	return nil
}

func (d *Daemon) refreshLoop(ctx context.Context) {
	defer d.wg.Done()

	interval := time.Duration(d.cfg.Discovery.RefreshIntervalHours) * time.Hour
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.logger.Info("refreshing content pool")
			if err := d.engine.ExpandPool(ctx); err != nil {
				d.logger.Warn("pool refresh failed", logging.Error(err))
			}
		}
	}
}

// Stop halts the refresh loop and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close stops the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Status reports current runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		PoolSize:     d.engine.PoolSize(),
		Channels:     len(d.engine.Channels(true)),
		LockFilePath: d.lockPath,
	}
}
