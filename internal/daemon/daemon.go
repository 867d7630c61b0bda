package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/robfig/cron/v3"

	"telenovela/internal/config"
	"telenovela/internal/generation"
	"telenovela/internal/logging"
	"telenovela/internal/show"
)

// Daemon coordinates the store, the generation service, the HTTP API,
// and the periodic stuck-entity sweep.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *show.Store
	gen      *generation.Service
	sessions *sessionStore

	lockPath string
	lock     *flock.Flock
	cron     *cron.Cron
	api      *apiServer

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *show.Store, gen *generation.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || gen == nil {
		return nil, errors.New("daemon requires config, store, and generation service")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "telenovelad.lock")
	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		gen:      gen,
		sessions: newSessionStore(cfg.SessionTTL()),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the instance lock, starts the sweep schedule, and
// brings up the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another telenovela daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.startSweep(runCtx); err != nil {
		d.releaseLock()
		cancel()
		d.cancel = nil
		return err
	}
	if err := d.api.start(runCtx); err != nil {
		d.stopSweep()
		d.releaseLock()
		cancel()
		d.cancel = nil
		return err
	}

	d.running.Store(true)
	d.logger.Info("telenovela daemon started", slog.String("lock", d.lockPath))
	return nil
}

// Stop shuts down the API and sweep and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	d.stopSweep()
	d.releaseLock()
	d.running.Store(false)
	d.logger.Info("telenovela daemon stopped")
}

// Close stops the daemon and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether Start has completed and Stop has not.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Handler exposes the HTTP API for tests.
func (d *Daemon) Handler() http.Handler {
	return d.api
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.String("error", err.Error()))
	}
}
