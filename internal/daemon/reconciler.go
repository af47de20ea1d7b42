package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/vdeskwm/internal/platform"
	"github.com/1broseidon/vdeskwm/internal/wm"
	"github.com/BurntSushi/xgb/xproto"
)

// Runner is the part of the Daemon the reconciler drives.
type Runner interface {
	// Do runs fn on the event goroutine.
	Do(ctx context.Context, fn func(m *wm.Manager)) error
	// WindowExists reports whether the server still knows w.
	WindowExists(w platform.WindowID) bool
	// Forget withdraws c after its window disappeared.
	Forget(c *wm.Client)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler periodically drops clients whose windows were destroyed
// without the manager seeing the DestroyNotify.
type Reconciler struct {
	interval time.Duration
	runner   Runner
	logger   *slog.Logger
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, runner Runner) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Reconciler{
		interval: interval,
		runner:   runner,
		logger:   logger,
	}
}

// Serve runs the reconciliation loop until ctx is cancelled. It satisfies
// suture.Service.
func (r *Reconciler) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Debug("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("reconciler stopped")
			return ctx.Err()
		case <-ticker.C:
			passCtx, cancel := context.WithTimeout(ctx, r.interval)
			if err := r.ReconcileNow(passCtx); err != nil {
				r.logger.Debug("reconcile skipped", "error", err)
			}
			cancel()
		}
	}
}

func (r *Reconciler) String() string { return "reconciler" }

// ReconcileNow performs a single reconciliation pass.
func (r *Reconciler) ReconcileNow(ctx context.Context) error {
	return r.runner.Do(ctx, func(m *wm.Manager) {
		for _, c := range stale(m.Clients(), r.runner.WindowExists) {
			r.logger.Info("reconciler: dropping vanished client", "window", c.Window)
			r.runner.Forget(c)
		}
	})
}

// stale returns the clients whose window no longer exists.
func stale(clients []*wm.Client, exists func(platform.WindowID) bool) []*wm.Client {
	var out []*wm.Client
	for _, c := range clients {
		if !exists(c.Window) {
			out = append(out, c)
		}
	}
	return out
}

// WindowExists reports whether the server still knows w.
func (d *Daemon) WindowExists(w platform.WindowID) bool {
	return d.conn.WindowExists(xproto.Window(w))
}

// Forget withdraws c and drops its event handlers.
func (d *Daemon) Forget(c *wm.Client) {
	d.withdraw(c)
}
