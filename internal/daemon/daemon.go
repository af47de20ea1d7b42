package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/vdeskwm/internal/config"
	"github.com/1broseidon/vdeskwm/internal/hotkeys"
	"github.com/1broseidon/vdeskwm/internal/platform"
	"github.com/1broseidon/vdeskwm/internal/wm"
	"github.com/1broseidon/vdeskwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Name is published in _NET_WM_NAME of the supporting window.
const Name = "vdeskwm"

// ErrStopped is returned for requests made after the event loop exited.
var ErrStopped = errors.New("window manager is not running")

// Options configures a Daemon.
type Options struct {
	// ConfigPath is re-read on Reload. Empty means the default location.
	ConfigPath string
	Logger     *slog.Logger
	// Level, when set, follows the log_level key across reloads.
	Level *slog.LevelVar
}

type request struct {
	fn   func(m *wm.Manager)
	done chan struct{}
}

// Daemon runs the window manager: it owns the X event loop and is the only
// goroutine that touches the Manager. Other goroutines submit work with Do.
type Daemon struct {
	conn   *x11.Connection
	xu     *xgbutil.XUtil
	mgr    *wm.Manager
	screen *wm.Screen

	cfg        *config.Config
	configPath string
	logger     *slog.Logger
	level      *slog.LevelVar

	keys    *hotkeys.Handler
	pointer *hotkeys.Pointer
	mods    string

	requests chan request
	quit     chan struct{}
	quitOnce sync.Once
	stopped  chan struct{}
}

// New takes over the display behind conn. It fails when another window
// manager is running or cfg cannot be applied.
func New(conn *x11.Connection, cfg *config.Config, opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err := conn.BecomeWM(); err != nil {
		return nil, err
	}

	focused, unfocused, fixed, err := cfg.Pixels()
	if err != nil {
		return nil, fmt.Errorf("colors: %w", err)
	}
	mods, err := config.ParseModifiers(cfg.Modifiers.Primary)
	if err != nil {
		return nil, fmt.Errorf("modifiers.primary: %w", err)
	}

	backend := platform.NewLinuxBackend(conn)
	monitors, err := backend.Monitors()
	if err != nil {
		logger.Warn("monitor discovery failed, using the whole screen", "error", err)
	}
	width, height := conn.ScreenSize()
	screen := wm.NewScreen(0, backend.RootWindow(), width, height, monitors,
		wm.Colors{Focused: focused, Unfocused: unfocused, Fixed: fixed})

	d := &Daemon{
		conn:       conn,
		xu:         conn.XUtil,
		screen:     screen,
		cfg:        cfg,
		configPath: opts.ConfigPath,
		logger:     logger,
		level:      opts.Level,
		mods:       mods,
		requests:   make(chan request),
		quit:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	d.mgr = wm.NewManager(wm.ManagerConfig{
		Vdesks:      cfg.Vdesks,
		BorderWidth: cfg.BorderWidth,
		Snap:        cfg.Snap,
		Logger:      logger,
	}, backend, screen)

	if _, err := conn.Announce(Name, cfg.Vdesks); err != nil {
		return nil, fmt.Errorf("announce window manager: %w", err)
	}
	backend.SetCurrentDesktop(screen.Root, uint32(screen.Vdesk))

	b := &bindings{d: d}
	d.keys = hotkeys.NewHandler(d.xu, conn.Root, b, logger)
	if err := d.keys.Apply(cfg); err != nil {
		return nil, fmt.Errorf("bind keys: %w", err)
	}
	d.pointer, err = hotkeys.NewPointer(d.xu, b, mods, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("window manager initialized",
		"screen", fmt.Sprintf("%dx%d", width, height),
		"monitors", len(screen.Monitors),
		"vdesks", cfg.Vdesks)
	return d, nil
}

// Run adopts existing windows and processes X events and queued requests
// until ctx is done or Quit is called. Every client is released before Run
// returns.
func (d *Daemon) Run(ctx context.Context) error {
	defer close(d.stopped)

	d.connectRoot()
	d.adoptExisting()
	d.conn.Flush()

	pingBefore, pingAfter, pingQuit := xevent.MainPing(d.xu)
	for {
		select {
		case <-pingBefore:
			// Callbacks for one event run between the two pings.
			<-pingAfter
			d.conn.Flush()
		case req := <-d.requests:
			req.fn(d.mgr)
			d.conn.Flush()
			close(req.done)
		case <-d.quit:
			d.shutdown()
			return nil
		case <-ctx.Done():
			d.shutdown()
			return ctx.Err()
		case <-pingQuit:
			d.logger.Warn("x event loop stopped")
			return nil
		}
	}
}

func (d *Daemon) shutdown() {
	d.logger.Info("releasing clients", "clients", len(d.mgr.Clients()))
	for _, c := range d.mgr.Clients() {
		d.pointer.Unbind(xproto.Window(c.Parent))
	}
	d.mgr.ShutdownAll()
	d.conn.Sync()
	xevent.Quit(d.xu)
}

// Do runs fn on the event goroutine and waits for it to finish.
func (d *Daemon) Do(ctx context.Context, fn func(m *wm.Manager)) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case d.requests <- req:
	case <-d.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop asks Run to release every client and return. It is safe to call
// more than once and from any goroutine.
func (d *Daemon) Stop() {
	d.quitOnce.Do(func() { close(d.quit) })
}

// ReloadFromDisk reads the configuration file again and applies it.
func (d *Daemon) ReloadFromDisk(ctx context.Context) error {
	path := d.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return err
	}
	var applyErr error
	if err := d.Do(ctx, func(*wm.Manager) { applyErr = d.apply(res.Config) }); err != nil {
		return err
	}
	if applyErr != nil {
		return applyErr
	}
	d.logger.Info("configuration reloaded", "path", path, "files", len(res.Files))
	return nil
}

// apply installs cfg on the running manager. Runs on the event goroutine.
func (d *Daemon) apply(cfg *config.Config) error {
	focused, unfocused, fixed, err := cfg.Pixels()
	if err != nil {
		return fmt.Errorf("colors: %w", err)
	}
	mods, err := config.ParseModifiers(cfg.Modifiers.Primary)
	if err != nil {
		return fmt.Errorf("modifiers.primary: %w", err)
	}
	if err := d.keys.Apply(cfg); err != nil {
		return fmt.Errorf("bind keys: %w", err)
	}

	d.mgr.SetColors(wm.Colors{Focused: focused, Unfocused: unfocused, Fixed: fixed})
	d.mgr.SetBorderWidth(cfg.BorderWidth)
	d.mgr.SetSnap(cfg.Snap)
	if cfg.Vdesks != d.mgr.Vdesks() {
		d.mgr.SetVdesks(cfg.Vdesks)
		if err := d.conn.SetNumberOfDesktops(cfg.Vdesks); err != nil {
			d.conn.Report("_NET_NUMBER_OF_DESKTOPS", err)
		}
	}

	if mods != d.mods {
		frames := make([]xproto.Window, 0, len(d.mgr.Clients()))
		for _, c := range d.mgr.Clients() {
			frames = append(frames, xproto.Window(c.Parent))
		}
		d.pointer.Rebind(frames, mods)
		d.mods = mods
	}

	if d.level != nil {
		d.level.Set(ParseLevel(cfg.LogLevel))
	}
	d.cfg = cfg
	return nil
}

// ParseLevel maps a log_level value to a slog level; unknown values are
// treated as info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
