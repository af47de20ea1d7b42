package x11

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection, core X resources and the error
// policy for requests issued through it.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	logger *slog.Logger

	// Only touched from the event goroutine.
	pending  []pendingRequest
	suppress int
}

type pendingRequest struct {
	name       string
	cookie     interface{ Check() error }
	suppressed bool
}

// NewConnection connects to display (empty means $DISPLAY) and initializes
// the key and mouse binding modules.
func NewConnection(display string, logger *slog.Logger) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X display %q: %w", display, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	keybind.Initialize(xu)
	mousebind.Initialize(xu)

	c := &Connection{
		XUtil:  xu,
		Root:   xu.RootWin(),
		logger: logger,
	}
	xevent.ErrorHandlerSet(xu, c.handleError)
	return c, nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

// ScreenSize returns the default screen's pixel dimensions.
func (c *Connection) ScreenSize() (int, int) {
	s := c.XUtil.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

// check queues a checked request; its error is collected on the next Flush.
func (c *Connection) check(name string, cookie interface{ Check() error }) {
	c.pending = append(c.pending, pendingRequest{
		name:       name,
		cookie:     cookie,
		suppressed: c.suppress > 0,
	})
}

// Flush waits for every queued request and reports failures. Errors from
// requests issued while suppression was active are dropped.
func (c *Connection) Flush() {
	pending := c.pending
	c.pending = nil
	for _, p := range pending {
		err := p.cookie.Check()
		if err == nil {
			continue
		}
		if p.suppressed {
			c.logger.Debug("suppressed x error", "request", p.name, "error", err)
			continue
		}
		c.logger.Warn("x request failed", "request", p.name, "error", err)
	}
}

// Sync flushes queued requests and round-trips to the server.
func (c *Connection) Sync() {
	c.Flush()
	c.XUtil.Sync()
}

// SuppressErrors drops X errors until the returned func is called. Calls
// nest; releasing more than once has no further effect.
func (c *Connection) SuppressErrors() func() {
	c.suppress++
	var once sync.Once
	return func() {
		once.Do(func() { c.suppress-- })
	}
}

// Report logs a failed request according to the current error policy.
func (c *Connection) Report(request string, err error) {
	if c.suppress > 0 {
		c.logger.Debug("suppressed x error", "request", request, "error", err)
		return
	}
	c.logger.Warn("x request failed", "request", request, "error", err)
}

// handleError receives errors for unchecked requests from the event loop.
func (c *Connection) handleError(err xgb.Error) {
	if c.suppress > 0 {
		c.logger.Debug("suppressed x error", "error", err)
		return
	}
	c.logger.Warn("x error", "error", err)
}
