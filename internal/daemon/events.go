package daemon

import (
	"github.com/1broseidon/vdeskwm/internal/platform"
	"github.com/1broseidon/vdeskwm/internal/wm"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

// connectRoot attaches the handlers for events reported on the root window.
func (d *Daemon) connectRoot() {
	root := d.conn.Root
	xevent.MapRequestFun(d.onMapRequest).Connect(d.xu, root)
	xevent.ConfigureRequestFun(d.onConfigureRequest).Connect(d.xu, root)
	xevent.UnmapNotifyFun(d.onUnmapNotify).Connect(d.xu, root)
	xevent.DestroyNotifyFun(d.onDestroyNotify).Connect(d.xu, root)
	xevent.ClientMessageFun(d.onClientMessage).Connect(d.xu, root)
}

// attach connects the per-client handlers. Frames redirect their child's
// requests and report its unmap and destroy; EWMH client messages are
// dispatched by the client window they name.
func (d *Daemon) attach(c *wm.Client) {
	frame := xproto.Window(c.Parent)
	xevent.MapRequestFun(d.onMapRequest).Connect(d.xu, frame)
	xevent.ConfigureRequestFun(d.onConfigureRequest).Connect(d.xu, frame)
	xevent.UnmapNotifyFun(d.onUnmapNotify).Connect(d.xu, frame)
	xevent.DestroyNotifyFun(d.onDestroyNotify).Connect(d.xu, frame)
	xevent.EnterNotifyFun(d.onEnterNotify).Connect(d.xu, frame)
	xevent.ClientMessageFun(d.onClientMessage).Connect(d.xu, xproto.Window(c.Window))
	if err := d.pointer.Bind(frame); err != nil {
		d.logger.Warn("failed to bind pointer", "window", c.Window, "error", err)
	}
}

// withdraw stops managing c and drops its handlers.
func (d *Daemon) withdraw(c *wm.Client) {
	frame, win := xproto.Window(c.Parent), xproto.Window(c.Window)
	d.mgr.Withdraw(c)
	d.pointer.Unbind(frame)
	xevent.Detach(d.xu, frame)
	xevent.Detach(d.xu, win)
}

func (d *Daemon) onMapRequest(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
	if c := d.client(ev.Window); c != nil {
		// A managed client asking to be shown again.
		d.mgr.MoveToVdesk(c, c.Vdesk)
		return
	}
	d.manage(ev.Window, true)
}

func (d *Daemon) onConfigureRequest(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
	c := d.client(ev.Window)
	if c == nil {
		mask, values := configureValues(*ev.ConfigureRequestEvent)
		d.conn.ConfigureWindow(ev.Window, mask, values)
		return
	}
	d.mgr.Configure(c, configureRequest(*ev.ConfigureRequestEvent))
	if ev.ValueMask&xproto.ConfigWindowStackMode != 0 && ev.ValueMask&xproto.ConfigWindowSibling == 0 {
		switch ev.StackMode {
		case xproto.StackModeAbove:
			d.mgr.Raise(c)
		case xproto.StackModeBelow:
			d.mgr.Lower(c)
		}
	}
}

func (d *Daemon) onUnmapNotify(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
	c := d.mgr.Find(platform.WindowID(ev.Window))
	if c == nil {
		return
	}
	if d.mgr.ConsumeUnmap(c) {
		return
	}
	d.logger.Debug("client unmapped itself", "window", c.Window)
	d.withdraw(c)
}

func (d *Daemon) onDestroyNotify(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
	if c := d.client(ev.Window); c != nil {
		d.logger.Debug("client destroyed", "window", c.Window)
		d.withdraw(c)
	}
}

func (d *Daemon) onEnterNotify(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
	if ev.Mode != xproto.NotifyModeNormal || ev.Detail == xproto.NotifyDetailInferior {
		return
	}
	c := d.mgr.Find(platform.WindowID(ev.Event))
	if c == nil || c == d.mgr.Current() {
		return
	}
	d.mgr.Select(c)
}

func (d *Daemon) onClientMessage(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
	name, err := xprop.AtomName(xu, ev.Type)
	if err != nil {
		d.logger.Debug("unknown client message atom", "atom", ev.Type, "error", err)
		return
	}
	data := ev.Data.Data32
	if ev.Format != 32 || len(data) == 0 {
		return
	}

	if name == "_NET_CURRENT_DESKTOP" {
		d.mgr.SwitchVdesk(d.screen, wm.Vdesk(data[0]))
		return
	}

	c := d.client(ev.Window)
	if c == nil {
		return
	}
	switch name {
	case "_NET_ACTIVE_WINDOW":
		d.activate(c)
	case "_NET_CLOSE_WINDOW":
		d.mgr.Close(c, false)
	case "_NET_WM_DESKTOP":
		d.mgr.MoveToVdesk(c, wm.Vdesk(data[0]))
	case "_NET_WM_STATE":
		sticky, err := xprop.Atm(xu, platform.NetStateSticky)
		if err != nil {
			return
		}
		if stateTargets(data, sticky) && wantState(data[0], c.IsFixed()) != c.IsFixed() {
			d.mgr.ToggleFixed(c)
		}
	default:
		d.logger.Debug("ignoring client message", "type", name, "window", c.Window)
	}
}

// activate brings c into view: its vdesk becomes active and it is raised
// and selected.
func (d *Daemon) activate(c *wm.Client) {
	if s := c.Screen; s != nil && !c.IsFixed() && !c.IsDock && c.Vdesk != s.Vdesk {
		d.mgr.SwitchVdesk(s, c.Vdesk)
	}
	if c.State != platform.StateNormal {
		return
	}
	d.mgr.Raise(c)
	d.mgr.Select(c)
}

// client returns the client whose own window is w, ignoring frames.
func (d *Daemon) client(w xproto.Window) *wm.Client {
	c := d.mgr.Find(platform.WindowID(w))
	if c == nil || c.Window != platform.WindowID(w) {
		return nil
	}
	return c
}

// _NET_WM_STATE actions.
const (
	netStateRemove = 0
	netStateAdd    = 1
	netStateToggle = 2
)

// stateTargets reports whether a _NET_WM_STATE message names atom in
// either property slot.
func stateTargets(data []uint32, atom xproto.Atom) bool {
	return len(data) >= 3 && (xproto.Atom(data[1]) == atom || xproto.Atom(data[2]) == atom)
}

// wantState resolves a _NET_WM_STATE action against the current value.
func wantState(action uint32, current bool) bool {
	switch action {
	case netStateRemove:
		return false
	case netStateAdd:
		return true
	case netStateToggle:
		return !current
	default:
		return current
	}
}

// configureValues rebuilds the value list of a configure request so it can
// be forwarded unchanged for a window that is not managed.
func configureValues(ev xproto.ConfigureRequestEvent) (uint16, []uint32) {
	var mask uint16
	var values []uint32
	add := func(bit uint16, v uint32) {
		if ev.ValueMask&bit != 0 {
			mask |= bit
			values = append(values, v)
		}
	}
	add(xproto.ConfigWindowX, uint32(int32(ev.X)))
	add(xproto.ConfigWindowY, uint32(int32(ev.Y)))
	add(xproto.ConfigWindowWidth, uint32(ev.Width))
	add(xproto.ConfigWindowHeight, uint32(ev.Height))
	add(xproto.ConfigWindowBorderWidth, uint32(ev.BorderWidth))
	add(xproto.ConfigWindowSibling, uint32(ev.Sibling))
	add(xproto.ConfigWindowStackMode, uint32(ev.StackMode))
	return mask, values
}

// configureRequest extracts the geometry fields a managed client asked for.
func configureRequest(ev xproto.ConfigureRequestEvent) wm.ConfigureRequest {
	var req wm.ConfigureRequest
	field := func(bit uint16, v int) *int {
		if ev.ValueMask&bit == 0 {
			return nil
		}
		return &v
	}
	req.X = field(xproto.ConfigWindowX, int(ev.X))
	req.Y = field(xproto.ConfigWindowY, int(ev.Y))
	req.Width = field(xproto.ConfigWindowWidth, int(ev.Width))
	req.Height = field(xproto.ConfigWindowHeight, int(ev.Height))
	return req
}
