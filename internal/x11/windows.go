package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
)

const frameEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskEnterWindow

// MapWindow maps a window.
func (c *Connection) MapWindow(win xproto.Window) {
	c.check("MapWindow", xproto.MapWindowChecked(c.XUtil.Conn(), win))
}

// UnmapWindow unmaps a window.
func (c *Connection) UnmapWindow(win xproto.Window) {
	c.check("UnmapWindow", xproto.UnmapWindowChecked(c.XUtil.Conn(), win))
}

// Restack raises or lowers a window among its siblings.
func (c *Connection) Restack(win xproto.Window, above bool) {
	mode := uint32(xproto.StackModeBelow)
	if above {
		mode = xproto.StackModeAbove
	}
	c.check("ConfigureWindow(stack)", xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowStackMode, []uint32{mode}))
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(win xproto.Window, x, y, width, height int) {
	c.check("ConfigureWindow(geometry)", xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(x)), uint32(int32(y)), uint32(max(width, 1)), uint32(max(height, 1))}))
}

// ResizeWindow changes a window's size only.
func (c *Connection) ResizeWindow(win xproto.Window, width, height int) {
	c.check("ConfigureWindow(size)", xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(max(width, 1)), uint32(max(height, 1))}))
}

// ConfigureWindow forwards a raw configure request for an unmanaged window.
func (c *Connection) ConfigureWindow(win xproto.Window, mask uint16, values []uint32) {
	c.check("ConfigureWindow", xproto.ConfigureWindowChecked(c.XUtil.Conn(), win, mask, values))
}

// SetBorderWidth sets the window's border width.
func (c *Connection) SetBorderWidth(win xproto.Window, width int) {
	c.check("ConfigureWindow(border)", xproto.ConfigureWindowChecked(c.XUtil.Conn(), win,
		xproto.ConfigWindowBorderWidth, []uint32{uint32(max(width, 0))}))
}

// SetBorderPixel sets the window's border colour.
func (c *Connection) SetBorderPixel(win xproto.Window, pixel uint32) {
	c.check("ChangeWindowAttributes(border)", xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), win,
		xproto.CwBorderPixel, []uint32{pixel}))
}

// InstallColormap installs cmap; the None colormap is ignored.
func (c *Connection) InstallColormap(cmap xproto.Colormap) {
	if cmap == 0 {
		return
	}
	c.check("InstallColormap", xproto.InstallColormapChecked(c.XUtil.Conn(), cmap))
}

// FocusWindow gives input focus to win.
func (c *Connection) FocusWindow(win xproto.Window) {
	c.check("SetInputFocus", xproto.SetInputFocusChecked(c.XUtil.Conn(),
		xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime))
}

// FocusPointerRoot returns focus to whatever window is under the pointer.
func (c *Connection) FocusPointerRoot() {
	c.check("SetInputFocus(root)", xproto.SetInputFocusChecked(c.XUtil.Conn(),
		xproto.InputFocusPointerRoot, xproto.InputFocusPointerRoot, xproto.TimeCurrentTime))
}

// CreateFrame creates an unmapped bordered frame window on parent.
func (c *Connection) CreateFrame(parent xproto.Window, x, y, width, height, border int, pixel uint32) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("allocate window id: %w", err)
	}
	screen := c.XUtil.Screen()
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, wid, parent,
		int16(x), int16(y), uint16(max(width, 1)), uint16(max(height, 1)), uint16(max(border, 0)),
		xproto.WindowClassInputOutput, screen.RootVisual,
		xproto.CwBorderPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{pixel, 1, frameEventMask}).Check()
	if err != nil {
		return 0, fmt.Errorf("create frame: %w", err)
	}
	return wid, nil
}

// ReparentWindow moves win under parent at (x, y).
func (c *Connection) ReparentWindow(win, parent xproto.Window, x, y int) {
	c.check("ReparentWindow", xproto.ReparentWindowChecked(c.XUtil.Conn(), win, parent, int16(x), int16(y)))
}

// ChangeSaveSet adds win to, or removes it from, the save-set.
func (c *Connection) ChangeSaveSet(win xproto.Window, add bool) {
	mode := byte(xproto.SetModeDelete)
	if add {
		mode = xproto.SetModeInsert
	}
	c.check("ChangeSaveSet", xproto.ChangeSaveSetChecked(c.XUtil.Conn(), mode, win))
}

// DestroyWindow destroys win.
func (c *Connection) DestroyWindow(win xproto.Window) {
	c.check("DestroyWindow", xproto.DestroyWindowChecked(c.XUtil.Conn(), win))
}

// KillClient terminates the connection owning win.
func (c *Connection) KillClient(win xproto.Window) {
	c.check("KillClient", xproto.KillClientChecked(c.XUtil.Conn(), uint32(win)))
}

// SendConfigureNotify tells win its geometry in root coordinates.
func (c *Connection) SendConfigureNotify(win xproto.Window, x, y, width, height int) {
	ev := xevent.NewConfigureNotify(win, win, 0, x, y, width, height, 0, false)
	c.check("SendEvent(ConfigureNotify)", xproto.SendEventChecked(c.XUtil.Conn(), false, win,
		xproto.EventMaskStructureNotify, string(ev.Bytes())))
}

// SendDeleteWindow asks win to close via WM_DELETE_WINDOW.
func (c *Connection) SendDeleteWindow(win xproto.Window) error {
	protocols, err := xprop.Atm(c.XUtil, "WM_PROTOCOLS")
	if err != nil {
		return err
	}
	deleteAtom, err := xprop.Atm(c.XUtil, "WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	ev, err := xevent.NewClientMessage(32, win, protocols, int(deleteAtom), int(xproto.TimeCurrentTime))
	if err != nil {
		return err
	}
	c.check("SendEvent(WM_DELETE_WINDOW)", xproto.SendEventChecked(c.XUtil.Conn(), false, win,
		xproto.EventMaskNoEvent, string(ev.Bytes())))
	return nil
}

// GrabServer blocks other clients until UngrabServer.
func (c *Connection) GrabServer() {
	c.check("GrabServer", xproto.GrabServerChecked(c.XUtil.Conn()))
}

// UngrabServer releases a server grab.
func (c *Connection) UngrabServer() {
	c.check("UngrabServer", xproto.UngrabServerChecked(c.XUtil.Conn()))
}

// BecomeWM selects substructure redirection on the root window. It fails
// when another window manager is running.
func (c *Connection) BecomeWM() error {
	mask := uint32(xproto.EventMaskSubstructureRedirect |
		xproto.EventMaskSubstructureNotify |
		xproto.EventMaskStructureNotify |
		xproto.EventMaskPropertyChange)
	err := xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), c.Root,
		xproto.CwEventMask, []uint32{mask}).Check()
	if err != nil {
		return fmt.Errorf("another window manager is running: %w", err)
	}
	return nil
}

// NormalHints reads WM_NORMAL_HINTS.
func (c *Connection) NormalHints(win xproto.Window) (*icccm.NormalHints, error) {
	return icccm.WmNormalHintsGet(c.XUtil, win)
}

// WindowTypes reads _NET_WM_WINDOW_TYPE.
func (c *Connection) WindowTypes(win xproto.Window) ([]string, error) {
	return ewmh.WmWindowTypeGet(c.XUtil, win)
}

// Protocols reads WM_PROTOCOLS.
func (c *Connection) Protocols(win xproto.Window) ([]string, error) {
	return icccm.WmProtocolsGet(c.XUtil, win)
}

// WindowClass returns the WM_CLASS instance and class names.
func (c *Connection) WindowClass(win xproto.Window) (instance, class string, err error) {
	wc, err := icccm.WmClassGet(c.XUtil, win)
	if err != nil {
		return "", "", err
	}
	return wc.Instance, wc.Class, nil
}

// WindowInfo is what adoption needs to know about an unmanaged window.
type WindowInfo struct {
	Window           xproto.Window
	X, Y             int
	Width, Height    int
	BorderWidth      int
	Colormap         xproto.Colormap
	OverrideRedirect bool
	Viewable         bool
}

// QueryWindow fetches attributes and geometry of win.
func (c *Connection) QueryWindow(win xproto.Window) (WindowInfo, error) {
	conn := c.XUtil.Conn()
	attrs, err := xproto.GetWindowAttributes(conn, win).Reply()
	if err != nil {
		return WindowInfo{}, fmt.Errorf("get attributes of 0x%x: %w", win, err)
	}
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return WindowInfo{}, fmt.Errorf("get geometry of 0x%x: %w", win, err)
	}
	return WindowInfo{
		Window:           win,
		X:                int(geom.X),
		Y:                int(geom.Y),
		Width:            int(geom.Width),
		Height:           int(geom.Height),
		BorderWidth:      int(geom.BorderWidth),
		Colormap:         attrs.Colormap,
		OverrideRedirect: attrs.OverrideRedirect,
		Viewable:         attrs.MapState == xproto.MapStateViewable,
	}, nil
}

// TopLevelWindows lists the root's children in stacking order.
func (c *Connection) TopLevelWindows() ([]xproto.Window, error) {
	tree, err := xproto.QueryTree(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree: %w", err)
	}
	return tree.Children, nil
}

// WindowExists reports whether win is still known to the server.
func (c *Connection) WindowExists(win xproto.Window) bool {
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), win).Reply()
	return err == nil
}
