//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/vdeskwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// Conn returns the underlying connection.
func (b *LinuxBackend) Conn() *x11.Connection { return b.conn }

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() WindowID {
	if b == nil || b.conn == nil {
		return None
	}
	return WindowID(b.conn.Root)
}

// Monitors returns monitor rectangles in enumeration order.
func (b *LinuxBackend) Monitors() ([]Rect, error) {
	monitors, err := b.conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	rects := make([]Rect, 0, len(monitors))
	for _, m := range monitors {
		rects = append(rects, Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height})
	}
	return rects, nil
}

// NormalHints reads WM_NORMAL_HINTS.
func (b *LinuxBackend) NormalHints(w WindowID) (RawSizeHints, error) {
	nh, err := b.conn.NormalHints(xproto.Window(w))
	if err != nil {
		return RawSizeHints{}, err
	}
	return rawSizeHints(nh), nil
}

// rawSizeHints converts icccm hints; the flag bits share the ICCCM layout.
func rawSizeHints(nh *icccm.NormalHints) RawSizeHints {
	return RawSizeHints{
		Flags:      HintFlags(nh.Flags),
		MinWidth:   int(nh.MinWidth),
		MinHeight:  int(nh.MinHeight),
		MaxWidth:   int(nh.MaxWidth),
		MaxHeight:  int(nh.MaxHeight),
		BaseWidth:  int(nh.BaseWidth),
		BaseHeight: int(nh.BaseHeight),
		WidthInc:   int(nh.WidthInc),
		HeightInc:  int(nh.HeightInc),
		WinGravity: int(nh.WinGravity),
	}
}

// WindowTypes reads _NET_WM_WINDOW_TYPE.
func (b *LinuxBackend) WindowTypes(w WindowID) ([]string, error) {
	return b.conn.WindowTypes(xproto.Window(w))
}

// Protocols reads WM_PROTOCOLS.
func (b *LinuxBackend) Protocols(w WindowID) ([]string, error) {
	return b.conn.Protocols(xproto.Window(w))
}

// WindowClass reads WM_CLASS.
func (b *LinuxBackend) WindowClass(w WindowID) (instance, class string, err error) {
	return b.conn.WindowClass(xproto.Window(w))
}

func (b *LinuxBackend) MapWindow(w WindowID)   { b.conn.MapWindow(xproto.Window(w)) }
func (b *LinuxBackend) UnmapWindow(w WindowID) { b.conn.UnmapWindow(xproto.Window(w)) }
func (b *LinuxBackend) RaiseWindow(w WindowID) { b.conn.Restack(xproto.Window(w), true) }
func (b *LinuxBackend) LowerWindow(w WindowID) { b.conn.Restack(xproto.Window(w), false) }

func (b *LinuxBackend) MoveResizeWindow(w WindowID, r Rect) {
	b.conn.MoveResizeWindow(xproto.Window(w), r.X, r.Y, r.Width, r.Height)
}

func (b *LinuxBackend) ResizeWindow(w WindowID, width, height int) {
	b.conn.ResizeWindow(xproto.Window(w), width, height)
}

func (b *LinuxBackend) SetBorderWidth(w WindowID, width int) {
	b.conn.SetBorderWidth(xproto.Window(w), width)
}

func (b *LinuxBackend) SetBorderPixel(w WindowID, pixel uint32) {
	b.conn.SetBorderPixel(xproto.Window(w), pixel)
}

func (b *LinuxBackend) InstallColormap(cmap uint32) {
	b.conn.InstallColormap(xproto.Colormap(cmap))
}

func (b *LinuxBackend) FocusWindow(w WindowID) { b.conn.FocusWindow(xproto.Window(w)) }
func (b *LinuxBackend) FocusPointerRoot()      { b.conn.FocusPointerRoot() }

func (b *LinuxBackend) CreateFrame(root WindowID, r Rect, border int, pixel uint32) (WindowID, error) {
	id, err := b.conn.CreateFrame(xproto.Window(root), r.X, r.Y, r.Width, r.Height, border, pixel)
	if err != nil {
		return None, err
	}
	return WindowID(id), nil
}

func (b *LinuxBackend) ReparentWindow(w, parent WindowID, x, y int) {
	b.conn.ReparentWindow(xproto.Window(w), xproto.Window(parent), x, y)
}

func (b *LinuxBackend) AddToSaveSet(w WindowID)      { b.conn.ChangeSaveSet(xproto.Window(w), true) }
func (b *LinuxBackend) RemoveFromSaveSet(w WindowID) { b.conn.ChangeSaveSet(xproto.Window(w), false) }
func (b *LinuxBackend) DestroyWindow(w WindowID)     { b.conn.DestroyWindow(xproto.Window(w)) }
func (b *LinuxBackend) KillClient(w WindowID)        { b.conn.KillClient(xproto.Window(w)) }

func (b *LinuxBackend) SendConfigureNotify(w WindowID, r Rect) {
	b.conn.SendConfigureNotify(xproto.Window(w), r.X, r.Y, r.Width, r.Height)
}

// SendDeleteWindow requests graceful window close via WM_DELETE_WINDOW.
func (b *LinuxBackend) SendDeleteWindow(w WindowID) {
	if err := b.conn.SendDeleteWindow(xproto.Window(w)); err != nil {
		b.conn.KillClient(xproto.Window(w))
	}
}

func (b *LinuxBackend) SetWMState(w WindowID, state WMState) {
	b.report(b.conn.SetWMState(xproto.Window(w), uint(state)))
}

func (b *LinuxBackend) SetClientList(root WindowID, windows []WindowID) {
	b.report(b.conn.SetClientList(xproto.Window(root), xWindows(windows)))
}

func (b *LinuxBackend) SetClientListStacking(root WindowID, windows []WindowID) {
	b.report(b.conn.SetClientListStacking(xproto.Window(root), xWindows(windows)))
}

func (b *LinuxBackend) SetActiveWindow(root, w WindowID) {
	b.report(b.conn.SetActiveWindow(xproto.Window(root), xproto.Window(w)))
}

func (b *LinuxBackend) SetCurrentDesktop(root WindowID, desk uint32) {
	b.report(b.conn.SetCurrentDesktop(xproto.Window(root), desk))
}

func (b *LinuxBackend) SetWMDesktop(w WindowID, desk uint32) {
	b.report(b.conn.SetWindowDesktop(xproto.Window(w), desk))
}

func (b *LinuxBackend) SetNetWMState(w WindowID, states []string) {
	b.report(b.conn.SetWindowState(xproto.Window(w), states))
}

func (b *LinuxBackend) SetAllowedActions(w WindowID, actions []string) {
	b.report(b.conn.SetAllowedActions(xproto.Window(w), actions))
}

func (b *LinuxBackend) RemoveAllowedActions(w WindowID) {
	b.conn.RemoveAllowedActions(xproto.Window(w))
}

func (b *LinuxBackend) RemoveDesktopAndState(w WindowID) {
	b.conn.RemoveDesktopAndState(xproto.Window(w))
}

func (b *LinuxBackend) GrabServer()   { b.conn.GrabServer() }
func (b *LinuxBackend) UngrabServer() { b.conn.UngrabServer() }
func (b *LinuxBackend) Sync()         { b.conn.Sync() }

func (b *LinuxBackend) SuppressErrors() func() { return b.conn.SuppressErrors() }

// report hands property write failures to the connection's error policy.
func (b *LinuxBackend) report(err error) {
	if err != nil {
		b.conn.Report("property write", err)
	}
}

func xWindows(ids []WindowID) []xproto.Window {
	out := make([]xproto.Window, len(ids))
	for i, id := range ids {
		out[i] = xproto.Window(id)
	}
	return out
}

func (b *LinuxBackend) String() string {
	return fmt.Sprintf("x11(root=0x%x)", uint32(b.RootWindow()))
}
