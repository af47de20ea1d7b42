package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// SupportedHints is the _NET_SUPPORTED list published on the root.
var SupportedHints = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_CLIENT_LIST",
	"_NET_CLIENT_LIST_STACKING",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_CURRENT_DESKTOP",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLOSE_WINDOW",
	"_NET_WM_DESKTOP",
	"_NET_WM_STATE",
	"_NET_WM_STATE_STICKY",
	"_NET_WM_STATE_HIDDEN",
	"_NET_WM_STATE_FOCUSED",
	"_NET_WM_ALLOWED_ACTIONS",
	"_NET_WM_ACTION_MOVE",
	"_NET_WM_ACTION_RESIZE",
	"_NET_WM_ACTION_STICK",
	"_NET_WM_ACTION_CHANGE_DESKTOP",
	"_NET_WM_ACTION_CLOSE",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DOCK",
}

// Announce publishes the root-window properties that identify a running
// EWMH window manager. The returned window must stay alive for as long as
// the manager runs.
func (c *Connection) Announce(name string, desktops int) (xproto.Window, error) {
	check, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, err
	}
	if err := check.CreateChecked(c.Root, -1, -1, 1, 1, xproto.CwOverrideRedirect, 1); err != nil {
		return 0, err
	}

	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, check.Id); err != nil {
		return 0, err
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, check.Id, check.Id); err != nil {
		return 0, err
	}
	if err := ewmh.WmNameSet(c.XUtil, check.Id, name); err != nil {
		return 0, err
	}
	if err := ewmh.SupportedSet(c.XUtil, SupportedHints); err != nil {
		return 0, err
	}
	if err := c.SetNumberOfDesktops(desktops); err != nil {
		return 0, err
	}
	return check.Id, nil
}

// SetNumberOfDesktops publishes _NET_NUMBER_OF_DESKTOPS.
func (c *Connection) SetNumberOfDesktops(n int) error {
	return ewmh.NumberOfDesktopsSet(c.XUtil, uint(n))
}

// SetClientList publishes _NET_CLIENT_LIST on root. An empty list deletes
// the property.
func (c *Connection) SetClientList(root xproto.Window, wins []xproto.Window) error {
	if len(wins) == 0 {
		c.deleteProperty(root, "_NET_CLIENT_LIST")
		return nil
	}
	return xprop.ChangeProp32(c.XUtil, root, "_NET_CLIENT_LIST", "WINDOW", xprop.WindowToInt(wins)...)
}

// SetClientListStacking publishes _NET_CLIENT_LIST_STACKING on root.
func (c *Connection) SetClientListStacking(root xproto.Window, wins []xproto.Window) error {
	if len(wins) == 0 {
		c.deleteProperty(root, "_NET_CLIENT_LIST_STACKING")
		return nil
	}
	return xprop.ChangeProp32(c.XUtil, root, "_NET_CLIENT_LIST_STACKING", "WINDOW", xprop.WindowToInt(wins)...)
}

// SetActiveWindow publishes _NET_ACTIVE_WINDOW on root.
func (c *Connection) SetActiveWindow(root, win xproto.Window) error {
	return xprop.ChangeProp32(c.XUtil, root, "_NET_ACTIVE_WINDOW", "WINDOW", uint(win))
}

// SetCurrentDesktop publishes _NET_CURRENT_DESKTOP on root.
func (c *Connection) SetCurrentDesktop(root xproto.Window, desk uint32) error {
	return xprop.ChangeProp32(c.XUtil, root, "_NET_CURRENT_DESKTOP", "CARDINAL", uint(desk))
}

// SetWindowDesktop publishes _NET_WM_DESKTOP on a client.
func (c *Connection) SetWindowDesktop(win xproto.Window, desk uint32) error {
	return ewmh.WmDesktopSet(c.XUtil, win, uint(desk))
}

// SetWindowState publishes _NET_WM_STATE on a client.
func (c *Connection) SetWindowState(win xproto.Window, states []string) error {
	return ewmh.WmStateSet(c.XUtil, win, states)
}

// SetAllowedActions publishes _NET_WM_ALLOWED_ACTIONS on a client.
func (c *Connection) SetAllowedActions(win xproto.Window, actions []string) error {
	return ewmh.WmAllowedActionsSet(c.XUtil, win, actions)
}

// RemoveAllowedActions deletes _NET_WM_ALLOWED_ACTIONS from a client.
func (c *Connection) RemoveAllowedActions(win xproto.Window) {
	c.deleteProperty(win, "_NET_WM_ALLOWED_ACTIONS")
}

// RemoveDesktopAndState deletes _NET_WM_DESKTOP and _NET_WM_STATE.
func (c *Connection) RemoveDesktopAndState(win xproto.Window) {
	c.deleteProperty(win, "_NET_WM_DESKTOP")
	c.deleteProperty(win, "_NET_WM_STATE")
}

// SetWMState publishes the ICCCM WM_STATE property.
func (c *Connection) SetWMState(win xproto.Window, state uint) error {
	return icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: state, Icon: 0})
}

func (c *Connection) deleteProperty(win xproto.Window, name string) {
	atom, err := xprop.Atm(c.XUtil, name)
	if err != nil {
		c.logger.Debug("intern atom failed", "atom", name, "error", err)
		return
	}
	c.check("DeleteProperty("+name+")", xproto.DeletePropertyChecked(c.XUtil.Conn(), win, atom))
}
