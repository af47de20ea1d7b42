package wm

import "github.com/1broseidon/vdeskwm/internal/platform"

// Withdraw stops managing c because the client withdrew or was destroyed.
// The window loses its WM_STATE and extended properties.
func (m *Manager) Withdraw(c *Client) {
	if !m.live(c) {
		return
	}
	c.remove = true
	m.teardown(c)
}

// Shutdown releases c because the manager is exiting. WM_STATE and
// _NET_WM_DESKTOP are left in place for the next window manager.
func (m *Manager) Shutdown(c *Client) {
	if !m.live(c) {
		return
	}
	c.remove = false
	m.teardown(c)
}

// ShutdownAll releases every client and removes the global client lists.
func (m *Manager) ShutdownAll() {
	for _, c := range m.reg.Stacking() {
		m.Shutdown(c)
	}
	for _, s := range m.screens {
		m.backend.SetClientList(s.Root, nil)
		m.backend.SetClientListStacking(s.Root, nil)
		if s.Active != platform.None {
			s.Active = platform.None
			m.backend.SetActiveWindow(s.Root, platform.None)
		}
	}
	m.backend.FocusPointerRoot()
	m.backend.Sync()
}

// teardown returns c's window to the server. Every step runs regardless of
// protocol errors, which are suppressed: the window may already be gone.
func (m *Manager) teardown(c *Client) {
	h := c.handle
	withdrawing := c.remove
	m.logger.Debug("unmanaging client", "window", c.Window, "withdraw", withdrawing)

	m.backend.GrabServer()
	release := m.backend.SuppressErrors()
	defer func() {
		m.backend.Sync()
		m.backend.UngrabServer()
		release()
	}()

	wasCurrent := m.reg.Current() == c
	if withdrawing {
		if wasCurrent {
			m.backend.FocusPointerRoot()
		}
		c.State = platform.StateWithdrawn
		m.backend.SetWMState(c.Window, platform.StateWithdrawn)
		m.backend.RemoveDesktopAndState(c.Window)
	} else {
		m.backend.RemoveAllowedActions(c.Window)
	}

	c.gravitate(-c.Border)
	c.gravitate(c.OldBorder)
	c.X -= c.OldBorder
	c.Y -= c.OldBorder

	root := platform.None
	if c.Screen != nil {
		root = c.Screen.Root
	}
	m.backend.ReparentWindow(c.Window, root, c.X, c.Y)
	m.backend.SetBorderWidth(c.Window, c.OldBorder)
	m.backend.RemoveFromSaveSet(c.Window)

	if c.Parent != platform.None {
		m.backend.DestroyWindow(c.Parent)
	}

	m.reg.Remove(h)
	m.unmapped.forget(h)

	if withdrawing {
		m.publishClientLists(c.Screen)
	}

	if wasCurrent {
		m.reg.setCurrent(nil)
		if s := c.Screen; s != nil {
			s.Active = platform.None
			m.backend.SetActiveWindow(s.Root, platform.None)
		}
	}

	c.State = platform.StateWithdrawn
	c.remove = false
	m.reg.release(h)
}
