package wm

import "github.com/1broseidon/vdeskwm/internal/platform"

// Show maps c's frame and marks it Normal.
func (m *Manager) Show(c *Client) {
	if !m.live(c) {
		return
	}
	m.backend.MapWindow(c.Parent)
	m.setWMState(c, platform.StateNormal)
}

// Hide unmaps c's frame and marks it Iconic. The resulting UnmapNotify is
// recorded so it is not mistaken for the client withdrawing. Hiding an
// Iconic client does nothing, since no event would follow.
func (m *Manager) Hide(c *Client) {
	if !m.live(c) || c.State == platform.StateIconic {
		return
	}
	m.unmapped.expect(c.handle)
	m.backend.UnmapWindow(c.Parent)
	m.setWMState(c, platform.StateIconic)
}

func (m *Manager) setWMState(c *Client, state platform.WMState) {
	c.State = state
	m.backend.SetWMState(c.Window, state)
}

// MoveToVdesk assigns c to vdesk v and shows or hides it accordingly. Fixed
// always shows, docks included. Invalid desktops are ignored.
func (m *Manager) MoveToVdesk(c *Client, v Vdesk) {
	if !m.live(c) || !m.ValidVdesk(v) {
		return
	}
	c.Vdesk = v
	if v == VdeskFixed || c.visibleOn(c.Screen) {
		m.Show(c)
	} else {
		m.Hide(c)
	}
	m.publishDesktop(c)
	m.publishNetState(c)
	m.Select(m.reg.Current())
}

// ToggleFixed makes c sticky, or pins a sticky client to the active vdesk.
func (m *Manager) ToggleFixed(c *Client) {
	if !m.live(c) || c.Screen == nil {
		return
	}
	if c.IsFixed() {
		m.MoveToVdesk(c, c.Screen.Vdesk)
	} else {
		m.MoveToVdesk(c, VdeskFixed)
	}
}

// SwitchVdesk makes v the active desktop of s, hiding and showing clients
// as needed. The fixed sentinel is not a switch target.
func (m *Manager) SwitchVdesk(s *Screen, v Vdesk) {
	if s == nil || v == VdeskFixed || !m.ValidVdesk(v) || v == s.Vdesk {
		return
	}
	m.logger.Debug("switching vdesk", "screen", s.Index, "from", s.Vdesk, "to", v)

	cur := m.reg.Current()
	for _, c := range m.reg.Stacking() {
		if c.Screen != s || c.IsDock || c.IsFixed() {
			continue
		}
		switch c.Vdesk {
		case s.Vdesk:
			m.Hide(c)
			m.publishNetState(c)
		case v:
			m.Show(c)
			m.publishNetState(c)
		}
	}
	s.OldVdesk = s.Vdesk
	s.Vdesk = v
	m.backend.SetCurrentDesktop(s.Root, uint32(v))

	if cur != nil && cur.Screen == s && !cur.visibleOn(s) {
		m.Select(nil)
	}
}

// NextVdesk switches s to the following desktop, wrapping around.
func (m *Manager) NextVdesk(s *Screen) {
	if s == nil {
		return
	}
	m.SwitchVdesk(s, Vdesk((int(s.Vdesk)+1)%m.vdesks))
}

// PrevVdesk switches s to the preceding desktop, wrapping around.
func (m *Manager) PrevVdesk(s *Screen) {
	if s == nil {
		return
	}
	m.SwitchVdesk(s, Vdesk((int(s.Vdesk)+m.vdesks-1)%m.vdesks))
}

// ToggleVdesk switches s back to the previously active desktop.
func (m *Manager) ToggleVdesk(s *Screen) {
	if s == nil {
		return
	}
	m.SwitchVdesk(s, s.OldVdesk)
}

// SetDocksVisible shows or hides every dock on s.
func (m *Manager) SetDocksVisible(s *Screen, visible bool) {
	if s == nil {
		return
	}
	s.DocksVisible = visible
	for _, c := range m.reg.Stacking() {
		if c.Screen != s || !c.IsDock {
			continue
		}
		if visible {
			m.Show(c)
		} else {
			m.Hide(c)
		}
	}
}
