package wm

import "github.com/1broseidon/vdeskwm/internal/platform"

// Select makes c the current client, or clears the selection when c is nil.
// The previous client loses its highlight; the new one is highlighted, gets
// its colormap installed and is asked to take input focus. Focus requests
// are not checked: a refused request is corrected by the next selection.
func (m *Manager) Select(c *Client) {
	if c != nil && !m.live(c) {
		c = nil
	}
	old := m.reg.Current()
	if old != nil {
		m.backend.SetBorderPixel(old.Parent, m.borderPixel(old, false))
	}
	if c != nil {
		m.backend.SetBorderPixel(c.Parent, m.borderPixel(c, true))
		m.backend.InstallColormap(c.Colormap)
		m.backend.FocusWindow(c.Window)
	}
	m.reg.setCurrent(c)

	if old != nil {
		m.publishNetState(old)
	}
	if c != nil {
		m.publishNetState(c)
	}
}

// CycleNext selects and raises the next visible client after the current
// one in cycle order, wrapping around. Docks are skipped.
func (m *Manager) CycleNext() *Client {
	clients := m.reg.Cycle()
	if len(clients) == 0 {
		return nil
	}
	start := -1
	if cur := m.reg.Current(); cur != nil {
		for i, c := range clients {
			if c == cur {
				start = i
				break
			}
		}
	}
	for n := 1; n <= len(clients); n++ {
		c := clients[(start+n+len(clients))%len(clients)]
		if c.IsDock || c.State != platform.StateNormal {
			continue
		}
		m.Raise(c)
		m.Select(c)
		return c
	}
	return nil
}
