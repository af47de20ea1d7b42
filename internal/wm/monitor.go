package wm

import "github.com/1broseidon/vdeskwm/internal/platform"

// ResolveMonitor returns the index of the first monitor containing the
// point, or 0 if none does. Overlapping monitors resolve by enumeration
// order, not by overlap area.
func ResolveMonitor(x, y int, monitors []platform.Rect) int {
	for i, m := range monitors {
		if m.Contains(x, y) {
			return i
		}
	}
	return 0
}

// Monitor returns the monitor holding the centre of c.
func (m *Manager) Monitor(c *Client) platform.Rect {
	s := c.Screen
	if s == nil || len(s.Monitors) == 0 {
		return platform.Rect{}
	}
	cx := c.X + c.Width/2
	cy := c.Y + c.Height/2
	return s.Monitors[ResolveMonitor(cx, cy, s.Monitors)]
}
