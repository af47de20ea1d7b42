package wm

import (
	"slices"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

// Placement carries per-application overrides applied at adoption.
type Placement struct {
	Geometry *platform.Rect
	Dock     bool
	Vdesk    *Vdesk
}

// AdoptParams describes a window about to be managed.
type AdoptParams struct {
	Window   platform.WindowID
	Screen   *Screen
	Geometry platform.Rect
	// Border is the window's own border width before management.
	Border   int
	Colormap uint32
	// Mapped is set when the window is already viewable, so reparenting it
	// will produce an UnmapNotify.
	Mapped    bool
	Placement *Placement
}

// Adopt starts managing a window: it resolves size hints, wraps the window
// in a bordered frame and records it in the registry. Adopting a managed
// window returns the existing client. A nil result means the frame could
// not be created.
func (m *Manager) Adopt(p AdoptParams) *Client {
	if c := m.reg.Find(p.Window); c != nil {
		return c
	}
	s := p.Screen
	if s == nil {
		s = m.Screen(0)
	}
	if s == nil {
		return nil
	}

	c := &Client{
		Window:    p.Window,
		X:         p.Geometry.X,
		Y:         p.Geometry.Y,
		Width:     max(p.Geometry.Width, 1),
		Height:    max(p.Geometry.Height, 1),
		Border:    m.border,
		OldBorder: max(p.Border, 0),
		Colormap:  p.Colormap,
		Screen:    s,
		Vdesk:     VdeskNone,
	}

	raw, err := m.backend.NormalHints(c.Window)
	if err != nil {
		m.logger.Debug("no size hints, using defaults", "window", c.Window, "error", err)
	}
	c.Hints = DeriveHints(raw)

	if types, err := m.backend.WindowTypes(c.Window); err == nil {
		c.IsDock = slices.Contains(types, platform.WindowTypeDock)
	}

	vdesk := s.Vdesk
	if pl := p.Placement; pl != nil {
		if pl.Geometry != nil {
			c.X, c.Y = pl.Geometry.X, pl.Geometry.Y
			c.Width, c.Height = max(pl.Geometry.Width, 1), max(pl.Geometry.Height, 1)
		}
		if pl.Dock {
			c.IsDock = true
		}
		if pl.Vdesk != nil && m.ValidVdesk(*pl.Vdesk) {
			vdesk = *pl.Vdesk
		}
	}
	if c.IsDock {
		vdesk = VdeskFixed
	}

	// Keep the window's contents where they were by moving the border
	// difference into the frame.
	c.X += c.OldBorder
	c.Y += c.OldBorder
	c.gravitate(-c.OldBorder)
	c.gravitate(c.Border)

	frame, err := m.backend.CreateFrame(s.Root, c.frameRect(), c.Border, s.Colors.Unfocused)
	if err != nil {
		m.logger.Warn("failed to create frame", "window", c.Window, "error", err)
		return nil
	}
	c.Parent = frame

	m.backend.AddToSaveSet(c.Window)
	m.backend.SetBorderWidth(c.Window, 0)
	m.reg.Insert(c)
	if p.Mapped {
		m.unmapped.expect(c.handle)
	}
	m.backend.ReparentWindow(c.Window, c.Parent, 0, 0)
	m.backend.MapWindow(c.Window)

	c.Vdesk = vdesk
	if c.visibleOn(s) {
		m.Show(c)
	} else {
		// The frame has never been mapped, so no unmap event will follow.
		m.setWMState(c, platform.StateIconic)
	}
	m.backend.SetAllowedActions(c.Window, platform.AllowedActions)
	m.publishDesktop(c)
	m.publishNetState(c)
	m.publishClientLists(s)
	m.SendConfig(c)

	m.logger.Debug("managing client", "window", c.Window, "frame", c.Parent, "vdesk", c.Vdesk, "dock", c.IsDock)
	return c
}

// SendConfig tells c its geometry with a synthetic ConfigureNotify.
func (m *Manager) SendConfig(c *Client) {
	if !m.live(c) {
		return
	}
	m.backend.SendConfigureNotify(c.Window, c.Rect())
}

// Close asks c to close via WM_DELETE_WINDOW when it supports the protocol,
// and kills its connection otherwise or when force is set.
func (m *Manager) Close(c *Client, force bool) {
	if !m.live(c) {
		return
	}
	if !force {
		protocols, err := m.backend.Protocols(c.Window)
		if err == nil && slices.Contains(protocols, "WM_DELETE_WINDOW") {
			m.backend.SendDeleteWindow(c.Window)
			return
		}
	}
	m.backend.KillClient(c.Window)
}

// MoveResize sets c's geometry, constrained by its size hints.
func (m *Manager) MoveResize(c *Client, r platform.Rect) {
	if !m.live(c) {
		return
	}
	c.X, c.Y = r.X, r.Y
	c.Width, c.Height = c.Hints.Constrain(r.Width, r.Height)
	m.backend.MoveResizeWindow(c.Parent, c.frameRect())
	m.backend.ResizeWindow(c.Window, c.Width, c.Height)
	m.SendConfig(c)
}

// ConfigureRequest is a client's request to change its geometry. Nil fields
// were not part of the request.
type ConfigureRequest struct {
	X, Y          *int
	Width, Height *int
}

// Configure applies a client's configure request.
func (m *Manager) Configure(c *Client, req ConfigureRequest) {
	if !m.live(c) {
		return
	}
	r := c.Rect()
	if req.X != nil {
		r.X = *req.X
	}
	if req.Y != nil {
		r.Y = *req.Y
	}
	if req.Width != nil {
		r.Width = *req.Width
	}
	if req.Height != nil {
		r.Height = *req.Height
	}
	m.MoveResize(c, r)
}

// Snap pulls r onto the edges of c's monitor when within the snap distance.
func (m *Manager) Snap(c *Client, r platform.Rect) platform.Rect {
	if m.snap <= 0 || !m.live(c) {
		return r
	}
	b := c.Border
	mon := m.Monitor(c)
	left := r.X - b
	right := r.X + r.Width + b
	top := r.Y - b
	bottom := r.Y + r.Height + b

	switch {
	case abs(left-mon.X) <= m.snap:
		r.X = mon.X + b
	case abs(right-(mon.X+mon.Width)) <= m.snap:
		r.X = mon.X + mon.Width - r.Width - b
	}
	switch {
	case abs(top-mon.Y) <= m.snap:
		r.Y = mon.Y + b
	case abs(bottom-(mon.Y+mon.Height)) <= m.snap:
		r.Y = mon.Y + mon.Height - r.Height - b
	}
	return r
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
