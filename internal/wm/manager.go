package wm

import (
	"log/slog"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

// ManagerConfig holds configuration for the manager.
type ManagerConfig struct {
	Vdesks      int
	BorderWidth int
	Snap        int
	Logger      *slog.Logger
}

// Manager owns every managed client and screen. All methods must be called
// from the single goroutine that processes window-system events.
type Manager struct {
	backend  platform.Backend
	reg      *Registry
	screens  []*Screen
	vdesks   int
	border   int
	snap     int
	logger   *slog.Logger
	unmapped unmapLedger
}

// NewManager creates a manager driving the given backend.
func NewManager(cfg ManagerConfig, backend platform.Backend, screens ...*Screen) *Manager {
	vdesks := cfg.Vdesks
	if vdesks <= 0 {
		vdesks = 8
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		backend:  backend,
		reg:      NewRegistry(),
		screens:  screens,
		vdesks:   vdesks,
		border:   max(cfg.BorderWidth, 0),
		snap:     max(cfg.Snap, 0),
		logger:   logger,
		unmapped: unmapLedger{},
	}
}

// Registry exposes the client registry.
func (m *Manager) Registry() *Registry { return m.reg }

// Screens returns the managed screens.
func (m *Manager) Screens() []*Screen { return m.screens }

// Screen returns the screen with the given index, or nil.
func (m *Manager) Screen(i int) *Screen {
	if i < 0 || i >= len(m.screens) {
		return nil
	}
	return m.screens[i]
}

// ScreenForRoot returns the screen whose root window is root, or nil.
func (m *Manager) ScreenForRoot(root platform.WindowID) *Screen {
	for _, s := range m.screens {
		if s.Root == root {
			return s
		}
	}
	return nil
}

// Vdesks returns the number of virtual desktops.
func (m *Manager) Vdesks() int { return m.vdesks }

// SetVdesks changes the number of virtual desktops. Clients on a removed
// desktop move to the last remaining one.
func (m *Manager) SetVdesks(n int) {
	if n <= 0 || n == m.vdesks {
		return
	}
	m.vdesks = n
	for _, c := range m.reg.Cycle() {
		if c.Vdesk != VdeskFixed && c.Vdesk != VdeskNone && int(c.Vdesk) >= n {
			m.MoveToVdesk(c, Vdesk(n-1))
		}
	}
	for _, s := range m.screens {
		if int(s.Vdesk) >= n {
			m.SwitchVdesk(s, Vdesk(n-1))
		}
	}
}

// BorderWidth returns the frame border width for new clients.
func (m *Manager) BorderWidth() int { return m.border }

// SetBorderWidth changes the frame border width used for new clients.
func (m *Manager) SetBorderWidth(width int) { m.border = max(width, 0) }

// SetSnap changes the edge snapping distance used while dragging.
func (m *Manager) SetSnap(px int) { m.snap = max(px, 0) }

// SetColors replaces the highlight colours of every screen and repaints
// existing frames.
func (m *Manager) SetColors(colors Colors) {
	for _, s := range m.screens {
		s.Colors = colors
	}
	cur := m.reg.Current()
	for _, c := range m.reg.Cycle() {
		m.backend.SetBorderPixel(c.Parent, m.borderPixel(c, c == cur))
	}
}

// Find returns the client owning window or frame w.
func (m *Manager) Find(w platform.WindowID) *Client {
	return m.reg.Find(w)
}

// Current returns the focused client, or nil.
func (m *Manager) Current() *Client {
	return m.reg.Current()
}

// Clients returns the managed clients in cycle order.
func (m *Manager) Clients() []*Client {
	return m.reg.Cycle()
}

// live guards every operation against clients already torn down.
func (m *Manager) live(c *Client) bool {
	if m.reg.Live(c) {
		return true
	}
	if c != nil {
		m.logger.Debug("ignoring stale client", "window", c.Window)
	}
	return false
}

// ValidVdesk reports whether v is a desktop index or the fixed sentinel.
func (m *Manager) ValidVdesk(v Vdesk) bool {
	return v == VdeskFixed || int64(v) < int64(m.vdesks)
}

func (m *Manager) borderPixel(c *Client, focused bool) uint32 {
	s := c.Screen
	if s == nil {
		return 0
	}
	if !focused {
		return s.Colors.Unfocused
	}
	if c.IsFixed() {
		return s.Colors.Fixed
	}
	return s.Colors.Focused
}

// Raise brings c to the top of the stacking order.
func (m *Manager) Raise(c *Client) {
	if !m.live(c) {
		return
	}
	m.backend.RaiseWindow(c.Parent)
	m.reg.Raise(c.handle)
	m.publishStacking(c.Screen)
}

// Lower sends c to the bottom of the stacking order.
func (m *Manager) Lower(c *Client) {
	if !m.live(c) {
		return
	}
	m.backend.LowerWindow(c.Parent)
	m.reg.Lower(c.handle)
	m.publishStacking(c.Screen)
}

func (m *Manager) publishClientLists(s *Screen) {
	if s == nil {
		return
	}
	m.backend.SetClientList(s.Root, windowsOn(m.reg.Mapping(), s))
	m.publishStacking(s)
}

func (m *Manager) publishStacking(s *Screen) {
	if s == nil {
		return
	}
	m.backend.SetClientListStacking(s.Root, windowsOn(m.reg.Stacking(), s))
}

func windowsOn(clients []*Client, s *Screen) []platform.WindowID {
	out := make([]platform.WindowID, 0, len(clients))
	for _, c := range clients {
		if c.Screen == s {
			out = append(out, c.Window)
		}
	}
	return out
}

// publishDesktop writes _NET_WM_DESKTOP. Unassigned clients publish nothing.
func (m *Manager) publishDesktop(c *Client) {
	if c.Vdesk == VdeskNone {
		return
	}
	m.backend.SetWMDesktop(c.Window, uint32(c.Vdesk))
}

// publishNetState writes _NET_WM_STATE for c and keeps the screen's
// _NET_ACTIVE_WINDOW consistent with the current selection.
func (m *Manager) publishNetState(c *Client) {
	var states []string
	if c.IsFixed() {
		states = append(states, platform.NetStateSticky)
	}
	if c.State == platform.StateIconic {
		states = append(states, platform.NetStateHidden)
	}
	focused := m.reg.Current() == c
	if focused {
		states = append(states, platform.NetStateFocused)
	}
	m.backend.SetNetWMState(c.Window, states)

	s := c.Screen
	if s == nil {
		return
	}
	switch {
	case focused:
		s.Active = c.Window
		m.backend.SetActiveWindow(s.Root, c.Window)
	case s.Active == c.Window:
		s.Active = platform.None
		m.backend.SetActiveWindow(s.Root, platform.None)
	}
}
