package wm

import (
	"slices"
	"testing"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

func TestMoveToVdesk(t *testing.T) {
	tests := []struct {
		name      string
		v         Vdesk
		wantState platform.WMState
		wantVdesk Vdesk
	}{
		{"active vdesk", 0, platform.StateNormal, 0},
		{"other vdesk", 2, platform.StateIconic, 2},
		{"fixed", VdeskFixed, platform.StateNormal, VdeskFixed},
		{"out of range", 9, platform.StateNormal, 0},
		{"unassigned sentinel", VdeskNone, platform.StateNormal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fb, s := newTestManager(t)
			c := adopt(m, s, 10, platform.Rect{X: 10, Y: 10, Width: 100, Height: 100})
			fb.reset()

			m.MoveToVdesk(c, tt.v)

			if c.State != tt.wantState {
				t.Fatalf("state = %s, want %s", c.State, tt.wantState)
			}
			if c.Vdesk != tt.wantVdesk {
				t.Fatalf("vdesk = %s, want %s", c.Vdesk, tt.wantVdesk)
			}
			if fb.wmState[10] != tt.wantState {
				t.Fatalf("published WM_STATE = %s, want %s", fb.wmState[10], tt.wantState)
			}
		})
	}
}

func TestMoveToVdeskFixedWhileOnOtherDesk(t *testing.T) {
	m, fb, s := newTestManager(t)
	c := adopt(m, s, 10, platform.Rect{X: 10, Y: 10, Width: 100, Height: 100})
	m.MoveToVdesk(c, 3)
	if c.State != platform.StateIconic {
		t.Fatalf("state = %s, want iconic", c.State)
	}
	m.MoveToVdesk(c, VdeskFixed)
	if c.State != platform.StateNormal {
		t.Fatalf("fixed client state = %s, want normal", c.State)
	}
	if fb.desktop[10] != uint32(VdeskFixed) {
		t.Fatalf("_NET_WM_DESKTOP = %#x, want %#x", fb.desktop[10], uint32(VdeskFixed))
	}
}

func TestInvalidMoveLeavesClientUntouched(t *testing.T) {
	m, fb, s := newTestManager(t)
	c := adopt(m, s, 10, platform.Rect{X: 10, Y: 10, Width: 100, Height: 100})
	fb.reset()
	m.MoveToVdesk(c, 4)
	if len(fb.calls) != 0 {
		t.Fatalf("invalid move issued requests: %v", fb.calls)
	}
}

func TestHideRecordsExpectedUnmap(t *testing.T) {
	m, _, s := newTestManager(t)
	c := m.Adopt(AdoptParams{Window: 10, Screen: s, Geometry: platform.Rect{Width: 100, Height: 100}})
	if n := m.PendingUnmaps(c); n != 0 {
		t.Fatalf("pending unmaps after adopting unmapped window = %d, want 0", n)
	}

	m.Hide(c)
	m.Hide(c)
	if n := m.PendingUnmaps(c); n != 1 {
		t.Fatalf("pending unmaps = %d, want 1", n)
	}
	if !m.ConsumeUnmap(c) {
		t.Fatalf("first unmap not recognised as self-inflicted")
	}
	if m.ConsumeUnmap(c) {
		t.Fatalf("second unmap consumed a credit that does not exist")
	}
	if m.ConsumeUnmap(c) {
		t.Fatalf("ledger went negative")
	}
	m.Show(c)
	m.Hide(c)
	if !m.ConsumeUnmap(c) {
		t.Fatalf("credit lost after clamping at zero")
	}
}

func TestAdoptMappedWindowExpectsReparentUnmap(t *testing.T) {
	m, _, s := newTestManager(t)
	c := adopt(m, s, 10, platform.Rect{Width: 100, Height: 100})
	if !m.ConsumeUnmap(c) {
		t.Fatalf("reparent unmap not expected")
	}
}

func TestSwitchVdesk(t *testing.T) {
	m, fb, s := newTestManager(t)
	a := adopt(m, s, 10, platform.Rect{Width: 100, Height: 100})
	b := adopt(m, s, 11, platform.Rect{Width: 100, Height: 100})
	fixed := adopt(m, s, 12, platform.Rect{Width: 100, Height: 100})
	m.MoveToVdesk(b, 1)
	m.MoveToVdesk(fixed, VdeskFixed)
	m.Select(a)

	m.SwitchVdesk(s, 1)

	if s.Vdesk != 1 || s.OldVdesk != 0 {
		t.Fatalf("screen vdesk = %s (old %s), want 1 (old 0)", s.Vdesk, s.OldVdesk)
	}
	if a.State != platform.StateIconic {
		t.Fatalf("client on old vdesk state = %s", a.State)
	}
	if b.State != platform.StateNormal {
		t.Fatalf("client on new vdesk state = %s", b.State)
	}
	if fixed.State != platform.StateNormal {
		t.Fatalf("fixed client state = %s", fixed.State)
	}
	if m.Current() != nil {
		t.Fatalf("hidden client still current")
	}
	if fb.desk != 1 {
		t.Fatalf("_NET_CURRENT_DESKTOP = %d, want 1", fb.desk)
	}

	m.ToggleVdesk(s)
	if s.Vdesk != 0 || a.State != platform.StateNormal || b.State != platform.StateIconic {
		t.Fatalf("toggle back: vdesk %s, a %s, b %s", s.Vdesk, a.State, b.State)
	}

	m.SwitchVdesk(s, VdeskFixed)
	m.SwitchVdesk(s, 17)
	if s.Vdesk != 0 {
		t.Fatalf("invalid switch changed vdesk to %s", s.Vdesk)
	}

	m.PrevVdesk(s)
	if s.Vdesk != 3 {
		t.Fatalf("PrevVdesk from 0 = %s, want 3", s.Vdesk)
	}
	m.NextVdesk(s)
	if s.Vdesk != 0 {
		t.Fatalf("NextVdesk from 3 = %s, want 0", s.Vdesk)
	}
}

func TestDocksFollowVisibilityNotVdesk(t *testing.T) {
	m, fb, s := newTestManager(t)
	fb.types[20] = []string{platform.WindowTypeDock}
	dock := adopt(m, s, 20, platform.Rect{Width: 1920, Height: 20})
	if !dock.IsDock || !dock.IsFixed() {
		t.Fatalf("dock = %+v, want dock on every vdesk", dock)
	}

	m.SwitchVdesk(s, 2)
	if dock.State != platform.StateNormal {
		t.Fatalf("dock hidden by vdesk switch")
	}
	m.SetDocksVisible(s, false)
	if dock.State != platform.StateIconic {
		t.Fatalf("dock state = %s after hiding docks", dock.State)
	}
	m.SetDocksVisible(s, true)
	if dock.State != platform.StateNormal {
		t.Fatalf("dock state = %s after showing docks", dock.State)
	}
}

func TestToggleFixed(t *testing.T) {
	m, _, s := newTestManager(t)
	c := adopt(m, s, 10, platform.Rect{Width: 100, Height: 100})
	m.SwitchVdesk(s, 1)
	m.MoveToVdesk(c, 1)

	m.ToggleFixed(c)
	if !c.IsFixed() {
		t.Fatalf("client not fixed after toggle")
	}
	m.ToggleFixed(c)
	if c.Vdesk != 1 {
		t.Fatalf("unfixed client vdesk = %s, want active vdesk 1", c.Vdesk)
	}
}

func TestMoveToVdeskFixedShowsHiddenDock(t *testing.T) {
	m, _, s := newTestManager(t)
	dock := m.Adopt(AdoptParams{
		Window:    20,
		Screen:    s,
		Geometry:  platform.Rect{Width: 1920, Height: 20},
		Mapped:    true,
		Placement: &Placement{Dock: true},
	})
	m.SetDocksVisible(s, false)
	if dock.State != platform.StateIconic {
		t.Fatalf("dock state = %s after hiding docks, want iconic", dock.State)
	}

	m.MoveToVdesk(dock, VdeskFixed)
	if dock.State != platform.StateNormal {
		t.Fatalf("dock state after move to fixed = %s, want normal", dock.State)
	}
}

func TestMoveToVdeskPublishesHiddenState(t *testing.T) {
	m, fb, s := newTestManager(t)
	moved := adopt(m, s, 10, platform.Rect{Width: 100, Height: 100})
	other := adopt(m, s, 11, platform.Rect{Width: 100, Height: 100})
	m.Select(other)

	m.MoveToVdesk(moved, 2)
	if !slices.Contains(fb.netState[10], platform.NetStateHidden) {
		t.Fatalf("_NET_WM_STATE = %v, want %s", fb.netState[10], platform.NetStateHidden)
	}

	m.MoveToVdesk(moved, 0)
	if slices.Contains(fb.netState[10], platform.NetStateHidden) {
		t.Fatalf("_NET_WM_STATE = %v after moving back, want no %s", fb.netState[10], platform.NetStateHidden)
	}
}
