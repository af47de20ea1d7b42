package wm

import (
	"slices"
	"strings"
	"testing"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

func TestWithdrawCurrentClient(t *testing.T) {
	m, fb, s := newTestManager(t)
	keep := adopt(m, s, 11, platform.Rect{Width: 100, Height: 100})
	c := adopt(m, s, 10, platform.Rect{X: 100, Y: 50, Width: 400, Height: 300})
	m.Select(c)
	frame := c.Parent
	fb.reset()

	m.Withdraw(c)

	focus := fb.index("focus-root")
	remove := fb.index("remove-desktop-state 10")
	if focus < 0 || remove < 0 || focus > remove {
		t.Fatalf("focus must be cleared before extended state removal: %v", fb.calls)
	}
	if fb.wmState[10] != platform.StateWithdrawn {
		t.Fatalf("WM_STATE = %s, want withdrawn", fb.wmState[10])
	}
	if _, ok := fb.desktop[10]; ok {
		t.Fatalf("_NET_WM_DESKTOP left on withdrawn window")
	}
	if m.Find(10) != nil || m.Registry().Contains(c.Handle()) {
		t.Fatalf("withdrawn client still registered")
	}
	if !equalIDs(fb.clientList, []platform.WindowID{11}) || !equalIDs(fb.stackingList, []platform.WindowID{11}) {
		t.Fatalf("client lists = %v / %v, want [11]", fb.clientList, fb.stackingList)
	}
	if m.Current() != nil || fb.active != platform.None {
		t.Fatalf("selection not cleared: current=%v active=%d", m.Current(), fb.active)
	}
	if !fb.destroyed[frame] {
		t.Fatalf("frame %d not destroyed", frame)
	}
	if fb.parent[10] != testRoot || fb.saveSet[10] {
		t.Fatalf("window not handed back: parent=%d saveset=%v", fb.parent[10], fb.saveSet[10])
	}
	if c.State != platform.StateWithdrawn {
		t.Fatalf("client state = %s", c.State)
	}
	if !m.Registry().Live(keep) {
		t.Fatalf("unrelated client torn down")
	}
}

func TestShutdownLeavesStateProperties(t *testing.T) {
	m, fb, s := newTestManager(t)
	c := adopt(m, s, 10, platform.Rect{X: 100, Y: 50, Width: 400, Height: 300})
	m.MoveToVdesk(c, 0)
	m.Select(c)
	fb.reset()

	m.Shutdown(c)

	if fb.wmState[10] != platform.StateNormal {
		t.Fatalf("WM_STATE = %s after shutdown, want normal", fb.wmState[10])
	}
	if d, ok := fb.desktop[10]; !ok || d != 0 {
		t.Fatalf("_NET_WM_DESKTOP = %d (present %v), want 0", d, ok)
	}
	if _, ok := fb.allowed[10]; ok {
		t.Fatalf("allowed actions survived shutdown")
	}
	if fb.count("wmstate ") != 0 || fb.count("remove-desktop-state") != 0 {
		t.Fatalf("shutdown touched state properties: %v", fb.calls)
	}
	if fb.count("clientlist ") != 0 {
		t.Fatalf("shutdown republished client list: %v", fb.calls)
	}
	if m.Find(10) != nil {
		t.Fatalf("client still registered after shutdown")
	}
}

func TestTeardownRestoresOriginalPosition(t *testing.T) {
	for g := NorthWest; g <= SouthEast; g++ {
		m, fb, s := newTestManager(t)
		fb.hints[10] = platform.RawSizeHints{Flags: platform.HintPWinGravity, WinGravity: int(g)}
		c := m.Adopt(AdoptParams{
			Window:   10,
			Screen:   s,
			Geometry: platform.Rect{X: 100, Y: 50, Width: 400, Height: 300},
			Border:   3,
			Mapped:   true,
		})
		m.Withdraw(c)
		if pos := fb.position[10]; pos != [2]int{100, 50} {
			t.Fatalf("gravity %s: window returned at %v, want [100 50]", g, pos)
		}
		if !slices.Contains(fb.calls, "borderwidth 10 3") {
			t.Fatalf("gravity %s: original border not restored: %v", g, fb.calls)
		}
	}
}

func TestTeardownRunsUnderGrabAndSuppression(t *testing.T) {
	m, fb, s := newTestManager(t)
	c := adopt(m, s, 10, platform.Rect{Width: 100, Height: 100})
	fb.reset()

	m.Withdraw(c)

	if fb.calls[0] != "grab" {
		t.Fatalf("first call = %q, want grab", fb.calls[0])
	}
	if last := fb.calls[len(fb.calls)-1]; last != "ungrab" {
		t.Fatalf("last call = %q, want ungrab", last)
	}
	if fb.index("sync") > fb.index("ungrab") {
		t.Fatalf("sync after ungrab: %v", fb.calls)
	}
	for _, call := range fb.unsuppCalls {
		if call != "grab" {
			t.Fatalf("%q issued outside error suppression", call)
		}
	}
	if fb.suppressed != 0 || fb.grabbed != 0 {
		t.Fatalf("suppression=%d grab=%d leaked past teardown", fb.suppressed, fb.grabbed)
	}
}

func TestStaleClientIsIgnored(t *testing.T) {
	m, fb, s := newTestManager(t)
	c := adopt(m, s, 10, platform.Rect{Width: 100, Height: 100})
	m.Withdraw(c)
	fb.reset()

	m.Withdraw(c)
	m.Shutdown(c)
	m.Show(c)
	m.Hide(c)
	m.Raise(c)
	m.MoveToVdesk(c, 1)
	m.Close(c, true)

	for _, call := range fb.calls {
		if strings.Contains(call, " 10") {
			t.Fatalf("stale client reached the backend: %v", fb.calls)
		}
	}

	// A new client reusing the slot must not be affected by the old pointer.
	n := adopt(m, s, 12, platform.Rect{Width: 100, Height: 100})
	m.Withdraw(c)
	if !m.Registry().Live(n) {
		t.Fatalf("stale withdraw tore down the slot's new client")
	}
}

func TestShutdownAll(t *testing.T) {
	m, fb, s := newTestManager(t)
	adopt(m, s, 10, platform.Rect{Width: 100, Height: 100})
	c := adopt(m, s, 11, platform.Rect{Width: 100, Height: 100})
	m.Select(c)

	m.ShutdownAll()

	if m.Registry().Len() != 0 {
		t.Fatalf("%d clients left after ShutdownAll", m.Registry().Len())
	}
	if len(fb.clientList) != 0 || len(fb.stackingList) != 0 {
		t.Fatalf("client lists not cleared: %v / %v", fb.clientList, fb.stackingList)
	}
	if fb.wmState[10] != platform.StateNormal || fb.wmState[11] != platform.StateNormal {
		t.Fatalf("shutdown changed WM_STATE: %v", fb.wmState)
	}
}
