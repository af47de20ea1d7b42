package wm

import (
	"testing"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

func membership(r *Registry, h Handle) (cycle, mapping, stacking bool) {
	return indexOf(r.cycle, h) >= 0, indexOf(r.mapping, h) >= 0, indexOf(r.stacking, h) >= 0
}

func TestRegistryMembershipIsAllOrNothing(t *testing.T) {
	r := NewRegistry()
	var hs []Handle
	for i := 0; i < 6; i++ {
		hs = append(hs, r.Insert(&Client{Window: platform.WindowID(10 + i)}))
	}

	ops := []struct {
		remove bool
		idx    int
	}{
		{true, 2}, {true, 2}, {true, 0}, {false, 0}, {true, 5}, {true, 4}, {true, 5},
	}
	for step, op := range ops {
		if op.remove {
			r.Remove(hs[op.idx])
		} else {
			hs[op.idx] = r.Insert(&Client{Window: platform.WindowID(100 + step)})
		}
		for i, h := range hs {
			c, m, s := membership(r, h)
			if c != m || m != s {
				t.Fatalf("step %d: client %d membership cycle=%v mapping=%v stacking=%v", step, i, c, m, s)
			}
		}
	}
}

func TestRegistryRemoveNonMemberIsNoop(t *testing.T) {
	r := NewRegistry()
	a := r.Insert(&Client{Window: 1})
	b := r.Insert(&Client{Window: 2})
	r.Remove(a)
	r.Remove(a)
	r.Remove(Handle{})

	if got := len(r.Cycle()); got != 1 {
		t.Fatalf("len(Cycle()) = %d, want 1", got)
	}
	if !r.Contains(b) {
		t.Fatalf("remaining client dropped by repeated remove")
	}
}

func TestRegistryRaiseLower(t *testing.T) {
	r := NewRegistry()
	a := r.Insert(&Client{Window: 1})
	r.Insert(&Client{Window: 2})
	c := r.Insert(&Client{Window: 3})

	r.Raise(a)
	if got := windowsOf(r.Stacking()); !equalIDs(got, []platform.WindowID{2, 3, 1}) {
		t.Fatalf("stacking after raise = %v", got)
	}
	r.Lower(c)
	if got := windowsOf(r.Stacking()); !equalIDs(got, []platform.WindowID{3, 2, 1}) {
		t.Fatalf("stacking after lower = %v", got)
	}
	if got := windowsOf(r.Cycle()); !equalIDs(got, []platform.WindowID{1, 2, 3}) {
		t.Fatalf("cycle order changed by restacking: %v", got)
	}
}

func TestRegistryFindMatchesWindowOrParent(t *testing.T) {
	r := NewRegistry()
	r.Insert(&Client{Window: 10, Parent: 20})

	if c := r.Find(10); c == nil || c.Window != 10 {
		t.Fatalf("Find(window) = %v", c)
	}
	if c := r.Find(20); c == nil || c.Window != 10 {
		t.Fatalf("Find(parent) = %v", c)
	}
	if c := r.Find(30); c != nil {
		t.Fatalf("Find(unknown) = %v, want nil", c)
	}
	if c := r.Find(platform.None); c != nil {
		t.Fatalf("Find(None) = %v, want nil", c)
	}
}

func TestArenaRejectsStaleHandles(t *testing.T) {
	r := NewRegistry()
	old := &Client{Window: 1}
	h := r.Insert(old)
	r.Remove(h)
	r.release(h)

	if _, ok := r.Get(h); ok {
		t.Fatalf("released handle still resolves")
	}
	if r.Live(old) {
		t.Fatalf("released client still live")
	}

	h2 := r.Insert(&Client{Window: 2})
	if h2.index != h.index {
		t.Fatalf("slot not reused: %d vs %d", h2.index, h.index)
	}
	if h2 == h {
		t.Fatalf("reused slot kept the same generation")
	}
	if _, ok := r.Get(h); ok {
		t.Fatalf("stale handle resolves to the slot's new client")
	}
}

func TestRegistryCurrentClearedOnRelease(t *testing.T) {
	r := NewRegistry()
	c := &Client{Window: 1}
	h := r.Insert(c)
	r.setCurrent(c)
	if r.Current() != c {
		t.Fatalf("Current() = %v, want %v", r.Current(), c)
	}
	r.Remove(h)
	r.release(h)
	if r.Current() != nil {
		t.Fatalf("Current() = %v after release, want nil", r.Current())
	}
}

func windowsOf(cs []*Client) []platform.WindowID {
	out := make([]platform.WindowID, len(cs))
	for i, c := range cs {
		out[i] = c.Window
	}
	return out
}

func equalIDs(a, b []platform.WindowID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
