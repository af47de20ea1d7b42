package wm

import (
	"testing"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

func TestResolveMonitor(t *testing.T) {
	left := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}

	tests := []struct {
		name     string
		x, y     int
		monitors []platform.Rect
		want     int
	}{
		{"inside first only", 500, 500, []platform.Rect{left, right}, 0},
		{"inside second", 2000, 100, []platform.Rect{left, right}, 1},
		{"right edge is exclusive", 1920, 10, []platform.Rect{left, right}, 1},
		{"gap falls back to first", 2000, 1050, []platform.Rect{left, right}, 0},
		{"negative falls back to first", -10, -10, []platform.Rect{left, right}, 0},
		{"empty list", 10, 10, nil, 0},
	}
	for _, tt := range tests {
		if got := ResolveMonitor(tt.x, tt.y, tt.monitors); got != tt.want {
			t.Fatalf("%s: ResolveMonitor(%d, %d) = %d, want %d", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

// Overlapping monitors resolve by enumeration order, so the same point maps
// to whichever monitor is listed first.
func TestResolveMonitorFirstMatchIsOrderDependent(t *testing.T) {
	big := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	clone := platform.Rect{X: 0, Y: 0, Width: 1280, Height: 720}

	if got := ResolveMonitor(100, 100, []platform.Rect{big, clone}); got != 0 {
		t.Fatalf("big first: got %d, want 0", got)
	}
	if got := ResolveMonitor(100, 100, []platform.Rect{clone, big}); got != 0 {
		t.Fatalf("clone first: got %d, want 0", got)
	}
	if got := ResolveMonitor(1500, 100, []platform.Rect{clone, big}); got != 1 {
		t.Fatalf("outside clone: got %d, want 1", got)
	}
}

func TestManagerMonitorUsesClientCentre(t *testing.T) {
	m, _, s := newTestManager(t)
	s.Monitors = []platform.Rect{
		{X: 0, Y: 0, Width: 960, Height: 1080},
		{X: 960, Y: 0, Width: 960, Height: 1080},
	}
	// Mostly on the right half.
	c := adopt(m, s, 10, platform.Rect{X: 800, Y: 100, Width: 600, Height: 400})
	if got := m.Monitor(c); got != s.Monitors[1] {
		t.Fatalf("Monitor() = %+v, want %+v", got, s.Monitors[1])
	}
}
