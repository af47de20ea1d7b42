package wm

import (
	"fmt"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

// Vdesk is a virtual desktop index, or one of the sentinels VdeskNone and
// VdeskFixed.
type Vdesk uint32

const (
	// VdeskNone marks a client that has not been assigned a desktop yet.
	VdeskNone Vdesk = 0xfffffffe
	// VdeskFixed marks a client visible on every desktop.
	VdeskFixed Vdesk = 0xffffffff
)

func (v Vdesk) String() string {
	switch v {
	case VdeskNone:
		return "none"
	case VdeskFixed:
		return "fixed"
	default:
		return fmt.Sprintf("%d", uint32(v))
	}
}

// Client is a managed top-level window.
type Client struct {
	handle Handle

	Window platform.WindowID
	Parent platform.WindowID

	X, Y          int
	Width, Height int

	// Border is the frame border width; OldBorder the window's own border
	// width before it was managed.
	Border    int
	OldBorder int

	Hints    SizeHints
	Colormap uint32

	Screen *Screen
	Vdesk  Vdesk
	IsDock bool

	State platform.WMState

	// remove is set while tearing down a client that is being withdrawn.
	remove bool
}

// Handle returns the registry handle of the client.
func (c *Client) Handle() Handle { return c.handle }

// IsFixed reports whether the client is shown on every vdesk.
func (c *Client) IsFixed() bool { return c.Vdesk == VdeskFixed }

// Rect returns the client window geometry.
func (c *Client) Rect() platform.Rect {
	return platform.Rect{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height}
}

// frameRect is the parent geometry: the client sits at (0,0) inside a frame
// whose border surrounds it.
func (c *Client) frameRect() platform.Rect {
	return platform.Rect{X: c.X - c.Border, Y: c.Y - c.Border, Width: c.Width, Height: c.Height}
}

// visibleOn reports whether the client belongs on the screen's active vdesk.
func (c *Client) visibleOn(s *Screen) bool {
	if c.IsDock {
		return s.DocksVisible
	}
	return c.Vdesk == VdeskFixed || c.Vdesk == s.Vdesk
}

func (c *Client) String() string {
	return fmt.Sprintf("client(0x%x)", uint32(c.Window))
}
