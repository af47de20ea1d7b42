package wm

import "github.com/1broseidon/vdeskwm/internal/platform"

// Colors are border pixels for the three highlight states.
type Colors struct {
	Focused   uint32
	Unfocused uint32
	Fixed     uint32
}

// Screen is one X screen under management.
type Screen struct {
	Index  int
	Root   platform.WindowID
	Width  int
	Height int

	// Monitors in enumeration order. Never empty.
	Monitors []platform.Rect

	Vdesk        Vdesk
	OldVdesk     Vdesk
	DocksVisible bool

	// Active mirrors the published _NET_ACTIVE_WINDOW.
	Active platform.WindowID

	Colors Colors
}

// NewScreen returns a screen showing vdesk 0. When monitors is empty the
// whole screen is used as the single monitor.
func NewScreen(index int, root platform.WindowID, width, height int, monitors []platform.Rect, colors Colors) *Screen {
	if len(monitors) == 0 {
		monitors = []platform.Rect{{Width: width, Height: height}}
	}
	return &Screen{
		Index:        index,
		Root:         root,
		Width:        width,
		Height:       height,
		Monitors:     monitors,
		Vdesk:        0,
		OldVdesk:     0,
		DocksVisible: true,
		Colors:       colors,
	}
}
