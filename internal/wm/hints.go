package wm

import "github.com/1broseidon/vdeskwm/internal/platform"

// SizeHints are WM_NORMAL_HINTS after defaulting. Increments are never zero.
type SizeHints struct {
	MinWidth, MinHeight   int
	MaxWidth, MaxHeight   int // zero means unconstrained
	BaseWidth, BaseHeight int
	WidthInc, HeightInc   int

	// GravityHint is what the client asked for; Gravity is what the manager
	// applies.
	GravityHint Gravity
	Gravity     Gravity
}

// DeriveHints resolves raw size hints. Defaults are applied in a fixed order:
// base falls back to min, increments to 1, and an absent min is recomputed
// from the resolved base and increment.
func DeriveHints(raw platform.RawSizeHints) SizeHints {
	var h SizeHints
	hasMin := raw.Flags&platform.HintPMinSize != 0
	if hasMin {
		h.MinWidth, h.MinHeight = raw.MinWidth, raw.MinHeight
	}
	if raw.Flags&platform.HintPMaxSize != 0 {
		h.MaxWidth, h.MaxHeight = raw.MaxWidth, raw.MaxHeight
	}
	if raw.Flags&platform.HintPBaseSize != 0 {
		h.BaseWidth, h.BaseHeight = raw.BaseWidth, raw.BaseHeight
	} else {
		h.BaseWidth, h.BaseHeight = h.MinWidth, h.MinHeight
	}
	h.WidthInc, h.HeightInc = 1, 1
	if raw.Flags&platform.HintPResizeInc != 0 {
		if raw.WidthInc > 0 {
			h.WidthInc = raw.WidthInc
		}
		if raw.HeightInc > 0 {
			h.HeightInc = raw.HeightInc
		}
	}
	if !hasMin {
		h.MinWidth = h.BaseWidth + h.WidthInc
		h.MinHeight = h.BaseHeight + h.HeightInc
	}
	h.MinWidth = max(h.MinWidth, h.WidthInc)
	h.MinHeight = max(h.MinHeight, h.HeightInc)

	h.GravityHint = NorthWest
	if raw.Flags&platform.HintPWinGravity != 0 {
		if g := Gravity(raw.WinGravity); g.valid() {
			h.GravityHint = g
		}
	}
	h.Gravity = h.GravityHint
	return h
}

// Constrain clamps a requested size to the hints: at least min, at most max
// when set, and a whole number of increments above base.
func (h SizeHints) Constrain(width, height int) (int, int) {
	return constrainAxis(width, h.MinWidth, h.MaxWidth, h.BaseWidth, h.WidthInc),
		constrainAxis(height, h.MinHeight, h.MaxHeight, h.BaseHeight, h.HeightInc)
}

// constrainAxis snaps v down to base + n*inc, stepping back up one increment
// if that fell below lo. A set maximum always wins.
func constrainAxis(v, lo, hi, base, inc int) int {
	v = max(v, lo)
	if hi > 0 {
		v = min(v, hi)
	}
	if v > base {
		v -= (v - base) % inc
		if v < lo {
			v += inc
		}
	}
	if hi > 0 {
		v = min(v, hi)
	}
	return v
}
