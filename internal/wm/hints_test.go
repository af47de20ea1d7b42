package wm

import (
	"testing"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

func TestDeriveHints(t *testing.T) {
	tests := []struct {
		name string
		raw  platform.RawSizeHints
		want SizeHints
	}{
		{
			name: "absent",
			raw:  platform.RawSizeHints{},
			want: SizeHints{MinWidth: 1, MinHeight: 1, WidthInc: 1, HeightInc: 1, GravityHint: NorthWest, Gravity: NorthWest},
		},
		{
			name: "min only",
			raw:  platform.RawSizeHints{Flags: platform.HintPMinSize, MinWidth: 50, MinHeight: 50},
			want: SizeHints{MinWidth: 50, MinHeight: 50, BaseWidth: 50, BaseHeight: 50, WidthInc: 1, HeightInc: 1, GravityHint: NorthWest, Gravity: NorthWest},
		},
		{
			name: "zero increment",
			raw:  platform.RawSizeHints{Flags: platform.HintPResizeInc, WidthInc: 0, HeightInc: 0},
			want: SizeHints{MinWidth: 1, MinHeight: 1, WidthInc: 1, HeightInc: 1, GravityHint: NorthWest, Gravity: NorthWest},
		},
		{
			name: "terminal",
			raw: platform.RawSizeHints{
				Flags:     platform.HintPBaseSize | platform.HintPResizeInc | platform.HintPWinGravity,
				BaseWidth: 4, BaseHeight: 4, WidthInc: 6, HeightInc: 13, WinGravity: int(SouthEast),
			},
			want: SizeHints{MinWidth: 10, MinHeight: 17, BaseWidth: 4, BaseHeight: 4, WidthInc: 6, HeightInc: 13, GravityHint: SouthEast, Gravity: SouthEast},
		},
		{
			name: "max and bogus gravity",
			raw: platform.RawSizeHints{
				Flags:    platform.HintPMaxSize | platform.HintPWinGravity,
				MaxWidth: 800, MaxHeight: 600, WinGravity: 42,
			},
			want: SizeHints{MinWidth: 1, MinHeight: 1, MaxWidth: 800, MaxHeight: 600, WidthInc: 1, HeightInc: 1, GravityHint: NorthWest, Gravity: NorthWest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveHints(tt.raw)
			if got != tt.want {
				t.Fatalf("DeriveHints() = %+v, want %+v", got, tt.want)
			}
			if got.WidthInc == 0 || got.HeightInc == 0 {
				t.Fatalf("zero increment in %+v", got)
			}
			if got.MinWidth < got.WidthInc || got.MinHeight < got.HeightInc {
				t.Fatalf("min below increment in %+v", got)
			}
		})
	}
}

func TestSizeHintsConstrain(t *testing.T) {
	h := DeriveHints(platform.RawSizeHints{
		Flags:     platform.HintPBaseSize | platform.HintPResizeInc | platform.HintPMaxSize,
		BaseWidth: 4, BaseHeight: 4, WidthInc: 6, HeightInc: 13,
		MaxWidth: 400, MaxHeight: 300,
	})

	w, ht := h.Constrain(100, 100)
	if w != 100 || ht != 95 {
		t.Fatalf("Constrain(100, 100) = (%d, %d), want (100, 95)", w, ht)
	}
	w, ht = h.Constrain(1, 1)
	if w != h.MinWidth || ht != h.MinHeight {
		t.Fatalf("Constrain(1, 1) = (%d, %d), want min (%d, %d)", w, ht, h.MinWidth, h.MinHeight)
	}
	w, ht = h.Constrain(5000, 5000)
	if w > 400 || ht > 300 {
		t.Fatalf("Constrain(5000, 5000) = (%d, %d), exceeds max", w, ht)
	}
}

func steppedHints(flags platform.HintFlags, minSize, maxSize, inc int) platform.RawSizeHints {
	return platform.RawSizeHints{
		Flags:     flags | platform.HintPMinSize | platform.HintPResizeInc,
		MinWidth:  minSize,
		MinHeight: minSize,
		MaxWidth:  maxSize,
		MaxHeight: maxSize,
		WidthInc:  inc,
		HeightInc: inc,
	}
}

func TestSizeHintsConstrainNeverBelowMin(t *testing.T) {
	tests := []struct {
		name   string
		raw    platform.RawSizeHints
		width  int
		height int
		wantW  int
		wantH  int
	}{
		{
			name:   "min not a step above base",
			raw:    steppedHints(platform.HintPBaseSize, 10, 0, 7),
			width:  10,
			height: 10,
			wantW:  14,
			wantH:  14,
		},
		{
			name:   "request between steps rounds down",
			raw:    steppedHints(platform.HintPBaseSize, 10, 0, 7),
			width:  27,
			height: 20,
			wantW:  21,
			wantH:  14,
		},
		{
			name:   "max wins over min rounding",
			raw:    steppedHints(platform.HintPBaseSize|platform.HintPMaxSize, 10, 12, 7),
			width:  50,
			height: 50,
			wantW:  12,
			wantH:  12,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := DeriveHints(tt.raw)
			w, ht := h.Constrain(tt.width, tt.height)
			if w != tt.wantW || ht != tt.wantH {
				t.Fatalf("Constrain(%d, %d) = (%d, %d), want (%d, %d)", tt.width, tt.height, w, ht, tt.wantW, tt.wantH)
			}
		})
	}
}
