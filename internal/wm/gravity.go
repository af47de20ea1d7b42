package wm

import "github.com/1broseidon/vdeskwm/internal/platform"

// Gravity is an ICCCM window gravity.
type Gravity int

const (
	NorthWest Gravity = 1
	North     Gravity = 2
	NorthEast Gravity = 3
	West      Gravity = 4
	Center    Gravity = 5
	East      Gravity = 6
	SouthWest Gravity = 7
	South     Gravity = 8
	SouthEast Gravity = 9
	Static    Gravity = 10
)

func (g Gravity) valid() bool { return g >= NorthWest && g <= Static }

var gravityNames = map[Gravity]string{
	NorthWest: "northwest",
	North:     "north",
	NorthEast: "northeast",
	West:      "west",
	Center:    "center",
	East:      "east",
	SouthWest: "southwest",
	South:     "south",
	SouthEast: "southeast",
	Static:    "static",
}

func (g Gravity) String() string {
	if name, ok := gravityNames[g]; ok {
		return name
	}
	return "unknown"
}

// GravityOffset returns the sign pattern of the gravity scaled by the border
// delta b. Anything outside the nine anchor gravities behaves as north-west.
func GravityOffset(g Gravity, b int) (dx, dy int) {
	switch g {
	case North:
		return 0, b
	case NorthEast:
		return -b, b
	case East:
		return -b, 0
	case Center:
		return 0, 0
	case West:
		return b, 0
	case SouthWest:
		return b, -b
	case South:
		return 0, -b
	case SouthEast:
		return -b, -b
	default:
		return b, b
	}
}

// ApplyGravity shifts r by the gravity offset for border delta b. An axis on
// which r already spans the whole screen from the origin is left alone.
func ApplyGravity(g Gravity, b int, r platform.Rect, screenWidth, screenHeight int) platform.Rect {
	dx, dy := GravityOffset(g, b)
	if r.X != 0 || r.Width != screenWidth {
		r.X += dx
	}
	if r.Y != 0 || r.Height != screenHeight {
		r.Y += dy
	}
	return r
}

// gravitate applies ApplyGravity to the client using its effective gravity
// and its screen's dimensions.
func (c *Client) gravitate(b int) {
	w, h := 0, 0
	if c.Screen != nil {
		w, h = c.Screen.Width, c.Screen.Height
	}
	r := ApplyGravity(c.Hints.Gravity, b, c.Rect(), w, h)
	c.X, c.Y = r.X, r.Y
}
