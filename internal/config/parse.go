package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Geometry is a parsed X geometry string of the form [=][WxH][{+-}X{+-}Y].
// Absent parts leave the corresponding Has* flag false.
type Geometry struct {
	Width, Height       int
	X, Y                int
	HasWidth, HasHeight bool
	HasX, HasY          bool
	// XNegative and YNegative mark offsets measured from the right and
	// bottom screen edges.
	XNegative, YNegative bool
}

// ParseGeometry parses s with XParseGeometry semantics.
func ParseGeometry(s string) (Geometry, error) {
	var g Geometry
	rest := strings.TrimPrefix(strings.TrimSpace(s), "=")
	if rest == "" {
		return g, fmt.Errorf("geometry %q is empty", s)
	}

	if rest[0] != '+' && rest[0] != '-' && rest[0] != 'x' && rest[0] != 'X' {
		n, tail, ok := leadingUint(rest)
		if !ok {
			return g, fmt.Errorf("geometry %q: bad width", s)
		}
		g.Width, g.HasWidth = n, true
		rest = tail
	}
	if rest != "" && (rest[0] == 'x' || rest[0] == 'X') {
		n, tail, ok := leadingUint(rest[1:])
		if !ok {
			return g, fmt.Errorf("geometry %q: bad height", s)
		}
		g.Height, g.HasHeight = n, true
		rest = tail
	}
	if rest != "" {
		x, neg, tail, err := signedOffset(rest)
		if err != nil {
			return g, fmt.Errorf("geometry %q: x offset: %w", s, err)
		}
		g.X, g.HasX, g.XNegative = x, true, neg
		rest = tail
		if rest != "" {
			y, neg, tail, err := signedOffset(rest)
			if err != nil {
				return g, fmt.Errorf("geometry %q: y offset: %w", s, err)
			}
			g.Y, g.HasY, g.YNegative = y, true, neg
			rest = tail
		}
	}
	if rest != "" {
		return g, fmt.Errorf("geometry %q: trailing %q", s, rest)
	}
	if (g.HasWidth && g.Width == 0) || (g.HasHeight && g.Height == 0) {
		return g, fmt.Errorf("geometry %q: zero size", s)
	}
	return g, nil
}

// Apply overrides the given window geometry with the parsed parts.
// Negative offsets are resolved against the screen size, allowing for a
// border of border pixels on each side.
func (g Geometry) Apply(x, y, width, height, screenW, screenH, border int) (int, int, int, int) {
	if g.HasWidth {
		width = g.Width
	}
	if g.HasHeight {
		height = g.Height
	}
	if g.HasX {
		x = g.X
		if g.XNegative {
			x = screenW + g.X - width - 2*border
		}
	}
	if g.HasY {
		y = g.Y
		if g.YNegative {
			y = screenH + g.Y - height - 2*border
		}
	}
	return x, y, width, height
}

func leadingUint(s string) (int, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s, false
	}
	return n, s[i:], true
}

func signedOffset(s string) (int, bool, string, error) {
	if s[0] != '+' && s[0] != '-' {
		return 0, false, s, fmt.Errorf("expected + or -, got %q", s[:1])
	}
	neg := s[0] == '-'
	n, tail, ok := leadingUint(s[1:])
	if !ok {
		return 0, false, s, fmt.Errorf("missing digits")
	}
	if neg {
		n = -n
	}
	return n, neg, tail, nil
}

var modifierNames = map[string]string{
	"shift":   "Shift",
	"lock":    "Lock",
	"control": "Control",
	"ctrl":    "Control",
	"mod1":    "Mod1",
	"alt":     "Mod1",
	"mod2":    "Mod2",
	"mod3":    "Mod3",
	"mod4":    "Mod4",
	"super":   "Mod4",
	"mod5":    "Mod5",
}

// ParseModifiers turns a list like "control+alt" into keybind notation
// ("Control-Mod1"). Names may be separated by '+', '-' or ','. Duplicates
// are dropped and the first spelling's order kept.
func ParseModifiers(s string) (string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '+' || r == '-' || r == ',' || r == ' '
	})
	if len(fields) == 0 {
		return "", fmt.Errorf("no modifiers in %q", s)
	}
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		name, ok := modifierNames[strings.ToLower(f)]
		if !ok {
			return "", fmt.Errorf("unknown modifier %q", f)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return strings.Join(out, "-"), nil
}

// ParseColor parses #rrggbb or #rgb into a 24-bit TrueColor pixel.
func ParseColor(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok {
		return 0, fmt.Errorf("color %q must start with #", s)
	}
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return 0, fmt.Errorf("color %q must be #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return uint32(v), nil
}
