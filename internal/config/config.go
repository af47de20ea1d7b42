package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultVdesks      = 8
	MaxVdesks          = 1024
	DefaultBorderWidth = 1
	DefaultTerminal    = "xterm"
)

// Binding actions. Each action maps to a key name; the modifiers come from
// the modifiers section.
const (
	ActionSpawn       = "spawn"
	ActionClose       = "close"
	ActionLower       = "lower"
	ActionRaise       = "raise"
	ActionFix         = "fix"
	ActionNext        = "next"
	ActionVdeskNext   = "vdesk_next"
	ActionVdeskPrev   = "vdesk_prev"
	ActionVdeskToggle = "vdesk_toggle"
	ActionDocks       = "docks"
)

// DefaultBindings returns the key for every known action.
func DefaultBindings() map[string]string {
	return map[string]string{
		ActionSpawn:       "Return",
		ActionClose:       "Escape",
		ActionLower:       "Insert",
		ActionRaise:       "Home",
		ActionFix:         "f",
		ActionNext:        "Tab",
		ActionVdeskNext:   "Right",
		ActionVdeskPrev:   "Left",
		ActionVdeskToggle: "a",
		ActionDocks:       "d",
	}
}

// Colors holds border colours as #rrggbb strings.
type Colors struct {
	Focused   string `yaml:"focused"`
	Unfocused string `yaml:"unfocused"`
	Fixed     string `yaml:"fixed"`
}

// Modifiers holds the three modifier masks in keybind notation.
type Modifiers struct {
	// Primary is combined with most bindings and with pointer drags.
	Primary string `yaml:"primary"`
	// Secondary is used for cycling.
	Secondary string `yaml:"secondary"`
	// Alternate, added to Primary, turns close into a forced kill.
	Alternate string `yaml:"alternate"`
}

// Application is a placement rule applied when a window is adopted.
type Application struct {
	Name     string
	Class    string
	Geometry string
	Dock     bool
	// Vdesk is nil when the rule does not pin a vdesk.
	Vdesk *int
	Fixed bool
}

// MarshalYAML writes the rule in the same shape the loader reads.
func (a Application) MarshalYAML() (any, error) {
	out := struct {
		Name     string      `yaml:"name,omitempty"`
		Class    string      `yaml:"class,omitempty"`
		Geometry string      `yaml:"geometry,omitempty"`
		Dock     bool        `yaml:"dock,omitempty"`
		Vdesk    *VdeskValue `yaml:"vdesk,omitempty"`
	}{Name: a.Name, Class: a.Class, Geometry: a.Geometry, Dock: a.Dock}
	switch {
	case a.Fixed:
		out.Vdesk = &VdeskValue{Fixed: true}
	case a.Vdesk != nil:
		out.Vdesk = &VdeskValue{Index: *a.Vdesk}
	}
	return out, nil
}

// Config is the effective configuration.
type Config struct {
	Display      string            `yaml:"display,omitempty"`
	BorderWidth  int               `yaml:"border_width"`
	Snap         int               `yaml:"snap"`
	Vdesks       int               `yaml:"vdesks"`
	Colors       Colors            `yaml:"colors"`
	Terminal     string            `yaml:"terminal"`
	Modifiers    Modifiers         `yaml:"modifiers"`
	Bindings     map[string]string `yaml:"bindings"`
	Applications []Application     `yaml:"applications,omitempty"`
	LogLevel     string            `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		BorderWidth: DefaultBorderWidth,
		Snap:        0,
		Vdesks:      DefaultVdesks,
		Colors: Colors{
			Focused:   "#ffd700",
			Unfocused: "#7f7f7f",
			Fixed:     "#0000ff",
		},
		Terminal: DefaultTerminal,
		Modifiers: Modifiers{
			Primary:   "Control-Mod1",
			Secondary: "Mod1",
			Alternate: "Shift",
		},
		Bindings: DefaultBindings(),
		LogLevel: "info",
	}
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Pixels returns the border colours as pixel values.
func (c *Config) Pixels() (focused, unfocused, fixed uint32, err error) {
	if focused, err = ParseColor(c.Colors.Focused); err != nil {
		return 0, 0, 0, err
	}
	if unfocused, err = ParseColor(c.Colors.Unfocused); err != nil {
		return 0, 0, 0, err
	}
	if fixed, err = ParseColor(c.Colors.Fixed); err != nil {
		return 0, 0, 0, err
	}
	return focused, unfocused, fixed, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if c.Snap < 0 {
		return &ValidationError{Path: "snap", Err: fmt.Errorf("snap must be >= 0")}
	}
	if c.Vdesks < 1 || c.Vdesks > MaxVdesks {
		return &ValidationError{Path: "vdesks", Err: fmt.Errorf("vdesks must be between 1 and %d", MaxVdesks)}
	}
	for path, value := range map[string]string{
		"colors.focused":   c.Colors.Focused,
		"colors.unfocused": c.Colors.Unfocused,
		"colors.fixed":     c.Colors.Fixed,
	} {
		if _, err := ParseColor(value); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}
	if strings.TrimSpace(c.Terminal) == "" {
		return &ValidationError{Path: "terminal", Err: fmt.Errorf("terminal must not be empty")}
	}
	for path, value := range map[string]string{
		"modifiers.primary":   c.Modifiers.Primary,
		"modifiers.secondary": c.Modifiers.Secondary,
		"modifiers.alternate": c.Modifiers.Alternate,
	} {
		if _, err := ParseModifiers(value); err != nil {
			return &ValidationError{Path: path, Err: err}
		}
	}

	known := DefaultBindings()
	for _, action := range sortedKeys(c.Bindings) {
		if _, ok := known[action]; !ok {
			return &ValidationError{Path: "bindings." + action, Err: fmt.Errorf("unknown action %q", action)}
		}
		if strings.TrimSpace(c.Bindings[action]) == "" {
			return &ValidationError{Path: "bindings." + action, Err: fmt.Errorf("key must not be empty")}
		}
	}

	for i, app := range c.Applications {
		path := fmt.Sprintf("applications.%d", i)
		if app.Name == "" && app.Class == "" {
			return &ValidationError{Path: path, Err: fmt.Errorf("rule needs a name or a class")}
		}
		if app.Geometry != "" {
			if _, err := ParseGeometry(app.Geometry); err != nil {
				return &ValidationError{Path: path + ".geometry", Err: err}
			}
		}
		if app.Vdesk != nil && (*app.Vdesk < 0 || *app.Vdesk >= c.Vdesks) {
			return &ValidationError{Path: path + ".vdesk", Err: fmt.Errorf("vdesk %d out of range 0..%d", *app.Vdesk, c.Vdesks-1)}
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
