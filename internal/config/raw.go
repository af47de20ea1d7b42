package config

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// VdeskValue accepts either a vdesk number or the string "fixed".
type VdeskValue struct {
	Index int
	Fixed bool
}

func (v *VdeskValue) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("vdesk must be a number or \"fixed\"")
	}
	if value.Value == "fixed" {
		*v = VdeskValue{Fixed: true}
		return nil
	}
	n, err := strconv.Atoi(value.Value)
	if err != nil {
		return fmt.Errorf("vdesk must be a number or \"fixed\", got %q", value.Value)
	}
	*v = VdeskValue{Index: n}
	return nil
}

func (v VdeskValue) MarshalYAML() (any, error) {
	if v.Fixed {
		return "fixed", nil
	}
	return v.Index, nil
}

type RawColors struct {
	Focused   *string `yaml:"focused"`
	Unfocused *string `yaml:"unfocused"`
	Fixed     *string `yaml:"fixed"`
}

type RawModifiers struct {
	Primary   *string `yaml:"primary"`
	Secondary *string `yaml:"secondary"`
	Alternate *string `yaml:"alternate"`
}

type RawApplication struct {
	Name     string      `yaml:"name"`
	Class    string      `yaml:"class"`
	Geometry string      `yaml:"geometry"`
	Dock     bool        `yaml:"dock"`
	Vdesk    *VdeskValue `yaml:"vdesk"`
}

type RawConfig struct {
	Include      IncludeList       `yaml:"include"`
	Display      *string           `yaml:"display"`
	BorderWidth  *int              `yaml:"border_width"`
	Snap         *int              `yaml:"snap"`
	Vdesks       *int              `yaml:"vdesks"`
	Colors       *RawColors        `yaml:"colors"`
	Terminal     *string           `yaml:"terminal"`
	Modifiers    *RawModifiers     `yaml:"modifiers"`
	Bindings     map[string]string `yaml:"bindings"`
	Applications []RawApplication  `yaml:"applications"`
	LogLevel     *string           `yaml:"log_level"`
}

// merge overlays non-nil fields. Bindings merge per action; applications
// from the overlay are appended so earlier files keep rule precedence.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.BorderWidth != nil {
		out.BorderWidth = overlay.BorderWidth
	}
	if overlay.Snap != nil {
		out.Snap = overlay.Snap
	}
	if overlay.Vdesks != nil {
		out.Vdesks = overlay.Vdesks
	}
	if overlay.Colors != nil {
		colors := RawColors{}
		if out.Colors != nil {
			colors = *out.Colors
		}
		if overlay.Colors.Focused != nil {
			colors.Focused = overlay.Colors.Focused
		}
		if overlay.Colors.Unfocused != nil {
			colors.Unfocused = overlay.Colors.Unfocused
		}
		if overlay.Colors.Fixed != nil {
			colors.Fixed = overlay.Colors.Fixed
		}
		out.Colors = &colors
	}
	if overlay.Terminal != nil {
		out.Terminal = overlay.Terminal
	}
	if overlay.Modifiers != nil {
		mods := RawModifiers{}
		if out.Modifiers != nil {
			mods = *out.Modifiers
		}
		if overlay.Modifiers.Primary != nil {
			mods.Primary = overlay.Modifiers.Primary
		}
		if overlay.Modifiers.Secondary != nil {
			mods.Secondary = overlay.Modifiers.Secondary
		}
		if overlay.Modifiers.Alternate != nil {
			mods.Alternate = overlay.Modifiers.Alternate
		}
		out.Modifiers = &mods
	}
	if overlay.Bindings != nil {
		bindings := make(map[string]string, len(out.Bindings)+len(overlay.Bindings))
		for action, key := range out.Bindings {
			bindings[action] = key
		}
		for action, key := range overlay.Bindings {
			bindings[action] = key
		}
		out.Bindings = bindings
	}
	if len(overlay.Applications) > 0 {
		apps := make([]RawApplication, 0, len(out.Applications)+len(overlay.Applications))
		apps = append(apps, out.Applications...)
		apps = append(apps, overlay.Applications...)
		out.Applications = apps
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	return out
}
