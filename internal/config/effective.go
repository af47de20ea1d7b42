package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.BorderWidth != nil {
		cfg.BorderWidth = *raw.BorderWidth
	}
	if raw.Snap != nil {
		cfg.Snap = *raw.Snap
	}
	if raw.Vdesks != nil {
		cfg.Vdesks = *raw.Vdesks
	}
	if raw.Colors != nil {
		cfg.Colors.Focused = derefString(raw.Colors.Focused, cfg.Colors.Focused)
		cfg.Colors.Unfocused = derefString(raw.Colors.Unfocused, cfg.Colors.Unfocused)
		cfg.Colors.Fixed = derefString(raw.Colors.Fixed, cfg.Colors.Fixed)
	}
	if raw.Terminal != nil {
		cfg.Terminal = *raw.Terminal
	}
	if raw.Modifiers != nil {
		cfg.Modifiers.Primary = derefString(raw.Modifiers.Primary, cfg.Modifiers.Primary)
		cfg.Modifiers.Secondary = derefString(raw.Modifiers.Secondary, cfg.Modifiers.Secondary)
		cfg.Modifiers.Alternate = derefString(raw.Modifiers.Alternate, cfg.Modifiers.Alternate)
	}
	for action, key := range raw.Bindings {
		cfg.Bindings[action] = strings.TrimSpace(key)
	}
	for _, app := range raw.Applications {
		eff := Application{
			Name:     app.Name,
			Class:    app.Class,
			Geometry: app.Geometry,
			Dock:     app.Dock,
		}
		if app.Vdesk != nil {
			if app.Vdesk.Fixed {
				eff.Fixed = true
			} else {
				v := app.Vdesk.Index
				eff.Vdesk = &v
			}
		}
		cfg.Applications = append(cfg.Applications, eff)
	}
	if raw.LogLevel != nil {
		level := strings.ToLower(strings.TrimSpace(*raw.LogLevel))
		if level == "warning" {
			level = "warn"
		}
		cfg.LogLevel = level
	}
	return cfg
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}
