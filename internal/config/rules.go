package config

// Matches reports whether the rule applies to a window with the given
// WM_CLASS instance and class names. An empty rule field matches anything.
func (a Application) Matches(instance, class string) bool {
	if a.Name != "" && a.Name != instance {
		return false
	}
	if a.Class != "" && a.Class != class {
		return false
	}
	return true
}

// MatchApplication returns the first rule matching the window, or nil.
func (c *Config) MatchApplication(instance, class string) *Application {
	for i := range c.Applications {
		if c.Applications[i].Matches(instance, class) {
			return &c.Applications[i]
		}
	}
	return nil
}
