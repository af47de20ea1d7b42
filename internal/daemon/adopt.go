package daemon

import (
	"github.com/1broseidon/vdeskwm/internal/config"
	"github.com/1broseidon/vdeskwm/internal/platform"
	"github.com/1broseidon/vdeskwm/internal/wm"
	"github.com/1broseidon/vdeskwm/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// manage adopts win. When adoption fails for a window that asked to be
// mapped, it is mapped unmanaged so the application still appears.
func (d *Daemon) manage(win xproto.Window, requested bool) {
	info, err := d.conn.QueryWindow(win)
	if err != nil {
		d.logger.Debug("window vanished before adoption", "window", win, "error", err)
		return
	}
	if info.OverrideRedirect {
		return
	}

	instance, class, err := d.conn.WindowClass(win)
	if err != nil {
		d.logger.Debug("no WM_CLASS", "window", win, "error", err)
	}
	rule := d.cfg.MatchApplication(instance, class)

	c := d.mgr.Adopt(adoptParams(info, d.screen, rule, d.mgr.BorderWidth()))
	if c == nil {
		if requested {
			d.conn.MapWindow(win)
		}
		return
	}
	d.attach(c)
	if c.State == platform.StateNormal && !c.IsDock {
		d.mgr.Raise(c)
		d.mgr.Select(c)
	}
	d.logger.Info("managing window", "window", c.Window, "class", class, "vdesk", c.Vdesk)
}

// adoptExisting manages windows that were already mapped when the manager
// started.
func (d *Daemon) adoptExisting() {
	wins, err := d.conn.TopLevelWindows()
	if err != nil {
		d.logger.Warn("failed to list existing windows", "error", err)
		return
	}
	for _, win := range wins {
		info, err := d.conn.QueryWindow(win)
		if err != nil || info.OverrideRedirect || !info.Viewable {
			continue
		}
		d.manage(win, false)
	}
}

func adoptParams(info x11.WindowInfo, s *wm.Screen, rule *config.Application, border int) wm.AdoptParams {
	geom := platform.Rect{X: info.X, Y: info.Y, Width: info.Width, Height: info.Height}
	return wm.AdoptParams{
		Window:    platform.WindowID(info.Window),
		Screen:    s,
		Geometry:  geom,
		Border:    info.BorderWidth,
		Colormap:  uint32(info.Colormap),
		Mapped:    info.Viewable,
		Placement: placementFor(rule, geom, s.Width, s.Height, border),
	}
}

// placementFor turns a matching application rule into adoption overrides.
// Negative geometry offsets are measured from the right and bottom screen
// edges.
func placementFor(rule *config.Application, geom platform.Rect, screenW, screenH, border int) *wm.Placement {
	if rule == nil {
		return nil
	}
	p := &wm.Placement{Dock: rule.Dock}
	if rule.Geometry != "" {
		// Rules are validated on load.
		if g, err := config.ParseGeometry(rule.Geometry); err == nil {
			x, y, w, h := g.Apply(geom.X, geom.Y, geom.Width, geom.Height, screenW, screenH, border)
			p.Geometry = &platform.Rect{X: x, Y: y, Width: w, Height: h}
		}
	}
	switch {
	case rule.Fixed:
		v := wm.VdeskFixed
		p.Vdesk = &v
	case rule.Vdesk != nil:
		v := wm.Vdesk(*rule.Vdesk)
		p.Vdesk = &v
	}
	return p
}
