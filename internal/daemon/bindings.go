package daemon

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/1broseidon/vdeskwm/internal/hotkeys"
	"github.com/1broseidon/vdeskwm/internal/platform"
	"github.com/1broseidon/vdeskwm/internal/wm"
	"github.com/BurntSushi/xgb/xproto"
)

// bindings carries out key and pointer actions. Its methods run from xevent
// callbacks on the event goroutine.
type bindings struct {
	d *Daemon
}

var (
	_ hotkeys.Actions = (*bindings)(nil)
	_ hotkeys.Frames  = (*bindings)(nil)
)

func (b *bindings) Spawn() {
	d := b.d
	cmd := exec.Command("/bin/sh", "-c", d.cfg.Terminal)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if d.cfg.Display != "" {
		cmd.Env = append(os.Environ(), "DISPLAY="+d.cfg.Display)
	}
	if err := cmd.Start(); err != nil {
		d.logger.Warn("failed to spawn terminal", "command", d.cfg.Terminal, "error", err)
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			d.logger.Debug("terminal exited", "command", d.cfg.Terminal, "error", err)
		}
	}()
}

func (b *bindings) CloseCurrent(force bool) {
	if c := b.d.mgr.Current(); c != nil {
		b.d.mgr.Close(c, force)
	}
}

func (b *bindings) LowerCurrent() {
	if c := b.d.mgr.Current(); c != nil {
		b.d.mgr.Lower(c)
	}
}

func (b *bindings) RaiseCurrent() {
	if c := b.d.mgr.Current(); c != nil {
		b.d.mgr.Raise(c)
	}
}

func (b *bindings) FixCurrent() {
	if c := b.d.mgr.Current(); c != nil {
		b.d.mgr.ToggleFixed(c)
	}
}

func (b *bindings) Cycle()       { b.d.mgr.CycleNext() }
func (b *bindings) NextVdesk()   { b.d.mgr.NextVdesk(b.d.screen) }
func (b *bindings) PrevVdesk()   { b.d.mgr.PrevVdesk(b.d.screen) }
func (b *bindings) ToggleVdesk() { b.d.mgr.ToggleVdesk(b.d.screen) }

func (b *bindings) SwitchVdesk(v int) {
	b.d.mgr.SwitchVdesk(b.d.screen, wm.Vdesk(v))
}

func (b *bindings) ToggleDocks() {
	s := b.d.screen
	b.d.mgr.SetDocksVisible(s, !s.DocksVisible)
}

func (b *bindings) frame(frame xproto.Window) *wm.Client {
	c := b.d.mgr.Find(platform.WindowID(frame))
	if c == nil || c.Parent != platform.WindowID(frame) {
		return nil
	}
	return c
}

func (b *bindings) FrameGeometry(frame xproto.Window) (platform.Rect, bool) {
	c := b.frame(frame)
	if c == nil {
		return platform.Rect{}, false
	}
	return c.Rect(), true
}

func (b *bindings) DragTo(frame xproto.Window, r platform.Rect) {
	if c := b.frame(frame); c != nil {
		b.d.mgr.MoveResize(c, b.d.mgr.Snap(c, r))
	}
}

func (b *bindings) ResizeTo(frame xproto.Window, r platform.Rect) {
	if c := b.frame(frame); c != nil {
		b.d.mgr.MoveResize(c, r)
	}
}

func (b *bindings) Raise(frame xproto.Window) {
	if c := b.frame(frame); c != nil {
		b.d.mgr.Raise(c)
		b.d.mgr.Select(c)
	}
}

func (b *bindings) Lower(frame xproto.Window) {
	if c := b.frame(frame); c != nil {
		b.d.mgr.Lower(c)
	}
}
