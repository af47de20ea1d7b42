package daemon

import (
	"context"
	"fmt"

	"github.com/1broseidon/vdeskwm/internal/ipc"
	"github.com/1broseidon/vdeskwm/internal/wm"
	"github.com/BurntSushi/xgb/xproto"
)

var _ ipc.Controller = (*Daemon)(nil)

// Status reports the active vdesk and selection.
func (d *Daemon) Status(ctx context.Context) (ipc.StatusData, error) {
	var status ipc.StatusData
	err := d.Do(ctx, func(m *wm.Manager) {
		status = statusOf(m, d.screen)
	})
	return status, err
}

// Clients lists managed clients in cycle order.
func (d *Daemon) Clients(ctx context.Context) ([]ipc.ClientInfo, error) {
	var out []ipc.ClientInfo
	err := d.Do(ctx, func(m *wm.Manager) {
		cur := m.Current()
		for _, c := range m.Clients() {
			out = append(out, clientInfo(c, c == cur))
		}
	})
	return out, err
}

// SwitchVdesk makes vdesk the active desktop.
func (d *Daemon) SwitchVdesk(ctx context.Context, vdesk int) error {
	var opErr error
	err := d.Do(ctx, func(m *wm.Manager) {
		if vdesk < 0 || vdesk >= m.Vdesks() {
			opErr = fmt.Errorf("vdesk %d out of range [0,%d)", vdesk, m.Vdesks())
			return
		}
		m.SwitchVdesk(d.screen, wm.Vdesk(vdesk))
	})
	if err != nil {
		return err
	}
	return opErr
}

// MoveClient moves a client to vdesk, or makes it fixed.
func (d *Daemon) MoveClient(ctx context.Context, window uint32, vdesk int, fixed bool) error {
	var opErr error
	err := d.Do(ctx, func(m *wm.Manager) {
		c := d.client(xproto.Window(window))
		if c == nil {
			opErr = fmt.Errorf("window 0x%x is not managed", window)
			return
		}
		target := wm.VdeskFixed
		if !fixed {
			if vdesk < 0 || vdesk >= m.Vdesks() {
				opErr = fmt.Errorf("vdesk %d out of range [0,%d)", vdesk, m.Vdesks())
				return
			}
			target = wm.Vdesk(vdesk)
		}
		m.MoveToVdesk(c, target)
	})
	if err != nil {
		return err
	}
	return opErr
}

// CloseClient asks a client to close, or kills it when force is set.
func (d *Daemon) CloseClient(ctx context.Context, window uint32, force bool) error {
	var opErr error
	err := d.Do(ctx, func(m *wm.Manager) {
		c := d.client(xproto.Window(window))
		if c == nil {
			opErr = fmt.Errorf("window 0x%x is not managed", window)
			return
		}
		m.Close(c, force)
	})
	if err != nil {
		return err
	}
	return opErr
}

// Reload re-reads the configuration file.
func (d *Daemon) Reload(ctx context.Context) error {
	return d.ReloadFromDisk(ctx)
}

// Quit releases every client and stops the event loop.
func (d *Daemon) Quit(ctx context.Context) error {
	d.Stop()
	return nil
}

func statusOf(m *wm.Manager, s *wm.Screen) ipc.StatusData {
	status := ipc.StatusData{
		Vdesk:        int(s.Vdesk),
		Vdesks:       m.Vdesks(),
		Clients:      len(m.Clients()),
		DocksVisible: s.DocksVisible,
	}
	if c := m.Current(); c != nil {
		status.Current = uint32(c.Window)
	}
	return status
}

func clientInfo(c *wm.Client, current bool) ipc.ClientInfo {
	return ipc.ClientInfo{
		Window:  uint32(c.Window),
		Frame:   uint32(c.Parent),
		X:       c.X,
		Y:       c.Y,
		Width:   c.Width,
		Height:  c.Height,
		Vdesk:   c.Vdesk.String(),
		State:   c.State.String(),
		Dock:    c.IsDock,
		Fixed:   c.IsFixed(),
		Current: current,
	}
}
