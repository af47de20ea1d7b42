package hotkeys

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/vdeskwm/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Frames is what pointer bindings need from the window manager. Frames are
// identified by their frame window.
type Frames interface {
	// FrameGeometry returns the client geometry inside frame.
	FrameGeometry(frame xproto.Window) (platform.Rect, bool)
	// DragTo moves a frame while dragging; the implementation snaps.
	DragTo(frame xproto.Window, r platform.Rect)
	// ResizeTo resizes the client inside frame.
	ResizeTo(frame xproto.Window, r platform.Rect)
	Raise(frame xproto.Window)
	Lower(frame xproto.Window)
}

type drag struct {
	frame          xproto.Window
	start          platform.Rect
	rootX, rootY   int
	resize, active bool
}

// Pointer binds move, resize and lower to buttons 1, 2 and 3 with the
// primary modifier on each client frame.
type Pointer struct {
	xu     *xgbutil.XUtil
	frames Frames
	mods   string
	cursor xproto.Cursor
	cur    drag
	logger *slog.Logger
}

// NewPointer creates the drag cursor and returns a binder using mods
// (keybind notation) as the drag modifier.
func NewPointer(xu *xgbutil.XUtil, frames Frames, mods string, logger *slog.Logger) (*Pointer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cursor, err := xcursor.CreateCursor(xu, xcursor.Fleur)
	if err != nil {
		return nil, fmt.Errorf("create drag cursor: %w", err)
	}
	return &Pointer{xu: xu, frames: frames, mods: mods, cursor: cursor, logger: logger}, nil
}

// Rebind moves the pointer bindings of frames from the current modifier
// to mods.
func (p *Pointer) Rebind(frames []xproto.Window, mods string) {
	for _, frame := range frames {
		p.ungrab(frame)
		p.Unbind(frame)
	}
	p.mods = mods
	for _, frame := range frames {
		if err := p.Bind(frame); err != nil {
			p.logger.Warn("failed to rebind pointer", "frame", frame, "error", err)
		}
	}
}

func (p *Pointer) ungrab(frame xproto.Window) {
	for _, button := range []string{"1", "2", "3"} {
		mods, btn, err := mousebind.ParseString(p.xu, p.mods+"-"+button)
		if err != nil {
			continue
		}
		mousebind.Ungrab(p.xu, frame, mods, btn)
	}
}

// Bind attaches the pointer bindings to a new frame.
func (p *Pointer) Bind(frame xproto.Window) error {
	mousebind.Drag(p.xu, frame, frame, p.mods+"-1", true,
		p.begin(frame, false), p.step, p.end)
	mousebind.Drag(p.xu, frame, frame, p.mods+"-2", true,
		p.begin(frame, true), p.step, p.end)
	return mousebind.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		p.frames.Lower(frame)
	}).Connect(p.xu, frame, p.mods+"-3", false, true)
}

// Unbind removes every pointer binding from a frame that is going away.
func (p *Pointer) Unbind(frame xproto.Window) {
	if p.cur.active && p.cur.frame == frame {
		p.cur = drag{}
	}
	mousebind.Detach(p.xu, frame)
}

func (p *Pointer) begin(frame xproto.Window, resize bool) xgbutil.MouseDragBeginFun {
	return func(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
		r, ok := p.frames.FrameGeometry(frame)
		if !ok {
			return false, 0
		}
		p.cur = drag{frame: frame, start: r, rootX: rootX, rootY: rootY, resize: resize, active: true}
		p.frames.Raise(frame)
		return true, p.cursor
	}
}

func (p *Pointer) step(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	if !p.cur.active {
		return
	}
	dx, dy := rootX-p.cur.rootX, rootY-p.cur.rootY
	if p.cur.resize {
		p.frames.ResizeTo(p.cur.frame, resizeRect(p.cur.start, dx, dy))
		return
	}
	p.frames.DragTo(p.cur.frame, moveRect(p.cur.start, dx, dy))
}

func (p *Pointer) end(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	p.step(xu, rootX, rootY, eventX, eventY)
	p.cur = drag{}
}

func moveRect(start platform.Rect, dx, dy int) platform.Rect {
	start.X += dx
	start.Y += dy
	return start
}

// resizeRect grows or shrinks from the bottom-right corner; the size never
// drops below one pixel.
func resizeRect(start platform.Rect, dx, dy int) platform.Rect {
	start.Width = max(start.Width+dx, 1)
	start.Height = max(start.Height+dy, 1)
	return start
}
