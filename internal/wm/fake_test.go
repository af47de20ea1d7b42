package wm

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/vdeskwm/internal/platform"
)

// fakeBackend records every request in order and keeps enough window
// property state to check what a real server would end up holding.
type fakeBackend struct {
	calls []string

	hints     map[platform.WindowID]platform.RawSizeHints
	types     map[platform.WindowID][]string
	protocols map[platform.WindowID][]string

	wmState   map[platform.WindowID]platform.WMState
	desktop   map[platform.WindowID]uint32
	netState  map[platform.WindowID][]string
	allowed   map[platform.WindowID][]string
	border    map[platform.WindowID]uint32
	mapped    map[platform.WindowID]bool
	parent    map[platform.WindowID]platform.WindowID
	position  map[platform.WindowID][2]int
	saveSet   map[platform.WindowID]bool
	destroyed map[platform.WindowID]bool

	clientList   []platform.WindowID
	stackingList []platform.WindowID
	active       platform.WindowID
	focus        platform.WindowID
	desk         uint32

	nextFrame   platform.WindowID
	suppressed  int
	grabbed     int
	failFrames  bool
	unsuppCalls []string
}

var _ platform.Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		hints:     map[platform.WindowID]platform.RawSizeHints{},
		types:     map[platform.WindowID][]string{},
		protocols: map[platform.WindowID][]string{},
		wmState:   map[platform.WindowID]platform.WMState{},
		desktop:   map[platform.WindowID]uint32{},
		netState:  map[platform.WindowID][]string{},
		allowed:   map[platform.WindowID][]string{},
		border:    map[platform.WindowID]uint32{},
		mapped:    map[platform.WindowID]bool{},
		parent:    map[platform.WindowID]platform.WindowID{},
		position:  map[platform.WindowID][2]int{},
		saveSet:   map[platform.WindowID]bool{},
		destroyed: map[platform.WindowID]bool{},
		nextFrame: 0x1000,
	}
}

func (f *fakeBackend) record(format string, args ...any) {
	call := fmt.Sprintf(format, args...)
	f.calls = append(f.calls, call)
	if f.suppressed == 0 {
		f.unsuppCalls = append(f.unsuppCalls, call)
	}
}

func (f *fakeBackend) reset() { f.calls = nil; f.unsuppCalls = nil }

// index returns the position of the first call with the given prefix, or -1.
func (f *fakeBackend) index(prefix string) int {
	for i, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

func (f *fakeBackend) count(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeBackend) NormalHints(w platform.WindowID) (platform.RawSizeHints, error) {
	h, ok := f.hints[w]
	if !ok {
		return platform.RawSizeHints{}, errors.New("no WM_NORMAL_HINTS")
	}
	return h, nil
}

func (f *fakeBackend) WindowTypes(w platform.WindowID) ([]string, error) {
	return f.types[w], nil
}

func (f *fakeBackend) Protocols(w platform.WindowID) ([]string, error) {
	return f.protocols[w], nil
}

func (f *fakeBackend) MapWindow(w platform.WindowID) {
	f.record("map %d", w)
	f.mapped[w] = true
}

func (f *fakeBackend) UnmapWindow(w platform.WindowID) {
	f.record("unmap %d", w)
	f.mapped[w] = false
}

func (f *fakeBackend) RaiseWindow(w platform.WindowID) { f.record("raise %d", w) }
func (f *fakeBackend) LowerWindow(w platform.WindowID) { f.record("lower %d", w) }

func (f *fakeBackend) MoveResizeWindow(w platform.WindowID, r platform.Rect) {
	f.record("moveresize %d %d %d %d %d", w, r.X, r.Y, r.Width, r.Height)
	f.position[w] = [2]int{r.X, r.Y}
}

func (f *fakeBackend) ResizeWindow(w platform.WindowID, width, height int) {
	f.record("resize %d %d %d", w, width, height)
}

func (f *fakeBackend) SetBorderWidth(w platform.WindowID, width int) {
	f.record("borderwidth %d %d", w, width)
}

func (f *fakeBackend) SetBorderPixel(w platform.WindowID, pixel uint32) {
	f.record("borderpixel %d %d", w, pixel)
	f.border[w] = pixel
}

func (f *fakeBackend) InstallColormap(cmap uint32) { f.record("colormap %d", cmap) }

func (f *fakeBackend) FocusWindow(w platform.WindowID) {
	f.record("focus %d", w)
	f.focus = w
}

func (f *fakeBackend) FocusPointerRoot() {
	f.record("focus-root")
	f.focus = platform.None
}

func (f *fakeBackend) CreateFrame(root platform.WindowID, r platform.Rect, border int, pixel uint32) (platform.WindowID, error) {
	if f.failFrames {
		return 0, errors.New("frame creation failed")
	}
	f.nextFrame++
	id := f.nextFrame
	f.record("frame %d %d %d %d %d %d", id, r.X, r.Y, r.Width, r.Height, border)
	f.parent[id] = root
	f.position[id] = [2]int{r.X, r.Y}
	f.border[id] = pixel
	return id, nil
}

func (f *fakeBackend) ReparentWindow(w, parent platform.WindowID, x, y int) {
	f.record("reparent %d %d %d %d", w, parent, x, y)
	f.parent[w] = parent
	f.position[w] = [2]int{x, y}
}

func (f *fakeBackend) AddToSaveSet(w platform.WindowID) {
	f.record("saveset-add %d", w)
	f.saveSet[w] = true
}

func (f *fakeBackend) RemoveFromSaveSet(w platform.WindowID) {
	f.record("saveset-remove %d", w)
	delete(f.saveSet, w)
}

func (f *fakeBackend) DestroyWindow(w platform.WindowID) {
	f.record("destroy %d", w)
	f.destroyed[w] = true
}

func (f *fakeBackend) SendConfigureNotify(w platform.WindowID, r platform.Rect) {
	f.record("configure-notify %d %d %d %d %d", w, r.X, r.Y, r.Width, r.Height)
}

func (f *fakeBackend) SendDeleteWindow(w platform.WindowID) { f.record("delete %d", w) }
func (f *fakeBackend) KillClient(w platform.WindowID)       { f.record("kill %d", w) }

func (f *fakeBackend) SetWMState(w platform.WindowID, state platform.WMState) {
	f.record("wmstate %d %s", w, state)
	f.wmState[w] = state
}

func (f *fakeBackend) SetClientList(root platform.WindowID, windows []platform.WindowID) {
	f.record("clientlist %d %v", root, windows)
	f.clientList = append([]platform.WindowID(nil), windows...)
}

func (f *fakeBackend) SetClientListStacking(root platform.WindowID, windows []platform.WindowID) {
	f.record("stacking %d %v", root, windows)
	f.stackingList = append([]platform.WindowID(nil), windows...)
}

func (f *fakeBackend) SetActiveWindow(root, w platform.WindowID) {
	f.record("active %d %d", root, w)
	f.active = w
}

func (f *fakeBackend) SetCurrentDesktop(root platform.WindowID, desk uint32) {
	f.record("current-desktop %d %d", root, desk)
	f.desk = desk
}

func (f *fakeBackend) SetWMDesktop(w platform.WindowID, desk uint32) {
	f.record("desktop %d %d", w, desk)
	f.desktop[w] = desk
}

func (f *fakeBackend) SetNetWMState(w platform.WindowID, states []string) {
	f.record("netstate %d %v", w, states)
	f.netState[w] = append([]string(nil), states...)
}

func (f *fakeBackend) SetAllowedActions(w platform.WindowID, actions []string) {
	f.record("allowed %d", w)
	f.allowed[w] = actions
}

func (f *fakeBackend) RemoveAllowedActions(w platform.WindowID) {
	f.record("remove-allowed %d", w)
	delete(f.allowed, w)
}

func (f *fakeBackend) RemoveDesktopAndState(w platform.WindowID) {
	f.record("remove-desktop-state %d", w)
	delete(f.desktop, w)
	delete(f.netState, w)
}

func (f *fakeBackend) GrabServer()   { f.record("grab"); f.grabbed++ }
func (f *fakeBackend) UngrabServer() { f.record("ungrab"); f.grabbed-- }
func (f *fakeBackend) Sync()         { f.record("sync") }

func (f *fakeBackend) SuppressErrors() func() {
	f.suppressed++
	done := false
	return func() {
		if done {
			return
		}
		done = true
		f.suppressed--
	}
}

const (
	testRoot      platform.WindowID = 1
	testFocused   uint32            = 0xffd700
	testUnfocused uint32            = 0x7f7f7f
	testFixed     uint32            = 0x0000ff
)

func testColors() Colors {
	return Colors{Focused: testFocused, Unfocused: testUnfocused, Fixed: testFixed}
}

func newTestManager(t *testing.T) (*Manager, *fakeBackend, *Screen) {
	t.Helper()
	fb := newFakeBackend()
	s := NewScreen(0, testRoot, 1920, 1080, []platform.Rect{{X: 0, Y: 0, Width: 1920, Height: 1080}}, testColors())
	m := NewManager(ManagerConfig{
		Vdesks:      4,
		BorderWidth: 2,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, fb, s)
	return m, fb, s
}

func adopt(m *Manager, s *Screen, w platform.WindowID, r platform.Rect) *Client {
	return m.Adopt(AdoptParams{Window: w, Screen: s, Geometry: r, Mapped: true})
}
