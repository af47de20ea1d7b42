package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// None is the null window.
const None WindowID = 0

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside the half-open rectangle
// [X, X+Width) x [Y, Y+Height).
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// WMState is the ICCCM WM_STATE value.
type WMState uint

const (
	StateWithdrawn WMState = 0
	StateNormal    WMState = 1
	StateIconic    WMState = 3
)

func (s WMState) String() string {
	switch s {
	case StateWithdrawn:
		return "withdrawn"
	case StateNormal:
		return "normal"
	case StateIconic:
		return "iconic"
	default:
		return "unknown"
	}
}

// HintFlags mirrors the WM_NORMAL_HINTS flag word.
type HintFlags uint

const (
	HintUSPosition HintFlags = 1 << iota
	HintUSSize
	HintPPosition
	HintPSize
	HintPMinSize
	HintPMaxSize
	HintPResizeInc
	HintPAspect
	HintPBaseSize
	HintPWinGravity
)

// RawSizeHints is WM_NORMAL_HINTS as read from the window, before defaulting.
type RawSizeHints struct {
	Flags      HintFlags
	MinWidth   int
	MinHeight  int
	MaxWidth   int
	MaxHeight  int
	BaseWidth  int
	BaseHeight int
	WidthInc   int
	HeightInc  int
	WinGravity int
}

// Extended window states published in _NET_WM_STATE.
const (
	NetStateFocused = "_NET_WM_STATE_FOCUSED"
	NetStateSticky  = "_NET_WM_STATE_STICKY"
	NetStateHidden  = "_NET_WM_STATE_HIDDEN"
)

// Actions advertised in _NET_WM_ALLOWED_ACTIONS.
var AllowedActions = []string{
	"_NET_WM_ACTION_MOVE",
	"_NET_WM_ACTION_RESIZE",
	"_NET_WM_ACTION_STICK",
	"_NET_WM_ACTION_CHANGE_DESKTOP",
	"_NET_WM_ACTION_CLOSE",
}

// WindowTypeDock is the _NET_WM_WINDOW_TYPE value marking a dock.
const WindowTypeDock = "_NET_WM_WINDOW_TYPE_DOCK"

// Backend is the window-system protocol adapter used by the window manager
// core. Queries return errors; requests are fire-and-forget and report their
// failures asynchronously through the backend's error policy.
type Backend interface {
	// Queries.
	NormalHints(w WindowID) (RawSizeHints, error)
	WindowTypes(w WindowID) ([]string, error)
	Protocols(w WindowID) ([]string, error)

	// Window requests.
	MapWindow(w WindowID)
	UnmapWindow(w WindowID)
	RaiseWindow(w WindowID)
	LowerWindow(w WindowID)
	MoveResizeWindow(w WindowID, r Rect)
	ResizeWindow(w WindowID, width, height int)
	SetBorderWidth(w WindowID, width int)
	SetBorderPixel(w WindowID, pixel uint32)
	InstallColormap(cmap uint32)
	FocusWindow(w WindowID)
	FocusPointerRoot()
	CreateFrame(root WindowID, r Rect, border int, pixel uint32) (WindowID, error)
	ReparentWindow(w, parent WindowID, x, y int)
	AddToSaveSet(w WindowID)
	RemoveFromSaveSet(w WindowID)
	DestroyWindow(w WindowID)
	SendConfigureNotify(w WindowID, r Rect)
	SendDeleteWindow(w WindowID)
	KillClient(w WindowID)
	SetWMState(w WindowID, state WMState)

	// EWMH publication.
	SetClientList(root WindowID, windows []WindowID)
	SetClientListStacking(root WindowID, windows []WindowID)
	SetActiveWindow(root WindowID, w WindowID)
	SetCurrentDesktop(root WindowID, desk uint32)
	SetWMDesktop(w WindowID, desk uint32)
	SetNetWMState(w WindowID, states []string)
	SetAllowedActions(w WindowID, actions []string)
	RemoveAllowedActions(w WindowID)
	RemoveDesktopAndState(w WindowID)

	// Server control.
	GrabServer()
	UngrabServer()
	Sync()
	// SuppressErrors drops protocol errors until the returned release func is
	// called. Release is idempotent and restores the previous policy.
	SuppressErrors() (release func())
}
