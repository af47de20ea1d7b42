package hotkeys

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/1broseidon/vdeskwm/internal/config"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Actions are the keyboard-driven window manager operations. They are
// invoked from the X event goroutine.
type Actions interface {
	Spawn()
	CloseCurrent(force bool)
	LowerCurrent()
	RaiseCurrent()
	FixCurrent()
	Cycle()
	NextVdesk()
	PrevVdesk()
	ToggleVdesk()
	SwitchVdesk(v int)
	ToggleDocks()
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, actions Actions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{
		xu:      xu,
		root:    root,
		actions: actions,
		logger:  logger,
	}
}

// Binding is one resolved key sequence and the action it triggers.
type Binding struct {
	Keys   string
	Name   string
	Invoke func(Actions)
}

// Bindings resolves cfg into keybind sequences. The primary modifier is
// combined with every action except cycling, which uses the secondary
// modifier. Primary plus alternate on the close key kills the client.
// Digits 1-9 and 0 switch to the first ten vdesks.
func Bindings(cfg *config.Config) ([]Binding, error) {
	primary, err := config.ParseModifiers(cfg.Modifiers.Primary)
	if err != nil {
		return nil, fmt.Errorf("modifiers.primary: %w", err)
	}
	secondary, err := config.ParseModifiers(cfg.Modifiers.Secondary)
	if err != nil {
		return nil, fmt.Errorf("modifiers.secondary: %w", err)
	}
	alternate, err := config.ParseModifiers(cfg.Modifiers.Alternate)
	if err != nil {
		return nil, fmt.Errorf("modifiers.alternate: %w", err)
	}

	keys := cfg.Bindings
	var out []Binding
	add := func(mods, action string, invoke func(Actions)) {
		key, ok := keys[action]
		if !ok || key == "" {
			return
		}
		out = append(out, Binding{Keys: mods + "-" + key, Name: action, Invoke: invoke})
	}

	add(primary, config.ActionSpawn, Actions.Spawn)
	add(primary, config.ActionClose, func(a Actions) { a.CloseCurrent(false) })
	add(primary+"-"+alternate, config.ActionClose, func(a Actions) { a.CloseCurrent(true) })
	add(primary, config.ActionLower, Actions.LowerCurrent)
	add(primary, config.ActionRaise, Actions.RaiseCurrent)
	add(primary, config.ActionFix, Actions.FixCurrent)
	add(secondary, config.ActionNext, Actions.Cycle)
	add(primary, config.ActionVdeskNext, Actions.NextVdesk)
	add(primary, config.ActionVdeskPrev, Actions.PrevVdesk)
	add(primary, config.ActionVdeskToggle, Actions.ToggleVdesk)
	add(primary, config.ActionDocks, Actions.ToggleDocks)

	for v := 0; v < min(cfg.Vdesks, 10); v++ {
		v := v
		out = append(out, Binding{
			Keys:   primary + "-" + strconv.Itoa((v+1)%10),
			Name:   "vdesk_" + strconv.Itoa(v),
			Invoke: func(a Actions) { a.SwitchVdesk(v) },
		})
	}
	return out, nil
}

// Apply drops every existing root key binding and grabs the ones from cfg.
// A binding that cannot be grabbed is logged and skipped.
func (h *Handler) Apply(cfg *config.Config) error {
	bindings, err := Bindings(cfg)
	if err != nil {
		return err
	}
	keybind.Detach(h.xu, h.root)
	for _, b := range bindings {
		b := b
		if err := h.RegisterFunc(b.Keys, func() { b.Invoke(h.actions) }); err != nil {
			h.logger.Warn("failed to bind key", "action", b.Name, "keys", b.Keys, "error", err)
			continue
		}
		h.logger.Debug("bound key", "action", b.Name, "keys", b.Keys)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
