package hotkeys

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// x11KeycodeOffset converts between X keycodes and evdev keycodes.
const x11KeycodeOffset = 8

type grabbedKey struct {
	mods uint16
	code xproto.Keycode
}

// Handler grabs the binding table, VT switch keys and media keys on the
// root window and forwards every key event to a sink.
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	sink func(Key)

	mu      sync.Mutex
	grabbed []grabbedKey
}

var ignoreModsOnce sync.Once

// NewHandler creates a new key handler.
func NewHandler(xu *xgbutil.XUtil, root xproto.Window, sink func(Key)) *Handler {
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:   xu,
		root: root,
		sink: sink,
	}
}

// Connect attaches press and release callbacks to the root window.
func (h *Handler) Connect() {
	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		h.sink(h.translate(ev.Detail, ev.State, true))
	}).Connect(h.xu, h.root)
	xevent.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		h.sink(h.translate(ev.Detail, ev.State, false))
	}).Connect(h.xu, h.root)
}

// Grab replaces any existing grabs with grabs for bindings plus the VT and
// media keys.
func (h *Handler) Grab(bindings []Binding) error {
	h.Ungrab()

	h.mu.Lock()
	defer h.mu.Unlock()

	logo := uint16(ModLogo)
	shift := uint16(ModShift)
	for _, b := range bindings {
		code := xproto.Keycode(b.Code + x11KeycodeOffset)
		var masks []uint16
		switch b.Shift {
		case ShiftOn:
			masks = []uint16{logo | shift}
		case ShiftOff:
			masks = []uint16{logo}
		default:
			masks = []uint16{logo, logo | shift}
		}
		for _, mods := range masks {
			if err := h.grabLocked(mods, code); err != nil {
				return fmt.Errorf("grab %s (keycode %d): %w", b.Command, b.Code, err)
			}
		}
	}

	for n := 1; n <= 12; n++ {
		name := fmt.Sprintf("XF86Switch_VT_%d", n)
		for _, code := range keybind.StrToKeycodes(h.xu, name) {
			if err := h.grabLocked(uint16(ModCtrl|ModAlt), code); err != nil {
				return fmt.Errorf("grab %s: %w", name, err)
			}
		}
	}

	for _, name := range mediaKeyNames {
		for _, code := range keybind.StrToKeycodes(h.xu, name) {
			if err := h.grabLocked(0, code); err != nil {
				return fmt.Errorf("grab %s: %w", name, err)
			}
		}
	}
	return nil
}

// Ungrab releases every grab made by Grab.
func (h *Handler) Ungrab() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, g := range h.grabbed {
		keybind.Ungrab(h.xu, h.root, g.mods, g.code)
	}
	h.grabbed = nil
}

func (h *Handler) grabLocked(mods uint16, code xproto.Keycode) error {
	if err := keybind.GrabChecked(h.xu, h.root, mods, code); err != nil {
		return err
	}
	h.grabbed = append(h.grabbed, grabbedKey{mods: mods, code: code})
	return nil
}

func (h *Handler) translate(detail xproto.Keycode, state uint16, pressed bool) Key {
	k := Key{
		Code:    uint32(detail) - x11KeycodeOffset,
		Mods:    Modifier(state),
		Pressed: pressed,
	}
	if sym := keybind.KeysymGet(h.xu, detail, 0); sym != 0 {
		k.Syms = append(k.Syms, Keysym(sym))
	}
	return k
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
