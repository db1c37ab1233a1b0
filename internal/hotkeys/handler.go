// Package hotkeys grabs global X11 key bindings. Grabs are registered for
// every lock-key combination so a binding fires with CapsLock or NumLock
// lit.
package hotkeys

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/docktile/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Toggler flips dock visibility and reports the new hidden state.
type Toggler interface {
	ToggleHidden() bool
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler registers global keyboard shortcuts on the root window.
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  *slog.Logger
}

// xevent.IgnoreMods is package state in xgbutil, so compute it once per
// process rather than per handler.
var ignoreModsOnce sync.Once

func NewHandler(backend platform.Backend, logger *slog.Logger) *Handler {
	h := &Handler{log: logger}
	if accessor, ok := backend.(x11Accessor); ok {
		h.xu = accessor.XUtil()
		h.root = accessor.RootWindow()
		ignoreModsOnce.Do(func() {
			xevent.IgnoreMods = ignoreCombos(lockMasks(h.xu))
		})
	}
	return h
}

// RegisterToggle binds keySequence to the dock visibility toggle.
func (h *Handler) RegisterToggle(keySequence string, toggler Toggler) error {
	err := h.connect(keySequence, func() {
		hidden := toggler.ToggleHidden()
		h.log.Info("dock visibility toggled via hotkey", "hidden", hidden)
	})
	if err != nil {
		return fmt.Errorf("failed to register toggle hotkey: %w", err)
	}
	return nil
}

func (h *Handler) connect(keySequence string, callback func()) error {
	if h.xu == nil {
		return fmt.Errorf("backend does not expose an X11 connection")
	}
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// lockMasks returns the distinct modifier masks of the lock keys present in
// the current keyboard mapping. CapsLock always maps to ModMaskLock; NumLock
// and ScrollLock float and must be looked up.
func lockMasks(xu *xgbutil.XUtil) []uint16 {
	masks := []uint16{uint16(xproto.ModMaskLock)}
	for _, sym := range []string{"Num_Lock", "Scroll_Lock"} {
		mask := modMaskFor(xu, sym)
		if mask == 0 {
			continue
		}
		known := false
		for _, have := range masks {
			if have == mask {
				known = true
				break
			}
		}
		if !known {
			masks = append(masks, mask)
		}
	}
	return masks
}

// ignoreCombos expands the lock masks into every OR-combination, including
// the empty one. Ranging over the original slice while appending doubles the
// set once per mask.
func ignoreCombos(masks []uint16) []uint16 {
	combos := []uint16{0}
	for _, mask := range masks {
		for _, c := range combos {
			combos = append(combos, c|mask)
		}
	}
	return combos
}

func modMaskFor(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
