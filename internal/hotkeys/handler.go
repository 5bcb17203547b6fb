// Package hotkeys binds global X11 shortcuts to actions on the active
// window.
package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/wm"
	"github.com/1broseidon/deskwm/internal/x11"
)

// Actions applies a command to the focused window. *daemon.Daemon
// implements it.
type Actions interface {
	ActOnActive(ctx context.Context, kind wm.CommandKind) ([]wm.Event, error)
}

// Binding ties a key sequence such as "Mod4-q" to a command kind.
type Binding struct {
	Keys string
	Kind wm.CommandKind
}

// Bindings lists the configured shortcuts, skipping empty ones.
func Bindings(cfg config.HotkeysConfig) []Binding {
	all := []Binding{
		{Keys: cfg.CloseActive, Kind: wm.CmdClose},
		{Keys: cfg.MinimizeActive, Kind: wm.CmdMinimize},
		{Keys: cfg.MaximizeActive, Kind: wm.CmdToggleMaximize},
	}
	out := all[:0]
	for _, b := range all {
		if b.Keys != "" {
			out = append(out, b)
		}
	}
	return out
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
	logger  *slog.Logger
	timeout time.Duration
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler.
func NewHandler(conn *x11.Connection, actions Actions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(conn.XUtil)
	})

	return &Handler{
		xu:      conn.XUtil,
		root:    conn.Root,
		actions: actions,
		logger:  logger.With("component", "hotkeys"),
		timeout: 2 * time.Second,
	}
}

// RegisterAll binds every configured shortcut.
func (h *Handler) RegisterAll(cfg config.HotkeysConfig) error {
	var errs []error
	for _, b := range Bindings(cfg) {
		if err := h.Register(b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Register binds one shortcut.
func (h *Handler) Register(b Binding) error {
	err := h.RegisterFunc(b.Keys, func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		_, err := h.actions.ActOnActive(ctx, b.Kind)
		switch {
		case errors.Is(err, daemon.ErrNoActiveWindow):
			h.logger.Debug("hotkey ignored, no active window", "keys", b.Keys)
		case err != nil:
			h.logger.Warn("hotkey action failed", "keys", b.Keys, "kind", b.Kind, "error", err)
		default:
			h.logger.Debug("hotkey triggered", "keys", b.Keys, "kind", b.Kind)
		}
	})
	if err != nil {
		return fmt.Errorf("bind %s: %w", b.Keys, err)
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
