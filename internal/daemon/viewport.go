package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

// ViewportSource reports the current desktop bounds.
type ViewportSource func() (geometry.Container, error)

// ViewportWatcherConfig holds configuration for the viewport watcher.
type ViewportWatcherConfig struct {
	Interval time.Duration
	Logger   *slog.Logger
}

// ViewportWatcher periodically re-reads the viewport and notifies the window
// manager when it drifts from the published container.
type ViewportWatcher struct {
	interval time.Duration
	source   ViewportSource
	target   *wm.StaticContainer
	onChange func()
	logger   *slog.Logger
}

// NewViewportWatcher creates a watcher. onChange runs on the watcher's
// goroutine after target has been updated; it should post to the event loop.
func NewViewportWatcher(cfg ViewportWatcherConfig, source ViewportSource, target *wm.StaticContainer, onChange func()) *ViewportWatcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &ViewportWatcher{
		interval: interval,
		source:   source,
		target:   target,
		onChange: onChange,
		logger:   logger,
	}
}

// Run starts the polling loop. Blocks until context is cancelled.
func (w *ViewportWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("viewport watcher started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("viewport watcher stopped")
			return
		case <-ticker.C:
			w.check()
		}
	}
}

// CheckNow performs a single pass and reports whether the viewport changed.
func (w *ViewportWatcher) CheckNow() bool {
	return w.check()
}

func (w *ViewportWatcher) check() (changed bool) {
	defer func() {
		if err := recover(); err != nil {
			w.logger.Error("viewport watcher panic recovered", "error", fmt.Sprint(err))
			changed = false
		}
	}()

	c, err := w.source()
	if err != nil {
		w.logger.Warn("viewport: failed to read bounds", "error", err)
		return false
	}
	if c.Width <= 0 || c.Height <= 0 || c.ReservedBottom < 0 || c.ReservedBottom >= c.Height {
		w.logger.Warn("viewport: ignoring implausible bounds",
			"width", c.Width,
			"height", c.Height,
			"reserved_bottom", c.ReservedBottom)
		return false
	}

	if !w.target.Set(c) {
		return false
	}

	w.logger.Info("viewport changed",
		"width", c.Width,
		"height", c.Height,
		"reserved_bottom", c.ReservedBottom)
	if w.onChange != nil {
		w.onChange()
	}
	return true
}
