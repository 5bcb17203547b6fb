package config

import (
	"log/slog"

	"github.com/1broseidon/deskwm/internal/clock"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

// ManagerOptions translates the configuration into window manager options.
// Bridges, the container provider and Post are left for the caller.
func (c *Config) ManagerOptions(clk clock.Clock, logger *slog.Logger) (wm.Options, error) {
	sizes, err := c.CommonSizes()
	if err != nil {
		return wm.Options{}, &ValidationError{Path: "snap.common_sizes", Err: err}
	}
	// Zero in the file means off; zero in wm.Options means default.
	delay := c.ActivateDelay()
	if delay == 0 {
		delay = -1
	}
	return wm.Options{
		MinSize:           geometry.Size{Width: c.Window.MinWidth, Height: c.Window.MinHeight},
		DefaultSize:       geometry.Size{Width: c.Window.DefaultWidth, Height: c.Window.DefaultHeight},
		VisibleMargin:     c.Window.VisibleMargin,
		SnapThreshold:     c.Snap.Threshold,
		DisableSnap:       c.Snap.Threshold == 0,
		CommonSizes:       sizes,
		UnmaximizePercent: c.Window.UnmaximizePercent,
		Durations:         c.Durations(),
		Easings:           c.Easings(),
		ActivateDelay:     delay,
		Clock:             clk,
		Logger:            logger,
	}, nil
}

// SlogLevel maps log_level onto a slog level.
func SlogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
