package config

import (
	"fmt"
	"sort"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig layers raw over the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	set(&cfg.LogLevel, raw.LogLevel)
	set(&cfg.Display, raw.Display)
	set(&cfg.XAuthority, raw.XAuthority)

	if w := raw.Window; w != nil {
		set(&cfg.Window.MinWidth, w.MinWidth)
		set(&cfg.Window.MinHeight, w.MinHeight)
		set(&cfg.Window.DefaultWidth, w.DefaultWidth)
		set(&cfg.Window.DefaultHeight, w.DefaultHeight)
		set(&cfg.Window.VisibleMargin, w.VisibleMargin)
		set(&cfg.Window.UnmaximizePercent, w.UnmaximizePercent)
	}
	if s := raw.Snap; s != nil {
		set(&cfg.Snap.Threshold, s.Threshold)
		if s.CommonSizes != nil {
			cfg.Snap.CommonSizes = append([]string(nil), s.CommonSizes...)
		}
	}
	if a := raw.Animation; a != nil {
		set(&cfg.Animation.Open, a.Open)
		set(&cfg.Animation.Close, a.Close)
		set(&cfg.Animation.Minimize, a.Minimize)
		set(&cfg.Animation.Restore, a.Restore)
		set(&cfg.Animation.Maximize, a.Maximize)
		set(&cfg.Animation.Unmaximize, a.Unmaximize)
		set(&cfg.Animation.Settle, a.Settle)
		set(&cfg.Animation.ActivateDelay, a.ActivateDelay)
		cfg.Animation.Easing = mergeStringMap(cfg.Animation.Easing, a.Easing)
	}
	if v := raw.Viewport; v != nil {
		set(&cfg.Viewport.Source, v.Source)
		set(&cfg.Viewport.Width, v.Width)
		set(&cfg.Viewport.Height, v.Height)
		set(&cfg.Viewport.TaskbarHeight, v.TaskbarHeight)
		set(&cfg.Viewport.PollInterval, v.PollInterval)
	}
	if t := raw.Taskbar; t != nil {
		set(&cfg.Taskbar.StartWidth, t.StartWidth)
		set(&cfg.Taskbar.EntryWidth, t.EntryWidth)
	}
	if a := raw.Audio; a != nil {
		set(&cfg.Audio.Enabled, a.Enabled)
		set(&cfg.Audio.Player, a.Player)
		cfg.Audio.Sounds = mergeStringMap(cfg.Audio.Sounds, a.Sounds)
	}
	if h := raw.Hotkeys; h != nil {
		set(&cfg.Hotkeys.CloseActive, h.CloseActive)
		set(&cfg.Hotkeys.MinimizeActive, h.MinimizeActive)
		set(&cfg.Hotkeys.MaximizeActive, h.MaximizeActive)
	}
	if j := raw.Journal; j != nil {
		set(&cfg.Journal.Enabled, j.Enabled)
		set(&cfg.Journal.Level, j.Level)
		set(&cfg.Journal.File, j.File)
		set(&cfg.Journal.MaxSizeMB, j.MaxSizeMB)
		set(&cfg.Journal.MaxFiles, j.MaxFiles)
	}

	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func mergeStringMap(base map[string]string, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return base
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
