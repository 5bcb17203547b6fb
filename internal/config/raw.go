package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawWindowConfig struct {
	MinWidth          *int `yaml:"min_width"`
	MinHeight         *int `yaml:"min_height"`
	DefaultWidth      *int `yaml:"default_width"`
	DefaultHeight     *int `yaml:"default_height"`
	VisibleMargin     *int `yaml:"visible_margin"`
	UnmaximizePercent *int `yaml:"unmaximize_percent"`
}

type RawSnapConfig struct {
	Threshold   *int     `yaml:"threshold"`
	CommonSizes []string `yaml:"common_sizes"`
}

type RawAnimationConfig struct {
	Open          *int              `yaml:"open"`
	Close         *int              `yaml:"close"`
	Minimize      *int              `yaml:"minimize"`
	Restore       *int              `yaml:"restore"`
	Maximize      *int              `yaml:"maximize"`
	Unmaximize    *int              `yaml:"unmaximize"`
	Settle        *int              `yaml:"settle"`
	ActivateDelay *int              `yaml:"activate_delay"`
	Easing        map[string]string `yaml:"easing"`
}

type RawViewportConfig struct {
	Source        *string        `yaml:"source"`
	Width         *int           `yaml:"width"`
	Height        *int           `yaml:"height"`
	TaskbarHeight *int           `yaml:"taskbar_height"`
	PollInterval  *time.Duration `yaml:"poll_interval"`
}

type RawTaskbarConfig struct {
	StartWidth *int `yaml:"start_width"`
	EntryWidth *int `yaml:"entry_width"`
}

type RawAudioConfig struct {
	Enabled *bool             `yaml:"enabled"`
	Player  *string           `yaml:"player"`
	Sounds  map[string]string `yaml:"sounds"`
}

type RawHotkeysConfig struct {
	CloseActive    *string `yaml:"close_active"`
	MinimizeActive *string `yaml:"minimize_active"`
	MaximizeActive *string `yaml:"maximize_active"`
}

type RawJournalConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

// RawConfig is one file's worth of settings. Nil fields were not set and
// leave the value from earlier files (or the defaults) in place.
type RawConfig struct {
	Include    IncludeList         `yaml:"include"`
	LogLevel   *string             `yaml:"log_level"`
	Display    *string             `yaml:"display"`
	XAuthority *string             `yaml:"xauthority"`
	Window     *RawWindowConfig    `yaml:"window"`
	Snap       *RawSnapConfig      `yaml:"snap"`
	Animation  *RawAnimationConfig `yaml:"animation"`
	Viewport   *RawViewportConfig  `yaml:"viewport"`
	Taskbar    *RawTaskbarConfig   `yaml:"taskbar"`
	Audio      *RawAudioConfig     `yaml:"audio"`
	Hotkeys    *RawHotkeysConfig   `yaml:"hotkeys"`
	Journal    *RawJournalConfig   `yaml:"journal"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	out.LogLevel = pick(out.LogLevel, overlay.LogLevel)
	out.Display = pick(out.Display, overlay.Display)
	out.XAuthority = pick(out.XAuthority, overlay.XAuthority)

	if overlay.Window != nil {
		base := deref(out.Window)
		o := overlay.Window
		base.MinWidth = pick(base.MinWidth, o.MinWidth)
		base.MinHeight = pick(base.MinHeight, o.MinHeight)
		base.DefaultWidth = pick(base.DefaultWidth, o.DefaultWidth)
		base.DefaultHeight = pick(base.DefaultHeight, o.DefaultHeight)
		base.VisibleMargin = pick(base.VisibleMargin, o.VisibleMargin)
		base.UnmaximizePercent = pick(base.UnmaximizePercent, o.UnmaximizePercent)
		out.Window = &base
	}
	if overlay.Snap != nil {
		base := deref(out.Snap)
		base.Threshold = pick(base.Threshold, overlay.Snap.Threshold)
		if overlay.Snap.CommonSizes != nil {
			base.CommonSizes = overlay.Snap.CommonSizes
		}
		out.Snap = &base
	}
	if overlay.Animation != nil {
		base := deref(out.Animation)
		o := overlay.Animation
		base.Open = pick(base.Open, o.Open)
		base.Close = pick(base.Close, o.Close)
		base.Minimize = pick(base.Minimize, o.Minimize)
		base.Restore = pick(base.Restore, o.Restore)
		base.Maximize = pick(base.Maximize, o.Maximize)
		base.Unmaximize = pick(base.Unmaximize, o.Unmaximize)
		base.Settle = pick(base.Settle, o.Settle)
		base.ActivateDelay = pick(base.ActivateDelay, o.ActivateDelay)
		base.Easing = mergeStringMap(base.Easing, o.Easing)
		out.Animation = &base
	}
	if overlay.Viewport != nil {
		base := deref(out.Viewport)
		o := overlay.Viewport
		base.Source = pick(base.Source, o.Source)
		base.Width = pick(base.Width, o.Width)
		base.Height = pick(base.Height, o.Height)
		base.TaskbarHeight = pick(base.TaskbarHeight, o.TaskbarHeight)
		base.PollInterval = pick(base.PollInterval, o.PollInterval)
		out.Viewport = &base
	}
	if overlay.Taskbar != nil {
		base := deref(out.Taskbar)
		base.StartWidth = pick(base.StartWidth, overlay.Taskbar.StartWidth)
		base.EntryWidth = pick(base.EntryWidth, overlay.Taskbar.EntryWidth)
		out.Taskbar = &base
	}
	if overlay.Audio != nil {
		base := deref(out.Audio)
		base.Enabled = pick(base.Enabled, overlay.Audio.Enabled)
		base.Player = pick(base.Player, overlay.Audio.Player)
		base.Sounds = mergeStringMap(base.Sounds, overlay.Audio.Sounds)
		out.Audio = &base
	}
	if overlay.Hotkeys != nil {
		base := deref(out.Hotkeys)
		o := overlay.Hotkeys
		base.CloseActive = pick(base.CloseActive, o.CloseActive)
		base.MinimizeActive = pick(base.MinimizeActive, o.MinimizeActive)
		base.MaximizeActive = pick(base.MaximizeActive, o.MaximizeActive)
		out.Hotkeys = &base
	}
	if overlay.Journal != nil {
		base := deref(out.Journal)
		o := overlay.Journal
		base.Enabled = pick(base.Enabled, o.Enabled)
		base.Level = pick(base.Level, o.Level)
		base.File = pick(base.File, o.File)
		base.MaxSizeMB = pick(base.MaxSizeMB, o.MaxSizeMB)
		base.MaxFiles = pick(base.MaxFiles, o.MaxFiles)
		out.Journal = &base
	}

	return out
}

// pick returns overlay when it is set.
func pick[T any](base, overlay *T) *T {
	if overlay != nil {
		return overlay
	}
	return base
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
