package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskwm/internal/anim"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// Viewport sources.
const (
	ViewportFixed = "fixed"
	ViewportX11   = "x11"
)

// WindowConfig holds window sizing rules, in desktop units.
type WindowConfig struct {
	MinWidth          int `yaml:"min_width"`
	MinHeight         int `yaml:"min_height"`
	DefaultWidth      int `yaml:"default_width"`
	DefaultHeight     int `yaml:"default_height"`
	VisibleMargin     int `yaml:"visible_margin"`
	UnmaximizePercent int `yaml:"unmaximize_percent"`
}

// SnapConfig controls edge and size snapping.
type SnapConfig struct {
	Threshold   int      `yaml:"threshold"`
	CommonSizes []string `yaml:"common_sizes"`
}

// AnimationConfig holds transition durations in milliseconds.
type AnimationConfig struct {
	Open          int               `yaml:"open"`
	Close         int               `yaml:"close"`
	Minimize      int               `yaml:"minimize"`
	Restore       int               `yaml:"restore"`
	Maximize      int               `yaml:"maximize"`
	Unmaximize    int               `yaml:"unmaximize"`
	Settle        int               `yaml:"settle"`
	ActivateDelay int               `yaml:"activate_delay"`
	Easing        map[string]string `yaml:"easing,omitempty"`
}

// ViewportConfig selects where container bounds come from.
type ViewportConfig struct {
	Source        string        `yaml:"source"`
	Width         int           `yaml:"width"`
	Height        int           `yaml:"height"`
	TaskbarHeight int           `yaml:"taskbar_height"`
	PollInterval  time.Duration `yaml:"poll_interval"`
}

// TaskbarConfig sizes the taskbar strip.
type TaskbarConfig struct {
	StartWidth int `yaml:"start_width"`
	EntryWidth int `yaml:"entry_width"`
}

// AudioConfig maps sound names to files played by Player.
type AudioConfig struct {
	Enabled bool              `yaml:"enabled"`
	Player  string            `yaml:"player"`
	Sounds  map[string]string `yaml:"sounds"`
}

// HotkeysConfig binds global X11 shortcuts to active-window actions.
type HotkeysConfig struct {
	CloseActive    string `yaml:"close_active"`
	MinimizeActive string `yaml:"minimize_active"`
	MaximizeActive string `yaml:"maximize_active"`
}

// JournalConfig configures the window event journal.
type JournalConfig struct {
	// Enabled turns the journal on/off
	Enabled bool `yaml:"enabled"`
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// File is the journal path (default: ~/.local/share/deskwm/events.log)
	File string `yaml:"file"`
	// MaxSizeMB is the size that triggers rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxFiles is the number of rotated files kept (default: 3)
	MaxFiles int `yaml:"max_files"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel   string          `yaml:"log_level"`
	Display    string          `yaml:"display,omitempty"`
	XAuthority string          `yaml:"xauthority,omitempty"`
	Window     WindowConfig    `yaml:"window"`
	Snap       SnapConfig      `yaml:"snap"`
	Animation  AnimationConfig `yaml:"animation"`
	Viewport   ViewportConfig  `yaml:"viewport"`
	Taskbar    TaskbarConfig   `yaml:"taskbar"`
	Audio      AudioConfig     `yaml:"audio"`
	Hotkeys    HotkeysConfig   `yaml:"hotkeys"`
	Journal    JournalConfig   `yaml:"journal"`
}

const soundDir = "/usr/share/sounds/freedesktop/stereo"

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Window: WindowConfig{
			MinWidth:          300,
			MinHeight:         200,
			DefaultWidth:      640,
			DefaultHeight:     480,
			VisibleMargin:     50,
			UnmaximizePercent: 70,
		},
		Snap: SnapConfig{
			Threshold:   15,
			CommonSizes: []string{"800x600", "1024x768", "1280x720", "1366x768", "1600x900", "1920x1080"},
		},
		Animation: AnimationConfig{
			Open:          250,
			Close:         200,
			Minimize:      350,
			Restore:       350,
			Maximize:      300,
			Unmaximize:    300,
			Settle:        200,
			ActivateDelay: 100,
		},
		Viewport: ViewportConfig{
			Source:        ViewportFixed,
			Width:         1920,
			Height:        1080,
			TaskbarHeight: 48,
			PollInterval:  2 * time.Second,
		},
		Taskbar: TaskbarConfig{
			StartWidth: 96,
			EntryWidth: 160,
		},
		Audio: AudioConfig{
			Enabled: false,
			Player:  "paplay",
			Sounds: map[string]string{
				"open":     filepath.Join(soundDir, "window-attention.oga"),
				"close":    filepath.Join(soundDir, "service-logout.oga"),
				"minimize": filepath.Join(soundDir, "message.oga"),
				"restore":  filepath.Join(soundDir, "message-new-instant.oga"),
				"maximize": filepath.Join(soundDir, "dialog-information.oga"),
				"error":    filepath.Join(soundDir, "dialog-error.oga"),
			},
		},
		Hotkeys: HotkeysConfig{
			CloseActive:    "Mod4-q",
			MinimizeActive: "Mod4-m",
			MaximizeActive: "Mod4-Up",
		},
	}
}

// GetJournalConfig returns the journal configuration with defaults applied.
func (c *Config) GetJournalConfig() JournalConfig {
	if c == nil {
		return JournalConfig{}
	}
	cfg := c.Journal
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/deskwm/events.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// CommonSizes parses snap.common_sizes.
func (c *Config) CommonSizes() ([]geometry.Size, error) {
	out := make([]geometry.Size, 0, len(c.Snap.CommonSizes))
	for _, raw := range c.Snap.CommonSizes {
		s, err := geometry.ParseSize(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Durations returns the animation durations keyed by kind.
func (c *Config) Durations() map[anim.Kind]time.Duration {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	a := c.Animation
	return map[anim.Kind]time.Duration{
		anim.KindOpen:       ms(a.Open),
		anim.KindClose:      ms(a.Close),
		anim.KindMinimize:   ms(a.Minimize),
		anim.KindRestore:    ms(a.Restore),
		anim.KindMaximize:   ms(a.Maximize),
		anim.KindUnmaximize: ms(a.Unmaximize),
		anim.KindSettle:     ms(a.Settle),
	}
}

// Easings returns the configured easing overrides keyed by kind.
func (c *Config) Easings() map[anim.Kind]string {
	if len(c.Animation.Easing) == 0 {
		return nil
	}
	out := make(map[anim.Kind]string, len(c.Animation.Easing))
	for k, v := range c.Animation.Easing {
		out[anim.Kind(k)] = v
	}
	return out
}

// ActivateDelay is the pause before focus moves to the next window.
func (c *Config) ActivateDelay() time.Duration {
	return time.Duration(c.Animation.ActivateDelay) * time.Millisecond
}

// FixedContainer is the container described by the viewport section.
func (c *Config) FixedContainer() geometry.Container {
	return geometry.Container{
		Width:          c.Viewport.Width,
		Height:         c.Viewport.Height,
		ReservedBottom: c.Viewport.TaskbarHeight,
	}
}

// DefaultConfigPath returns ~/.config/deskwm/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "deskwm", "config.yaml"), nil
}

// Save writes the configuration to path, creating parent directories.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

var validSounds = []string{"open", "close", "minimize", "restore", "maximize", "error"}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	w := c.Window
	if w.MinWidth <= 0 || w.MinHeight <= 0 {
		return &ValidationError{Path: "window.min_width", Err: fmt.Errorf("minimum size must be positive")}
	}
	if w.DefaultWidth < w.MinWidth || w.DefaultHeight < w.MinHeight {
		return &ValidationError{Path: "window.default_width", Err: fmt.Errorf("default size %dx%d is below the minimum %dx%d", w.DefaultWidth, w.DefaultHeight, w.MinWidth, w.MinHeight)}
	}
	if w.VisibleMargin <= 0 {
		return &ValidationError{Path: "window.visible_margin", Err: fmt.Errorf("visible_margin must be > 0")}
	}
	if w.UnmaximizePercent < 10 || w.UnmaximizePercent > 100 {
		return &ValidationError{Path: "window.unmaximize_percent", Err: fmt.Errorf("unmaximize_percent must be between 10 and 100")}
	}

	if c.Snap.Threshold < 0 {
		return &ValidationError{Path: "snap.threshold", Err: fmt.Errorf("threshold must be >= 0")}
	}
	for i, raw := range c.Snap.CommonSizes {
		if _, err := geometry.ParseSize(raw); err != nil {
			return &ValidationError{Path: "snap.common_sizes", Err: fmt.Errorf("entry %d: %w", i, err)}
		}
	}

	a := c.Animation
	for name, v := range map[string]int{
		"open": a.Open, "close": a.Close, "minimize": a.Minimize, "restore": a.Restore,
		"maximize": a.Maximize, "unmaximize": a.Unmaximize, "settle": a.Settle, "activate_delay": a.ActivateDelay,
	} {
		if v < 0 {
			return &ValidationError{Path: "animation." + name, Err: fmt.Errorf("duration must be >= 0")}
		}
	}
	for kind, easing := range a.Easing {
		if !isKnownKind(kind) {
			return &ValidationError{Path: "animation.easing." + kind, Err: fmt.Errorf("unknown animation kind")}
		}
		if !anim.KnownEasing(easing) {
			return &ValidationError{Path: "animation.easing." + kind, Err: fmt.Errorf("unknown easing %q", easing)}
		}
	}

	v := c.Viewport
	switch v.Source {
	case ViewportFixed, ViewportX11:
	default:
		return &ValidationError{Path: "viewport.source", Err: fmt.Errorf("source must be one of: fixed, x11")}
	}
	if v.Width <= 0 || v.Height <= 0 {
		return &ValidationError{Path: "viewport.width", Err: fmt.Errorf("viewport size must be positive")}
	}
	if v.TaskbarHeight < 0 || v.TaskbarHeight >= v.Height {
		return &ValidationError{Path: "viewport.taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 0 and below the viewport height")}
	}
	if v.Source == ViewportX11 && v.PollInterval <= 0 {
		return &ValidationError{Path: "viewport.poll_interval", Err: fmt.Errorf("poll_interval must be > 0 for the x11 source")}
	}

	if c.Taskbar.StartWidth < 0 || c.Taskbar.EntryWidth <= 0 {
		return &ValidationError{Path: "taskbar", Err: fmt.Errorf("taskbar widths must be positive")}
	}

	if c.Audio.Enabled && strings.TrimSpace(c.Audio.Player) == "" {
		return &ValidationError{Path: "audio.player", Err: fmt.Errorf("player is required when audio is enabled")}
	}
	for name := range c.Audio.Sounds {
		if !contains(validSounds, name) {
			return &ValidationError{Path: "audio.sounds." + name, Err: fmt.Errorf("unknown sound, expected one of: %s", strings.Join(validSounds, ", "))}
		}
	}

	switch c.Journal.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "journal.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	if c.Journal.MaxSizeMB < 0 || c.Journal.MaxFiles < 0 {
		return &ValidationError{Path: "journal", Err: fmt.Errorf("max_size_mb and max_files must be >= 0")}
	}

	return nil
}

func isKnownKind(name string) bool {
	for _, k := range anim.Kinds {
		if string(k) == name {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
