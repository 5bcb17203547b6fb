package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/deskwm/internal/anim"
	"github.com/1broseidon/deskwm/internal/clock"
	"github.com/1broseidon/deskwm/internal/geometry"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	sizes, err := cfg.CommonSizes()
	if err != nil {
		t.Fatalf("CommonSizes: %v", err)
	}
	if len(sizes) != 6 || sizes[0] != (geometry.Size{Width: 800, Height: 600}) {
		t.Fatalf("unexpected common sizes %v", sizes)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Window.MinWidth != 300 || len(res.Files) != 0 {
		t.Fatalf("expected defaults and no files, got %+v %v", res.Config.Window, res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Viewport.Source != ViewportFixed {
		t.Fatalf("expected default viewport source, got %q", res.Config.Viewport.Source)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		"log_level: debug",
		"window:",
		"  min_width: 400",
		"snap:",
		"  common_sizes: [\"1024x768\"]",
		"animation:",
		"  minimize: 500",
		"  easing:",
		"    minimize: linear",
		"viewport:",
		"  source: x11",
		"  poll_interval: 5s",
		"audio:",
		"  sounds:",
		"    open: /tmp/open.oga",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.LogLevel != "debug" || cfg.Window.MinWidth != 400 || cfg.Window.MinHeight != 200 {
		t.Fatalf("unexpected window/log settings: %q %+v", cfg.LogLevel, cfg.Window)
	}
	if len(cfg.Snap.CommonSizes) != 1 || cfg.Snap.Threshold != 15 {
		t.Fatalf("unexpected snap settings %+v", cfg.Snap)
	}
	if cfg.Durations()[anim.KindMinimize] != 500*time.Millisecond {
		t.Fatalf("expected minimize 500ms, got %v", cfg.Durations()[anim.KindMinimize])
	}
	if cfg.Easings()[anim.KindMinimize] != "linear" {
		t.Fatalf("expected linear minimize easing, got %v", cfg.Easings())
	}
	if cfg.Viewport.Source != ViewportX11 || cfg.Viewport.PollInterval != 5*time.Second {
		t.Fatalf("unexpected viewport %+v", cfg.Viewport)
	}
	if cfg.Audio.Sounds["open"] != "/tmp/open.oga" || cfg.Audio.Sounds["close"] == "" {
		t.Fatalf("expected sounds merged over defaults, got %v", cfg.Audio.Sounds)
	}
}

func TestLoadFromPath_UnknownKeyNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "window:\n  min_widht: 400\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected unknown key error")
	}
	if !strings.Contains(err.Error(), "config.yaml") || !strings.Contains(err.Error(), "min_widht") {
		t.Fatalf("expected file and key in error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "window:\n  visible_margin: 0\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "window.visible_margin" || verr.Source.Line != 2 {
		t.Fatalf("expected source line 2 for window.visible_margin, got %+v", verr)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected line number in message, got %q", err.Error())
	}
}

func TestLoadFromPath_Includes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "window:\n  min_width: 350\n  min_height: 250\n")
	main := filepath.Join(dir, "config.yaml")
	writeFile(t, main, "include: base.yaml\nwindow:\n  min_width: 320\n")

	res, err := LoadFromPath(main)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Window.MinWidth != 320 || res.Config.Window.MinHeight != 250 {
		t.Fatalf("expected include then override, got %+v", res.Config.Window)
	}
	if len(res.Files) != 2 {
		t.Fatalf("expected two loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	if _, err := LoadFromPath(a); err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"default below min", func(c *Config) { c.Window.DefaultWidth = 100 }, "window.default_width"},
		{"bad common size", func(c *Config) { c.Snap.CommonSizes = []string{"800by600"} }, "snap.common_sizes"},
		{"negative duration", func(c *Config) { c.Animation.Close = -1 }, "animation.close"},
		{"unknown easing", func(c *Config) { c.Animation.Easing = map[string]string{"open": "bouncy"} }, "animation.easing.open"},
		{"viewport source", func(c *Config) { c.Viewport.Source = "wayland" }, "viewport.source"},
		{"taskbar taller than viewport", func(c *Config) { c.Viewport.TaskbarHeight = 2000 }, "viewport.taskbar_height"},
		{"unknown sound", func(c *Config) { c.Audio.Sounds = map[string]string{"beep": "/x"} }, "audio.sounds.beep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Fatalf("expected validation error at %s, got %v", tt.path, err)
			}
		})
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "window:\n  min_width: 420\naudio:\n  sounds:\n    open: /tmp/o.oga\n")
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	v, src, err := Explain(res, "window.min_width")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if v != 420 || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("unexpected explain result %v %+v", v, src)
	}

	v, src, err = Explain(res, "snap.threshold")
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if v != 15 || src.Kind != SourceDefault {
		t.Fatalf("expected default threshold, got %v %+v", v, src)
	}

	if _, _, err := Explain(res, "window.nope"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Window.MinWidth = 333
	cfg.Viewport.PollInterval = 3 * time.Second

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Window.MinWidth != 333 || res.Config.Viewport.PollInterval != 3*time.Second {
		t.Fatalf("round trip lost values: %+v %+v", res.Config.Window, res.Config.Viewport)
	}
}

func TestManagerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.UnmaximizePercent = 60
	cfg.Animation.ActivateDelay = 40

	opts, err := cfg.ManagerOptions(clock.Real(), nil)
	if err != nil {
		t.Fatalf("ManagerOptions: %v", err)
	}
	if opts.MinSize != (geometry.Size{Width: 300, Height: 200}) || opts.UnmaximizePercent != 60 {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.ActivateDelay != 40*time.Millisecond || opts.Durations[anim.KindOpen] != 250*time.Millisecond {
		t.Fatalf("unexpected timings %v %v", opts.ActivateDelay, opts.Durations)
	}
	if len(opts.CommonSizes) != 6 {
		t.Fatalf("expected six common sizes, got %v", opts.CommonSizes)
	}
}

func TestManagerOptions_ZeroMeansOff(t *testing.T) {
	cfg := DefaultConfig()
	opts, err := cfg.ManagerOptions(clock.Real(), nil)
	if err != nil {
		t.Fatalf("ManagerOptions: %v", err)
	}
	if opts.DisableSnap || opts.SnapThreshold != 15 {
		t.Fatalf("expected snapping on at 15, got %v %d", opts.DisableSnap, opts.SnapThreshold)
	}

	cfg.Snap.Threshold = 0
	cfg.Animation.ActivateDelay = 0
	opts, err = cfg.ManagerOptions(clock.Real(), nil)
	if err != nil {
		t.Fatalf("ManagerOptions: %v", err)
	}
	if !opts.DisableSnap {
		t.Fatalf("expected threshold 0 to disable snapping")
	}
	if opts.ActivateDelay >= 0 {
		t.Fatalf("expected an immediate activate delay, got %v", opts.ActivateDelay)
	}
}
