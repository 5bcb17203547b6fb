package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/deskwm/internal/clock"
	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

type silentAudio struct{ played []string }

func (a *silentAudio) Notify(name string) error {
	a.played = append(a.played, name)
	return nil
}

func startDaemon(t *testing.T, cfg *config.Config) (*Daemon, *clock.FakeClock) {
	t.Helper()
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	d, err := New(Options{Config: cfg, Clock: clk, Audio: &silentAudio{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run: %v", err)
		}
	})
	return d, clk
}

func TestDaemon_ExecuteAndSnapshot(t *testing.T) {
	d, clk := startDaemon(t, nil)
	ctx := context.Background()

	events, err := d.Execute(ctx, wm.Command{Kind: wm.CmdOpen, WindowID: "notes", Title: "Notes"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(events) == 0 || events[0].Kind != wm.EventOpened {
		t.Fatalf("expected opened event first, got %v", events)
	}

	snap, err := d.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Windows) != 1 || snap.ActiveID != "notes" || len(snap.Taskbar) != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.Animations != 1 || snap.Interaction != "idle" {
		t.Fatalf("expected open animation in flight and idle pointer, got %+v", snap)
	}

	clk.Advance(time.Second)
	snap, err = d.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Animations != 0 {
		t.Fatalf("expected animation to finish on the loop, got %d", snap.Animations)
	}
}

func TestDaemon_ActOnActive(t *testing.T) {
	d, _ := startDaemon(t, nil)
	ctx := context.Background()

	if _, err := d.ActOnActive(ctx, wm.CmdMinimize); !errors.Is(err, ErrNoActiveWindow) {
		t.Fatalf("expected ErrNoActiveWindow, got %v", err)
	}

	if _, err := d.Execute(ctx, wm.Command{Kind: wm.CmdOpen, WindowID: "a"}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := d.ActOnActive(ctx, wm.CmdMinimize); err != nil {
		t.Fatalf("minimize active: %v", err)
	}
	snap, _ := d.Snapshot(ctx)
	if snap.ActiveID != "" || snap.Windows[0].State != wm.StateMinimized {
		t.Fatalf("expected minimized with no focus, got %+v", snap.Windows[0])
	}
}

func TestDaemon_ExecuteSurfacesErrors(t *testing.T) {
	d, _ := startDaemon(t, nil)
	if _, err := d.Execute(context.Background(), wm.Command{Kind: wm.CmdClose, WindowID: "ghost"}); !errors.Is(err, wm.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDaemon_ReloadRefitsFixedViewport(t *testing.T) {
	d, _ := startDaemon(t, nil)
	ctx := context.Background()

	if _, err := d.Execute(ctx, wm.Command{Kind: wm.CmdOpen, WindowID: "a"}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := d.Execute(ctx, wm.Command{Kind: wm.CmdToggleMaximize, WindowID: "a"}); err != nil {
		t.Fatalf("maximize: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Viewport.Width = 1280
	cfg.Viewport.Height = 720
	if err := d.Reload(ctx, cfg); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	snap, _ := d.Snapshot(ctx)
	want := geometry.Rect{X: 0, Y: 0, Width: 1280, Height: 672}
	if snap.Windows[0].Geometry != want {
		t.Fatalf("expected maximized window refit to %v, got %v", want, snap.Windows[0].Geometry)
	}
	if d.Config().Viewport.Width != 1280 {
		t.Fatalf("expected reloaded config to be current")
	}
}

func TestDaemon_ViewportSourcePrimesContainer(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	live := geometry.Container{Width: 2560, Height: 1440, ReservedBottom: 32}
	d, err := New(Options{
		Clock:    clk,
		Audio:    &silentAudio{},
		Viewport: func() (geometry.Container, error) { return live, nil },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := d.container.Container(); got != live {
		t.Fatalf("expected live bounds, got %+v", got)
	}
	if d.watcher == nil {
		t.Fatalf("expected a viewport watcher")
	}
}
