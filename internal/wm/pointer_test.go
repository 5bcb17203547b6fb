package wm

import (
	"testing"
	"time"

	"github.com/1broseidon/deskwm/internal/anim"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// Default window: {640, 276, 640x480} on the 1920x1080 desktop.

func TestDrag_SnapsToLeftEdge(t *testing.T) {
	h := newHarness(t)
	h.open(t, "w1")

	if err := h.m.PointerDown("w1", RegionTitle, "", geometry.Point{X: 700, Y: 290}); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if kind, id := h.m.Interaction(); kind != InteractionDrag || id != "w1" {
		t.Fatalf("expected drag session on w1, got %s %q", kind, id)
	}
	if err := h.m.PointerMove(geometry.Point{X: 70, Y: 290}); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}
	if err := h.m.PointerUp(geometry.Point{X: 70, Y: 290}); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}

	rec := h.window(t, "w1")
	if rec.Geometry.X != 0 || rec.Geometry.Y != 276 {
		t.Fatalf("expected x snapped to 0, got %v", rec.Geometry)
	}
	if kind, _ := h.m.Interaction(); kind != InteractionIdle {
		t.Fatalf("expected idle after release, got %s", kind)
	}
	if a, ok := h.m.seq.Active("w1"); !ok || a.Kind != anim.KindSettle {
		t.Fatalf("expected settle animation, got %+v", a)
	}
}

func TestDrag_KeepsWindowReachable(t *testing.T) {
	h := newHarness(t)
	h.open(t, "w1")

	start := geometry.Point{X: 700, Y: 290}
	if err := h.m.PointerDown("w1", RegionTitle, "", start); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if err := h.m.PointerMove(geometry.Point{X: -5000, Y: -5000}); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}
	got := h.window(t, "w1").Geometry
	if got.X != 50-640 || got.Y != 0 {
		t.Fatalf("expected window clamped to {-590, 0}, got %v", got)
	}

	if err := h.m.PointerMove(geometry.Point{X: 9000, Y: 9000}); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}
	got = h.window(t, "w1").Geometry
	if got.X != 1920-50 || got.Y != 1032-50 {
		t.Fatalf("expected window clamped to {1870, 982}, got %v", got)
	}
}

func TestResize_SnapsToCommonSize(t *testing.T) {
	h := newHarness(t)
	h.open(t, "w1")

	corner := geometry.Point{X: 1280, Y: 756}
	if err := h.m.PointerDown("w1", RegionHandle, HandleSE, corner); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	end := geometry.Point{X: corner.X + 172, Y: corner.Y + 125}
	if err := h.m.PointerUp(end); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}

	got := h.window(t, "w1").Geometry
	if got != (geometry.Rect{X: 640, Y: 276, Width: 800, Height: 600}) {
		t.Fatalf("expected 800x600 at the original origin, got %v", got)
	}
}

func TestResize_MinimumSizeBoundary(t *testing.T) {
	tests := []struct {
		name   string
		handle Handle
		from   geometry.Point
		delta  geometry.Point
		want   geometry.Rect
	}{
		{
			name:   "se shrinks to minimum",
			handle: HandleSE,
			from:   geometry.Point{X: 1280, Y: 756},
			delta:  geometry.Point{X: -1000, Y: -1000},
			want:   geometry.Rect{X: 640, Y: 276, Width: 300, Height: 200},
		},
		{
			name:   "nw pins the bottom right corner",
			handle: HandleNW,
			from:   geometry.Point{X: 640, Y: 276},
			delta:  geometry.Point{X: 1000, Y: 1000},
			want:   geometry.Rect{X: 980, Y: 556, Width: 300, Height: 200},
		},
		{
			name:   "w grows left",
			handle: HandleW,
			from:   geometry.Point{X: 640, Y: 500},
			delta:  geometry.Point{X: -100, Y: 40},
			want:   geometry.Rect{X: 540, Y: 276, Width: 740, Height: 480},
		},
		{
			name:   "n stops at the top edge",
			handle: HandleN,
			from:   geometry.Point{X: 900, Y: 276},
			delta:  geometry.Point{X: 0, Y: -5000},
			want:   geometry.Rect{X: 640, Y: 0, Width: 640, Height: 756},
		},
		{
			name:   "exactly minimum is accepted",
			handle: HandleE,
			from:   geometry.Point{X: 1280, Y: 500},
			delta:  geometry.Point{X: -340, Y: 0},
			want:   geometry.Rect{X: 640, Y: 276, Width: 300, Height: 480},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.open(t, "w1")
			if err := h.m.PointerDown("w1", RegionHandle, tt.handle, tt.from); err != nil {
				t.Fatalf("PointerDown: %v", err)
			}
			to := geometry.Point{X: tt.from.X + tt.delta.X, Y: tt.from.Y + tt.delta.Y}
			if err := h.m.PointerMove(to); err != nil {
				t.Fatalf("PointerMove: %v", err)
			}
			if got := h.window(t, "w1").Geometry; got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			h.assertHealthy(t)
		})
	}
}

func TestPointerDown_IgnoredDuringSession(t *testing.T) {
	h := newHarness(t)
	h.open(t, "a", "b")

	if err := h.m.PointerDown("b", RegionTitle, "", geometry.Point{X: 700, Y: 290}); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if err := h.m.PointerDown("a", RegionHandle, HandleSE, geometry.Point{X: 1280, Y: 756}); err != nil {
		t.Fatalf("second PointerDown: %v", err)
	}
	if kind, id := h.m.Interaction(); kind != InteractionDrag || id != "b" {
		t.Fatalf("expected the original drag on b to continue, got %s %q", kind, id)
	}
	if h.m.ActiveID() != "b" {
		t.Fatalf("expected b to stay active, got %q", h.m.ActiveID())
	}
}

func TestPointerDown_ContentOnlyActivates(t *testing.T) {
	h := newHarness(t)
	h.open(t, "a", "b")

	if err := h.m.PointerDown("a", RegionContent, "", geometry.Point{X: 900, Y: 500}); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if h.m.ActiveID() != "a" {
		t.Fatalf("expected a active, got %q", h.m.ActiveID())
	}
	if kind, _ := h.m.Interaction(); kind != InteractionIdle {
		t.Fatalf("content press must not start a session, got %s", kind)
	}

	if err := h.m.PointerDown("b", RegionControl, "", geometry.Point{X: 1270, Y: 280}); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if h.m.ActiveID() != "a" {
		t.Fatalf("control press must not change focus, got %q", h.m.ActiveID())
	}
}

func TestPointerDown_DemotesMaximized(t *testing.T) {
	h := newHarness(t)
	h.open(t, "w1")
	if err := h.m.ToggleMaximize("w1"); err != nil {
		t.Fatalf("ToggleMaximize: %v", err)
	}

	if err := h.m.PointerDown("w1", RegionTitle, "", geometry.Point{X: 960, Y: 10}); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	rec := h.window(t, "w1")
	want := geometry.Rect{X: 288, Y: 0, Width: 1344, Height: 722}
	if rec.State != StateNormal || rec.Geometry != want || rec.SavedGeometry != nil {
		t.Fatalf("expected demotion to %v, got %+v", want, rec)
	}
	if kind, _ := h.m.Interaction(); kind != InteractionDrag {
		t.Fatalf("expected drag to continue after demotion, got %s", kind)
	}
}

func TestSession_CancelledWhenWindowMinimized(t *testing.T) {
	h := newHarness(t)
	h.open(t, "w1")

	if err := h.m.PointerDown("w1", RegionTitle, "", geometry.Point{X: 700, Y: 290}); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if err := h.m.Minimize("w1"); err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if kind, _ := h.m.Interaction(); kind != InteractionIdle {
		t.Fatalf("expected session cancelled, got %s", kind)
	}
	before := h.window(t, "w1").Geometry
	if err := h.m.PointerMove(geometry.Point{X: 100, Y: 100}); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}
	if after := h.window(t, "w1").Geometry; after != before {
		t.Fatalf("minimized window moved: %v -> %v", before, after)
	}
	h.clock.Advance(time.Second)
	h.assertHealthy(t)
}

func TestOptions_ZeroValuesUseDefaults(t *testing.T) {
	got := Options{}.withDefaults()
	want := DefaultOptions()
	if got.SnapThreshold != want.SnapThreshold || got.DisableSnap {
		t.Fatalf("expected snapping at %d, got %d disabled=%v", want.SnapThreshold, got.SnapThreshold, got.DisableSnap)
	}
	if got.ActivateDelay != want.ActivateDelay {
		t.Fatalf("expected activate delay %v, got %v", want.ActivateDelay, got.ActivateDelay)
	}
	if immediate := (Options{ActivateDelay: -1}).withDefaults(); immediate.ActivateDelay != 0 {
		t.Fatalf("expected a negative delay to mean immediate, got %v", immediate.ActivateDelay)
	}
}

func TestDrag_DisableSnap(t *testing.T) {
	h := newHarness(t)
	h.m = New(Options{
		Clock:       h.clock,
		Taskbar:     h.taskbar,
		Audio:       h.audio,
		Container:   h.view,
		DisableSnap: true,
	})
	h.open(t, "w1")

	if err := h.m.PointerDown("w1", RegionTitle, "", geometry.Point{X: 700, Y: 290}); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if err := h.m.PointerUp(geometry.Point{X: 70, Y: 290}); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if got := h.window(t, "w1").Geometry; got.X != 10 {
		t.Fatalf("expected the raw position with snapping off, got %v", got)
	}

	corner := geometry.Point{X: 650, Y: 756}
	if err := h.m.PointerDown("w1", RegionHandle, HandleSE, corner); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if err := h.m.PointerUp(geometry.Point{X: corner.X + 172, Y: corner.Y + 125}); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	if got := h.window(t, "w1").Geometry; got.Width != 812 || got.Height != 605 {
		t.Fatalf("expected 812x605 with snapping off, got %v", got)
	}
}
