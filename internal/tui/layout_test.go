package tui

import (
	"testing"

	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

func TestScaleCells(t *testing.T) {
	sc := scale{cellW: 10, cellH: 20}
	tests := []struct {
		name string
		rect geometry.Rect
		want cellRect
	}{
		{"aligned", geometry.Rect{X: 100, Y: 40, Width: 300, Height: 200}, cellRect{X: 10, Y: 3, W: 30, H: 10}},
		{"partial cells round outward", geometry.Rect{X: 105, Y: 50, Width: 300, Height: 200}, cellRect{X: 10, Y: 3, W: 31, H: 11}},
		{"negative origin", geometry.Rect{X: -25, Y: 0, Width: 100, Height: 20}, cellRect{X: -3, Y: 1, W: 11, H: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sc.cells(tt.rect); got != tt.want {
				t.Fatalf("cells(%v) = %+v, want %+v", tt.rect, got, tt.want)
			}
		})
	}
}

func TestScaleContainer(t *testing.T) {
	sc := scale{cellW: 10, cellH: 20}
	got := sc.container(100, 30)
	want := geometry.Container{Width: 1000, Height: 580, ReservedBottom: 20}
	if got != want {
		t.Fatalf("container = %+v, want %+v", got, want)
	}
	if p := sc.point(12, 29); p.Y != got.UsableHeight() {
		t.Fatalf("bottom row should map onto the taskbar strip, got %+v", p)
	}
}

func TestRegionAt(t *testing.T) {
	b := box{ID: "w", Cells: cellRect{X: 10, Y: 3, W: 30, H: 10}}
	right, bottom := 39, 12
	tests := []struct {
		name     string
		col, row int
		region   wm.Region
		handle   wm.Handle
		control  wm.CommandKind
	}{
		{"title", 15, 3, wm.RegionTitle, "", ""},
		{"close button", right - 2, 3, wm.RegionControl, "", wm.CmdClose},
		{"maximize button", right - 4, 3, wm.RegionControl, "", wm.CmdToggleMaximize},
		{"minimize button", right - 6, 3, wm.RegionControl, "", wm.CmdMinimize},
		{"content", 20, 6, wm.RegionContent, "", ""},
		{"left edge", 10, 6, wm.RegionHandle, wm.HandleW, ""},
		{"right edge", right, 6, wm.RegionHandle, wm.HandleE, ""},
		{"bottom edge", 20, bottom, wm.RegionHandle, wm.HandleS, ""},
		{"bottom-left", 10, bottom, wm.RegionHandle, wm.HandleSW, ""},
		{"bottom-right", right, bottom, wm.RegionHandle, wm.HandleSE, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := regionAt(b, tt.col, tt.row)
			if got.Region != tt.region || got.Handle != tt.handle || got.Control != tt.control {
				t.Fatalf("regionAt(%d,%d) = %+v", tt.col, tt.row, got)
			}
		})
	}
}

func TestHitTest_TopmostSettledWins(t *testing.T) {
	bs := []box{
		{ID: "bottom", Cells: cellRect{X: 0, Y: 1, W: 20, H: 10}},
		{ID: "top", Cells: cellRect{X: 5, Y: 2, W: 20, H: 10}},
		{ID: "fading", Cells: cellRect{X: 0, Y: 1, W: 40, H: 20}, Animating: true},
	}
	if got, ok := hitTest(bs, 6, 5); !ok || got.WindowID != "top" {
		t.Fatalf("expected top, got %+v %v", got, ok)
	}
	if got, ok := hitTest(bs, 1, 5); !ok || got.WindowID != "bottom" {
		t.Fatalf("expected bottom, got %+v %v", got, ok)
	}
	if _, ok := hitTest(bs, 35, 15); ok {
		t.Fatalf("animating boxes must not be hit")
	}
}
