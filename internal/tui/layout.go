package tui

import (
	"math"
	"time"

	"github.com/1broseidon/deskwm/internal/anim"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

// desktopTop is the first terminal row of the desktop; row 0 is the
// status bar.
const desktopTop = 1

// cellRect is a rectangle in terminal cells.
type cellRect struct {
	X, Y, W, H int
}

func (r cellRect) contains(col, row int) bool {
	return col >= r.X && col < r.X+r.W && row >= r.Y && row < r.Y+r.H
}

// scale maps desktop units onto terminal cells.
type scale struct {
	cellW, cellH int
}

// point is the desktop position of the top-left corner of a cell.
func (s scale) point(col, row int) geometry.Point {
	return geometry.Point{X: col * s.cellW, Y: (row - desktopTop) * s.cellH}
}

func (s scale) cells(r geometry.Rect) cellRect {
	x0 := floorDiv(r.X, s.cellW)
	y0 := floorDiv(r.Y, s.cellH)
	x1 := ceilDiv(r.Right(), s.cellW)
	y1 := ceilDiv(r.Bottom(), s.cellH)
	return cellRect{X: x0, Y: y0 + desktopTop, W: x1 - x0, H: y1 - y0}
}

// container is the desktop a terminal of cols x rows cells shows. The
// bottom row is the taskbar.
func (s scale) container(cols, rows int) geometry.Container {
	rows -= desktopTop
	if rows < 1 {
		rows = 1
	}
	return geometry.Container{
		Width:          cols * s.cellW,
		Height:         rows * s.cellH,
		ReservedBottom: s.cellH,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

// box is one window as drawn.
type box struct {
	ID     string
	Title  string
	State  wm.State
	Active bool
	Frame  anim.Frame
	Cells  cellRect
	// Animating boxes are drawn but not hit-tested.
	Animating bool
}

// ghost reports whether the frame is faded enough to draw as an outline.
func (b box) ghost() bool {
	return b.Frame.Opacity < 0.5
}

// scaledRect shrinks r around its center.
func scaledRect(f anim.Frame) geometry.Rect {
	s := f.Scale
	if s >= 1 || s < 0 {
		return f.Rect
	}
	c := f.Rect.Center()
	w := int(math.Round(float64(f.Rect.Width) * s))
	h := int(math.Round(float64(f.Rect.Height) * s))
	return geometry.Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// layoutBoxes lays out every drawn window back to front. Windows with an
// animation in flight use its frame at now; minimized windows without one
// are hidden.
func layoutBoxes(records []wm.Record, anims []anim.Animation, sc scale, now time.Time) []box {
	inFlight := make(map[string]anim.Animation, len(anims))
	for _, a := range anims {
		inFlight[a.WindowID] = a
	}

	wm.SortByZ(records)
	out := make([]box, 0, len(records))
	for _, rec := range records {
		b := box{ID: rec.ID, Title: rec.Title, State: rec.State, Active: rec.Active}
		if a, ok := inFlight[rec.ID]; ok {
			b.Frame = a.FrameAt(now)
			b.Animating = true
		} else if rec.Visible() {
			b.Frame = anim.Solid(rec.Geometry)
		} else {
			continue
		}
		b.Cells = sc.cells(scaledRect(b.Frame))
		if b.Cells.W <= 0 || b.Cells.H <= 0 {
			continue
		}
		out = append(out, b)
	}
	return out
}

// target is what a cell press lands on.
type target struct {
	WindowID string
	Region   wm.Region
	Handle   wm.Handle
	// Control is the command a title bar button triggers.
	Control wm.CommandKind
}

const controlsMin = 12

// controlCol returns the column of a title bar button.
func controlCol(c cellRect, kind wm.CommandKind) int {
	right := c.X + c.W - 1
	switch kind {
	case wm.CmdClose:
		return right - 2
	case wm.CmdToggleMaximize:
		return right - 4
	default:
		return right - 6
	}
}

// hitTest finds the topmost settled window under a cell.
func hitTest(bs []box, col, row int) (target, bool) {
	for i := len(bs) - 1; i >= 0; i-- {
		b := bs[i]
		if b.Animating || !b.Cells.contains(col, row) {
			continue
		}
		return regionAt(b, col, row), true
	}
	return target{}, false
}

func regionAt(b box, col, row int) target {
	c := b.Cells
	t := target{WindowID: b.ID}
	left, right := c.X, c.X+c.W-1
	top, bottom := c.Y, c.Y+c.H-1

	switch {
	case row == top:
		if c.W >= controlsMin {
			for _, kind := range []wm.CommandKind{wm.CmdClose, wm.CmdToggleMaximize, wm.CmdMinimize} {
				if col == controlCol(c, kind) {
					t.Region = wm.RegionControl
					t.Control = kind
					return t
				}
			}
		}
		t.Region = wm.RegionTitle
	case row == bottom && col == left:
		t.Region, t.Handle = wm.RegionHandle, wm.HandleSW
	case row == bottom && col == right:
		t.Region, t.Handle = wm.RegionHandle, wm.HandleSE
	case row == bottom:
		t.Region, t.Handle = wm.RegionHandle, wm.HandleS
	case col == left:
		t.Region, t.Handle = wm.RegionHandle, wm.HandleW
	case col == right:
		t.Region, t.Handle = wm.RegionHandle, wm.HandleE
	default:
		t.Region = wm.RegionContent
	}
	return t
}
