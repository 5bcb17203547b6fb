package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// GetMonitors lists the enabled RandR CRTCs.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// Viewport returns the desktop container: the monitor under the pointer
// (or the first monitor) with the bottom dock strut, or failing that the
// gap below the EWMH work area, reserved for the taskbar.
func (c *Connection) Viewport() (geometry.Container, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return geometry.Container{}, err
	}
	if len(monitors) == 0 {
		return geometry.Container{}, fmt.Errorf("no monitors found")
	}

	mon := findMonitorForPointer(c, monitors)
	if mon == nil {
		mon = &monitors[0]
	}

	reserved, ok := c.dockReserve(*mon)
	if !ok {
		reserved = c.workAreaReserve(*mon)
	}

	return geometry.Container{
		Width:          mon.Width,
		Height:         mon.Height,
		ReservedBottom: reserved,
	}, nil
}

// dockReserve is the tallest bottom strut of the dock windows overlapping mon.
func (c *Connection) dockReserve(mon Monitor) (int, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return 0, false
	}

	var partials []ewmh.WmStrutPartial
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil || !isDock(types) {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			partials = append(partials, *sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			partials = append(partials, fullWidthStrut(s, rootWidth, rootHeight))
		}
	}

	return reservedBottom(mon, rootWidth, rootHeight, partials)
}

func (c *Connection) workAreaReserve(mon Monitor) int {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return 0
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]
	return workAreaBottomGap(mon, int(wa.X), int(wa.Y), int(wa.Width), int(wa.Height))
}

func isDock(types []string) bool {
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func fullWidthStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) ewmh.WmStrutPartial {
	return ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

// reservedBottom reports the height of the bottom strut band on mon. Each
// strut occupies y=[rootHeight-Bottom, rootHeight), x=[BottomStartX, BottomEndX].
func reservedBottom(mon Monitor, rootWidth, rootHeight int, partials []ewmh.WmStrutPartial) (int, bool) {
	monX2 := mon.X + mon.Width
	monY2 := mon.Y + mon.Height

	band := 0
	for _, sp := range partials {
		if sp.Bottom == 0 {
			continue
		}
		x1 := int(sp.BottomStartX)
		x2 := min(int(sp.BottomEndX)+1, rootWidth)
		y1 := rootHeight - int(sp.Bottom)
		isect := intersectionSize(mon.X, mon.Y, monX2, monY2, x1, y1, x2, rootHeight)
		band = max(band, isect.h)
	}
	if band == 0 {
		return 0, false
	}
	return min(band, mon.Height-1), true
}

// workAreaBottomGap is the distance between the bottom of the work area and
// the bottom of mon, when the two overlap.
func workAreaBottomGap(mon Monitor, waX, waY, waW, waH int) int {
	isect := intersectionSize(mon.X, mon.Y, mon.X+mon.Width, mon.Y+mon.Height, waX, waY, waX+waW, waY+waH)
	if isect.w == 0 || isect.h == 0 {
		return 0
	}
	gap := (mon.Y + mon.Height) - min(mon.Y+mon.Height, waY+waH)
	if gap < 0 || gap >= mon.Height {
		return 0
	}
	return gap
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}

func findMonitorForPointer(c *Connection, monitors []Monitor) *Monitor {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil
	}

	x := int(pointer.RootX)
	y := int(pointer.RootY)

	for i := range monitors {
		mon := &monitors[i]
		if x >= mon.X && x < mon.X+mon.Width && y >= mon.Y && y < mon.Y+mon.Height {
			return mon
		}
	}
	return nil
}
