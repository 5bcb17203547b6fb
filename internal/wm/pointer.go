package wm

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/anim"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// InteractionKind is the pointer session type.
type InteractionKind int

const (
	InteractionIdle InteractionKind = iota
	InteractionDrag
	InteractionResize
)

func (k InteractionKind) String() string {
	switch k {
	case InteractionDrag:
		return "drag"
	case InteractionResize:
		return "resize"
	default:
		return "idle"
	}
}

// interaction is the single system-wide pointer session slot.
type interaction struct {
	kind          InteractionKind
	windowID      string
	handle        Handle
	pointerStart  geometry.Point
	geometryStart geometry.Rect
}

// Interaction reports the current pointer session.
func (m *Manager) Interaction() (InteractionKind, string) {
	return m.slot.kind, m.slot.windowID
}

// PointerDown handles a press on a window. Title presses start a drag,
// handle presses start a resize and content presses only activate. Presses
// are ignored while another session is in progress.
func (m *Manager) PointerDown(id string, region Region, h Handle, p geometry.Point) error {
	return m.transition(func() error {
		if m.slot.kind != InteractionIdle {
			m.logger.Debug("pointer down ignored, session in progress", "window", id, "session", m.slot.kind.String())
			return nil
		}
		rec, err := m.liveRecord(id)
		if err != nil {
			return err
		}
		if !rec.Visible() {
			return nil
		}

		var kind InteractionKind
		switch region {
		case RegionControl:
			return nil
		case RegionContent:
			m.activate(rec)
			return nil
		case RegionTitle:
			kind = InteractionDrag
		case RegionHandle:
			if !h.Valid() {
				return fmt.Errorf("%w: resize handle %q", ErrInvalidCommand, h)
			}
			kind = InteractionResize
		default:
			return fmt.Errorf("%w: region %q", ErrInvalidCommand, region)
		}

		m.activate(rec)
		if rec.State == StateMaximized {
			m.unmaximize(rec, m.demoteRect(rec, p))
		}

		m.slot = interaction{
			kind:          kind,
			windowID:      id,
			handle:        h,
			pointerStart:  p,
			geometryStart: rec.Geometry,
		}
		m.emit(Event{Kind: EventInteractionStarted, WindowID: id, Detail: kind.String()})
		return nil
	})
}

// demoteRect is the Normal rectangle a maximized window takes when the
// pointer grabs it: a fraction of the container, centered horizontally on
// the pointer and keeping the pointer inside the title bar.
func (m *Manager) demoteRect(rec *Record, p geometry.Point) geometry.Rect {
	c := m.Container()
	pct := m.opts.UnmaximizePercent
	size := geometry.ClampSize(geometry.Size{
		Width:  c.Width * pct / 100,
		Height: c.UsableHeight() * pct / 100,
	}, m.opts.MinSize)

	r := geometry.Rect{
		X:      p.X - size.Width/2,
		Y:      rec.Geometry.Y,
		Width:  size.Width,
		Height: size.Height,
	}
	if p.Y-r.Y >= r.Height {
		r.Y = p.Y - r.Height/2
	}
	return geometry.KeepVisible(r, c, m.opts.VisibleMargin)
}

// PointerMove updates the active session's window.
func (m *Manager) PointerMove(p geometry.Point) error {
	return m.transition(func() error {
		m.trackPointer(p)
		return nil
	})
}

func (m *Manager) trackPointer(p geometry.Point) {
	if m.slot.kind == InteractionIdle {
		return
	}
	rec, ok := m.registry.lookup(m.slot.windowID)
	if !ok || !rec.Visible() {
		m.endInteraction("window gone")
		return
	}

	c := m.Container()
	delta := p.Sub(m.slot.pointerStart)
	var next geometry.Rect
	switch m.slot.kind {
	case InteractionDrag:
		next = m.slot.geometryStart
		next.X += delta.X
		next.Y += delta.Y
		next = geometry.KeepVisible(next, c, m.opts.VisibleMargin)
		if !m.opts.DisableSnap {
			next = geometry.SnapPosition(next, c, m.opts.SnapThreshold)
		}
	case InteractionResize:
		next = m.resizeRect(m.slot.geometryStart, m.slot.handle, delta, c)
	}

	if next != rec.Geometry {
		rec.Geometry = next
		m.emitWindow(EventGeometryChanged, rec)
	}
}

// resizeRect applies a handle drag of delta to start. The opposite edge of
// every moving edge stays fixed. Dimensions are held between the minimum
// size and the container, then snapped to a common size. Left and top
// edges never cross the container origin.
func (m *Manager) resizeRect(start geometry.Rect, h Handle, delta geometry.Point, c geometry.Container) geometry.Rect {
	minSize := m.opts.MinSize
	maxW, maxH := c.Width, c.UsableHeight()
	if h.west() && start.Right() < maxW {
		maxW = start.Right()
	}
	if h.north() && start.Bottom() < maxH {
		maxH = start.Bottom()
	}

	w, hgt := start.Width, start.Height
	switch {
	case h.east():
		w = start.Width + delta.X
	case h.west():
		w = start.Width - delta.X
	}
	switch {
	case h.south():
		hgt = start.Height + delta.Y
	case h.north():
		hgt = start.Height - delta.Y
	}
	w = clampDim(w, minSize.Width, maxW)
	hgt = clampDim(hgt, minSize.Height, maxH)

	if !m.opts.DisableSnap {
		if snapped, ok := geometry.SnapSize(geometry.Size{Width: w, Height: hgt}, m.opts.CommonSizes, m.opts.SnapThreshold); ok {
			w = clampDim(snapped.Width, minSize.Width, maxW)
			hgt = clampDim(snapped.Height, minSize.Height, maxH)
		}
	}

	r := geometry.Rect{X: start.X, Y: start.Y, Width: w, Height: hgt}
	if h.west() {
		r.X = start.Right() - w
	}
	if h.north() {
		r.Y = start.Bottom() - hgt
	}
	return r
}

// clampDim bounds v to [lo, hi]; lo wins when the container is smaller
// than the minimum.
func clampDim(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// PointerUp ends the session and plays the settle effect.
func (m *Manager) PointerUp(p geometry.Point) error {
	return m.transition(func() error {
		if m.slot.kind == InteractionIdle {
			return nil
		}
		m.trackPointer(p)
		if m.slot.kind == InteractionIdle {
			return nil
		}
		rec, ok := m.registry.lookup(m.slot.windowID)
		m.endInteraction("released")
		if ok && rec.Visible() {
			m.animate(anim.KindSettle, rec, anim.Frame{Rect: rec.Geometry, Scale: 0.99, Opacity: 1}, anim.Solid(rec.Geometry), nil)
		}
		return nil
	})
}

func (m *Manager) endInteraction(reason string) {
	if m.slot.kind == InteractionIdle {
		return
	}
	id := m.slot.windowID
	m.slot = interaction{}
	m.emit(Event{Kind: EventInteractionEnded, WindowID: id, Detail: reason})
}

// endInteractionFor cancels the session if it targets id.
func (m *Manager) endInteractionFor(id string) {
	if m.slot.kind != InteractionIdle && m.slot.windowID == id {
		m.endInteraction("cancelled")
	}
}
