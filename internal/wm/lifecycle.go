package wm

import (
	"fmt"

	"github.com/1broseidon/deskwm/internal/anim"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// Open registers a new window at the default size, centered, and
// activates it. Opening an id whose close is still animating finalizes
// that close first.
func (m *Manager) Open(id, title, icon string) error {
	return m.transition(func() error { return m.open(id, title, icon) })
}

func (m *Manager) open(id, title, icon string) error {
	if id == "" {
		return fmt.Errorf("%w: empty window id", ErrInvalidCommand)
	}
	if existing, ok := m.registry.lookup(id); ok {
		if existing.State != StateClosed {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		m.seq.Cancel(id)
		m.registry.Remove(id)
	}

	geom := geometry.Place(m.opts.DefaultSize, m.opts.MinSize, m.Container())
	rec, err := m.registry.Register(id, title, icon, geom)
	if err != nil {
		return err
	}
	m.taskbarOpened(rec)
	m.logger.Info("window opened", "window", id, "geometry", geom.String())

	m.emitWindow(EventOpened, rec)
	m.playSound(SoundOpen)
	m.animate(anim.KindOpen, rec, anim.Frame{Rect: geom, Scale: 0.9, Opacity: 0}, anim.Solid(geom), nil)
	m.activate(rec)
	return nil
}

// Close begins closing a window. The record is removed, along with its
// taskbar entry, once the close animation completes. Closing a window
// that is already closing is a no-op.
func (m *Manager) Close(id string) error {
	return m.transition(func() error { return m.close(id) })
}

func (m *Manager) close(id string) error {
	rec, ok := m.registry.lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if rec.State == StateClosed {
		return nil
	}

	from := m.visualFrame(rec)
	m.endInteractionFor(id)
	rec.State = StateClosed
	rec.SavedGeometry = nil
	m.logger.Info("window closing", "window", id)

	m.emitWindow(EventClosing, rec)
	m.playSound(SoundClose)
	m.animate(anim.KindClose, rec, from, anim.Frame{Rect: from.Rect, Scale: 0.8, Opacity: 0}, func() {
		if current, ok := m.registry.lookup(id); ok && current == rec {
			m.registry.Remove(id)
		}
	})
	m.deactivate(rec)
	return nil
}

// Minimize hides a window into its taskbar entry. Minimizing a minimized
// window is a no-op.
func (m *Manager) Minimize(id string) error {
	return m.transition(func() error { return m.minimize(id) })
}

func (m *Manager) minimize(id string) error {
	rec, err := m.liveRecord(id)
	if err != nil {
		return err
	}
	if rec.State == StateMinimized {
		return nil
	}

	from := m.visualFrame(rec)
	m.endInteractionFor(id)
	rec.RestoreState = rec.State
	rec.State = StateMinimized

	m.emitWindow(EventMinimized, rec)
	m.playSound(SoundMinimize)
	m.animate(anim.KindMinimize, rec, from, m.minimizeTarget(rec), nil)
	m.deactivate(rec)
	return nil
}

// minimizeTarget is the frame a minimized window shrinks into: its taskbar
// entry when the taskbar can report one, otherwise a point below the
// window's center at the top of the reserved strip.
func (m *Manager) minimizeTarget(rec *Record) anim.Frame {
	if r, ok := m.taskbarEntryRect(rec.ID); ok {
		return anim.Frame{Rect: r, Scale: 0, Opacity: 0}
	}
	c := m.Container()
	center := rec.Geometry.Center()
	return anim.Frame{
		Rect:    geometry.Rect{X: center.X, Y: c.UsableHeight(), Width: 0, Height: 0},
		Scale:   0,
		Opacity: 0,
	}
}

// Restore brings a minimized window back to the state it was minimized
// from and activates it. Restoring a visible window is a no-op.
func (m *Manager) Restore(id string) error {
	return m.transition(func() error {
		rec, err := m.liveRecord(id)
		if err != nil {
			return err
		}
		return m.restore(rec)
	})
}

func (m *Manager) restore(rec *Record) error {
	if rec.State != StateMinimized {
		return nil
	}

	from := m.visualFrame(rec)
	state := rec.RestoreState
	if !state.IsOpen() {
		state = StateNormal
	}
	rec.State = state
	if state == StateMaximized {
		rec.Geometry = m.Container().Usable()
	}

	m.emitWindow(EventRestored, rec)
	m.playSound(SoundRestore)
	m.animate(anim.KindRestore, rec, from, anim.Solid(rec.Geometry), nil)
	m.activate(rec)
	return nil
}

// ToggleMaximize switches a visible window between Normal and Maximized.
// A minimized window is only restored.
func (m *Manager) ToggleMaximize(id string) error {
	return m.transition(func() error {
		rec, err := m.liveRecord(id)
		if err != nil {
			return err
		}
		switch rec.State {
		case StateMinimized:
			return m.restore(rec)
		case StateMaximized:
			m.endInteractionFor(id)
			m.unmaximize(rec, m.savedOrDefault(rec))
		default:
			m.endInteractionFor(id)
			m.maximize(rec)
		}
		m.activate(rec)
		return nil
	})
}

func (m *Manager) maximize(rec *Record) {
	from := m.visualFrame(rec)
	saved := rec.Geometry
	rec.SavedGeometry = &saved
	rec.Geometry = m.Container().Usable()
	rec.State = StateMaximized

	m.emitWindow(EventMaximized, rec)
	m.playSound(SoundMaximize)
	m.animate(anim.KindMaximize, rec, from, anim.Solid(rec.Geometry), nil)
}

func (m *Manager) unmaximize(rec *Record, target geometry.Rect) {
	from := m.visualFrame(rec)
	rec.Geometry = target
	rec.SavedGeometry = nil
	rec.State = StateNormal

	m.emitWindow(EventUnmaximized, rec)
	m.playSound(SoundRestore)
	m.animate(anim.KindUnmaximize, rec, from, anim.Solid(target), nil)
}

func (m *Manager) savedOrDefault(rec *Record) geometry.Rect {
	if rec.SavedGeometry != nil {
		return *rec.SavedGeometry
	}
	return geometry.Place(m.opts.DefaultSize, m.opts.MinSize, m.Container())
}

// Activate focuses a window and raises it to the top. A minimized window
// is restored first.
func (m *Manager) Activate(id string) error {
	return m.transition(func() error {
		rec, err := m.liveRecord(id)
		if err != nil {
			return err
		}
		if rec.State == StateMinimized {
			return m.restore(rec)
		}
		m.activate(rec)
		return nil
	})
}

// RequestToggle is the taskbar click action: restore when minimized,
// minimize when already active, otherwise activate.
func (m *Manager) RequestToggle(id string) error {
	return m.transition(func() error {
		rec, err := m.liveRecord(id)
		if err != nil {
			return err
		}
		switch {
		case rec.State == StateMinimized:
			return m.restore(rec)
		case rec.Active:
			return m.minimize(id)
		default:
			m.activate(rec)
			return nil
		}
	})
}

// ForceRemove drops a window immediately, skipping its close animation.
func (m *Manager) ForceRemove(id string) error {
	return m.transition(func() error {
		rec, ok := m.registry.lookup(id)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		m.endInteractionFor(id)
		if a, ok := m.seq.Cancel(id); ok {
			m.emit(Event{Kind: EventAnimationCancelled, WindowID: id, Animation: &a})
		}
		wasActive := rec.Active
		rec.Active = false
		m.registry.Remove(id)
		if wasActive {
			m.taskbarActive("")
			m.scheduleFocus()
		}
		return nil
	})
}

// CloseAll removes every window without animation.
func (m *Manager) CloseAll() {
	_ = m.transition(func() error {
		m.endInteraction("close_all")
		for _, rec := range m.registry.live() {
			m.seq.Cancel(rec.ID)
			m.registry.Remove(rec.ID)
		}
		m.cancelFocus()
		m.taskbarActive("")
		m.logger.Info("all windows closed")
		return nil
	})
}

// ViewportChanged re-reads the container and refits windows to it:
// maximized windows fill the new usable area and their restore rectangle
// is fitted inside it, and normal windows are pulled back into view.
func (m *Manager) ViewportChanged() {
	_ = m.transition(func() error {
		c := m.Container()
		m.logger.Info("viewport changed", "width", c.Width, "height", c.Height, "reserved_bottom", c.ReservedBottom)
		for _, rec := range m.registry.live() {
			before := rec.Geometry
			switch rec.State {
			case StateMaximized:
				rec.Geometry = c.Usable()
			case StateNormal, StateMinimized:
				rec.Geometry = geometry.KeepVisible(rec.Geometry, c, m.opts.VisibleMargin)
			default:
				continue
			}
			if rec.SavedGeometry != nil {
				saved := geometry.Fit(*rec.SavedGeometry, c)
				if belowMin(saved, m.opts.MinSize) {
					saved = geometry.KeepVisible(*rec.SavedGeometry, c, m.opts.VisibleMargin)
				}
				rec.SavedGeometry = &saved
			}
			if rec.Geometry != before {
				m.emitWindow(EventGeometryChanged, rec)
			}
		}
		return nil
	})
}
