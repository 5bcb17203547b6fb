// Package taskbar keeps the strip of window entries along the bottom of the
// desktop. It implements wm.TaskbarBridge and turns clicks on entries into
// toggle requests.
package taskbar

import (
	"fmt"
	"sync"

	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Entry is one taskbar button.
type Entry struct {
	Ref      string        `json:"ref"`
	WindowID string        `json:"window_id"`
	Title    string        `json:"title"`
	Icon     string        `json:"icon,omitempty"`
	Active   bool          `json:"active"`
	Rect     geometry.Rect `json:"rect"`
}

// Layout holds taskbar dimensions in desktop units.
type Layout struct {
	StartWidth int
	EntryWidth int
}

// DefaultLayout is the stock taskbar geometry.
var DefaultLayout = Layout{StartWidth: 96, EntryWidth: 160}

// Toggler receives entry clicks. *wm.Manager satisfies it.
type Toggler interface {
	RequestToggle(id string) error
}

// Taskbar is safe for concurrent use.
type Taskbar struct {
	mu      sync.RWMutex
	layout  Layout
	view    wm.ContainerProvider
	entries []*Entry
	nextRef int
	toggler Toggler
}

var _ wm.TaskbarBridge = (*Taskbar)(nil)

// New creates a taskbar laid out along the reserved strip of view.
func New(layout Layout, view wm.ContainerProvider) *Taskbar {
	if layout.StartWidth < 0 {
		layout.StartWidth = DefaultLayout.StartWidth
	}
	if layout.EntryWidth <= 0 {
		layout.EntryWidth = DefaultLayout.EntryWidth
	}
	return &Taskbar{layout: layout, view: view}
}

// SetToggler wires clicks to the window manager. The manager needs the
// taskbar at construction, so this is set afterwards.
func (t *Taskbar) SetToggler(tg Toggler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.toggler = tg
}

// WindowOpened implements wm.TaskbarBridge.
func (t *Taskbar) WindowOpened(id, title, icon string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.entries {
		if e.WindowID == id {
			return "", fmt.Errorf("taskbar entry for %s already exists", id)
		}
	}
	t.nextRef++
	e := &Entry{
		Ref:      fmt.Sprintf("tb-%d", t.nextRef),
		WindowID: id,
		Title:    title,
		Icon:     icon,
	}
	t.entries = append(t.entries, e)
	return e.Ref, nil
}

// WindowClosed implements wm.TaskbarBridge.
func (t *Taskbar) WindowClosed(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, e := range t.entries {
		if e.WindowID == id {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

// ActiveChanged implements wm.TaskbarBridge.
func (t *Taskbar) ActiveChanged(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.entries {
		e.Active = id != "" && e.WindowID == id
	}
	return nil
}

// EntryRect implements wm.TaskbarBridge.
func (t *Taskbar) EntryRect(id string) (geometry.Rect, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := t.view.Container()
	for i, e := range t.entries {
		if e.WindowID == id {
			return t.rectAt(i, c), true
		}
	}
	return geometry.Rect{}, false
}

// rectAt lays entries left to right after the start button. Entries that
// overflow the strip are squeezed to share the remaining width.
func (t *Taskbar) rectAt(i int, c geometry.Container) geometry.Rect {
	width := t.layout.EntryWidth
	if n := len(t.entries); n > 0 {
		avail := c.Width - t.layout.StartWidth
		if avail > 0 && n*width > avail {
			width = avail / n
		}
	}
	return geometry.Rect{
		X:      t.layout.StartWidth + i*width,
		Y:      c.UsableHeight(),
		Width:  width,
		Height: c.ReservedBottom,
	}
}

// StartRect is the start button's rectangle.
func (t *Taskbar) StartRect() geometry.Rect {
	c := t.view.Container()
	return geometry.Rect{X: 0, Y: c.UsableHeight(), Width: t.layout.StartWidth, Height: c.ReservedBottom}
}

// Entries returns the entries in display order with their current rects.
func (t *Taskbar) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	c := t.view.Container()
	out := make([]Entry, 0, len(t.entries))
	for i, e := range t.entries {
		cp := *e
		cp.Rect = t.rectAt(i, c)
		out = append(out, cp)
	}
	return out
}

// HitTest returns the window id of the entry under p.
func (t *Taskbar) HitTest(p geometry.Point) (string, bool) {
	for _, e := range t.Entries() {
		if e.Rect.Contains(p) {
			return e.WindowID, true
		}
	}
	return "", false
}

// Click toggles the window whose entry lies under p. It reports whether an
// entry was hit.
func (t *Taskbar) Click(p geometry.Point) (bool, error) {
	id, ok := t.HitTest(p)
	if !ok {
		return false, nil
	}
	t.mu.RLock()
	tg := t.toggler
	t.mu.RUnlock()
	if tg == nil {
		return true, fmt.Errorf("taskbar has no window manager attached")
	}
	return true, tg.RequestToggle(id)
}
