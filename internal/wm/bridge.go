package wm

import (
	"sync"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// Sound names passed to AudioBridge.Notify.
const (
	SoundOpen     = "open"
	SoundClose    = "close"
	SoundMinimize = "minimize"
	SoundRestore  = "restore"
	SoundMaximize = "maximize"
	SoundError    = "error"
)

// TaskbarBridge renders taskbar entries for windows. The manager calls it
// as the producer of lifecycle events; the taskbar calls back into
// Manager.RequestToggle when an entry is clicked.
type TaskbarBridge interface {
	// WindowOpened creates an entry and returns an opaque reference to it.
	WindowOpened(id, title, icon string) (string, error)
	// WindowClosed removes the entry for id.
	WindowClosed(id string) error
	// ActiveChanged highlights the entry for id; empty means none.
	ActiveChanged(id string) error
	// EntryRect returns the on-screen rectangle of id's entry.
	EntryRect(id string) (geometry.Rect, bool)
}

// AudioBridge plays feedback sounds. Failures never reach the core.
type AudioBridge interface {
	Notify(name string) error
}

// ContainerProvider reports the current desktop viewport. It is queried on
// every use rather than cached.
type ContainerProvider interface {
	Container() geometry.Container
}

// StaticContainer is a ContainerProvider with explicitly set bounds. It is
// safe for concurrent use so a watcher goroutine may update it.
type StaticContainer struct {
	mu sync.RWMutex
	c  geometry.Container
}

// NewStaticContainer returns a provider fixed at c.
func NewStaticContainer(c geometry.Container) *StaticContainer {
	return &StaticContainer{c: c}
}

// Container implements ContainerProvider.
func (s *StaticContainer) Container() geometry.Container {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c
}

// Set replaces the bounds and reports whether they changed.
func (s *StaticContainer) Set(c geometry.Container) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.c != c
	s.c = c
	return changed
}

type nopTaskbar struct{}

func (nopTaskbar) WindowOpened(id, _, _ string) (string, error) { return id, nil }
func (nopTaskbar) WindowClosed(string) error                     { return nil }
func (nopTaskbar) ActiveChanged(string) error                    { return nil }
func (nopTaskbar) EntryRect(string) (geometry.Rect, bool)        { return geometry.Rect{}, false }

type nopAudio struct{}

func (nopAudio) Notify(string) error { return nil }
