package wm

import (
	"fmt"
	"sort"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// State is a window's lifecycle state.
type State int

const (
	// StateClosed marks a window whose close has been requested. The record
	// stays readable until the close animation commits.
	StateClosed State = iota
	// StateNormal is an open, freely positioned window.
	StateNormal
	// StateMaximized is an open window filling the usable container area.
	StateMaximized
	// StateMinimized is hidden and only represented on the taskbar.
	StateMinimized
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateNormal:
		return "normal"
	case StateMaximized:
		return "maximized"
	case StateMinimized:
		return "minimized"
	default:
		return "unknown"
	}
}

// IsOpen reports whether s is one of the visible sub-states.
func (s State) IsOpen() bool {
	return s == StateNormal || s == StateMaximized
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "closed":
		*s = StateClosed
	case "normal":
		*s = StateNormal
	case "maximized":
		*s = StateMaximized
	case "minimized":
		*s = StateMinimized
	default:
		return fmt.Errorf("unknown window state %q", string(text))
	}
	return nil
}

// Record is the authoritative state of one window.
type Record struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon,omitempty"`

	Geometry geometry.Rect `json:"geometry"`
	ZIndex   int           `json:"z_index"`
	State    State         `json:"state"`
	Active   bool          `json:"active"`

	// SavedGeometry is the pre-maximize rectangle; nil unless maximized.
	SavedGeometry *geometry.Rect `json:"saved_geometry,omitempty"`
	// RestoreState is the open sub-state to return to from Minimized.
	RestoreState State `json:"-"`
	// TaskbarRef is the taskbar's handle for this window's entry.
	TaskbarRef string `json:"taskbar_ref,omitempty"`
}

// Visible reports whether the window is drawn on the desktop.
func (r *Record) Visible() bool {
	return r.State.IsOpen()
}

// clone returns a deep copy safe to hand to callers.
func (r *Record) clone() Record {
	out := *r
	if r.SavedGeometry != nil {
		saved := *r.SavedGeometry
		out.SavedGeometry = &saved
	}
	return out
}

// SortByZ orders records back-to-front.
func SortByZ(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ZIndex < records[j].ZIndex
	})
}
