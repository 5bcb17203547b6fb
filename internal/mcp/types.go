package mcp

import "github.com/1broseidon/deskwm/internal/wm"

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	ID    string `json:"id" jsonschema:"Unique window id"`
	Title string `json:"title,omitempty" jsonschema:"Title bar and taskbar text (default: the id)"`
	Icon  string `json:"icon,omitempty" jsonschema:"Icon reference shown on the taskbar entry"`
}

// WindowTargetInput names the window a tool acts on.
type WindowTargetInput struct {
	ID string `json:"id,omitempty" jsonschema:"Window id (default: the active window)"`
}

// RequiredWindowInput names a window that must be given explicitly.
type RequiredWindowInput struct {
	ID string `json:"id" jsonschema:"Window id"`
}

// CloseAllInput is the input for the close_all_windows tool.
type CloseAllInput struct{}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	IncludeClosing bool `json:"include_closing,omitempty" jsonschema:"Include windows whose close animation is still running"`
}

// StatusInput is the input for the desktop_status tool.
type StatusInput struct{}

// WindowInfo describes one window.
type WindowInfo struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
	State  string `json:"state"`
	Active bool   `json:"active"`
	ZIndex int    `json:"z_index"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ActionOutput is returned by every tool that changes the desktop.
type ActionOutput struct {
	WindowID string   `json:"window_id,omitempty"`
	Events   []string `json:"events"`
}

// ListWindowsOutput is the output for the list_windows tool. Windows are
// ordered bottom to top.
type ListWindowsOutput struct {
	Windows  []WindowInfo `json:"windows"`
	ActiveID string       `json:"active_id,omitempty"`
}

// StatusOutput is the output for the desktop_status tool.
type StatusOutput struct {
	WindowCount    int    `json:"window_count"`
	ActiveID       string `json:"active_id,omitempty"`
	Interaction    string `json:"interaction"`
	Animations     int    `json:"animations"`
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
	TaskbarHeight  int    `json:"taskbar_height"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

func windowInfo(r wm.Record) WindowInfo {
	return WindowInfo{
		ID:     r.ID,
		Title:  r.Title,
		Icon:   r.Icon,
		State:  r.State.String(),
		Active: r.Active,
		ZIndex: r.ZIndex,
		X:      r.Geometry.X,
		Y:      r.Geometry.Y,
		Width:  r.Geometry.Width,
		Height: r.Geometry.Height,
	}
}

func eventNames(events []wm.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.String())
	}
	return out
}
