package wm

import (
	"fmt"
	"time"

	"github.com/1broseidon/deskwm/internal/anim"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// CommandKind selects the operation a Command performs.
type CommandKind string

const (
	CmdOpen            CommandKind = "open"
	CmdClose           CommandKind = "close"
	CmdMinimize        CommandKind = "minimize"
	CmdRestore         CommandKind = "restore"
	CmdToggleMaximize  CommandKind = "toggle_maximize"
	CmdActivate        CommandKind = "activate"
	CmdToggle          CommandKind = "toggle"
	CmdCloseAll        CommandKind = "close_all"
	CmdForceRemove     CommandKind = "force_remove"
	CmdViewportChanged CommandKind = "viewport_changed"
	CmdPointerDown     CommandKind = "pointer_down"
	CmdPointerMove     CommandKind = "pointer_move"
	CmdPointerUp       CommandKind = "pointer_up"
)

// Region is the part of a window a pointer press landed on.
type Region string

const (
	RegionTitle   Region = "title"
	RegionControl Region = "control"
	RegionHandle  Region = "handle"
	RegionContent Region = "content"
)

// Handle is a resize edge or corner.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Valid reports whether h names one of the eight handles.
func (h Handle) Valid() bool {
	switch h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}

func (h Handle) north() bool { return h == HandleN || h == HandleNE || h == HandleNW }
func (h Handle) south() bool { return h == HandleS || h == HandleSE || h == HandleSW }
func (h Handle) east() bool  { return h == HandleE || h == HandleNE || h == HandleSE }
func (h Handle) west() bool  { return h == HandleW || h == HandleNW || h == HandleSW }

// Command is one request to the manager. Only the fields relevant to Kind
// are read.
type Command struct {
	Kind     CommandKind    `json:"kind"`
	WindowID string         `json:"window_id,omitempty"`
	Title    string         `json:"title,omitempty"`
	Icon     string         `json:"icon,omitempty"`
	Region   Region         `json:"region,omitempty"`
	Handle   Handle         `json:"handle,omitempty"`
	Point    geometry.Point `json:"point"`
}

// EventKind identifies an Event.
type EventKind string

const (
	EventOpened             EventKind = "opened"
	EventClosing            EventKind = "closing"
	EventClosed             EventKind = "closed"
	EventMinimized          EventKind = "minimized"
	EventRestored           EventKind = "restored"
	EventMaximized          EventKind = "maximized"
	EventUnmaximized        EventKind = "unmaximized"
	EventActivated          EventKind = "activated"
	EventDeactivated        EventKind = "deactivated"
	EventGeometryChanged    EventKind = "geometry_changed"
	EventInteractionStarted EventKind = "interaction_started"
	EventInteractionEnded   EventKind = "interaction_ended"
	EventAnimationStarted   EventKind = "animation_started"
	EventAnimationFinished  EventKind = "animation_finished"
	EventAnimationCancelled EventKind = "animation_cancelled"
	EventSound              EventKind = "sound"
)

// Event describes one observable change. Events are returned from Handle
// and delivered to subscribers.
type Event struct {
	Kind      EventKind       `json:"kind"`
	WindowID  string          `json:"window_id,omitempty"`
	State     string          `json:"state,omitempty"`
	Geometry  *geometry.Rect  `json:"geometry,omitempty"`
	ZIndex    int             `json:"z_index,omitempty"`
	Animation *anim.Animation `json:"animation,omitempty"`
	Sound     string          `json:"sound,omitempty"`
	Detail    string          `json:"detail,omitempty"`
	Time      time.Time       `json:"time"`
}

func (e Event) String() string {
	if e.WindowID == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s(%s)", e.Kind, e.WindowID)
}
