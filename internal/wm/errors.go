package wm

import "errors"

var (
	// ErrNotFound is returned when an operation names an unknown window, or
	// one whose close is already in progress.
	ErrNotFound = errors.New("window not found")

	// ErrDuplicateID is returned when a window id is registered twice.
	ErrDuplicateID = errors.New("duplicate window id")

	// ErrInvalidGeometry marks a geometry repair. It is logged, never
	// returned to callers.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrBridgeUnavailable wraps a failing taskbar or audio call. It is
	// logged and the transition proceeds.
	ErrBridgeUnavailable = errors.New("bridge unavailable")

	// ErrInvalidCommand is returned for malformed commands.
	ErrInvalidCommand = errors.New("invalid command")
)
