package ipc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandExecute     CommandType = "EXECUTE"
	CommandActive      CommandType = "ACTIVE"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandReload      CommandType = "RELOAD"
)

// Status values carried in Response.Status.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Error codes carried in Response.Code.
const (
	CodeNotFound       = "not_found"
	CodeDuplicateID    = "duplicate_id"
	CodeBadRequest     = "bad_request"
	CodeNoActiveWindow = "no_active_window"
	CodeInternal       = "internal"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// ActivePayload is the payload of ACTIVE: a command kind applied to
// whichever window has focus.
type ActivePayload struct {
	Kind wm.CommandKind `json:"kind"`
}

// EventsData is returned by EXECUTE and ACTIVE.
type EventsData struct {
	Events []wm.Event `json:"events"`
}

// WindowsData is returned by LIST_WINDOWS. Windows are ordered bottom to
// top.
type WindowsData struct {
	Windows  []wm.Record `json:"windows"`
	ActiveID string      `json:"active_id,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount   int                `json:"window_count"`
	ActiveID      string             `json:"active_id,omitempty"`
	Interaction   string             `json:"interaction"`
	Animations    int                `json:"animations"`
	Container     geometry.Container `json:"container"`
	UptimeSeconds int64              `json:"uptime_seconds"`
	DaemonRunning bool               `json:"daemon_running"`
}

// RemoteError is an ERROR response surfaced by the client. It unwraps to
// the matching wm or daemon sentinel so callers can use errors.Is.
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("daemon error: %s", e.Message)
}

func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case CodeNotFound:
		return wm.ErrNotFound
	case CodeDuplicateID:
		return wm.ErrDuplicateID
	case CodeBadRequest:
		return wm.ErrInvalidCommand
	case CodeNoActiveWindow:
		return daemon.ErrNoActiveWindow
	default:
		return nil
	}
}

// ErrorCode classifies err for Response.Code.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, wm.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, wm.ErrDuplicateID):
		return CodeDuplicateID
	case errors.Is(err, wm.ErrInvalidCommand):
		return CodeBadRequest
	case errors.Is(err, daemon.ErrNoActiveWindow):
		return CodeNoActiveWindow
	default:
		return CodeInternal
	}
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message and code
func NewErrorResponse(code, errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
		Code:   code,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
