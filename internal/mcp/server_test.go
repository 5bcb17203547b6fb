package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/1broseidon/deskwm/internal/daemon"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/wm"
)

type fakeClient struct {
	executed []wm.Command
	active   string
	windows  []wm.Record
	err      error
}

func (f *fakeClient) Execute(cmd wm.Command) ([]wm.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.executed = append(f.executed, cmd)
	return []wm.Event{{Kind: wm.EventKind(cmd.Kind), WindowID: cmd.WindowID}}, nil
}

func (f *fakeClient) ActOnActive(kind wm.CommandKind) ([]wm.Event, error) {
	if f.active == "" {
		return nil, daemon.ErrNoActiveWindow
	}
	return f.Execute(wm.Command{Kind: kind, WindowID: f.active})
}

func (f *fakeClient) ListWindows() (*ipc.WindowsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.WindowsData{Windows: f.windows, ActiveID: f.active}, nil
}

func (f *fakeClient) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{
		WindowCount:   len(f.windows),
		ActiveID:      f.active,
		Interaction:   "idle",
		Container:     geometry.Container{Width: 1920, Height: 1080, ReservedBottom: 48},
		UptimeSeconds: 12,
		DaemonRunning: true,
	}, nil
}

func TestOpenWindow_DefaultsTitleToID(t *testing.T) {
	fc := &fakeClient{}
	s := NewServer(fc, nil)

	_, out, err := s.handleOpenWindow(context.Background(), nil, OpenWindowInput{ID: "notes"})
	if err != nil {
		t.Fatalf("open_window: %v", err)
	}
	if out.WindowID != "notes" || len(out.Events) != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	if got := fc.executed[0]; got.Kind != wm.CmdOpen || got.Title != "notes" {
		t.Fatalf("unexpected command %+v", got)
	}

	if _, _, err := s.handleOpenWindow(context.Background(), nil, OpenWindowInput{}); err == nil {
		t.Fatalf("expected an error without id")
	}
}

func TestTargetTools_DefaultToActive(t *testing.T) {
	tests := []struct {
		name string
		call func(*Server, WindowTargetInput) (ActionOutput, error)
		kind wm.CommandKind
	}{
		{"close", func(s *Server, in WindowTargetInput) (ActionOutput, error) {
			_, out, err := s.handleClose(context.Background(), nil, in)
			return out, err
		}, wm.CmdClose},
		{"minimize", func(s *Server, in WindowTargetInput) (ActionOutput, error) {
			_, out, err := s.handleMinimize(context.Background(), nil, in)
			return out, err
		}, wm.CmdMinimize},
		{"maximize", func(s *Server, in WindowTargetInput) (ActionOutput, error) {
			_, out, err := s.handleMaximize(context.Background(), nil, in)
			return out, err
		}, wm.CmdToggleMaximize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeClient{active: "editor"}
			s := NewServer(fc, nil)

			out, err := tt.call(s, WindowTargetInput{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.WindowID != "editor" || fc.executed[0].Kind != tt.kind {
				t.Fatalf("expected %s on editor, got %+v / %+v", tt.kind, out, fc.executed)
			}

			out, err = tt.call(s, WindowTargetInput{ID: "other"})
			if err != nil || out.WindowID != "other" || fc.executed[1].WindowID != "other" {
				t.Fatalf("explicit id not honoured: %+v %v", out, err)
			}
		})
	}
}

func TestTargetTools_NoActiveWindow(t *testing.T) {
	s := NewServer(&fakeClient{}, nil)
	_, _, err := s.handleClose(context.Background(), nil, WindowTargetInput{})
	if !errors.Is(err, daemon.ErrNoActiveWindow) {
		t.Fatalf("expected ErrNoActiveWindow, got %v", err)
	}
}

func TestRequiredIDTools(t *testing.T) {
	fc := &fakeClient{}
	s := NewServer(fc, nil)
	ctx := context.Background()

	if _, _, err := s.handleRestore(ctx, nil, RequiredWindowInput{}); err == nil {
		t.Fatalf("restore without id should fail")
	}
	if _, _, err := s.handleActivate(ctx, nil, RequiredWindowInput{ID: "a"}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if _, _, err := s.handleToggle(ctx, nil, RequiredWindowInput{ID: "a"}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, _, err := s.handleRestore(ctx, nil, RequiredWindowInput{ID: "a"}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	want := []wm.CommandKind{wm.CmdActivate, wm.CmdToggle, wm.CmdRestore}
	for i, k := range want {
		if fc.executed[i].Kind != k || fc.executed[i].WindowID != "a" {
			t.Fatalf("command %d = %+v, want %s on a", i, fc.executed[i], k)
		}
	}
}

func TestListWindows_SortsAndHidesClosing(t *testing.T) {
	fc := &fakeClient{
		active: "b",
		windows: []wm.Record{
			{ID: "b", Title: "B", State: wm.StateMaximized, Active: true, ZIndex: 3, Geometry: geometry.Rect{Width: 1920, Height: 1032}},
			{ID: "gone", State: wm.StateClosed, ZIndex: 2},
			{ID: "a", Title: "A", State: wm.StateNormal, ZIndex: 1, Geometry: geometry.Rect{X: 10, Y: 20, Width: 640, Height: 480}},
		},
	}
	s := NewServer(fc, nil)

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(out.Windows) != 2 || out.Windows[0].ID != "a" || out.Windows[1].ID != "b" {
		t.Fatalf("unexpected windows %+v", out.Windows)
	}
	if out.Windows[0].X != 10 || out.Windows[0].State != "normal" || out.ActiveID != "b" {
		t.Fatalf("unexpected window info %+v", out.Windows[0])
	}

	_, out, _ = s.handleListWindows(context.Background(), nil, ListWindowsInput{IncludeClosing: true})
	if len(out.Windows) != 3 {
		t.Fatalf("expected closing window included, got %d", len(out.Windows))
	}
}

func TestStatus(t *testing.T) {
	s := NewServer(&fakeClient{active: "a", windows: []wm.Record{{ID: "a"}}}, nil)
	_, out, err := s.handleStatus(context.Background(), nil, StatusInput{})
	if err != nil {
		t.Fatalf("desktop_status: %v", err)
	}
	if out.WindowCount != 1 || out.ViewportWidth != 1920 || out.TaskbarHeight != 48 || out.UptimeSeconds != 12 {
		t.Fatalf("unexpected status %+v", out)
	}
}

func TestClientErrorsAreWrapped(t *testing.T) {
	boom := fmt.Errorf("connection refused")
	s := NewServer(&fakeClient{err: boom}, nil)
	if _, _, err := s.handleCloseAll(context.Background(), nil, CloseAllInput{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if _, _, err := s.handleStatus(context.Background(), nil, StatusInput{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
