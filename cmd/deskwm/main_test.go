package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml", Line: 3, Column: 5}, "file:/tmp/c.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/tmp/c.yaml"}, "file:/tmp/c.yaml"},
		{config.Source{Kind: config.SourceDefault, Name: "snap.threshold"}, "default:snap.threshold"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestActionKinds(t *testing.T) {
	for verb, want := range map[string]wm.CommandKind{
		"close":    wm.CmdClose,
		"minimize": wm.CmdMinimize,
		"maximize": wm.CmdToggleMaximize,
		"restore":  wm.CmdRestore,
		"activate": wm.CmdActivate,
		"toggle":   wm.CmdToggle,
	} {
		if got := actionKinds[verb].kind; got != want {
			t.Errorf("%s maps to %s, want %s", verb, got, want)
		}
	}
	if actionKinds["close"].requireID || !actionKinds["restore"].requireID {
		t.Fatalf("close should default to the active window, restore should not")
	}
}

func TestPrintWindows(t *testing.T) {
	var buf bytes.Buffer
	printWindows(&buf, []wm.Record{
		{ID: "a", Title: "Alpha", State: wm.StateNormal, ZIndex: 1, Geometry: geometry.Rect{X: 1, Y: 2, Width: 640, Height: 480}},
		{ID: "b", Title: "Beta", State: wm.StateMaximized, ZIndex: 2, Active: true},
	})
	out := buf.String()
	if !strings.Contains(out, "*b") || !strings.Contains(out, "maximized") || !strings.Contains(out, "Alpha") {
		t.Fatalf("unexpected table:\n%s", out)
	}

	buf.Reset()
	printWindows(&buf, nil)
	if strings.TrimSpace(buf.String()) != "no windows" {
		t.Fatalf("expected placeholder, got %q", buf.String())
	}
}

func TestPrintEvents(t *testing.T) {
	var buf bytes.Buffer
	printEvents(&buf, []wm.Event{
		{Kind: wm.EventOpened, WindowID: "a"},
		{Kind: wm.EventSound, Sound: "open"},
	})
	want := "opened(a)\nsound open\n"
	if buf.String() != want {
		t.Fatalf("printEvents = %q, want %q", buf.String(), want)
	}
}
