package journal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/wm"
)

var stamp = time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC)

func openJournal(t *testing.T, level Level, maxFiles int) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs", "events.log")
	j, err := New(Config{Enabled: true, Level: level, FilePath: path, MaxSizeMB: 1, MaxFiles: maxFiles})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j, path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestEvent_WritesSortedDetails(t *testing.T) {
	j, path := openJournal(t, LevelInfo, 3)

	r := geometry.Rect{X: 1, Y: 2, Width: 300, Height: 200}
	j.Event(wm.Event{Kind: wm.EventOpened, WindowID: "notes", State: "normal", Geometry: &r, ZIndex: 4, Time: stamp})

	got := readFile(t, path)
	want := `2026-01-01 09:30:00.000 [OPENED] window=notes geometry="` + r.String() + `" state="normal" z=4` + "\n"
	if got != want {
		t.Fatalf("unexpected entry\n got: %q\nwant: %q", got, want)
	}
}

func TestEvent_LevelFiltering(t *testing.T) {
	j, path := openJournal(t, LevelInfo, 3)

	j.Event(wm.Event{Kind: wm.EventAnimationStarted, WindowID: "a", Time: stamp})
	j.Event(wm.Event{Kind: wm.EventSound, Sound: "open", Time: stamp})
	j.Event(wm.Event{Kind: wm.EventActivated, WindowID: "a", Time: stamp})
	j.CommandFailed(wm.Command{Kind: wm.CmdClose, WindowID: "ghost"}, errors.New("window not found"))

	lines := strings.Split(strings.TrimSpace(readFile(t, path)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at info level, got %d: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[ACTIVATED] window=a") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], `[COMMAND-FAILED] window=ghost command="close" error="window not found"`) {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestRotate(t *testing.T) {
	j, path := openJournal(t, LevelDebug, 2)

	j.Event(wm.Event{Kind: wm.EventOpened, WindowID: "first", Time: stamp})
	j.currentSize = 1024 * 1024
	j.Event(wm.Event{Kind: wm.EventOpened, WindowID: "second", Time: stamp})
	j.currentSize = 1024 * 1024
	j.Event(wm.Event{Kind: wm.EventOpened, WindowID: "third", Time: stamp})

	if got := readFile(t, path); !strings.Contains(got, "third") || strings.Contains(got, "second") {
		t.Fatalf("current file should only hold the newest entry, got %q", got)
	}
	if got := readFile(t, path+".1"); !strings.Contains(got, "second") {
		t.Fatalf("expected .1 to hold the second entry, got %q", got)
	}
	if got := readFile(t, path+".2"); !strings.Contains(got, "first") {
		t.Fatalf("expected .2 to hold the first entry, got %q", got)
	}
}

func TestDisabledJournalIsSilent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.log")
	j, err := New(Config{Enabled: false, FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	j.Event(wm.Event{Kind: wm.EventOpened, WindowID: "a"})
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("disabled journal must not create %s", path)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{"debug": LevelDebug, "INFO": LevelInfo, "warning": LevelWarn, "error": LevelError, "": LevelInfo}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
