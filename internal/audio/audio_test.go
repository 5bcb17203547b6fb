package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func stubCommands(t *testing.T) *[][]string {
	t.Helper()
	var started [][]string
	origLook, origStart := execLookPath, startCommand
	execLookPath = func(name string) (string, error) {
		if name == "missing-player" {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + name, nil
	}
	startCommand = func(name string, args ...string) error {
		started = append(started, append([]string{name}, args...))
		return nil
	}
	t.Cleanup(func() {
		execLookPath = origLook
		startCommand = origStart
	})
	return &started
}

func TestNotifyPlaysConfiguredFile(t *testing.T) {
	started := stubCommands(t)
	dir := t.TempDir()
	file := filepath.Join(dir, "open.oga")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	p := New(Config{Enabled: true, Player: "paplay", Sounds: map[string]string{"open": file}})
	if err := p.Notify("open"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(*started) != 1 || (*started)[0][0] != "/usr/bin/paplay" || (*started)[0][1] != file {
		t.Fatalf("unexpected commands %v", *started)
	}
}

func TestNotifyErrors(t *testing.T) {
	stubCommands(t)
	dir := t.TempDir()
	present := filepath.Join(dir, "close.oga")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatalf("write asset: %v", err)
	}

	tests := []struct {
		name  string
		cfg   Config
		sound string
		want  error
	}{
		{"unknown sound", Config{Enabled: true, Player: "paplay"}, "open", ErrUnknownSound},
		{"missing asset", Config{Enabled: true, Player: "paplay", Sounds: map[string]string{"open": filepath.Join(dir, "nope.oga")}}, "open", ErrMissingAsset},
		{"missing player", Config{Enabled: true, Player: "missing-player", Sounds: map[string]string{"close": present}}, "close", ErrNoPlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.cfg).Notify(tt.sound)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNotifyDisabled(t *testing.T) {
	started := stubCommands(t)
	p := New(Config{Enabled: false, Player: "paplay"})
	if err := p.Notify("open"); err != nil {
		t.Fatalf("disabled player should be silent, got %v", err)
	}
	if len(*started) != 0 {
		t.Fatalf("disabled player started %v", *started)
	}
}
