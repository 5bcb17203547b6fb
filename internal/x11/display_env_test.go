package x11

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func stubDetectFns(t *testing.T, detectSession func() (string, string), detectSocket func(string) string) {
	t.Helper()
	origSession := detectSessionX11EnvFn
	origSocket := detectDisplayFromSocketFn
	detectSessionX11EnvFn = detectSession
	detectDisplayFromSocketFn = detectSocket
	t.Cleanup(func() {
		detectSessionX11EnvFn = origSession
		detectDisplayFromSocketFn = origSocket
	})
}

func TestResolveDisplay_ConfigWins(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return ":99", "/tmp/detected" },
		func(string) string { return ":88" },
	)

	env := []string{"DISPLAY=:7", "XAUTHORITY=/tmp/env"}
	got, err := ResolveDisplay(env, ":1", "/tmp/cfg")
	if err != nil {
		t.Fatalf("ResolveDisplay: %v", err)
	}
	if got != (DisplayEnv{Display: ":1", XAuthority: "/tmp/cfg"}) {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestResolveDisplay_UsesEnvBeforeDetection(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return ":99", "/tmp/detected" },
		func(string) string { return ":88" },
	)

	got, err := ResolveDisplay([]string{"DISPLAY=:7", "XAUTHORITY=/tmp/env"}, "", "")
	if err != nil {
		t.Fatalf("ResolveDisplay: %v", err)
	}
	if got.Display != ":7" || got.XAuthority != "/tmp/env" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestResolveDisplay_DetectedSessionThenHomeXAuthority(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return ":5", "" },
		func(string) string { return "" },
	)

	home := t.TempDir()
	xauth := filepath.Join(home, ".Xauthority")
	if err := os.WriteFile(xauth, []byte("cookie"), 0600); err != nil {
		t.Fatalf("write xauthority: %v", err)
	}

	got, err := ResolveDisplay([]string{"HOME=" + home}, "", "")
	if err != nil {
		t.Fatalf("ResolveDisplay: %v", err)
	}
	if got.Display != ":5" || got.XAuthority != xauth {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestResolveDisplay_FallsBackToSocketScan(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return "", "" },
		func(string) string { return ":3" },
	)

	got, err := ResolveDisplay([]string{"HOME=" + t.TempDir()}, "", "")
	if err != nil {
		t.Fatalf("ResolveDisplay: %v", err)
	}
	if got.Display != ":3" {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestResolveDisplay_ErrorsWithoutDisplay(t *testing.T) {
	stubDetectFns(t,
		func() (string, string) { return "", "" },
		func(string) string { return "" },
	)

	_, err := ResolveDisplay([]string{"HOME=" + t.TempDir()}, "", "")
	if err == nil || !strings.Contains(err.Error(), "no X display found") {
		t.Fatalf("expected missing display error, got %v", err)
	}
}

func TestDetectDisplayFromSockets(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"X0", "X2", "not-a-display"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{}, 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if got := detectDisplayFromSockets(dir); got != ":2" {
		t.Fatalf("detectDisplayFromSockets = %q, want %q", got, ":2")
	}
}

func TestParseLoginctlSessions(t *testing.T) {
	out := strings.Join([]string{
		"1 1000 george seat0",
		"2 1001 alice seat0",
		"3 1000 george seat1",
		"",
	}, "\n")
	got := parseLoginctlSessions(out, "1000")
	if len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("parseLoginctlSessions = %v, want [1 3]", got)
	}
}
