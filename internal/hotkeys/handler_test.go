package hotkeys

import (
	"testing"

	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/wm"
)

func TestBindings(t *testing.T) {
	got := Bindings(config.DefaultConfig().Hotkeys)
	want := []Binding{
		{Keys: "Mod4-q", Kind: wm.CmdClose},
		{Keys: "Mod4-m", Kind: wm.CmdMinimize},
		{Keys: "Mod4-Up", Kind: wm.CmdToggleMaximize},
	}
	if len(got) != len(want) {
		t.Fatalf("Bindings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bindings[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestBindings_SkipsEmpty(t *testing.T) {
	got := Bindings(config.HotkeysConfig{MinimizeActive: "Mod1-F9"})
	if len(got) != 1 || got[0].Kind != wm.CmdMinimize || got[0].Keys != "Mod1-F9" {
		t.Fatalf("unexpected bindings %v", got)
	}
}
