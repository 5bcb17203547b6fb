// Package audio plays short feedback sounds for window transitions by
// shelling out to a system player such as paplay or aplay.
package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/1broseidon/deskwm/internal/wm"
)

var (
	// ErrUnknownSound is returned for a sound name with no configured file.
	ErrUnknownSound = errors.New("no asset configured for sound")
	// ErrMissingAsset is returned when the configured file does not exist.
	ErrMissingAsset = errors.New("sound asset missing")
	// ErrNoPlayer is returned when the player binary cannot be found.
	ErrNoPlayer = errors.New("sound player not found")
)

var (
	execLookPath = exec.LookPath
	statFile     = os.Stat
	startCommand = func(name string, args ...string) error {
		cmd := exec.Command(name, args...)
		if err := cmd.Start(); err != nil {
			return err
		}
		go func() { _ = cmd.Wait() }()
		return nil
	}
)

// Config selects the player and the file behind each sound name.
type Config struct {
	Enabled bool
	Player  string
	Sounds  map[string]string
}

// Player implements wm.AudioBridge. Playback is fire and forget; Notify
// returns as soon as the player process has started.
type Player struct {
	cfg Config

	mu         sync.Mutex
	playerPath string
}

var _ wm.AudioBridge = (*Player)(nil)

// New returns a player for cfg.
func New(cfg Config) *Player {
	return &Player{cfg: cfg}
}

// Notify plays the sound registered under name.
func (p *Player) Notify(name string) error {
	if p == nil || !p.cfg.Enabled {
		return nil
	}
	file, ok := p.cfg.Sounds[name]
	if !ok || file == "" {
		return fmt.Errorf("%w: %s", ErrUnknownSound, name)
	}
	if _, err := statFile(file); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMissingAsset, file, err)
	}

	bin, err := p.resolvePlayer()
	if err != nil {
		return err
	}
	if err := startCommand(bin, file); err != nil {
		return fmt.Errorf("start %s: %w", p.cfg.Player, err)
	}
	return nil
}

func (p *Player) resolvePlayer() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.playerPath != "" {
		return p.playerPath, nil
	}
	if p.cfg.Player == "" {
		return "", fmt.Errorf("%w: no player configured", ErrNoPlayer)
	}
	path, err := execLookPath(p.cfg.Player)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoPlayer, p.cfg.Player)
	}
	p.playerPath = path
	return path, nil
}
