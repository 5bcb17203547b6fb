// Package daemon hosts the window manager: it owns the event loop, wires
// the taskbar, audio and journal collaborators, and keeps the viewport
// current.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/deskwm/internal/audio"
	"github.com/1broseidon/deskwm/internal/clock"
	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/journal"
	"github.com/1broseidon/deskwm/internal/taskbar"
	"github.com/1broseidon/deskwm/internal/wm"
)

// ErrNoActiveWindow is returned by ActOnActive when nothing has focus.
var ErrNoActiveWindow = errors.New("no active window")

// Options configures a Daemon.
type Options struct {
	Config *config.Config
	Clock  clock.Clock
	Logger *slog.Logger
	// Viewport overrides the container source. Nil uses the fixed size
	// from the config.
	Viewport ViewportSource
	// Audio overrides the player built from the audio config section.
	Audio wm.AudioBridge
}

// Snapshot is a point-in-time view of the desktop.
type Snapshot struct {
	Windows     []wm.Record        `json:"windows"`
	ActiveID    string             `json:"active_id,omitempty"`
	Interaction string             `json:"interaction"`
	Animations  int                `json:"animations"`
	Container   geometry.Container `json:"container"`
	Taskbar     []taskbar.Entry    `json:"taskbar"`
}

// Daemon owns a wm.Manager and serializes access to it.
type Daemon struct {
	loop      *Loop
	manager   *wm.Manager
	taskbar   *taskbar.Taskbar
	container *wm.StaticContainer
	journal   *journal.Journal
	watcher   *ViewportWatcher
	logger    *slog.Logger
	clock     clock.Clock
	started   time.Time

	cfgMu sync.RWMutex
	cfg   *config.Config
}

// New builds the manager and its collaborators from opts.
func New(opts Options) (*Daemon, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	loop := NewLoop(logger.With("component", "loop"))
	container := wm.NewStaticContainer(cfg.FixedContainer())

	if opts.Viewport != nil {
		// Prime with the live bounds so the first window is placed correctly.
		if c, err := opts.Viewport(); err == nil && c.Width > 0 && c.Height > 0 {
			container.Set(c)
		} else if err != nil {
			logger.Warn("viewport unavailable, using configured size", "error", err)
		}
	}

	bar := taskbar.New(taskbar.Layout{
		StartWidth: cfg.Taskbar.StartWidth,
		EntryWidth: cfg.Taskbar.EntryWidth,
	}, container)

	jcfg := cfg.GetJournalConfig()
	jrnl, err := journal.New(journal.Config{
		Enabled:   jcfg.Enabled,
		Level:     journal.ParseLevel(jcfg.Level),
		FilePath:  jcfg.File,
		MaxSizeMB: jcfg.MaxSizeMB,
		MaxFiles:  jcfg.MaxFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("journal: %w", err)
	}

	sound := opts.Audio
	if sound == nil {
		sound = audio.New(audio.Config{
			Enabled: cfg.Audio.Enabled,
			Player:  cfg.Audio.Player,
			Sounds:  cfg.Audio.Sounds,
		})
	}

	wmOpts, err := cfg.ManagerOptions(clk, logger)
	if err != nil {
		jrnl.Close()
		return nil, err
	}
	wmOpts.Post = loop.Post
	wmOpts.Taskbar = bar
	wmOpts.Audio = sound
	wmOpts.Container = container

	mgr := wm.New(wmOpts)
	bar.SetToggler(mgr)
	mgr.Subscribe(jrnl.Event)

	d := &Daemon{
		loop:      loop,
		manager:   mgr,
		taskbar:   bar,
		container: container,
		journal:   jrnl,
		logger:    logger,
		clock:     clk,
		started:   clk.Now(),
		cfg:       cfg,
	}

	if opts.Viewport != nil {
		d.watcher = NewViewportWatcher(ViewportWatcherConfig{
			Interval: cfg.Viewport.PollInterval,
			Logger:   logger.With("component", "viewport"),
		}, opts.Viewport, container, d.postViewportChanged)
	}

	return d, nil
}

// Run drives the event loop and the viewport watcher until ctx is
// cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if d.watcher != nil {
		go d.watcher.Run(ctx)
	}
	d.loop.Run(ctx)
	return d.journal.Close()
}

// Loop exposes the event loop for collaborators that post their own work.
func (d *Daemon) Loop() *Loop {
	return d.loop
}

// Execute applies cmd on the event loop.
func (d *Daemon) Execute(ctx context.Context, cmd wm.Command) ([]wm.Event, error) {
	var events []wm.Event
	err := d.loop.Do(ctx, func() error {
		var err error
		events, err = d.manager.Handle(cmd)
		if err != nil {
			d.journal.CommandFailed(cmd, err)
		}
		return err
	})
	return events, err
}

// ActOnActive applies a command of the given kind to the active window.
func (d *Daemon) ActOnActive(ctx context.Context, kind wm.CommandKind) ([]wm.Event, error) {
	var events []wm.Event
	err := d.loop.Do(ctx, func() error {
		id := d.manager.ActiveID()
		if id == "" {
			return ErrNoActiveWindow
		}
		cmd := wm.Command{Kind: kind, WindowID: id}
		var err error
		events, err = d.manager.Handle(cmd)
		if err != nil {
			d.journal.CommandFailed(cmd, err)
		}
		return err
	})
	return events, err
}

// Snapshot captures the desktop state on the event loop.
func (d *Daemon) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := d.loop.Do(ctx, func() error {
		windows := d.manager.Windows()
		wm.SortByZ(windows)
		kind, _ := d.manager.Interaction()
		snap = Snapshot{
			Windows:     windows,
			ActiveID:    d.manager.ActiveID(),
			Interaction: kind.String(),
			Animations:  len(d.manager.Animations()),
			Container:   d.manager.Container(),
			Taskbar:     d.taskbar.Entries(),
		}
		return nil
	})
	return snap, err
}

// Uptime reports how long the daemon has been running.
func (d *Daemon) Uptime() time.Duration {
	return d.clock.Now().Sub(d.started)
}

// Config returns the current configuration.
func (d *Daemon) Config() *config.Config {
	d.cfgMu.RLock()
	defer d.cfgMu.RUnlock()
	return d.cfg
}

// Reload applies the parts of cfg that can change at runtime: the fixed
// viewport size. Everything else needs a restart.
func (d *Daemon) Reload(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("reload: nil config")
	}
	d.cfgMu.Lock()
	d.cfg = cfg
	d.cfgMu.Unlock()

	if d.watcher != nil {
		d.watcher.CheckNow()
		return nil
	}
	if !d.container.Set(cfg.FixedContainer()) {
		return nil
	}
	_, err := d.Execute(ctx, wm.Command{Kind: wm.CmdViewportChanged})
	return err
}

func (d *Daemon) postViewportChanged() {
	d.loop.Post(func() {
		if _, err := d.manager.Handle(wm.Command{Kind: wm.CmdViewportChanged}); err != nil {
			d.logger.Warn("viewport refit failed", "error", err)
		}
	})
}
