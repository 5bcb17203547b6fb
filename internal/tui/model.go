package tui

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/deskwm/internal/audio"
	"github.com/1broseidon/deskwm/internal/clock"
	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/taskbar"
	"github.com/1broseidon/deskwm/internal/wm"
)

const frameInterval = 33 * time.Millisecond

// Options configures the terminal desktop.
type Options struct {
	Config *config.Config
	Clock  clock.Clock
	Logger *slog.Logger
	// Audio overrides the player built from the audio config section.
	Audio wm.AudioBridge
	// CellWidth and CellHeight are desktop units per terminal cell.
	// Default 10x20.
	CellWidth  int
	CellHeight int
}

// postedMsg carries a manager timer callback onto the update loop.
type postedMsg func()

type frameMsg struct{}

// poster hands timer callbacks from clock goroutines to bubbletea.
type poster struct {
	ch       chan func()
	done     chan struct{}
	stopOnce sync.Once
}

func newPoster() *poster {
	return &poster{ch: make(chan func(), 64), done: make(chan struct{})}
}

func (p *poster) post(fn func()) {
	select {
	case p.ch <- fn:
	case <-p.done:
	}
}

func (p *poster) wait() tea.Msg {
	select {
	case fn := <-p.ch:
		return postedMsg(fn)
	case <-p.done:
		return nil
	}
}

func (p *poster) stop() {
	p.stopOnce.Do(func() { close(p.done) })
}

// Model is the bubbletea model of the desktop. It owns the window manager,
// so every manager call happens on the update goroutine.
type Model struct {
	manager   *wm.Manager
	taskbar   *taskbar.Taskbar
	container *wm.StaticContainer
	clock     clock.Clock
	logger    *slog.Logger
	posts     *poster
	scale     scale

	keys keyMap
	help help.Model

	width, height int
	ticking       bool
	nextWindow    int
	lastErr       string
	lastEvent     string
}

// New builds the desktop model.
func New(opts Options) (*Model, error) {
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
	sc := scale{cellW: opts.CellWidth, cellH: opts.CellHeight}
	if sc.cellW <= 0 {
		sc.cellW = 10
	}
	if sc.cellH <= 0 {
		sc.cellH = 20
	}

	container := wm.NewStaticContainer(cfg.FixedContainer())
	bar := taskbar.New(taskbar.Layout{
		StartWidth: cfg.Taskbar.StartWidth,
		EntryWidth: cfg.Taskbar.EntryWidth,
	}, container)

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
		return nil, err
	}
	posts := newPoster()
	wmOpts.Post = posts.post
	wmOpts.Taskbar = bar
	wmOpts.Audio = sound
	wmOpts.Container = container

	m := &Model{
		taskbar:   bar,
		container: container,
		clock:     clk,
		logger:    logger.With("component", "tui"),
		posts:     posts,
		scale:     sc,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	m.manager = wm.New(wmOpts)
	bar.SetToggler(m.manager)
	m.manager.Subscribe(func(e wm.Event) {
		switch e.Kind {
		case wm.EventGeometryChanged, wm.EventAnimationStarted, wm.EventAnimationFinished, wm.EventSound:
			return
		}
		m.lastEvent = e.String()
	})
	return m, nil
}

// Manager exposes the window manager for inspection.
func (m *Model) Manager() *wm.Manager {
	return m.manager
}

// Close releases the goroutines waiting on timer callbacks.
func (m *Model) Close() {
	m.posts.stop()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.posts.wait
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case postedMsg:
		msg()
		return m, tea.Batch(m.posts.wait, m.animate())

	case frameMsg:
		m.ticking = false
		return m, m.animate()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.container.Set(m.scale.container(msg.Width, msg.Height)) {
			m.handle(wm.Command{Kind: wm.CmdViewportChanged})
		}
		return m, m.animate()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		m.handleKey(msg)
		return m, m.animate()

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.animate()
	}
	return m, nil
}

// animate keeps a redraw tick running while animations are in flight.
func (m *Model) animate() tea.Cmd {
	if m.ticking || len(m.manager.Animations()) == 0 {
		return nil
	}
	m.ticking = true
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (m *Model) handle(cmd wm.Command) {
	if _, err := m.manager.Handle(cmd); err != nil {
		m.lastErr = err.Error()
		m.logger.Debug("command rejected", "kind", cmd.Kind, "window_id", cmd.WindowID, "error", err)
		return
	}
	m.lastErr = ""
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	active := m.manager.ActiveID()
	switch {
	case key.Matches(msg, m.keys.Open):
		m.openWindow()
	case key.Matches(msg, m.keys.Close):
		m.onActive(wm.CmdClose, active)
	case key.Matches(msg, m.keys.Minimize):
		m.onActive(wm.CmdMinimize, active)
	case key.Matches(msg, m.keys.Maximize):
		m.onActive(wm.CmdToggleMaximize, active)
	case key.Matches(msg, m.keys.Restore):
		if id, ok := m.topMinimized(); ok {
			m.handle(wm.Command{Kind: wm.CmdRestore, WindowID: id})
		}
	case key.Matches(msg, m.keys.Cycle):
		if id, ok := m.bottomVisible(active); ok {
			m.handle(wm.Command{Kind: wm.CmdActivate, WindowID: id})
		}
	case key.Matches(msg, m.keys.CloseAll):
		m.handle(wm.Command{Kind: wm.CmdCloseAll})
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
}

func (m *Model) onActive(kind wm.CommandKind, active string) {
	if active == "" {
		m.lastErr = "no active window"
		return
	}
	m.handle(wm.Command{Kind: kind, WindowID: active})
}

func (m *Model) openWindow() {
	m.nextWindow++
	id := fmt.Sprintf("win-%d", m.nextWindow)
	m.handle(wm.Command{Kind: wm.CmdOpen, WindowID: id, Title: fmt.Sprintf("Window %d", m.nextWindow)})
}

// topMinimized is the most recently raised minimized window.
func (m *Model) topMinimized() (string, bool) {
	recs := m.manager.Windows()
	wm.SortByZ(recs)
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].State == wm.StateMinimized {
			return recs[i].ID, true
		}
	}
	return "", false
}

// bottomVisible is the lowest visible window other than skip.
func (m *Model) bottomVisible(skip string) (string, bool) {
	recs := m.manager.Windows()
	wm.SortByZ(recs)
	for _, r := range recs {
		if r.Visible() && r.ID != skip {
			return r.ID, true
		}
	}
	return "", false
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	p := m.scale.point(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		if kind, _ := m.manager.Interaction(); kind != wm.InteractionIdle {
			m.handle(wm.Command{Kind: wm.CmdPointerMove, Point: p})
		}
		return
	case tea.MouseActionRelease:
		if kind, _ := m.manager.Interaction(); kind != wm.InteractionIdle {
			m.handle(wm.Command{Kind: wm.CmdPointerUp, Point: p})
		}
		return
	}
	if msg.Button != tea.MouseButtonLeft {
		return
	}

	if msg.Y == m.height-1 {
		m.pressTaskbar(p)
		return
	}

	t, ok := hitTest(m.boxes(), msg.X, msg.Y)
	if !ok {
		return
	}
	if t.Region == wm.RegionControl {
		m.handle(wm.Command{Kind: t.Control, WindowID: t.WindowID})
		return
	}
	m.handle(wm.Command{
		Kind:     wm.CmdPointerDown,
		WindowID: t.WindowID,
		Region:   t.Region,
		Handle:   t.Handle,
		Point:    p,
	})
}

func (m *Model) pressTaskbar(p geometry.Point) {
	if m.taskbar.StartRect().Contains(p) {
		m.openWindow()
		return
	}
	hit, err := m.taskbar.Click(p)
	if !hit {
		return
	}
	if err != nil {
		m.lastErr = err.Error()
		return
	}
	m.lastErr = ""
}

func (m *Model) boxes() []box {
	return layoutBoxes(m.manager.Windows(), m.manager.Animations(), m.scale, m.clock.Now())
}
