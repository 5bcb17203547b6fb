package wm

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/deskwm/internal/anim"
	"github.com/1broseidon/deskwm/internal/clock"
	"github.com/1broseidon/deskwm/internal/geometry"
)

// Options configures a Manager. Zero values fall back to DefaultOptions.
type Options struct {
	MinSize           geometry.Size
	DefaultSize       geometry.Size
	VisibleMargin     int
	SnapThreshold     int
	// DisableSnap turns off edge, center and common size snapping.
	DisableSnap       bool
	CommonSizes       []geometry.Size
	UnmaximizePercent int

	Durations     map[anim.Kind]time.Duration
	Easings       map[anim.Kind]string
	// ActivateDelay is the pause before the next window takes focus after
	// a close or minimize. Negative moves focus on the next timer turn.
	ActivateDelay time.Duration

	Clock clock.Clock
	// Post hands a timer callback to the goroutine that owns the manager.
	// Nil runs callbacks inline on the timer goroutine, which is only safe
	// with clock.FakeClock.
	Post func(func())

	Logger    *slog.Logger
	Taskbar   TaskbarBridge
	Audio     AudioBridge
	Container ContainerProvider
}

// DefaultCommonSizes are the resize snap targets.
var DefaultCommonSizes = []geometry.Size{
	{Width: 800, Height: 600},
	{Width: 1024, Height: 768},
	{Width: 1280, Height: 720},
	{Width: 1366, Height: 768},
	{Width: 1600, Height: 900},
	{Width: 1920, Height: 1080},
}

// DefaultOptions returns the stock tunables with no-op bridges and a
// 1920x1080 container reserving 48 units for the taskbar.
func DefaultOptions() Options {
	return Options{
		MinSize:           geometry.Size{Width: 300, Height: 200},
		DefaultSize:       geometry.Size{Width: 640, Height: 480},
		VisibleMargin:     50,
		SnapThreshold:     15,
		CommonSizes:       append([]geometry.Size(nil), DefaultCommonSizes...),
		UnmaximizePercent: 70,
		Durations: map[anim.Kind]time.Duration{
			anim.KindOpen:       250 * time.Millisecond,
			anim.KindClose:      200 * time.Millisecond,
			anim.KindMinimize:   350 * time.Millisecond,
			anim.KindRestore:    350 * time.Millisecond,
			anim.KindMaximize:   300 * time.Millisecond,
			anim.KindUnmaximize: 300 * time.Millisecond,
			anim.KindSettle:     200 * time.Millisecond,
		},
		ActivateDelay: 100 * time.Millisecond,
		Clock:         clock.Real(),
		Logger:        slog.New(slog.DiscardHandler),
		Taskbar:       nopTaskbar{},
		Audio:         nopAudio{},
		Container:     NewStaticContainer(geometry.Container{Width: 1920, Height: 1080, ReservedBottom: 48}),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinSize.Width <= 0 || o.MinSize.Height <= 0 {
		o.MinSize = d.MinSize
	}
	if o.DefaultSize.Width <= 0 || o.DefaultSize.Height <= 0 {
		o.DefaultSize = d.DefaultSize
	}
	if o.VisibleMargin <= 0 {
		o.VisibleMargin = d.VisibleMargin
	}
	if o.SnapThreshold <= 0 {
		o.SnapThreshold = d.SnapThreshold
	}
	if o.CommonSizes == nil {
		o.CommonSizes = d.CommonSizes
	}
	if o.UnmaximizePercent <= 0 || o.UnmaximizePercent > 100 {
		o.UnmaximizePercent = d.UnmaximizePercent
	}
	durations := make(map[anim.Kind]time.Duration, len(d.Durations))
	for k, v := range d.Durations {
		durations[k] = v
	}
	for k, v := range o.Durations {
		if v >= 0 {
			durations[k] = v
		}
	}
	o.Durations = durations
	switch {
	case o.ActivateDelay == 0:
		o.ActivateDelay = d.ActivateDelay
	case o.ActivateDelay < 0:
		o.ActivateDelay = 0
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	if o.Post == nil {
		o.Post = func(f func()) { f() }
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	if o.Taskbar == nil {
		o.Taskbar = d.Taskbar
	}
	if o.Audio == nil {
		o.Audio = d.Audio
	}
	if o.Container == nil {
		o.Container = d.Container
	}
	return o
}

// Manager owns every window record and applies lifecycle, stacking,
// geometry and animation rules to them.
//
// A Manager is not safe for concurrent use. All calls, including the
// callbacks delivered through Options.Post, must happen on one goroutine.
type Manager struct {
	opts     Options
	logger   *slog.Logger
	registry *Registry
	seq      *anim.Sequencer

	zCounter int
	slot     interaction

	focusTimer *clock.Timer
	focusGen   uint64

	subscribers []subscriber
	nextSub     int
	capture     *[]Event
}

type subscriber struct {
	id int
	fn func(Event)
}

// New creates a Manager.
func New(opts Options) *Manager {
	opts = opts.withDefaults()
	m := &Manager{
		opts:   opts,
		logger: opts.Logger.With("component", "wm"),
	}
	m.registry = NewRegistry(m.onRecordRemoved)
	m.seq = anim.NewSequencer(opts.Clock, opts.Post)
	return m
}

// Handle applies cmd and returns the events it produced.
func (m *Manager) Handle(cmd Command) ([]Event, error) {
	if m.capture != nil {
		// Re-entrant call from a bridge; events flow to the outer batch.
		return nil, m.dispatch(cmd)
	}

	var events []Event
	m.capture = &events
	defer func() { m.capture = nil }()

	err := m.dispatch(cmd)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicateID) {
		m.playSound(SoundError)
	}
	return events, err
}

func (m *Manager) dispatch(cmd Command) error {
	switch cmd.Kind {
	case CmdOpen:
		return m.Open(cmd.WindowID, cmd.Title, cmd.Icon)
	case CmdClose:
		return m.Close(cmd.WindowID)
	case CmdMinimize:
		return m.Minimize(cmd.WindowID)
	case CmdRestore:
		return m.Restore(cmd.WindowID)
	case CmdToggleMaximize:
		return m.ToggleMaximize(cmd.WindowID)
	case CmdActivate:
		return m.Activate(cmd.WindowID)
	case CmdToggle:
		return m.RequestToggle(cmd.WindowID)
	case CmdCloseAll:
		m.CloseAll()
		return nil
	case CmdForceRemove:
		return m.ForceRemove(cmd.WindowID)
	case CmdViewportChanged:
		m.ViewportChanged()
		return nil
	case CmdPointerDown:
		return m.PointerDown(cmd.WindowID, cmd.Region, cmd.Handle, cmd.Point)
	case CmdPointerMove:
		return m.PointerMove(cmd.Point)
	case CmdPointerUp:
		return m.PointerUp(cmd.Point)
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCommand, cmd.Kind)
	}
}

// Subscribe registers fn for every event, including those produced by
// timers. The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(Event)) func() {
	id := m.nextSub
	m.nextSub++
	m.subscribers = append(m.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subscribers {
			if s.id == id {
				m.subscribers = append(m.subscribers[:i:i], m.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Window returns a snapshot of the record for id.
func (m *Manager) Window(id string) (Record, error) {
	return m.registry.Get(id)
}

// Windows returns snapshots of all records, including closing ones.
func (m *Manager) Windows() []Record {
	return m.registry.All()
}

// Animations returns the in-flight animations.
func (m *Manager) Animations() []anim.Animation {
	return m.seq.All()
}

// Container returns the current viewport.
func (m *Manager) Container() geometry.Container {
	return m.opts.Container.Container()
}

// Options returns the effective options.
func (m *Manager) Options() Options {
	return m.opts
}

func (m *Manager) now() time.Time {
	return m.opts.Clock.Now()
}

func (m *Manager) emit(e Event) {
	e.Time = m.now()
	if m.capture != nil {
		*m.capture = append(*m.capture, e)
	}
	for _, s := range m.subscribers {
		s.fn(e)
	}
}

func (m *Manager) emitWindow(kind EventKind, rec *Record) {
	g := rec.Geometry
	m.emit(Event{
		Kind:     kind,
		WindowID: rec.ID,
		State:    rec.State.String(),
		Geometry: &g,
		ZIndex:   rec.ZIndex,
	})
}

// transition runs fn and then enforces invariants.
func (m *Manager) transition(fn func() error) error {
	err := fn()
	m.enforceInvariants()
	return err
}

// deferred wraps a timer-driven change the same way.
func (m *Manager) deferred(fn func()) {
	fn()
	m.enforceInvariants()
}

// liveRecord returns a record that is open or minimized.
func (m *Manager) liveRecord(id string) (*Record, error) {
	rec, ok := m.registry.lookup(id)
	if !ok || rec.State == StateClosed {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

func (m *Manager) callBridge(bridge, op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("bridge call panicked",
				"bridge", bridge, "op", op,
				"error", fmt.Errorf("%w: %v", ErrBridgeUnavailable, r))
		}
	}()
	if err := fn(); err != nil {
		m.logger.Warn("bridge call failed",
			"bridge", bridge, "op", op,
			"error", fmt.Errorf("%w: %w", ErrBridgeUnavailable, err))
	}
}

func (m *Manager) playSound(name string) {
	m.emit(Event{Kind: EventSound, Sound: name})
	m.callBridge("audio", name, func() error { return m.opts.Audio.Notify(name) })
}

func (m *Manager) taskbarOpened(rec *Record) {
	m.callBridge("taskbar", "opened", func() error {
		ref, err := m.opts.Taskbar.WindowOpened(rec.ID, rec.Title, rec.Icon)
		if err != nil {
			return err
		}
		rec.TaskbarRef = ref
		return nil
	})
}

func (m *Manager) taskbarActive(id string) {
	m.callBridge("taskbar", "active", func() error { return m.opts.Taskbar.ActiveChanged(id) })
}

func (m *Manager) taskbarEntryRect(id string) (r geometry.Rect, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Warn("bridge call panicked",
				"bridge", "taskbar", "op", "entry_rect",
				"error", fmt.Errorf("%w: %v", ErrBridgeUnavailable, rec))
			r, ok = geometry.Rect{}, false
		}
	}()
	return m.opts.Taskbar.EntryRect(id)
}

func (m *Manager) onRecordRemoved(rec *Record) {
	m.callBridge("taskbar", "closed", func() error { return m.opts.Taskbar.WindowClosed(rec.ID) })
	m.emit(Event{Kind: EventClosed, WindowID: rec.ID, State: StateClosed.String()})
	m.logger.Debug("window removed", "window", rec.ID)
}

// animate starts an animation of kind for rec. commit runs on completion
// if the animation is not superseded.
func (m *Manager) animate(kind anim.Kind, rec *Record, from, to anim.Frame, commit func()) {
	if prev, ok := m.seq.Cancel(rec.ID); ok {
		m.emit(Event{Kind: EventAnimationCancelled, WindowID: rec.ID, Animation: &prev})
	}
	a := anim.Animation{
		Kind:     kind,
		WindowID: rec.ID,
		From:     from,
		To:       to,
		Duration: m.opts.Durations[kind],
		Easing:   m.opts.Easings[kind],
	}
	a = m.seq.Start(a, func(done anim.Animation) {
		m.deferred(func() {
			m.emit(Event{Kind: EventAnimationFinished, WindowID: done.WindowID, Animation: &done})
			if commit != nil {
				commit()
			}
		})
	})
	m.emit(Event{Kind: EventAnimationStarted, WindowID: rec.ID, Animation: &a})
}

// visualFrame is where rec currently appears, accounting for any
// in-flight animation.
func (m *Manager) visualFrame(rec *Record) anim.Frame {
	if a, ok := m.seq.Active(rec.ID); ok {
		return a.FrameAt(m.now())
	}
	if rec.State == StateMinimized {
		return m.minimizeTarget(rec)
	}
	return anim.Solid(rec.Geometry)
}
