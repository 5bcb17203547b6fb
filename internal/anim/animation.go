package anim

import (
	"math"
	"time"

	"github.com/1broseidon/deskwm/internal/geometry"
)

// Kind names a lifecycle transition's visual effect.
type Kind string

const (
	KindOpen       Kind = "open"
	KindClose      Kind = "close"
	KindMinimize   Kind = "minimize"
	KindRestore    Kind = "restore"
	KindMaximize   Kind = "maximize"
	KindUnmaximize Kind = "unmaximize"
	KindSettle     Kind = "settle"
)

// Kinds lists every animation kind in a stable order.
var Kinds = []Kind{KindOpen, KindClose, KindMinimize, KindRestore, KindMaximize, KindUnmaximize, KindSettle}

// DefaultEasing returns the curve used for a kind when none is given.
func DefaultEasing(k Kind) string {
	switch k {
	case KindClose:
		return "ease-in-quad"
	case KindMinimize, KindRestore:
		return "ease-in-out"
	case KindSettle:
		return "ease-out-back"
	default:
		return "ease-out-cubic"
	}
}

// Frame is one visual state of a window: where it is drawn, how much it
// is scaled around its center and how opaque it is.
type Frame struct {
	Rect    geometry.Rect `json:"rect"`
	Scale   float64       `json:"scale"`
	Opacity float64       `json:"opacity"`
}

// Solid returns a fully visible, unscaled frame at r.
func Solid(r geometry.Rect) Frame {
	return Frame{Rect: r, Scale: 1, Opacity: 1}
}

// Animation is a scheduled visual transition for one window.
type Animation struct {
	Seq       uint64        `json:"seq"`
	Kind      Kind          `json:"kind"`
	WindowID  string        `json:"window_id"`
	From      Frame         `json:"from"`
	To        Frame         `json:"to"`
	Duration  time.Duration `json:"duration"`
	Easing    string        `json:"easing,omitempty"`
	StartedAt time.Time     `json:"started_at"`
}

// Progress returns eased progress in [0, 1] at now.
func (a Animation) Progress(now time.Time) float64 {
	if a.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(a.StartedAt)) / float64(a.Duration)
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return EasingByName(a.Easing)(t)
}

// FrameAt interpolates the frame shown at now.
func (a Animation) FrameAt(now time.Time) Frame {
	p := a.Progress(now)
	return Frame{
		Rect: geometry.Rect{
			X:      lerpInt(a.From.Rect.X, a.To.Rect.X, p),
			Y:      lerpInt(a.From.Rect.Y, a.To.Rect.Y, p),
			Width:  lerpInt(a.From.Rect.Width, a.To.Rect.Width, p),
			Height: lerpInt(a.From.Rect.Height, a.To.Rect.Height, p),
		},
		Scale:   lerp(a.From.Scale, a.To.Scale, p),
		Opacity: clamp01(lerp(a.From.Opacity, a.To.Opacity, p)),
	}
}

// Done reports whether the nominal duration has elapsed at now.
func (a Animation) Done(now time.Time) bool {
	return !now.Before(a.StartedAt.Add(a.Duration))
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func lerpInt(a, b int, t float64) int {
	return int(math.Round(lerp(float64(a), float64(b), t)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
