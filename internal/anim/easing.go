package anim

import "math"

// EasingFunc maps time progress (0-1) to value progress (0-1).
type EasingFunc func(t float64) float64

var (
	EaseLinear EasingFunc = func(t float64) float64 { return t }

	EaseInQuad EasingFunc = func(t float64) float64 { return t * t }

	EaseOutCubic EasingFunc = func(t float64) float64 {
		t--
		return t*t*t + 1
	}

	EaseInOutCubic EasingFunc = func(t float64) float64 {
		if t < 0.5 {
			return 4 * t * t * t
		}
		return (t-1)*(2*t-2)*(2*t-2) + 1
	}

	// EaseOutBack overshoots slightly before settling.
	EaseOutBack EasingFunc = func(t float64) float64 {
		c1 := 1.70158
		c3 := c1 + 1
		return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
	}
)

var easings = map[string]EasingFunc{
	"linear":         EaseLinear,
	"ease-in-quad":   EaseInQuad,
	"ease-out-cubic": EaseOutCubic,
	"ease-in-out":    EaseInOutCubic,
	"ease-out-back":  EaseOutBack,
}

// EasingByName returns the named easing curve, or linear when unknown.
func EasingByName(name string) EasingFunc {
	if fn, ok := easings[name]; ok {
		return fn
	}
	return EaseLinear
}

// KnownEasing reports whether name is a registered curve.
func KnownEasing(name string) bool {
	_, ok := easings[name]
	return ok
}
