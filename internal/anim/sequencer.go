package anim

import (
	"sort"

	"github.com/1broseidon/deskwm/internal/clock"
)

// CommitFunc runs on the owning goroutine once an animation's nominal
// duration has elapsed without being superseded.
type CommitFunc func(Animation)

type job struct {
	anim      Animation
	timer     *clock.Timer
	onCommit  CommitFunc
	cancelled bool
}

// Sequencer keeps at most one in-flight animation per window. Starting a
// new animation for a window cancels the previous one first; nothing is
// ever queued.
//
// A Sequencer is not safe for concurrent use. Timer expiry is handed to
// post, which must run the callback on the goroutine that owns the
// Sequencer.
type Sequencer struct {
	clock clock.Clock
	post  func(func())
	next  uint64
	jobs  map[string]*job
}

// NewSequencer creates a sequencer on c. A nil post runs timer callbacks
// inline, which is only correct with a clock whose callbacks already run
// on the owning goroutine (clock.FakeClock).
func NewSequencer(c clock.Clock, post func(func())) *Sequencer {
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Sequencer{
		clock: c,
		post:  post,
		jobs:  make(map[string]*job),
	}
}

// Start cancels any in-flight animation for a.WindowID and schedules a.
// The returned Animation carries its sequence number and start time.
func (s *Sequencer) Start(a Animation, onCommit CommitFunc) Animation {
	s.Cancel(a.WindowID)

	s.next++
	a.Seq = s.next
	a.StartedAt = s.clock.Now()
	if a.Easing == "" {
		a.Easing = DefaultEasing(a.Kind)
	}

	j := &job{anim: a, onCommit: onCommit}
	s.jobs[a.WindowID] = j
	j.timer = s.clock.AfterFunc(a.Duration, func() {
		s.post(func() { s.finish(j) })
	})
	return a
}

// finish commits j unless it was cancelled or superseded while its timer
// callback was in transit.
func (s *Sequencer) finish(j *job) {
	if j.cancelled || s.jobs[j.anim.WindowID] != j {
		return
	}
	delete(s.jobs, j.anim.WindowID)
	if j.onCommit != nil {
		j.onCommit(j.anim)
	}
}

// Cancel drops the in-flight animation for windowID, if any, and returns
// it. Its commit callback will never run.
func (s *Sequencer) Cancel(windowID string) (Animation, bool) {
	j, ok := s.jobs[windowID]
	if !ok {
		return Animation{}, false
	}
	j.cancelled = true
	j.timer.Stop()
	delete(s.jobs, windowID)
	return j.anim, true
}

// Active returns the in-flight animation for windowID.
func (s *Sequencer) Active(windowID string) (Animation, bool) {
	j, ok := s.jobs[windowID]
	if !ok {
		return Animation{}, false
	}
	return j.anim, true
}

// All returns every in-flight animation ordered by sequence number.
func (s *Sequencer) All() []Animation {
	out := make([]Animation, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.anim)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Seq < out[k].Seq })
	return out
}

// Len returns the number of in-flight animations.
func (s *Sequencer) Len() int {
	return len(s.jobs)
}
