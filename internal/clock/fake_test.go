package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFakeClock_AfterFuncFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := false
	c.AfterFunc(100*time.Millisecond, func() { fired = true })

	c.Advance(99 * time.Millisecond)
	if fired {
		t.Fatalf("timer fired before its deadline")
	}
	c.Advance(time.Millisecond)
	if !fired {
		t.Fatalf("timer did not fire at its deadline")
	}
	if got := c.PendingCount(); got != 0 {
		t.Fatalf("expected no pending timers, got %d", got)
	}
}

func TestFakeClock_StopPreventsFire(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatalf("expected Stop to report an active timer")
	}
	if timer.Stop() {
		t.Fatalf("expected second Stop to return false")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Fatalf("stopped timer fired")
	}
}

func TestFakeClock_FiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []string
	c.AfterFunc(300*time.Millisecond, func() { order = append(order, "late") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "early") })
	c.AfterFunc(100*time.Millisecond, func() { order = append(order, "early-2") })

	c.Advance(time.Second)
	want := []string{"early", "early-2", "late"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestFakeClock_CallbackSchedulesFollowUp(t *testing.T) {
	c := Fake(epoch)
	var at []time.Duration
	c.AfterFunc(100*time.Millisecond, func() {
		at = append(at, c.Now().Sub(epoch))
		c.AfterFunc(50*time.Millisecond, func() {
			at = append(at, c.Now().Sub(epoch))
		})
	})

	c.Advance(200 * time.Millisecond)
	if len(at) != 2 {
		t.Fatalf("expected chained timers to fire, got %v", at)
	}
	if at[0] != 100*time.Millisecond || at[1] != 150*time.Millisecond {
		t.Fatalf("unexpected fire times %v", at)
	}
	if got := c.Now().Sub(epoch); got != 200*time.Millisecond {
		t.Fatalf("expected clock at 200ms, got %v", got)
	}
}
