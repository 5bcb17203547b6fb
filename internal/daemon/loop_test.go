package daemon

import (
	"context"
	"errors"
	"testing"
	"time"
)

func startLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, cancel
}

func TestLoop_RunsInOrder(t *testing.T) {
	l, _ := startLoop(t)

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	if err := l.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("Do: %v", err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("jobs ran out of order: %v", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 jobs, got %v", got)
	}
}

func TestLoop_PostFromInsideJob(t *testing.T) {
	l, _ := startLoop(t)

	ran := make(chan struct{})
	l.Post(func() {
		l.Post(func() { close(ran) })
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatalf("nested post never ran")
	}
}

func TestLoop_DoReturnsErrorAndSurvivesPanic(t *testing.T) {
	l, _ := startLoop(t)

	want := errors.New("boom")
	if err := l.Do(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}

	if err := l.Do(context.Background(), func() error { panic("bad job") }); err == nil {
		t.Fatalf("expected panic to surface as an error")
	}

	if err := l.Do(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("loop should keep running after a panic, got %v", err)
	}
}

func TestLoop_DoAfterStop(t *testing.T) {
	l := NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	cancel()
	<-l.Done()

	if err := l.Do(context.Background(), func() error { return nil }); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}

func TestLoop_DoHonoursContext(t *testing.T) {
	l := NewLoop(nil) // never started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Do(ctx, func() error { return nil }); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
