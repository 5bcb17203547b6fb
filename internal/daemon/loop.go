package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Loop serializes work onto one goroutine. The window manager is not safe
// for concurrent use, so every IPC request, timer callback and viewport
// change reaches it through a Loop.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	done    chan struct{}
	stopped bool
	logger  *slog.Logger
}

// NewLoop creates an idle loop. Call Run to start processing.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Post queues fn without waiting. It never blocks, so it is safe to call
// from timer goroutines and from the loop itself.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	l.Post(func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic in event loop: %v", r)
			}
			result <- err
		}()
		err = fn()
	})

	select {
	case err := <-result:
		return err
	case <-l.done:
		// fn may have completed just before shutdown.
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes queued work until ctx is cancelled. Blocks.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("event loop started")
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.queue = nil
		l.mu.Unlock()
		close(l.done)
		l.logger.Info("event loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
			for _, fn := range l.drain() {
				l.run(fn)
			}
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.queue
	l.queue = nil
	return batch
}

func (l *Loop) run(fn func()) {
	// A panicking job must not take the window manager down with it.
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop panic recovered", "error", fmt.Sprint(r))
		}
	}()
	fn()
}
