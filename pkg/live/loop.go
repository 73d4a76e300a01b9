package live

import (
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/vango-dev/tooltip/pkg/tooltip"
)

// Loop runs functions one at a time on a single goroutine.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
	logger    *slog.Logger
}

// NewLoop creates a loop with room for size queued functions.
func NewLoop(size int, logger *slog.Logger) *Loop {
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		queue:  make(chan func(), size),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Dispatch queues fn to run on the loop. It reports false when the loop
// is closed or the queue is full, in which case fn is discarded.
func (l *Loop) Dispatch(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	default:
		l.logger.Warn("dispatch queue full, discarding callback")
		return false
	}
}

// dispatchWait queues fn, waiting for room instead of discarding it. It
// reports false only when the loop is closed. It must not be called from
// the loop goroutine.
func (l *Loop) dispatchWait(fn func()) bool {
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued functions until Close is called. Functions still
// queued at that point are dropped.
func (l *Loop) Run() {
	for {
		select {
		case fn := <-l.queue:
			l.execute(fn)
		case <-l.done:
			return
		}
	}
}

func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("dispatch panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// Close stops the loop. It is safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Scheduler returns a tooltip.Scheduler whose callbacks run on the loop.
// Timer callbacks wait for queue space and are never discarded.
func (l *Loop) Scheduler() tooltip.Scheduler {
	return tooltip.NewTimerScheduler(func(fn func()) { l.dispatchWait(fn) })
}
