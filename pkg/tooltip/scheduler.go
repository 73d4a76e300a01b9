package tooltip

import (
	"sync/atomic"
	"time"
)

// Scheduler runs delayed callbacks. The returned cancel func prevents fn
// from running if it has not started yet; calling it more than once is
// safe.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, fn func()) func()

// AfterFunc implements Scheduler.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) func() {
	return f(d, fn)
}

// NewTimerScheduler returns a Scheduler backed by time.AfterFunc.
//
// When dispatch is non-nil the callback is handed to it instead of running
// on the timer goroutine, which lets an owner with an event loop keep all
// state changes on that loop.
func NewTimerScheduler(dispatch func(func())) Scheduler {
	return SchedulerFunc(func(d time.Duration, fn func()) func() {
		// Use atomic to prevent double-fire after cancel
		var fired atomic.Bool
		timer := time.AfterFunc(d, func() {
			if !fired.CompareAndSwap(false, true) {
				return
			}
			if dispatch != nil {
				dispatch(fn)
				return
			}
			fn()
		})

		return func() {
			fired.Store(true)
			timer.Stop()
		}
	})
}
