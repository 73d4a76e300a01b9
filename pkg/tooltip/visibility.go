package tooltip

import (
	"sync"
	"time"
)

// Visibility is the display state of a tooltip panel.
type Visibility string

const (
	// VisibilityInitial is the state before the first show. It is never
	// re-entered.
	VisibilityInitial Visibility = "initial"
	VisibilityVisible Visibility = "visible"
	VisibilityHidden  Visibility = "hidden"
)

// Stream is a source of notifications that supports subscription.
// Subscribing is lazy and may happen any number of times; the returned
// func removes the subscription.
type Stream interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Controller is the visibility state machine of a single tooltip panel.
//
// Timers move the target state. The rendering layer reports when an
// animation has settled, which moves the confirmed state; only a settle
// into hidden notifies AfterHidden subscribers.
//
// At most one show timer and one hide timer are pending at a time, and
// arming either cancels the other. Controller methods may be called from
// any goroutine; callbacks run without the controller's lock held.
type Controller struct {
	mu       sync.Mutex
	sched    Scheduler
	onRedraw func(Visibility)

	target    Visibility
	confirmed Visibility

	// Generations invalidate callbacks of timers that fired after being
	// superseded.
	showGen    uint64
	hideGen    uint64
	showCancel func()
	hideCancel func()

	closeOnInteraction bool
	disposed           bool

	hidden notifier
}

// NewController creates a controller in the initial state. onRedraw is
// called each time a timer moves the target state; it may be nil. A nil
// scheduler uses real timers.
func NewController(sched Scheduler, onRedraw func(Visibility)) *Controller {
	if sched == nil {
		sched = NewTimerScheduler(nil)
	}
	return &Controller{
		sched:     sched,
		onRedraw:  onRedraw,
		target:    VisibilityInitial,
		confirmed: VisibilityInitial,
	}
}

// Show makes the panel visible after delay. A pending hide is cancelled.
// If a show is already pending it is left as is, without restarting its
// delay. Negative delays are treated as zero.
func (c *Controller) Show(delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	c.cancelHideLocked()
	c.closeOnInteraction = true
	if c.showCancel != nil {
		return
	}

	c.showGen++
	gen := c.showGen
	c.showCancel = c.sched.AfterFunc(clampDelay(delay), func() {
		c.fire(gen, true)
	})
}

// Hide hides the panel after delay. A pending show is cancelled and a
// pending hide is replaced, so a later Hide(0) always takes effect at once.
// Negative delays are treated as zero.
func (c *Controller) Hide(delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	c.cancelShowLocked()
	c.cancelHideLocked()

	c.hideGen++
	gen := c.hideGen
	c.hideCancel = c.sched.AfterFunc(clampDelay(delay), func() {
		c.fire(gen, false)
	})
}

func (c *Controller) fire(gen uint64, show bool) {
	c.mu.Lock()
	var to Visibility
	if show {
		if c.disposed || gen != c.showGen || c.showCancel == nil {
			c.mu.Unlock()
			return
		}
		c.showCancel = nil
		to = VisibilityVisible
	} else {
		if c.disposed || gen != c.hideGen || c.hideCancel == nil {
			c.mu.Unlock()
			return
		}
		c.hideCancel = nil
		to = VisibilityHidden
	}
	c.target = to
	redraw := c.onRedraw
	c.mu.Unlock()

	if redraw != nil {
		redraw(to)
	}
}

func (c *Controller) cancelShowLocked() {
	if c.showCancel != nil {
		c.showCancel()
		c.showCancel = nil
		c.showGen++
	}
}

func (c *Controller) cancelHideLocked() {
	if c.hideCancel != nil {
		c.hideCancel()
		c.hideCancel = nil
		c.hideGen++
	}
}

// AfterHidden notifies subscribers each time the panel settles hidden.
func (c *Controller) AfterHidden() Stream {
	return &c.hidden
}

// IsVisible reports whether the target state is visible.
func (c *Controller) IsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target == VisibilityVisible
}

// State returns the target state set by the timers.
func (c *Controller) State() Visibility {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Confirmed returns the last state reported as rendered by AnimationDone.
func (c *Controller) Confirmed() Visibility {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirmed
}

// Pending reports whether a show or hide timer is armed.
func (c *Controller) Pending() (show, hide bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showCancel != nil, c.hideCancel != nil
}

// AnimationStarted is called when a visibility transition starts.
// Outside interactions are ignored until it settles.
func (c *Controller) AnimationStarted() {
	c.mu.Lock()
	c.closeOnInteraction = false
	c.mu.Unlock()
}

// AnimationDone is called when a transition into to has settled.
func (c *Controller) AnimationDone(to Visibility) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	if to == VisibilityVisible || to == VisibilityHidden {
		c.confirmed = to
		c.closeOnInteraction = true
	}
	// A show that raced in after the hide timer keeps the panel attached.
	notify := to == VisibilityHidden && c.target != VisibilityVisible
	c.mu.Unlock()

	if notify {
		c.hidden.emit()
	}
}

// HandleOutsideInteraction hides the panel immediately unless a transition
// is in flight.
func (c *Controller) HandleOutsideInteraction() {
	c.mu.Lock()
	closeNow := c.closeOnInteraction && !c.disposed
	c.mu.Unlock()

	if closeNow {
		c.Hide(0)
	}
}

// Dispose cancels pending timers and drops all subscribers. A disposed
// controller ignores further calls.
func (c *Controller) Dispose() {
	c.mu.Lock()
	c.cancelShowLocked()
	c.cancelHideLocked()
	c.disposed = true
	c.mu.Unlock()

	c.hidden.clear()
}

// notifier is a multi-subscriber Stream. Subscribers are called in
// subscription order.
type notifier struct {
	mu   sync.Mutex
	next uint64
	subs []subscription
}

type subscription struct {
	id uint64
	fn func()
}

// Subscribe implements Stream.
func (n *notifier) Subscribe(fn func()) func() {
	n.mu.Lock()
	n.next++
	id := n.next
	n.subs = append(n.subs, subscription{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, s := range n.subs {
				if s.id == id {
					n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (n *notifier) emit() {
	n.mu.Lock()
	subs := make([]subscription, len(n.subs))
	copy(subs, n.subs)
	n.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}

func (n *notifier) clear() {
	n.mu.Lock()
	n.subs = nil
	n.mu.Unlock()
}
