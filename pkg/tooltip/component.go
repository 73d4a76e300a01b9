package tooltip

import (
	"sync"
	"time"

	"github.com/vango-dev/tooltip/pkg/vdom"
)

// Component is the tooltip panel rendered inside the overlay. It pairs a
// visibility Controller with the panel content.
type Component struct {
	ctrl *Controller

	mu             sync.Mutex
	message        string
	class          any
	handset        bool
	onChange       func()
	stopBreakpoint func()
}

// NewComponent creates a panel in the initial state. breakpoints may be
// nil.
func NewComponent(sched Scheduler, breakpoints BreakpointObserver) *Component {
	c := &Component{}
	c.ctrl = NewController(sched, func(Visibility) { c.MarkForCheck() })
	if breakpoints == nil {
		breakpoints = nopBreakpoints{}
	}
	c.stopBreakpoint = breakpoints.Observe(Handset, func(st BreakpointState) {
		c.mu.Lock()
		changed := c.handset != st.Matches
		c.handset = st.Matches
		c.mu.Unlock()
		if changed {
			c.MarkForCheck()
		}
	})
	return c
}

// Controller returns the panel's visibility state machine.
func (c *Component) Controller() *Controller { return c.ctrl }

// Show shows the panel after delay.
func (c *Component) Show(delay time.Duration) { c.ctrl.Show(delay) }

// Hide hides the panel after delay.
func (c *Component) Hide(delay time.Duration) { c.ctrl.Hide(delay) }

// AfterHidden notifies when the panel has settled hidden.
func (c *Component) AfterHidden() Stream { return c.ctrl.AfterHidden() }

// IsVisible reports whether the panel targets the visible state.
func (c *Component) IsVisible() bool { return c.ctrl.IsVisible() }

// Visibility returns the target state.
func (c *Component) Visibility() Visibility { return c.ctrl.State() }

// AnimationStart is called when the browser starts a state animation.
func (c *Component) AnimationStart() { c.ctrl.AnimationStarted() }

// AnimationDone is called when the browser finished animating to to.
func (c *Component) AnimationDone(to Visibility) { c.ctrl.AnimationDone(to) }

// HandleBodyInteraction is called on clicks anywhere in the document.
func (c *Component) HandleBodyInteraction() { c.ctrl.HandleOutsideInteraction() }

// SetMessage sets the text shown in the panel.
func (c *Component) SetMessage(message string) {
	c.mu.Lock()
	c.message = message
	c.mu.Unlock()
}

// Message returns the text shown in the panel.
func (c *Component) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// SetClass sets extra panel classes. class may be a string, a []string or
// a map[string]bool.
func (c *Component) SetClass(class any) {
	c.mu.Lock()
	c.class = class
	c.mu.Unlock()
}

// Handset reports whether the viewport currently matches Handset.
func (c *Component) Handset() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handset
}

// OnChange registers the function called when the panel needs a redraw.
func (c *Component) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// MarkForCheck requests a redraw.
func (c *Component) MarkForCheck() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Dispose stops timers and the breakpoint subscription.
func (c *Component) Dispose() {
	c.ctrl.Dispose()
	c.mu.Lock()
	stop := c.stopBreakpoint
	c.stopBreakpoint = nil
	c.onChange = nil
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Render implements vdom.Component.
func (c *Component) Render() *vdom.VNode {
	state := c.ctrl.State()

	c.mu.Lock()
	message, class, handset := c.message, c.class, c.handset
	c.mu.Unlock()

	return vdom.Div(
		vdom.Class("vt-tooltip-component"),
		vdom.AriaHidden(true),
		vdom.AttrIf(state == VisibilityVisible, vdom.StyleAttr("zoom: 1")),
		vdom.Div(
			vdom.Classes("vt-tooltip", class, map[string]bool{"vt-tooltip-handset": handset}),
			vdom.Data("state", string(state)),
			vdom.Text(message),
		),
	)
}
