package tooltip

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/vango-dev/tooltip/pkg/features/hooks/standard"
	"github.com/vango-dev/tooltip/pkg/vdom"
)

// KeyEscape is the key name reported for the escape key.
const KeyEscape = "Escape"

// RedrawFunc is called when an attached panel needs to be rendered again.
type RedrawFunc func(host Host, panel *Component)

// Option configures a Directive.
type Option func(*Directive)

// WithOptions sets the default delays.
func WithOptions(o Options) Option {
	return func(d *Directive) {
		d.opts = o
		d.showDelay = o.ShowDelay
		d.hideDelay = o.HideDelay
	}
}

// WithPosition sets the initial side. It is validated by NewDirective.
func WithPosition(side Side) Option {
	return func(d *Directive) { d.position = side }
}

// WithDirection sets the text direction used to interpret left and right.
func WithDirection(dir Direction) Option {
	return func(d *Directive) { d.dir = dir }
}

// WithMessage sets the initial message.
func WithMessage(message string) Option {
	return func(d *Directive) { d.message = strings.TrimSpace(message) }
}

// WithClass sets extra panel classes.
func WithClass(class any) Option {
	return func(d *Directive) { d.class = class }
}

// WithDisabled starts the directive disabled.
func WithDisabled(disabled bool) Option {
	return func(d *Directive) { d.disabled = disabled }
}

// WithShowDelay overrides the show delay of WithOptions.
func WithShowDelay(delay time.Duration) Option {
	return func(d *Directive) { d.showDelay = delay }
}

// WithHideDelay overrides the hide delay of WithOptions.
func WithHideDelay(delay time.Duration) Option {
	return func(d *Directive) { d.hideDelay = delay }
}

// WithPlatform sets the client platform.
func WithPlatform(p Platform) Option {
	return func(d *Directive) { d.platform = p }
}

// WithScheduler sets the scheduler used by panels.
func WithScheduler(s Scheduler) Option {
	return func(d *Directive) { d.sched = s }
}

// WithDescriber sets the accessibility describer.
func WithDescriber(a AriaDescriber) Option {
	return func(d *Directive) { d.describer = a }
}

// WithFocusMonitor sets the focus monitor.
func WithFocusMonitor(f FocusMonitor) Option {
	return func(d *Directive) { d.focus = f }
}

// WithScrollDispatcher sets the scroll dispatcher.
func WithScrollDispatcher(s ScrollDispatcher) Option {
	return func(d *Directive) { d.scroll = s }
}

// WithBreakpointObserver sets the breakpoint observer used by panels.
func WithBreakpointObserver(b BreakpointObserver) Option {
	return func(d *Directive) { d.breakpoints = b }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Directive) { d.logger = l }
}

// WithRedraw sets the function called when the attached panel changes.
func WithRedraw(fn RedrawFunc) Option {
	return func(d *Directive) { d.redraw = fn }
}

// Directive attaches a tooltip to a host element. It reacts to host events,
// owns the overlay pane and creates a fresh panel each time it is shown.
//
// A Directive is not safe for concurrent use. Its methods and the
// scheduler's callbacks are expected to run on the owner's event loop.
type Directive struct {
	host        Host
	overlay     Overlay
	describer   AriaDescriber
	focus       FocusMonitor
	scroll      ScrollDispatcher
	breakpoints BreakpointObserver
	platform    Platform
	dir         Direction
	sched       Scheduler
	logger      *slog.Logger
	redraw      RedrawFunc

	opts      Options
	position  Side
	disabled  bool
	message   string
	class     any
	showDelay time.Duration
	hideDelay time.Duration

	overlayRef  OverlayRef
	instance    *Component
	unsubHidden func()
	stopFocus   func()
	destroyed   bool
}

// NewDirective creates a directive for host. The message is registered
// with the describer and focus monitoring starts immediately.
func NewDirective(host Host, overlay Overlay, opts ...Option) (*Directive, error) {
	if overlay == nil {
		return nil, errors.New("tooltip: overlay is required")
	}

	d := &Directive{
		host:     host,
		overlay:  overlay,
		position: DefaultPosition,
	}
	WithOptions(DefaultOptions())(d)
	for _, opt := range opts {
		opt(d)
	}

	if !d.position.Valid() {
		return nil, &InvalidPositionError{Position: string(d.position)}
	}
	if d.describer == nil {
		d.describer = nopDescriber{}
	}
	if d.focus == nil {
		d.focus = nopFocusMonitor{}
	}
	if d.scroll == nil {
		d.scroll = nopScrollDispatcher{}
	}
	if d.breakpoints == nil {
		d.breakpoints = nopBreakpoints{}
	}
	if d.sched == nil {
		d.sched = NewTimerScheduler(nil)
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	d.logger = d.logger.With("host", host.ID)

	if d.message != "" {
		d.describer.Describe(d.host, d.message)
	}
	d.stopFocus = d.focus.Monitor(host, d.HandleFocusOrigin)

	return d, nil
}

// Host returns the host element.
func (d *Directive) Host() Host { return d.host }

// Position returns the requested side.
func (d *Directive) Position() Side { return d.position }

// SetPosition changes the side. While the overlay exists the new anchors
// are applied and the panel is shown again immediately.
func (d *Directive) SetPosition(side Side) error {
	if !side.Valid() {
		return &InvalidPositionError{Position: string(side)}
	}
	if side == d.position {
		return nil
	}
	d.position = side

	if d.overlayRef != nil {
		d.updatePosition()
		if d.instance != nil {
			d.instance.Show(0)
		}
		d.overlayRef.UpdatePosition()
	}
	return nil
}

// Disabled reports whether showing is disabled.
func (d *Directive) Disabled() bool { return d.disabled }

// SetDisabled enables or disables the tooltip. Disabling hides it at once.
func (d *Directive) SetDisabled(disabled bool) {
	d.disabled = disabled
	if disabled {
		d.HideAfter(0)
	}
}

// Message returns the trimmed message.
func (d *Directive) Message() string { return d.message }

// SetMessage changes the message. An empty message hides a visible
// tooltip immediately.
func (d *Directive) SetMessage(message string) {
	if d.message != "" {
		d.describer.RemoveDescription(d.host, d.message)
	}
	d.message = strings.TrimSpace(message)

	if d.message == "" && d.IsTooltipVisible() {
		d.HideAfter(0)
		return
	}
	d.updateTooltipMessage()
	if d.message != "" {
		d.describer.Describe(d.host, d.message)
	}
}

// Class returns the extra panel classes.
func (d *Directive) Class() any { return d.class }

// SetClass changes the extra panel classes.
func (d *Directive) SetClass(class any) {
	d.class = class
	if d.instance != nil {
		d.instance.SetClass(class)
		d.instance.MarkForCheck()
	}
}

// ShowDelay returns the default show delay.
func (d *Directive) ShowDelay() time.Duration { return d.showDelay }

// SetShowDelay changes the default show delay.
func (d *Directive) SetShowDelay(delay time.Duration) { d.showDelay = delay }

// HideDelay returns the default hide delay.
func (d *Directive) HideDelay() time.Duration { return d.hideDelay }

// SetHideDelay changes the default hide delay.
func (d *Directive) SetHideDelay(delay time.Duration) { d.hideDelay = delay }

// Instance returns the attached panel, or nil.
func (d *Directive) Instance() *Component { return d.instance }

// Show shows the tooltip after the default show delay.
func (d *Directive) Show() { d.ShowAfter(d.showDelay) }

// ShowAfter shows the tooltip after delay. It does nothing while disabled
// or without a message.
func (d *Directive) ShowAfter(delay time.Duration) {
	if d.destroyed || d.disabled || d.message == "" {
		return
	}

	ref := d.createOverlay()
	d.detach()

	panel := NewComponent(d.sched, d.breakpoints)
	panel.OnChange(func() { d.panelChanged(panel) })
	ref.Attach(panel)
	d.instance = panel
	d.unsubHidden = panel.AfterHidden().Subscribe(func() {
		if d.instance == panel {
			d.detach()
		}
	})
	panel.SetClass(d.class)
	d.updateTooltipMessage()

	d.logger.Debug("tooltip show", "delay", clampDelay(delay))
	panel.Show(delay)
}

// Hide hides the tooltip after the default hide delay.
func (d *Directive) Hide() { d.HideAfter(d.hideDelay) }

// HideAfter hides the tooltip after delay.
func (d *Directive) HideAfter(delay time.Duration) {
	if d.instance != nil {
		d.logger.Debug("tooltip hide", "delay", clampDelay(delay))
		d.instance.Hide(delay)
	}
}

// Toggle shows a hidden tooltip and hides a visible one.
func (d *Directive) Toggle() {
	if d.IsTooltipVisible() {
		d.Hide()
		return
	}
	d.Show()
}

// IsTooltipVisible reports whether a panel is attached and visible.
func (d *Directive) IsTooltipVisible() bool {
	return d.instance != nil && d.instance.IsVisible()
}

// BoundEvents lists the host events the client must forward.
func (d *Directive) BoundEvents() []string {
	events := make([]string, 0, 5)
	if !d.platform.Mobile() {
		events = append(events, "mouseenter", "mouseleave")
	}
	return append(events, "longpress", "keydown", "touchend")
}

// HostAttrs returns the attributes to render on the host element.
func (d *Directive) HostAttrs() []vdom.Attr {
	return []vdom.Attr{
		vdom.AttrIf(d.message != "", vdom.AriaDescribedBy(DescriptionID(d.host))),
		standard.Tooltip(standard.TooltipConfig{
			Position:          string(d.position),
			ShowDelay:         int(d.showDelay / time.Millisecond),
			HideDelay:         int(d.hideDelay / time.Millisecond),
			TouchendHideDelay: int(d.opts.TouchendHideDelay / time.Millisecond),
			Events:            d.BoundEvents(),
			Disabled:          d.disabled,
		}),
	}
}

// HandleMouseEnter shows the tooltip. Ignored on mobile platforms.
func (d *Directive) HandleMouseEnter() {
	if !d.platform.Mobile() {
		d.Show()
	}
}

// HandleMouseLeave hides the tooltip. Ignored on mobile platforms.
func (d *Directive) HandleMouseLeave() {
	if !d.platform.Mobile() {
		d.Hide()
	}
}

// HandleLongPress shows the tooltip.
func (d *Directive) HandleLongPress() { d.Show() }

// HandleKeydown hides a visible tooltip on escape. It reports whether the
// key was consumed, in which case the caller should stop propagation.
func (d *Directive) HandleKeydown(key string) bool {
	if d.IsTooltipVisible() && key == KeyEscape {
		d.HideAfter(0)
		return true
	}
	return false
}

// HandleTouchend hides the tooltip after the touch-end delay.
func (d *Directive) HandleTouchend() {
	d.HideAfter(d.opts.TouchendHideDelay)
}

// HandleFocusOrigin shows on keyboard focus and hides on blur.
func (d *Directive) HandleFocusOrigin(origin FocusOrigin) {
	switch origin {
	case FocusNone:
		d.HideAfter(0)
	case FocusKeyboard:
		d.Show()
	}
}

// Destroy disposes the overlay and releases every collaborator.
func (d *Directive) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true

	if d.overlayRef != nil {
		d.overlayRef.Dispose()
		d.releaseInstance()
	}
	if d.stopFocus != nil {
		d.stopFocus()
		d.stopFocus = nil
	}
	if d.message != "" {
		d.describer.RemoveDescription(d.host, d.message)
	}
}

func (d *Directive) createOverlay() OverlayRef {
	if d.overlayRef != nil {
		return d.overlayRef
	}

	d.overlayRef = d.overlay.Create(OverlayConfig{
		Host:              d.host,
		Direction:         d.dir,
		PanelClass:        PanelClass,
		ScrollContainers:  d.scroll.AncestorScrollContainers(d.host),
		ScrollThrottle:    ScrollThrottle,
		ViewportMargin:    ViewportMargin,
		TransformOriginOn: ".vt-tooltip",
		OnPositionChange:  d.handlePositionChange,
		OnDetach:          d.detach,
	})
	d.updatePosition()

	return d.overlayRef
}

// handlePositionChange closes a visible tooltip that a scrollable
// ancestor clips.
func (d *Directive) handlePositionChange(change PositionChange) {
	if d.instance != nil && change.OverlayClipped && d.instance.IsVisible() {
		d.HideAfter(0)
	}
}

// detach removes the current panel from the overlay.
func (d *Directive) detach() {
	if d.overlayRef != nil && d.overlayRef.HasAttached() {
		d.overlayRef.Detach()
	}
	d.releaseInstance()
}

func (d *Directive) releaseInstance() {
	if d.unsubHidden != nil {
		d.unsubHidden()
		d.unsubHidden = nil
	}
	if d.instance != nil {
		d.instance.Dispose()
		d.instance = nil
	}
}

func (d *Directive) updatePosition() {
	placement, err := Resolve(d.position, d.dir)
	if err != nil {
		d.logger.Warn("tooltip position not applied", "error", err)
		return
	}
	d.overlayRef.SetPlacement(placement)
}

// updateTooltipMessage pushes the message into the panel and repositions
// the pane for the new content size.
func (d *Directive) updateTooltipMessage() {
	if d.instance == nil {
		return
	}
	d.instance.SetMessage(d.message)
	d.instance.MarkForCheck()
	if d.instance != nil {
		d.overlayRef.UpdatePosition()
	}
}

func (d *Directive) panelChanged(panel *Component) {
	if d.redraw != nil && d.instance == panel {
		d.redraw(d.host, panel)
	}
}
