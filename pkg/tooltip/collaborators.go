package tooltip

import "time"

// Host identifies the element a directive is attached to.
type Host struct {
	// ID is the element id, unique within the page.
	ID string

	// NodeName is the upper-case tag name, e.g. "BUTTON" or "INPUT".
	NodeName string
}

// Platform describes the client device. Mouse enter and leave are not
// bound on mobile platforms because they interfere with the first tap.
type Platform struct {
	IOS     bool `json:"ios"`
	Android bool `json:"android"`
}

// Mobile reports whether the platform is iOS or Android.
func (p Platform) Mobile() bool { return p.IOS || p.Android }

// FocusOrigin describes how the host gained focus.
type FocusOrigin string

const (
	FocusNone     FocusOrigin = "" // blurred
	FocusKeyboard FocusOrigin = "keyboard"
	FocusMouse    FocusOrigin = "mouse"
	FocusTouch    FocusOrigin = "touch"
	FocusProgram  FocusOrigin = "program"
)

// FocusMonitor reports focus origin changes for a host.
type FocusMonitor interface {
	Monitor(host Host, fn func(FocusOrigin)) (stop func())
}

// AriaDescriber links a host element to a description for assistive
// technology.
type AriaDescriber interface {
	Describe(host Host, message string)
	RemoveDescription(host Host, message string)
}

// DescriptionID returns the id of the element an AriaDescriber creates
// for host.
func DescriptionID(host Host) string { return "vt-tooltip-desc-" + host.ID }

// ScrollDispatcher finds the scrollable ancestors of a host, so the
// overlay can reposition while they scroll.
type ScrollDispatcher interface {
	AncestorScrollContainers(host Host) []string
}

// Handset is the media query matching phone-sized viewports.
const Handset = "(max-width: 599.98px) and (orientation: portrait), " +
	"(max-width: 959.98px) and (orientation: landscape)"

// BreakpointState is the result of evaluating a media query.
type BreakpointState struct {
	Matches bool
}

// BreakpointObserver reports media query changes.
type BreakpointObserver interface {
	Observe(query string, fn func(BreakpointState)) (stop func())
}

// PositionChange is reported by the overlay after it applied a placement.
type PositionChange struct {
	// Pair is the candidate that was applied.
	Pair PositionPair

	// OverlayClipped is set when a scrollable ancestor clips the panel.
	OverlayClipped bool
}

// OverlayConfig configures the floating pane created for a host.
type OverlayConfig struct {
	Host              Host
	Direction         Direction
	PanelClass        string
	ScrollContainers  []string
	ScrollThrottle    time.Duration
	ViewportMargin    int
	TransformOriginOn string

	// OnPositionChange is called after each reposition.
	OnPositionChange func(PositionChange)

	// OnDetach is called when the overlay detaches its panel on its own,
	// for example when the host leaves the page.
	OnDetach func()
}

// Overlay creates floating panes connected to a host element.
type Overlay interface {
	Create(cfg OverlayConfig) OverlayRef
}

// OverlayRef is a pane created by an Overlay.
type OverlayRef interface {
	// Attach renders panel into the pane.
	Attach(panel *Component)

	// Detach removes the attached panel, keeping the pane.
	Detach()

	// HasAttached reports whether a panel is attached.
	HasAttached() bool

	// SetPlacement replaces the candidate positions.
	SetPlacement(p Placement)

	// UpdatePosition recomputes the pane position, e.g. after the panel
	// content changed size.
	UpdatePosition()

	// Dispose destroys the pane.
	Dispose()
}

type nopDescriber struct{}

func (nopDescriber) Describe(Host, string)          {}
func (nopDescriber) RemoveDescription(Host, string) {}

type nopFocusMonitor struct{}

func (nopFocusMonitor) Monitor(Host, func(FocusOrigin)) func() { return func() {} }

type nopScrollDispatcher struct{}

func (nopScrollDispatcher) AncestorScrollContainers(Host) []string { return nil }

type nopBreakpoints struct{}

func (nopBreakpoints) Observe(string, func(BreakpointState)) func() { return func() {} }
