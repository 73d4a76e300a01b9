package tooltip

import "time"

const (
	// ScrollThrottle is how often the overlay repositions while an ancestor
	// scrolls.
	ScrollThrottle = 20 * time.Millisecond

	// PanelClass is added to the overlay pane that hosts the tooltip.
	PanelClass = "vt-tooltip-panel"

	// ViewportMargin is the minimum distance in pixels kept between the
	// tooltip and the viewport edge.
	ViewportMargin = 8

	// DefaultPosition is used when no position is configured.
	DefaultPosition = SideBottom
)

// Options are the default delays applied to every directive built from them.
type Options struct {
	// ShowDelay is the delay before the tooltip is shown.
	ShowDelay time.Duration

	// HideDelay is the delay before the tooltip is hidden.
	HideDelay time.Duration

	// TouchendHideDelay is the delay before hiding after a touch ends.
	TouchendHideDelay time.Duration
}

// DefaultOptions returns show and hide immediately, and keep the tooltip
// for 1.5s after a touch.
func DefaultOptions() Options {
	return Options{
		ShowDelay:         0,
		HideDelay:         0,
		TouchendHideDelay: 1500 * time.Millisecond,
	}
}

// clampDelay treats negative delays as zero.
func clampDelay(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
