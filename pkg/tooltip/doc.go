// Package tooltip implements a text tooltip attached to a host element.
//
// The package has three layers:
//
//   - Resolve maps a Side and a text Direction to a Placement: a primary
//     pair of anchor points and a fallback used when the primary is
//     clipped by the viewport.
//   - Controller is the visibility state machine of a panel. Timers move
//     the target state; the renderer confirms settled states through
//     AnimationDone, and only a settle into hidden notifies AfterHidden.
//   - Directive binds host events (hover, focus, long press, escape) to a
//     Component panel rendered inside an Overlay pane.
//
// Collaborators such as the overlay, the focus monitor and the
// accessibility describer are interfaces passed at construction. The
// live package implements them over a WebSocket connection; the
// tooltiptest package provides fakes.
package tooltip
