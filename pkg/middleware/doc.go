// Package middleware wraps the handling of client hook events.
//
// Every event received by a live session passes through a chain of
// middleware before it reaches the tooltip directive:
//   - Prometheus metrics
//   - OpenTelemetry tracing
//   - structured logging and panic recovery
//
//	h := middleware.Chain(handle,
//	    middleware.Recover(logger),
//	    middleware.Prometheus(),
//	    middleware.OpenTelemetry(),
//	    middleware.Logging(logger),
//	)
//
// # Prometheus Metrics
//
//   - tooltip_events_total: events processed by event name and status
//   - tooltip_event_duration_seconds: event processing duration histogram
//   - tooltip_event_errors_total: event errors by event name and error type
//   - tooltip_transitions_total: panel visibility transitions by new state
//   - tooltip_active_sessions: current number of live sessions
//   - tooltip_websocket_errors_total: WebSocket errors by type
//
// Expose them with promhttp:
//
//	r.Handle("/metrics", promhttp.Handler())
//
// # Tracing
//
// The OpenTelemetry middleware starts one span per event and hands the
// span context to the next handler:
//
//	func handle(ctx context.Context, ev *middleware.Event) error {
//	    if span := middleware.SpanFromContext(ctx); span != nil {
//	        span.SetAttributes(attribute.Bool("tooltip.visible", true))
//	    }
//	    return nil
//	}
package middleware
