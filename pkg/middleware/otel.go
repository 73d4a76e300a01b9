package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name.
const defaultTracerName = "tooltip"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "tooltip").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which events to trace.
	// If nil, all events are traced.
	Filter func(ev *Event) bool

	// AttributeExtractor adds custom attributes to each span.
	AttributeExtractor func(ev *Event) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ev *Event) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ev *Event) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every hook event.
//
// Each span is named "tooltip.<event>" and carries the session id, the
// event name, the host id and, once handled, the resulting state. The
// span context is passed to the next handler.
//
// Without WithTracerProvider the global provider is used; configure it
// in main() before starting the server.
func OpenTelemetry(opts ...OTelOption) Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return MiddlewareFunc(func(ctx context.Context, ev *Event, next Handler) error {
		if config.Filter != nil && !config.Filter(ev) {
			return next(ctx, ev)
		}

		attrs := []attribute.KeyValue{
			attribute.String("tooltip.session_id", ev.SessionID),
			attribute.String("tooltip.event", ev.Hook.Name),
			attribute.String("tooltip.host", ev.Hook.Target),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ev)...)
		}

		spanCtx, span := tracer.Start(ctx, "tooltip."+ev.Hook.Name,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		err := next(context.WithValue(spanCtx, spanKey{}, span), ev)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		if ev.State != "" {
			span.SetAttributes(attribute.String("tooltip.state", ev.State))
		}
		return err
	})
}

// spanKey is the context key for the span of the current event.
type spanKey struct{}

// SpanFromContext returns the span started for the current event, or nil
// when the event is not traced.
func SpanFromContext(ctx context.Context) trace.Span {
	if span, ok := ctx.Value(spanKey{}).(trace.Span); ok {
		return span
	}
	return nil
}
