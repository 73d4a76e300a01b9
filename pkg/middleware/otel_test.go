package middleware

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// recordingProvider captures started spans on top of the no-op
// implementation.
type recordingProvider struct {
	noop.TracerProvider
	spans []*recordingSpan
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{provider: p}
}

type recordingTracer struct {
	noop.Tracer
	provider *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordingSpan{name: name, kind: cfg.SpanKind(), attrs: cfg.Attributes()}
	t.provider.spans = append(t.provider.spans, span)
	return trace.ContextWithSpan(ctx, span), span
}

type recordingSpan struct {
	noop.Span
	name   string
	kind   trace.SpanKind
	attrs  []attribute.KeyValue
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordingSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }
func (s *recordingSpan) SetStatus(c codes.Code, _ string)       { s.status = c }
func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) {
	s.errs = append(s.errs, err)
}
func (s *recordingSpan) End(...trace.SpanEndOption) { s.ended = true }

func (s *recordingSpan) attr(key string) (string, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value.Emit(), true
		}
	}
	return "", false
}

func TestOpenTelemetryMiddleware_Span(t *testing.T) {
	tp := &recordingProvider{}
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithAttributeExtractor(func(*Event) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	err := mw.Handle(context.Background(), newEvent("longpress", "save"), func(ctx context.Context, ev *Event) error {
		if SpanFromContext(ctx) == nil {
			t.Fatal("expected SpanFromContext to return a span during execution")
		}
		ev.State = "visible"
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tp.spans) != 1 {
		t.Fatalf("spans = %d, want 1", len(tp.spans))
	}
	span := tp.spans[0]
	if span.name != "tooltip.longpress" || span.kind != trace.SpanKindServer {
		t.Errorf("span = %q kind %v", span.name, span.kind)
	}
	for key, want := range map[string]string{
		"tooltip.session_id": "sess-1",
		"tooltip.event":      "longpress",
		"tooltip.host":       "save",
		"tooltip.state":      "visible",
		"test.attr":          "ok",
	} {
		if got, ok := span.attr(key); !ok || got != want {
			t.Errorf("attr %s = %q, want %q", key, got, want)
		}
	}
	if span.status != codes.Ok || !span.ended {
		t.Errorf("status = %v, ended = %v", span.status, span.ended)
	}
}

func TestOpenTelemetryMiddleware_ErrorPropagates(t *testing.T) {
	tp := &recordingProvider{}
	wantErr := errors.New("boom")

	err := OpenTelemetry(WithTracerProvider(tp)).Handle(context.Background(), newEvent("keydown", "save"),
		func(context.Context, *Event) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected error %v, got %v", wantErr, err)
	}

	span := tp.spans[0]
	if span.status != codes.Error || len(span.errs) != 1 {
		t.Errorf("status = %v, errs = %v", span.status, span.errs)
	}
	if _, ok := span.attr("tooltip.state"); ok {
		t.Error("state recorded for event without state")
	}
}

func TestOpenTelemetryMiddleware_FilterSkipsTracing(t *testing.T) {
	tp := &recordingProvider{}
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithTracerName("custom"),
		WithEventFilter(func(ev *Event) bool { return ev.Hook.Name != "position" }),
	)

	nextCalled := false
	err := mw.Handle(context.Background(), newEvent("position", "save"), func(ctx context.Context, _ *Event) error {
		nextCalled = true
		if SpanFromContext(ctx) != nil {
			t.Error("expected no span for filtered event")
		}
		return nil
	})
	if err != nil || !nextCalled {
		t.Fatalf("err = %v, nextCalled = %v", err, nextCalled)
	}
	if len(tp.spans) != 0 {
		t.Errorf("spans = %d, want 0", len(tp.spans))
	}
}

func TestOpenTelemetryMiddleware_GlobalProvider(t *testing.T) {
	err := OpenTelemetry().Handle(context.Background(), newEvent("focus", "save"), func(ctx context.Context, _ *Event) error {
		if SpanFromContext(ctx) == nil {
			t.Error("expected a span from the global provider")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
