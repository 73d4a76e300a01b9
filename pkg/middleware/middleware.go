package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/tooltip/pkg/features/hooks"
)

// Event is a hook event received from a live session.
type Event struct {
	// SessionID identifies the session that sent the event.
	SessionID string

	// Hook is the decoded client event.
	Hook hooks.HookEvent

	// State is set by the handler to the visibility target after the
	// event, or left empty when the event did not touch a panel.
	State string
}

// Handler processes an event.
type Handler func(ctx context.Context, ev *Event) error

// Middleware wraps event handling.
type Middleware interface {
	Handle(ctx context.Context, ev *Event, next Handler) error
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(ctx context.Context, ev *Event, next Handler) error

// Handle implements Middleware.
func (f MiddlewareFunc) Handle(ctx context.Context, ev *Event, next Handler) error {
	return f(ctx, ev, next)
}

// Chain wraps h with mws. The first middleware is the outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		mw, next := mws[i], h
		h = func(ctx context.Context, ev *Event) error {
			return mw.Handle(ctx, ev, next)
		}
	}
	return h
}

// Logging logs each event at debug level and failures at warn level.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return MiddlewareFunc(func(ctx context.Context, ev *Event, next Handler) error {
		start := time.Now()
		err := next(ctx, ev)

		attrs := []any{
			"session_id", ev.SessionID,
			"event", ev.Hook.Name,
			"host", ev.Hook.Target,
			"duration", time.Since(start),
		}
		if ev.State != "" {
			attrs = append(attrs, "state", ev.State)
		}
		if err != nil {
			logger.WarnContext(ctx, "event failed", append(attrs, "error", err)...)
			return err
		}
		logger.DebugContext(ctx, "event handled", attrs...)
		return nil
	})
}

// Recover turns a panic in the handler into an error.
func Recover(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return MiddlewareFunc(func(ctx context.Context, ev *Event, next Handler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorContext(ctx, "panic in event handler",
					"session_id", ev.SessionID,
					"event", ev.Hook.Name,
					"panic", r)
				err = fmt.Errorf("panic handling %s: %v", ev.Hook.Name, r)
			}
		}()
		return next(ctx, ev)
	})
}
