// Package live serves tooltips to browsers over a WebSocket.
//
// Each connection gets a Session. The session owns one tooltip.Directive
// per configured host and implements the directive's collaborators (the
// overlay, the accessibility describer, the focus monitor, the scroll
// dispatcher and the breakpoint observer) by exchanging JSON messages
// with a small client script.
//
// All session state is touched from a single Loop goroutine. Client
// messages and timer callbacks are dispatched onto that loop, so the
// directives never observe concurrent calls.
//
//	srv := live.NewServer(cfg, live.WithLogger(logger))
//	http.ListenAndServe(cfg.Address(), srv.Handler())
package live
