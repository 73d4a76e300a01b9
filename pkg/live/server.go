package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/tooltip/internal/config"
	terrors "github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/middleware"
)

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithSessionConfig overrides the session settings.
func WithSessionConfig(c SessionConfig) ServerOption {
	return func(s *Server) { s.scfg = c }
}

// WithMiddleware replaces the default event middleware. The first
// middleware is the outermost.
func WithMiddleware(mws ...middleware.Middleware) ServerOption {
	return func(s *Server) { s.mws = mws }
}

// WithGatherer sets the registry served on the metrics path.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) { s.gatherer = g }
}

// Server serves the demo page and the live WebSocket endpoint.
type Server struct {
	cfg      *config.Config
	scfg     SessionConfig
	logger   *slog.Logger
	mws      []middleware.Middleware
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// NewServer creates a server for cfg. Call cfg.Validate first.
func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		cfg:      cfg,
		scfg:     DefaultSessionConfig(),
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.mws == nil {
		s.mws = []middleware.Middleware{
			middleware.Prometheus(),
			middleware.OpenTelemetry(),
			middleware.Logging(s.logger),
			middleware.Recover(s.logger),
		}
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.upgrader = websocket.Upgrader{
		HandshakeTimeout: s.scfg.HandshakeTimeout,
		CheckOrigin:      s.checkOrigin,
		Error:            s.upgradeError,
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle(s.metricsPath(), promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	return r
}

func (s *Server) metricsPath() string {
	if s.cfg.Server.MetricsPath == "" {
		return config.DefaultMetricsPath
	}
	return s.cfg.Server.MetricsPath
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx, srv)
}

// Shutdown closes every session and stops srv.
func (s *Server) Shutdown(ctx context.Context, srv *http.Server) error {
	s.logger.Info("server shutting down", "sessions", s.SessionCount())
	s.cancel()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgradeError already answered the request.
		return
	}

	sess := newSession(s.cfg, s.scfg, nil, s.logger, s.mws)
	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	s.mu.Unlock()
	s.wg.Add(1)

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.ID())
		s.mu.Unlock()
		s.wg.Done()
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	sess.Serve(ctx, conn)
}

// checkOrigin allows same-origin upgrades and any origin listed in the
// server config.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return SameOriginCheck(r)
}

// SameOriginCheck reports whether the request origin matches its host.
// Requests without an Origin header are allowed.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return r.Host != "" && u.Host == r.Host
}

func (s *Server) upgradeError(w http.ResponseWriter, r *http.Request, status int, reason error) {
	te := terrors.New(terrors.CodeUpgradeFailed).Wrap(reason)
	s.logger.Warn("websocket upgrade failed",
		"status", status,
		"origin", r.Header.Get("Origin"),
		"error", te)
	middleware.RecordWebSocketError("upgrade")
	http.Error(w, te.Error(), status)
}
