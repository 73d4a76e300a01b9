package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/tooltip/internal/config"
	terrors "github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/middleware"
	"github.com/vango-dev/tooltip/pkg/render"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

// ErrSessionClosed is returned when writing to a closed session.
var ErrSessionClosed = errors.New("live: session closed")

// SessionConfig tunes a live session.
type SessionConfig struct {
	// ReadTimeout is how long to wait for a client frame or pong.
	ReadTimeout time.Duration

	// WriteTimeout bounds every frame write.
	WriteTimeout time.Duration

	// HandshakeTimeout bounds the WebSocket upgrade.
	HandshakeTimeout time.Duration

	// HeartbeatInterval is the time between pings.
	HeartbeatInterval time.Duration

	// MaxEventQueue is the size of the dispatch queue.
	MaxEventQueue int

	// MaxMessageSize is the largest client frame accepted, in bytes.
	MaxMessageSize int64
}

// DefaultSessionConfig returns the default session settings.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HandshakeTimeout:  10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxEventQueue:     256,
		MaxMessageSize:    64 * 1024,
	}
}

// Session is one connected page. It owns a directive per configured host
// and implements the directive collaborators by messaging the client.
//
// Everything except Close runs on the session's Loop.
type Session struct {
	id      string
	cfg     *config.Config
	scfg    SessionConfig
	loop    *Loop
	sched   tooltip.Scheduler
	logger  *slog.Logger
	handler middleware.Handler
	send    func(ServerMessage) error

	// transition is called when a panel reaches a new visibility state.
	transition func(state string)

	conn      *websocket.Conn
	writeMu   sync.Mutex
	closed    atomic.Bool
	closeOnce sync.Once

	// Loop-owned state.
	started     bool
	platform    tooltip.Platform
	dir         tooltip.Direction
	handset     bool
	scroll      map[string][]string
	directives  map[string]*tooltip.Directive
	panes       map[string]*pane
	focus       map[string]func(tooltip.FocusOrigin)
	breakpoints map[int]func(tooltip.BreakpointState)
	nextObs     int
	drawn       map[string]drawnPanel
}

// drawnPanel is the last visibility sent for a host's panel.
type drawnPanel struct {
	panel *tooltip.Component
	state tooltip.Visibility
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// newSession creates a session that writes through send. The scheduler
// defaults to one bound to the session loop.
func newSession(cfg *config.Config, scfg SessionConfig, send func(ServerMessage) error, logger *slog.Logger, mws []middleware.Middleware) *Session {
	id := generateSessionID()
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("session_id", id)

	s := &Session{
		id:          id,
		cfg:         cfg,
		scfg:        scfg,
		logger:      logger,
		send:        send,
		loop:        NewLoop(scfg.MaxEventQueue, logger),
		scroll:      map[string][]string{},
		directives:  map[string]*tooltip.Directive{},
		panes:       map[string]*pane{},
		focus:       map[string]func(tooltip.FocusOrigin){},
		breakpoints: map[int]func(tooltip.BreakpointState){},
		drawn:       map[string]drawnPanel{},
		transition:  middleware.RecordTransition,
	}
	s.sched = s.loop.Scheduler()
	s.handler = middleware.Chain(s.handleEvent, mws...)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Serve runs the session over conn until the client disconnects or ctx
// is cancelled.
func (s *Session) Serve(ctx context.Context, conn *websocket.Conn) {
	s.conn = conn
	s.send = s.writeJSON

	middleware.RecordSessionCreate()
	defer middleware.RecordSessionDestroy()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.loop.Run()
	go s.heartbeat(ctx)
	go func() {
		<-ctx.Done()
		s.Close()
	}()

	s.logger.Info("session started")
	s.readLoop(ctx)
	s.Close()
	s.logger.Info("session closed")
}

// readLoop reads client frames and dispatches them onto the loop.
func (s *Session) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(s.scfg.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.scfg.ReadTimeout))
	})

	for {
		if s.closed.Load() {
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.scfg.ReadTimeout))

		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived) {
				s.logger.Error("read error", "error", err)
				middleware.RecordWebSocketError("read")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		if !s.loop.Dispatch(func() { s.handleFrame(ctx, data) }) {
			middleware.RecordWebSocketError("queue_full")
		}
	}
}

func (s *Session) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(s.scfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.loop.Done():
			return
		case <-ticker.C:
			deadline := time.Now().Add(s.scfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping failed", "error", err)
				middleware.RecordWebSocketError("ping")
				s.Close()
				return
			}
		}
	}
}

func (s *Session) writeJSON(msg ServerMessage) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.scfg.WriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		middleware.RecordWebSocketError("write")
		return fmt.Errorf("write %s: %w", msg.Type, err)
	}
	return nil
}

// Close tears down the directives on the loop, stops it and closes the
// connection with a going-away frame. It is safe to call from any
// goroutine, more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		teardown := func() {
			s.teardown()
			s.loop.Close()
		}
		if !s.loop.Dispatch(teardown) {
			s.loop.Close()
		}
		if s.conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed")
			deadline := time.Now().Add(s.scfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
				s.logger.Debug("close frame failed", "error", err)
			}
			s.conn.Close()
		}
	})
}

func (s *Session) teardown() {
	for _, id := range s.hostIDs() {
		s.directives[id].Destroy()
	}
	s.directives = map[string]*tooltip.Directive{}
	s.drawn = map[string]drawnPanel{}
}

func (s *Session) hostIDs() []string {
	ids := make([]string, 0, len(s.directives))
	for id := range s.directives {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// emit writes msg, logging failures. Directive callbacks have no error
// return, so write errors stop here.
func (s *Session) emit(msg ServerMessage) {
	if err := s.send(msg); err != nil && !errors.Is(err, ErrSessionClosed) {
		s.logger.Warn("send failed", "type", msg.Type, "error", err)
	}
}

// handleFrame decodes one client frame. Runs on the loop.
func (s *Session) handleFrame(ctx context.Context, data []byte) {
	msg, err := DecodeClientMessage(data)
	if err != nil {
		s.sendError(terrors.New(terrors.CodeInvalidMessage).Wrap(err))
		return
	}

	if msg.Type == TypeHello {
		if err := s.handleHello(msg); err != nil {
			s.sendError(err)
		}
		return
	}

	ev := &middleware.Event{SessionID: s.id, Hook: msg.HookEvent()}
	if err := s.handler(ctx, ev); err != nil {
		s.sendError(err)
	}
}

// sendError reports err to the client as a coded error frame.
func (s *Session) sendError(err error) {
	te := terrors.FromError(err, terrors.CodeInvalidMessage)
	s.logger.Debug("client error", "code", te.Code, "error", err)
	s.emit(ServerMessage{
		Type:    TypeError,
		Code:    te.Code,
		Message: te.Error(),
		Error:   te.Report(),
	})
}

// handleHello records the client environment and builds one directive
// per configured host.
func (s *Session) handleHello(msg ClientMessage) error {
	if s.started {
		return terrors.New(terrors.CodeInvalidMessage).
			Wrap(errors.New("invalid hello: session already started"))
	}

	dir := s.cfg.TextDirection()
	if msg.Dir != "" {
		parsed, err := tooltip.ParseDirection(msg.Dir)
		if err != nil {
			return terrors.New(terrors.CodeInvalidDirection).Wrap(err)
		}
		dir = parsed
	}

	s.platform = msg.Platform
	s.dir = dir
	s.handset = msg.Handset
	s.scroll = map[string][]string{}
	for id, containers := range msg.Scroll {
		s.scroll[id] = containers
	}

	// Directives are committed only when every host builds, so a failed
	// hello leaves nothing registered and may be retried.
	built := make(map[string]*tooltip.Directive, len(s.cfg.Hosts))
	for _, h := range s.cfg.Hosts {
		d, err := s.newDirective(h)
		if err != nil {
			for _, prev := range built {
				prev.Destroy()
			}
			return terrors.FromError(err, terrors.CodeInvalidPosition)
		}
		built[h.ID] = d
	}
	s.directives = built
	s.started = true

	s.logger.Debug("session ready",
		"hosts", len(s.directives),
		"mobile", s.platform.Mobile(),
		"dir", string(s.dir))
	return nil
}

func (s *Session) newDirective(h config.HostConfig) (*tooltip.Directive, error) {
	host := tooltip.Host{ID: h.ID, NodeName: "BUTTON"}
	opts := []tooltip.Option{
		tooltip.WithOptions(s.cfg.Options()),
		tooltip.WithPosition(h.Side(s.cfg.Side())),
		tooltip.WithDirection(s.dir),
		tooltip.WithMessage(h.Message),
		tooltip.WithDisabled(h.Disabled),
		tooltip.WithPlatform(s.platform),
		tooltip.WithScheduler(s.sched),
		tooltip.WithDescriber(s),
		tooltip.WithFocusMonitor(s),
		tooltip.WithScrollDispatcher(s),
		tooltip.WithBreakpointObserver(s),
		tooltip.WithLogger(s.logger),
		tooltip.WithRedraw(s.redraw),
	}
	if h.Class != "" {
		opts = append(opts, tooltip.WithClass(strings.Fields(h.Class)))
	}
	return tooltip.NewDirective(host, s, opts...)
}

// handleEvent applies one client event. It is the innermost handler of
// the middleware chain.
func (s *Session) handleEvent(ctx context.Context, ev *middleware.Event) error {
	if !s.started {
		return terrors.New(terrors.CodeInvalidMessage).
			Wrap(fmt.Errorf("invalid event %s: hello required", ev.Hook.Name))
	}

	switch ev.Hook.Name {
	case EventBodyClick:
		for _, id := range s.hostIDs() {
			if panel := s.directives[id].Instance(); panel != nil {
				panel.HandleBodyInteraction()
			}
		}
		return nil
	case EventBreakpoint:
		s.setHandset(ev.Hook.Bool("matches"))
		return nil
	}

	d, ok := s.directives[ev.Hook.Target]
	if !ok {
		return terrors.New(terrors.CodeInvalidMessage).
			Wrap(fmt.Errorf("unknown host %q", ev.Hook.Target))
	}
	defer func() {
		if panel := d.Instance(); panel != nil {
			ev.State = string(panel.Visibility())
		}
	}()

	switch ev.Hook.Name {
	case EventMouseEnter:
		d.HandleMouseEnter()
	case EventMouseLeave:
		d.HandleMouseLeave()
	case EventLongPress:
		d.HandleLongPress()
	case EventTouchend:
		d.HandleTouchend()
	case EventKeydown:
		d.HandleKeydown(ev.Hook.String("key"))
	case EventFocus:
		s.emitFocus(d.Host(), tooltip.FocusOrigin(ev.Hook.String("origin")))
	case EventBlur:
		s.emitFocus(d.Host(), tooltip.FocusNone)
	case EventPosition:
		p, ok := s.panes[ev.Hook.Target]
		if !ok {
			return nil
		}
		p.reportPosition(ev.Hook.Bool("fallback"), ev.Hook.Bool("clipped"))
	case EventDetach:
		if p, ok := s.panes[ev.Hook.Target]; ok {
			p.externalDetach()
		}
	case EventAnimationStart:
		if panel := d.Instance(); panel != nil {
			panel.AnimationStart()
		}
	case EventAnimationDone:
		to := tooltip.Visibility(ev.Hook.String("state"))
		if to != tooltip.VisibilityVisible && to != tooltip.VisibilityHidden {
			return terrors.New(terrors.CodeInvalidMessage).
				Wrap(fmt.Errorf("invalid animation state %q", to))
		}
		if panel := d.Instance(); panel != nil {
			panel.AnimationDone(to)
		}
	default:
		return terrors.New(terrors.CodeInvalidMessage).
			Wrap(fmt.Errorf("invalid event %q", ev.Hook.Name))
	}
	return nil
}

func (s *Session) emitFocus(host tooltip.Host, origin tooltip.FocusOrigin) {
	if fn, ok := s.focus[host.ID]; ok {
		fn(origin)
	}
}

func (s *Session) setHandset(matches bool) {
	if s.handset == matches {
		return
	}
	s.handset = matches

	keys := make([]int, 0, len(s.breakpoints))
	for k := range s.breakpoints {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		if fn, ok := s.breakpoints[k]; ok {
			fn(tooltip.BreakpointState{Matches: matches})
		}
	}
}

func (s *Session) redraw(host tooltip.Host, panel *tooltip.Component) {
	state := panel.Visibility()
	s.recordTransition(host, panel, state)
	s.emit(ServerMessage{
		Type:   TypeRender,
		Target: host.ID,
		HTML:   renderPanel(panel),
		State:  string(state),
	})
}

// recordTransition counts a panel entering a new state. Redraws that only
// change the message or classes keep the state and are not counted.
func (s *Session) recordTransition(host tooltip.Host, panel *tooltip.Component, state tooltip.Visibility) {
	prev, ok := s.drawn[host.ID]
	if !ok || prev.panel != panel {
		prev = drawnPanel{panel: panel, state: tooltip.VisibilityInitial}
	}
	if state != prev.state && state != tooltip.VisibilityInitial && s.transition != nil {
		s.transition(string(state))
	}
	s.drawn[host.ID] = drawnPanel{panel: panel, state: state}
}

var panelRenderer = render.NewRenderer(render.RendererConfig{})

func renderPanel(panel *tooltip.Component) string {
	html, err := panelRenderer.RenderToString(panel.Render())
	if err != nil {
		return ""
	}
	return html
}

// Describe implements tooltip.AriaDescriber.
func (s *Session) Describe(host tooltip.Host, message string) {
	s.emit(ServerMessage{
		Type:    TypeDescribe,
		Target:  host.ID,
		ID:      tooltip.DescriptionID(host),
		Message: message,
	})
}

// RemoveDescription implements tooltip.AriaDescriber.
func (s *Session) RemoveDescription(host tooltip.Host, message string) {
	s.emit(ServerMessage{
		Type:    TypeUndescribe,
		Target:  host.ID,
		ID:      tooltip.DescriptionID(host),
		Message: message,
	})
}

// Monitor implements tooltip.FocusMonitor. Focus and blur frames from the
// client are routed to fn.
func (s *Session) Monitor(host tooltip.Host, fn func(tooltip.FocusOrigin)) func() {
	s.focus[host.ID] = fn
	return func() { delete(s.focus, host.ID) }
}

// AncestorScrollContainers implements tooltip.ScrollDispatcher with the
// containers the client listed in its hello.
func (s *Session) AncestorScrollContainers(host tooltip.Host) []string {
	return s.scroll[host.ID]
}

// Observe implements tooltip.BreakpointObserver. Only the handset query
// is tracked; fn is called with the current state right away.
func (s *Session) Observe(query string, fn func(tooltip.BreakpointState)) func() {
	if query != tooltip.Handset {
		s.logger.Debug("unsupported breakpoint query", "query", query)
		return func() {}
	}
	key := s.nextObs
	s.nextObs++
	s.breakpoints[key] = fn
	fn(tooltip.BreakpointState{Matches: s.handset})
	return func() { delete(s.breakpoints, key) }
}

// Create implements tooltip.Overlay.
func (s *Session) Create(cfg tooltip.OverlayConfig) tooltip.OverlayRef {
	p := &pane{s: s, cfg: cfg}
	s.panes[cfg.Host.ID] = p
	return p
}

// pane is the client-side overlay of one host.
type pane struct {
	s         *Session
	cfg       tooltip.OverlayConfig
	placement tooltip.Placement
	attached  *tooltip.Component
	disposed  bool
}

func (p *pane) target() string { return p.cfg.Host.ID }

func (p *pane) Attach(panel *tooltip.Component) {
	if p.disposed {
		return
	}
	p.attached = panel
	p.s.emit(ServerMessage{
		Type:             TypeAttach,
		Target:           p.target(),
		HTML:             renderPanel(panel),
		State:            string(panel.Visibility()),
		Positions:        p.placement.Pairs(),
		PanelClass:       p.cfg.PanelClass,
		ViewportMargin:   p.cfg.ViewportMargin,
		ScrollThrottleMs: int(p.cfg.ScrollThrottle / time.Millisecond),
		ScrollContainers: p.cfg.ScrollContainers,
		Dir:              string(p.cfg.Direction),
	})
}

func (p *pane) Detach() {
	if p.attached == nil {
		return
	}
	p.attached = nil
	p.s.emit(ServerMessage{Type: TypeDetach, Target: p.target()})
}

func (p *pane) HasAttached() bool { return p.attached != nil }

func (p *pane) SetPlacement(placement tooltip.Placement) {
	p.placement = placement
	if p.attached != nil {
		p.s.emit(ServerMessage{
			Type:      TypePosition,
			Target:    p.target(),
			Positions: placement.Pairs(),
		})
	}
}

func (p *pane) UpdatePosition() {
	if p.attached != nil {
		p.s.emit(ServerMessage{Type: TypeReposition, Target: p.target()})
	}
}

func (p *pane) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.attached = nil
	if p.s.panes[p.target()] == p {
		delete(p.s.panes, p.target())
	}
	p.s.emit(ServerMessage{Type: TypeDispose, Target: p.target()})
}

// reportPosition forwards a placement applied by the client.
func (p *pane) reportPosition(fallback, clipped bool) {
	if p.cfg.OnPositionChange == nil {
		return
	}
	pair := p.placement.Primary
	if fallback {
		pair = p.placement.Fallback
	}
	p.cfg.OnPositionChange(tooltip.PositionChange{Pair: pair, OverlayClipped: clipped})
}

// externalDetach handles a pane the client detached on its own.
func (p *pane) externalDetach() {
	if p.attached == nil {
		return
	}
	p.attached = nil
	if p.cfg.OnDetach != nil {
		p.cfg.OnDetach()
	}
}
