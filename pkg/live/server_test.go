package live

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/tooltip/pkg/render"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

func newTestServer(t *testing.T, opts ...ServerOption) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(testConfig(), append([]ServerOption{WithLogger(discardLogger())}, opts...)...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func writeFrame(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	if err := conn.WriteJSON(v); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads server frames until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(ServerMessage) bool) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		var m ServerMessage
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatalf("decode %s: %v", data, err)
		}
		if match(m) {
			return m
		}
	}
}

func isType(typ, target string) func(ServerMessage) bool {
	return func(m ServerMessage) bool { return m.Type == typ && m.Target == target }
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /metrics = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing default collectors")
	}
}

func TestPage(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	html := string(body)

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		`id="save"`,
		`aria-describedby="vt-tooltip-desc-save"`,
		`v-hook="Tooltip:`,
		`id="vt-descriptions"`,
		`new WebSocket(`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestRenderHostBindsEventsPerPlatform(t *testing.T) {
	r := render.NewRenderer(render.RendererConfig{})
	cfg := testConfig()

	tests := []struct {
		name      string
		ua        string
		wantHover bool
	}{
		{"desktop", "Mozilla/5.0 (X11; Linux x86_64)", true},
		{"ios", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)", false},
		{"android", "Mozilla/5.0 (Linux; Android 14)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := renderHost(cfg, cfg.Hosts[0], platformFromUserAgent(tt.ua))
			if err != nil {
				t.Fatal(err)
			}
			html, err := r.RenderToString(node)
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Contains(html, "mouseenter"); got != tt.wantHover {
				t.Errorf("mouseenter bound = %v, want %v: %s", got, tt.wantHover, html)
			}
			if !strings.Contains(html, "longpress") {
				t.Errorf("longpress not bound: %s", html)
			}
		})
	}
}

func TestRenderHostInvalidPosition(t *testing.T) {
	cfg := testConfig()
	h := cfg.Hosts[0]
	h.Position = "middle"

	_, err := renderHost(cfg, h, tooltip.Platform{})
	if !tooltip.IsInvalidPosition(err) {
		t.Errorf("renderHost error = %v, want InvalidPositionError", err)
	}
}

func TestWebSocketSession(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	writeFrame(t, conn, map[string]any{"type": "hello", "platform": map[string]bool{}})
	desc := readUntil(t, conn, isType(TypeDescribe, "save"))
	if desc.Message != "Save file" {
		t.Errorf("describe message = %q", desc.Message)
	}
	if got := srv.SessionCount(); got != 1 {
		t.Errorf("SessionCount = %d, want 1", got)
	}

	writeFrame(t, conn, map[string]any{"type": "event", "target": "save", "event": "mouseenter"})
	attach := readUntil(t, conn, isType(TypeAttach, "save"))
	if len(attach.Positions) != 2 {
		t.Errorf("attach positions = %v", attach.Positions)
	}

	visible := readUntil(t, conn, func(m ServerMessage) bool {
		return m.Type == TypeRender && m.Target == "save" && m.State == "visible"
	})
	if !strings.Contains(visible.HTML, "Save file") {
		t.Errorf("render html = %s", visible.HTML)
	}

	writeFrame(t, conn, map[string]any{"type": "event", "target": "nope", "event": "mouseenter"})
	errMsg := readUntil(t, conn, func(m ServerMessage) bool { return m.Type == TypeError })
	if errMsg.Code != "T202" {
		t.Errorf("error code = %q, want T202", errMsg.Code)
	}
}

func TestWebSocketRejectsCrossOrigin(t *testing.T) {
	_, ts := newTestServer(t)

	header := http.Header{"Origin": {"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	if err == nil {
		t.Fatal("cross-origin dial succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("response = %v, want 403", resp)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "T201") {
		t.Errorf("body = %q, want T201", body)
	}
}

func TestWebSocketAllowedOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AllowedOrigins = []string{"http://app.example"}
	srv := NewServer(cfg, WithLogger(discardLogger()))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	header := http.Header{"Origin": {"http://app.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), header)
	if err != nil {
		t.Fatalf("dial from allowed origin: %v", err)
	}
	conn.Close()
}

func TestSameOriginCheck(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no origin", "example.com", "", true},
		{"same host", "example.com", "https://example.com", true},
		{"same host and port", "localhost:8080", "http://localhost:8080", true},
		{"different port", "localhost:8080", "http://localhost:9090", false},
		{"different host", "example.com", "https://evil.com", false},
		{"bad origin", "example.com", "://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := SameOriginCheck(r); got != tt.want {
				t.Errorf("SameOriginCheck() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShutdownClosesSessions(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	writeFrame(t, conn, map[string]any{"type": "hello", "platform": map[string]bool{}})
	readUntil(t, conn, isType(TypeDescribe, "save"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx, nil); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := srv.SessionCount(); got != 0 {
		t.Errorf("SessionCount after shutdown = %d", got)
	}

	// Frames queued before the shutdown may still arrive first.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var err error
	for i := 0; i < 16 && err == nil; i++ {
		_, _, err = conn.ReadMessage()
	}
	if err == nil {
		t.Fatal("connection still open after shutdown")
	}
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("read error = %v, want close 1001 (going away)", err)
	}
}
