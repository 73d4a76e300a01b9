package live

import (
	"encoding/json"
	"fmt"

	terrors "github.com/vango-dev/tooltip/internal/errors"
	"github.com/vango-dev/tooltip/pkg/features/hooks"
	"github.com/vango-dev/tooltip/pkg/tooltip"
)

// Client message types.
const (
	TypeHello = "hello"
	TypeEvent = "event"
)

// Server message types.
const (
	TypeAttach     = "attach"
	TypePosition   = "position"
	TypeReposition = "reposition"
	TypeRender     = "render"
	TypeDetach     = "detach"
	TypeDispose    = "dispose"
	TypeDescribe   = "describe"
	TypeUndescribe = "undescribe"
	TypeError      = "error"
)

// Client event names.
const (
	EventMouseEnter     = "mouseenter"
	EventMouseLeave     = "mouseleave"
	EventLongPress      = "longpress"
	EventTouchend       = "touchend"
	EventKeydown        = "keydown"
	EventFocus          = "focus"
	EventBlur           = "blur"
	EventPosition       = "position"
	EventDetach         = "detach"
	EventAnimationStart = "animationstart"
	EventAnimationDone  = "animationdone"
	EventBodyClick      = "bodyclick"
	EventBreakpoint     = "breakpoint"
)

// ClientMessage is a frame sent by the browser. The first frame of a
// connection is a hello; every later frame is an event.
type ClientMessage struct {
	Type string `json:"type"`

	// Hello fields.
	Platform tooltip.Platform    `json:"platform"`
	Dir      string              `json:"dir,omitempty"`
	Handset  bool                `json:"handset,omitempty"`
	Scroll   map[string][]string `json:"scroll,omitempty"`

	// Event fields.
	Target string         `json:"target,omitempty"`
	Event  string         `json:"event,omitempty"`
	Data   map[string]any `json:"data,omitempty"`
}

// targetless events apply to the whole page rather than one host.
var targetless = map[string]bool{
	EventBodyClick:  true,
	EventBreakpoint: true,
}

// DecodeClientMessage parses and validates a client frame.
func DecodeClientMessage(b []byte) (ClientMessage, error) {
	var m ClientMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return m, fmt.Errorf("decode client message: %w", err)
	}
	switch m.Type {
	case TypeHello:
	case TypeEvent:
		if m.Event == "" {
			return m, fmt.Errorf("invalid event: missing name")
		}
		if m.Target == "" && !targetless[m.Event] {
			return m, fmt.Errorf("invalid event %s: missing target", m.Event)
		}
	default:
		return m, fmt.Errorf("invalid message type %q", m.Type)
	}
	if m.Data == nil {
		m.Data = map[string]any{}
	}
	return m, nil
}

// HookEvent converts an event frame to a hook event.
func (m ClientMessage) HookEvent() hooks.HookEvent {
	return hooks.HookEvent{Name: m.Event, Target: m.Target, Data: m.Data}
}

// ServerMessage is a frame sent to the browser.
type ServerMessage struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`

	HTML  string `json:"html,omitempty"`
	State string `json:"state,omitempty"`

	// Attach and position fields.
	Positions        []tooltip.PositionPair `json:"positions,omitempty"`
	PanelClass       string                 `json:"panelClass,omitempty"`
	ViewportMargin   int                    `json:"viewportMargin,omitempty"`
	ScrollThrottleMs int                    `json:"scrollThrottleMs,omitempty"`
	ScrollContainers []string               `json:"scrollContainers,omitempty"`
	Dir              string                 `json:"dir,omitempty"`

	// Describe fields.
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`

	// Error fields. Error carries the full coded error.
	Code  string          `json:"code,omitempty"`
	Error *terrors.Report `json:"error,omitempty"`
}
