package hooks

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/tooltip/pkg/vdom"
)

// AttrKey is the attribute that carries a hook binding.
const AttrKey = "v-hook"

// Hook creates a hook attribute for an element.
// The config is serialized to JSON immediately so an unserializable value
// fails at render time rather than in the browser.
// Format: "HookName:{\"config\":\"values\"}"
func Hook(name string, config any) vdom.Attr {
	b, err := json.Marshal(config)
	if err != nil {
		b = []byte("null")
	}
	return vdom.Attr{
		Key:   AttrKey,
		Value: fmt.Sprintf("%s:%s", name, string(b)),
	}
}

// ParseHook splits a v-hook attribute value into the hook name and its
// raw JSON config.
func ParseHook(value string) (name string, config json.RawMessage, err error) {
	name, raw, ok := strings.Cut(value, ":")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("hooks: malformed hook value %q", value)
	}
	if !json.Valid([]byte(raw)) {
		return "", nil, fmt.Errorf("hooks: invalid config for hook %q", name)
	}
	return name, json.RawMessage(raw), nil
}

// HookEvent represents an event triggered by a client hook.
type HookEvent struct {
	Name   string         `json:"event"`
	Target string         `json:"target"`
	Data   map[string]any `json:"data,omitempty"`
}

// ParseEvent decodes a JSON hook event as sent by the browser.
func ParseEvent(b []byte) (HookEvent, error) {
	var e HookEvent
	if err := json.Unmarshal(b, &e); err != nil {
		return HookEvent{}, fmt.Errorf("hooks: decode event: %w", err)
	}
	if e.Name == "" {
		return HookEvent{}, fmt.Errorf("hooks: event name is required")
	}
	if e.Data == nil {
		e.Data = map[string]any{}
	}
	return e, nil
}

// Accessors

func (e HookEvent) String(key string) string {
	if v, ok := e.Data[key]; ok && v != nil {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func (e HookEvent) Int(key string) int {
	if v, ok := e.Data[key]; ok {
		switch val := v.(type) {
		case int:
			return val
		case float64:
			return int(val)
		case string:
			i, _ := strconv.Atoi(val)
			return i
		}
	}
	return 0
}

func (e HookEvent) Float(key string) float64 {
	if v, ok := e.Data[key]; ok {
		switch val := v.(type) {
		case float64:
			return val
		case int:
			return float64(val)
		case string:
			f, _ := strconv.ParseFloat(val, 64)
			return f
		}
	}
	return 0.0
}

func (e HookEvent) Bool(key string) bool {
	if v, ok := e.Data[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
		b, _ := strconv.ParseBool(fmt.Sprintf("%v", v))
		return b
	}
	return false
}

func (e HookEvent) Strings(key string) []string {
	if v, ok := e.Data[key]; ok {
		// JSON arrays decode as []any
		if list, ok := v.([]any); ok {
			strs := make([]string, len(list))
			for i, item := range list {
				strs[i] = fmt.Sprintf("%v", item)
			}
			return strs
		}
		if list, ok := v.([]string); ok {
			return list
		}
	}
	return nil
}

func (e HookEvent) Raw(key string) any {
	return e.Data[key]
}
