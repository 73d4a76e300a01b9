package standard

import (
	"github.com/vango-dev/tooltip/pkg/features/hooks"
	"github.com/vango-dev/tooltip/pkg/vdom"
)

// TooltipHookName is the client hook that binds tooltip host events.
const TooltipHookName = "Tooltip"

// TooltipConfig configures the Tooltip hook.
type TooltipConfig struct {
	Position          string   `json:"position"`                    // top, bottom, left, right
	ShowDelay         int      `json:"showDelay,omitempty"`         // ms
	HideDelay         int      `json:"hideDelay,omitempty"`         // ms
	TouchendHideDelay int      `json:"touchendHideDelay,omitempty"` // ms
	Events            []string `json:"events"`                      // host events forwarded to the server
	Disabled          bool     `json:"disabled,omitempty"`
}

// Tooltip creates a Tooltip hook attribute.
func Tooltip(config TooltipConfig) vdom.Attr {
	if config.Events == nil {
		config.Events = []string{}
	}
	return hooks.Hook(TooltipHookName, config)
}
