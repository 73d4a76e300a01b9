package errors

import "sort"

// Error codes.
const (
	CodeInvalidPosition  = "T001"
	CodeInvalidDirection = "T002"

	CodeConfigNotFound  = "T101"
	CodeConfigParse     = "T102"
	CodeInvalidPort     = "T103"
	CodeDuplicateHostID = "T104"
	CodeIncompleteHost  = "T105"

	CodeUpgradeFailed  = "T201"
	CodeInvalidMessage = "T202"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Position Errors (T001-T099)
	// ============================================

	"T001": {
		Category: CategoryPosition,
		Message:  "Invalid tooltip position",
		Detail:   "The position must be one of top, bottom, left or right.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T001",
	},
	"T002": {
		Category: CategoryPosition,
		Message:  "Invalid text direction",
		Detail:   "The text direction must be ltr or rtl. Leave it empty to use ltr.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T002",
	},

	// ============================================
	// Config Errors (T100-T199)
	// ============================================

	"T101": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No tooltip.json was found in the given directory.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T101",
	},
	"T102": {
		Category: CategoryConfig,
		Message:  "Config file could not be parsed",
		Detail:   "tooltip.json must be a valid JSON object.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T102",
	},
	"T103": {
		Category: CategoryConfig,
		Message:  "Invalid server port",
		Detail:   "The server port must be between 1 and 65535.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T103",
	},
	"T104": {
		Category: CategoryConfig,
		Message:  "Duplicate host id",
		Detail:   "Every tooltip host needs a unique element id.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T104",
	},
	"T105": {
		Category: CategoryConfig,
		Message:  "Incomplete tooltip host",
		Detail:   "Every tooltip host needs an id and a message.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T105",
	},

	// ============================================
	// Protocol Errors (T200-T299)
	// ============================================

	"T201": {
		Category: CategoryProtocol,
		Message:  "WebSocket upgrade failed",
		Detail:   "The HTTP connection could not be upgraded to a WebSocket.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T201",
	},
	"T202": {
		Category: CategoryProtocol,
		Message:  "Invalid client message",
		Detail:   "The received message could not be decoded or refers to an unknown host.",
		DocURL:   "https://vango.dev/docs/tooltip/errors/T202",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
