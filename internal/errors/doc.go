// Package errors provides structured, actionable errors for the tooltip
// server and CLI.
//
// # Error Categories
//
// Errors are organized into categories:
//   - position: invalid placement input (side or text direction)
//   - config: tooltip.json loading and validation
//   - protocol: live WebSocket transport errors
//
// # Error Codes
//
// Each error has a unique code (e.g., "T001") that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Usage
//
//	err := errors.New(errors.CodeConfigParse).
//	    WithOffset("tooltip.json", data, syntaxErr.Offset).
//	    WithSuggestion("Remove the trailing comma").
//	    Wrap(syntaxErr)
//
//	errors.PrintError(err)
//	// error[T102]: Config file could not be parsed
//	//   --> tooltip.json:4:1
//	//   |
//	// 3 |   "hideDelay": 0,
//	// 4 | }
//	//   | ^
//	//   |
//	//   = hint: Remove the trailing comma
//
// The same fields are available as a Report for JSON output.
package errors
