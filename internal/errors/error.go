package errors

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryPosition Category = "position"
	CategoryConfig   Category = "config"
	CategoryProtocol Category = "protocol"
)

// Location represents a position in a file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// TooltipError is a structured error with location, suggestion and
// documentation link.
type TooltipError struct {
	// Code is a unique error identifier (e.g., "T001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is where the error occurred, for file errors.
	Location *Location

	// Context contains the lines surrounding Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *TooltipError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *TooltipError) Unwrap() error {
	return e.Wrapped
}

// WithOffset locates a byte offset inside data, as reported by
// encoding/json syntax errors, and records it as the error location.
func (e *TooltipError) WithOffset(file string, data []byte, offset int64) *TooltipError {
	if offset <= 0 || offset > int64(len(data)) {
		return e
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := int(offset)
	if i := bytes.LastIndexByte(before, '\n'); i >= 0 {
		col = int(offset) - i - 1
	}
	e.Location = &Location{File: file, Line: line, Column: col}
	e.Context = contextFromBytes(data, line)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *TooltipError) WithSuggestion(s string) *TooltipError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *TooltipError) WithDetail(d string) *TooltipError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *TooltipError) Wrap(err error) *TooltipError {
	e.Wrapped = err
	return e
}

// contextRadius is how many lines around a location are kept.
const contextRadius = 2

// contextFromBytes returns the lines of data within contextRadius of
// targetLine, starting no earlier than line 1.
func contextFromBytes(data []byte, targetLine int) []string {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	startLine := targetLine - contextRadius
	endLine := targetLine + contextRadius

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a TooltipError from a registered error code.
func New(code string) *TooltipError {
	template, ok := registry[code]
	if !ok {
		return &TooltipError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &TooltipError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new TooltipError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *TooltipError {
	return &TooltipError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns the TooltipError in err's chain, or wraps err in a
// new error with code.
func FromError(err error, code string) *TooltipError {
	if err == nil {
		return nil
	}
	var te *TooltipError
	if stderrors.As(err, &te) {
		return te
	}
	return New(code).Wrap(err)
}
