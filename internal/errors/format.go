package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// style is an ANSI SGR sequence.
type style string

const (
	styleError  style = "\033[1;31m"
	styleTitle  style = "\033[1m"
	styleGutter style = "\033[34m"
	styleLabel  style = "\033[36m"
	styleReset  style = "\033[0m"
)

// Colors are on unless NO_COLOR is set or DisableColors is called.
var colorEnabled = os.Getenv("NO_COLOR") == ""

// DisableColors turns off ANSI styling for Format and PrintError.
func DisableColors() {
	colorEnabled = false
}

// ColorsEnabled reports whether terminal output is styled.
func ColorsEnabled() bool {
	return colorEnabled
}

func (s style) paint(text string) string {
	if !colorEnabled || text == "" {
		return text
	}
	return string(s) + text + string(styleReset)
}

// Report is the machine-readable form of a TooltipError. It is what the
// live error frame and the CLI's JSON output carry.
type Report struct {
	Code       string    `json:"code,omitempty"`
	Category   Category  `json:"category,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	Cause      string    `json:"cause,omitempty"`
	Location   *Location `json:"location,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	DocURL     string    `json:"docUrl,omitempty"`
}

// Report returns the error's fields as a Report.
func (e *TooltipError) Report() *Report {
	r := &Report{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Location:   e.Location,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		r.Cause = e.Wrapped.Error()
	}
	return r
}

// FormatJSON returns the error as a single-line JSON object.
func (e *TooltipError) FormatJSON() string {
	b, err := json.Marshal(e.Report())
	if err != nil {
		// Report holds only strings and ints.
		return fmt.Sprintf(`{"message":%q}`, e.Error())
	}
	return string(b)
}

// Format renders the error for a terminal:
//
//	error[T103]: Invalid server port
//	  --> tooltip.json:3:13
//	   |
//	 3 |     "port": 0
//	   |             ^
//	   |
//	  = cause: port 0 out of range
//	  = hint: Use a port such as 8080
func (e *TooltipError) Format() string {
	var b strings.Builder

	head := "error"
	if e.Code != "" {
		head += "[" + e.Code + "]"
	}
	fmt.Fprintf(&b, "%s%s\n", styleError.paint(head), styleTitle.paint(": "+e.Message))

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s %s\n", styleGutter.paint("-->"), e.Location)
		writeSnippet(&b, e.Location, e.Context)
	}

	for _, line := range wrapText(e.Detail, 72) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	notes := []struct{ label, text string }{
		{"cause", e.cause()},
		{"hint", e.Suggestion},
		{"docs", e.DocURL},
	}
	for _, n := range notes {
		if n.text == "" {
			continue
		}
		fmt.Fprintf(&b, "  %s %s %s\n", styleGutter.paint("="), styleLabel.paint(n.label+":"), n.text)
	}
	return b.String()
}

func (e *TooltipError) cause() string {
	if e.Wrapped == nil {
		return ""
	}
	return e.Wrapped.Error()
}

// writeSnippet prints the context lines around loc with a caret under the
// reported column.
func writeSnippet(b *strings.Builder, loc *Location, context []string) {
	if len(context) == 0 {
		return
	}
	first := loc.Line - contextRadius
	if first < 1 {
		first = 1
	}
	width := len(strconv.Itoa(first + len(context) - 1))
	blank := strings.Repeat(" ", width+1)
	bar := styleGutter.paint("|")

	fmt.Fprintf(b, "%s%s\n", blank, bar)
	for i, text := range context {
		n := first + i
		fmt.Fprintf(b, "%s %s %s\n", styleGutter.paint(fmt.Sprintf("%*d", width, n)), bar, text)
		if n == loc.Line && loc.Column > 0 {
			fmt.Fprintf(b, "%s%s %s%s\n", blank, bar, strings.Repeat(" ", loc.Column-1), styleError.paint("^"))
		}
	}
	fmt.Fprintf(b, "%s%s\n", blank, bar)
}

// wrapText breaks text into lines of at most width bytes. Words longer
// than width get a line of their own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w. A TooltipError is rendered with Format.
func Fprint(w io.Writer, err error) {
	var te *TooltipError
	if stderrors.As(err, &te) {
		fmt.Fprint(w, te.Format())
		return
	}
	fmt.Fprintf(w, "%s %s\n", styleError.paint("error:"), err)
}

// PrintError writes err to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
