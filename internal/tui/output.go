package tui

import (
	"encoding/json"
	"fmt"
	"io"
)

// Field is one labeled value in a Details block.
type Field struct {
	Key   string
	Value string
}

// Output writes command results.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error.
	Error(err error)
	// Warning prints a warning.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// Details prints a titled list of fields.
	Details(title string, fields []Field)
	// JSON writes v as indented JSON.
	JSON(v any) error
}

// TTYOutput renders styled text.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a TTYOutput.
func NewTTYOutput(w io.Writer) *TTYOutput {
	return &TTYOutput{w: w, styles: NewOutputStyles()}
}

// Success prints a success message.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints an error.
func (o *TTYOutput) Error(err error) {
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+err.Error()))
}

// Warning prints a warning.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// Details prints a titled list of fields.
func (o *TTYOutput) Details(title string, fields []Field) {
	_, _ = fmt.Fprintln(o.w, o.styles.Header.Render(title))
	for _, f := range fields {
		_, _ = fmt.Fprintln(o.w, "  "+o.styles.Key.Render(f.Key)+o.styles.Value.Render(f.Value))
	}
}

// JSON writes v as indented JSON.
func (o *TTYOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

// JSONOutput writes only JSON. Messages become {"type": ..., "message": ...} objects.
type JSONOutput struct {
	w io.Writer
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Success is a no-op for JSON output.
func (o *JSONOutput) Success(_ string) {}

// Error writes the error as a JSON message.
func (o *JSONOutput) Error(err error) {
	_ = json.NewEncoder(o.w).Encode(jsonMessage{Type: "error", Message: err.Error()}) //nolint:errchkjson // no error return by contract
}

// Warning writes the warning as a JSON message.
func (o *JSONOutput) Warning(msg string) {
	_ = json.NewEncoder(o.w).Encode(jsonMessage{Type: "warning", Message: msg}) //nolint:errchkjson // no error return by contract
}

// Info is a no-op for JSON output.
func (o *JSONOutput) Info(_ string) {}

// Details is a no-op for JSON output; commands emit their result with JSON.
func (o *JSONOutput) Details(_ string, _ []Field) {}

// JSON writes v as indented JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// NewOutput creates the output for format ("json" or anything else for text).
func NewOutput(w io.Writer, format string) Output {
	if format == "json" {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}

var (
	_ Output = (*TTYOutput)(nil)
	_ Output = (*JSONOutput)(nil)
)
