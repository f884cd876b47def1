package tui

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output provides methods for structured output to a terminal.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error message.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// JSON outputs a value as formatted JSON.
	JSON(v any) error
}

// TTYOutput provides styled output for terminal displays.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a new TTYOutput. Respects NO_COLOR via CheckNoColor.
func NewTTYOutput(w io.Writer) *TTYOutput {
	CheckNoColor()

	return &TTYOutput{
		w:      w,
		styles: NewOutputStyles(),
	}
}

// Success prints a success message with a ✓ icon.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints an error message with a ✗ icon.
func (o *TTYOutput) Error(err error) {
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+err.Error()))
}

// Warning prints a warning message with a ⚠ icon.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// JSON outputs a value as indented JSON.
func (o *TTYOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// JSONOutput provides structured JSON output for non-TTY environments.
// Status messages are emitted as typed JSON objects so scripts can parse
// everything the command prints.
type JSONOutput struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONOutput creates a new JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{
		w:       w,
		encoder: json.NewEncoder(w),
	}
}

// jsonMessage is the structured format for Success/Warning/Info messages.
type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Success outputs a success message as JSON.
func (o *JSONOutput) Success(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg})
}

// Error outputs the error as JSON.
func (o *JSONOutput) Error(err error) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "error", Message: err.Error()})
}

// Warning outputs a warning message as JSON.
func (o *JSONOutput) Warning(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg})
}

// Info outputs an informational message as JSON.
func (o *JSONOutput) Info(msg string) {
	//nolint:errchkjson // Method has no error return per interface contract
	_ = o.encoder.Encode(jsonMessage{Type: "info", Message: msg})
}

// JSON outputs a value as indented JSON.
func (o *JSONOutput) JSON(v any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
