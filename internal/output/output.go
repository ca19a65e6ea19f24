// Package output writes compression results and auxiliary JSON for the CLI.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bimmerbailey/logsift/internal/compress"
)

// Writer handles writing formatted output.
type Writer struct {
	w io.Writer
}

// New creates a new output Writer.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteResult writes the result's formatted rendering, ensuring a trailing
// newline.
func (wr *Writer) WriteResult(result *compress.Result) error {
	formatted := result.Formatted
	if !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}
	_, err := io.WriteString(wr.w, formatted)
	return err
}

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteStatus writes a one-line status, colorized by severity when the mode
// is ColorAlways, or ColorAuto with a terminal writer.
func (wr *Writer) WriteStatus(severity compress.Severity, line string, mode ColorMode) error {
	if shouldColorize(mode, wr.w) {
		line = ColorizeSeverity(severity, line)
	}
	_, err := fmt.Fprintln(wr.w, line)
	return err
}
