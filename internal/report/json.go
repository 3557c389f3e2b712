package report

import (
	"encoding/json"
	"io"

	"github.com/behemotion/bablib/internal/library"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic
// processing.
//
// Design decision: We use standard encoding/json rather than a
// third-party JSON library because:
// 1. It's part of the standard library (no extra dependencies)
// 2. It's sufficient for our needs
// 3. It provides consistent behavior across Go versions
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON output with two-space
// indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteSessions outputs the session history as JSON.
func (w *JSONWriter) WriteSessions(report *SessionReport) error {
	return w.encode(report)
}

// WriteInventory outputs the shelf inventory as JSON.
func (w *JSONWriter) WriteInventory(inv *library.ShelfInventory) error {
	type boxInventory struct {
		Name      string `json:"name"`
		Type      string `json:"type"`
		URL       string `json:"url,omitempty"`
		PageCount int    `json:"page_count"`
		TotalSize int64  `json:"total_size"`
	}
	out := struct {
		Shelf string         `json:"shelf"`
		Boxes []boxInventory `json:"boxes"`
	}{
		Shelf: inv.Shelf.Name,
		Boxes: make([]boxInventory, 0, len(inv.Boxes)),
	}
	for _, b := range inv.Boxes {
		out.Boxes = append(out.Boxes, boxInventory{
			Name:      b.Box.Name,
			Type:      string(b.Box.Type),
			URL:       b.Box.URL,
			PageCount: b.PageCount,
			TotalSize: b.TotalSize,
		})
	}
	return w.encode(out)
}

func (w *JSONWriter) encode(v any) error {
	enc := json.NewEncoder(w.output)
	if w.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
