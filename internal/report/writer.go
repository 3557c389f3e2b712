package report

import (
	"fmt"
	"io"
	"time"

	"github.com/behemotion/bablib/internal/library"
	"github.com/behemotion/bablib/internal/model"
)

// SessionReport bundles a box with its crawl session history.
type SessionReport struct {
	// Box is the drag box the sessions belong to.
	Box *model.Box `json:"box"`

	// Sessions are the crawl sessions, newest first.
	Sessions []*model.CrawlSession `json:"sessions"`
}

// Writer defines the interface for report output.
//
// Design decision: We use an interface so the CLI picks the format
// once and renders session history and inventories through the same
// value, whatever the destination.
type Writer interface {
	// WriteSessions outputs a box's crawl session history.
	WriteSessions(report *SessionReport) error

	// WriteInventory outputs a shelf's boxes with content totals.
	WriteInventory(inv *library.ShelfInventory) error
}

// baseWriter provides the shared output destination.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// FormatSize renders a byte count in a human-friendly unit.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// formatDuration renders a session's wall-clock duration, or "-" for
// sessions that have not finished.
func formatDuration(s *model.CrawlSession) string {
	if s.CompletedAt.IsZero() {
		return "-"
	}
	return s.CompletedAt.Sub(s.StartedAt).Round(time.Millisecond * 100).String()
}

// formatStatus renders a session status with a marker that survives
// plain terminals and markdown alike.
func formatStatus(s model.SessionStatus) string {
	switch s {
	case model.StatusCompleted:
		return "✅ completed"
	case model.StatusFailed:
		return "❌ failed"
	case model.StatusStopped:
		return "⏹ stopped"
	case model.StatusRunning:
		return "▶ running"
	default:
		return string(s)
	}
}
