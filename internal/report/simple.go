package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/behemotion/bablib/internal/library"
)

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain text with tab-aligned columns rather
// than ANSI colors because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given
// writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// WriteSessions outputs the session history as an aligned table.
func (w *SimpleWriter) WriteSessions(report *SessionReport) error {
	fmt.Fprintf(w.output, "Crawl sessions for box %s (%s)\n\n", report.Box.Name, report.Box.URL)

	if len(report.Sessions) == 0 {
		fmt.Fprintln(w.output, "no sessions yet")
		return nil
	}

	tw := tabwriter.NewWriter(w.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tSTATUS\tCRAWLED\tFAILED\tDURATION")
	for _, s := range report.Sessions {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			s.StartedAt.Format("2006-01-02 15:04:05"),
			formatStatus(s.Status),
			s.PagesCrawled,
			s.PagesFailed,
			formatDuration(s),
		)
	}
	return tw.Flush()
}

// WriteInventory outputs the shelf inventory as an aligned table.
func (w *SimpleWriter) WriteInventory(inv *library.ShelfInventory) error {
	fmt.Fprintf(w.output, "Shelf %s\n\n", inv.Shelf.Name)

	if len(inv.Boxes) == 0 {
		fmt.Fprintln(w.output, "no boxes yet")
		return nil
	}

	tw := tabwriter.NewWriter(w.output, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BOX\tTYPE\tURL\tPAGES\tSIZE")
	for _, b := range inv.Boxes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			b.Box.Name,
			string(b.Box.Type),
			b.Box.URL,
			b.PageCount,
			FormatSize(b.TotalSize),
		)
	}
	return tw.Flush()
}
