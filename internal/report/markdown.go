package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/behemotion/bablib/internal/library"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the
// given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteSessions outputs the session history in Markdown format.
func (w *MarkdownWriter) WriteSessions(report *SessionReport) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Sessions: " + report.Box.Name)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + report.Box.URL + "`"},
			{"Max Pages", strconv.Itoa(report.Box.MaxPages)},
			{"Crawl Depth", strconv.Itoa(report.Box.CrawlDepth)},
			{"Sessions", strconv.Itoa(len(report.Sessions))},
		},
	})
	md.PlainText("")

	if len(report.Sessions) == 0 {
		md.PlainText("No sessions yet.")
		return md.Build()
	}

	rows := make([][]string, 0, len(report.Sessions))
	for _, s := range report.Sessions {
		rows = append(rows, []string{
			s.StartedAt.Format("2006-01-02 15:04:05"),
			formatStatus(s.Status),
			strconv.Itoa(s.PagesCrawled),
			strconv.Itoa(s.PagesFailed),
			formatDuration(s),
		})
	}
	md.H2("History")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Started", "Status", "Crawled", "Failed", "Duration"},
		Rows:   rows,
	})
	return md.Build()
}

// WriteInventory outputs the shelf inventory in Markdown format.
func (w *MarkdownWriter) WriteInventory(inv *library.ShelfInventory) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Shelf: " + inv.Shelf.Name)
	md.PlainText("")

	if len(inv.Boxes) == 0 {
		md.PlainText("No boxes yet.")
		return md.Build()
	}

	var totalPages int
	var totalSize int64
	rows := make([][]string, 0, len(inv.Boxes)+1)
	for _, b := range inv.Boxes {
		url := "-"
		if b.Box.URL != "" {
			url = "`" + b.Box.URL + "`"
		}
		rows = append(rows, []string{
			b.Box.Name,
			string(b.Box.Type),
			url,
			strconv.Itoa(b.PageCount),
			FormatSize(b.TotalSize),
		})
		totalPages += b.PageCount
		totalSize += b.TotalSize
	}
	rows = append(rows, []string{
		"**Total**", "", "", "**" + strconv.Itoa(totalPages) + "**", "**" + FormatSize(totalSize) + "**",
	})
	md.Table(markdown.TableSet{
		Header: []string{"Box", "Type", "URL", "Pages", "Size"},
		Rows:   rows,
	})
	return md.Build()
}
