// Package report renders crawl session summaries and shelf
// inventories for display.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - MarkdownWriter: GitHub-flavored markdown for documentation
//   - JSONWriter: Structured JSON output for tool integration
//
// Design decision: We separate report writing from the data
// structures (which come from the model and library packages) so new
// output formats can be added without touching the data layer.
// Writers implement the Writer interface, allowing them to be used
// interchangeably by the CLI.
package report
