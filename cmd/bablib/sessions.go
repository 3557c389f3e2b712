package main

import (
	"github.com/spf13/cobra"

	"github.com/behemotion/bablib/internal/report"
)

// NewSessionsCmd creates the sessions command.
func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions <box>",
		Short: "Show a box's crawl session history",
		Long: `Show the crawl sessions of a drag box, newest first, with their
status and page counters.

Examples:
  bablib sessions go-docs
  bablib sessions go-docs --markdown
  bablib sessions go-docs --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			writer, err := newReportWriter(cmd)
			if err != nil {
				return err
			}
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			box, err := store.GetBoxByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sessions, err := store.ListSessions(cmd.Context(), box.ID)
			if err != nil {
				return err
			}

			return writer.WriteSessions(&report.SessionReport{Box: box, Sessions: sessions})
		},
	}
	addFormatFlags(cmd)
	return cmd
}
