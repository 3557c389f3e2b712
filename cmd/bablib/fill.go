package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/behemotion/bablib/internal/fill"
	"github.com/behemotion/bablib/internal/report"
)

// NewFillCmd creates the fill command.
func NewFillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill <box> [source]",
		Short: "Fill a box with content",
		Long: `Fill a box with content by the mechanism its type demands.

Drag boxes crawl their configured seed URL, respecting robots.txt and
per-domain rate limits. Interrupting a crawl (Ctrl-C) stops it
politely: in-flight requests finish and progress is kept.

Rag and bag boxes import a file or directory from the local
filesystem.

Examples:
  # Crawl a drag box's documentation site
  bablib fill go-docs

  # Import a directory into a bag box
  bablib fill files ~/notes --recursive --pattern '*.md'

  # Crawl every drag box on a shelf
  bablib fill reference --shelf --concurrency 3`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runFillCmd,
	}

	cmd.Flags().BoolP("recursive", "R", false, "Descend into subdirectories of a directory source")
	cmd.Flags().String("pattern", "", "Only import files whose name matches this glob pattern")
	cmd.Flags().Bool("shelf", false, "Treat the argument as a shelf and crawl all its drag boxes")
	cmd.Flags().Int("concurrency", 2, "Concurrent crawls for --shelf")
	return cmd
}

// runFillCmd executes the fill command.
func runFillCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger := setupLogger(cmd, cfg.Verbose)

	recursive, err := cmd.Flags().GetBool("recursive")
	if err != nil {
		return err
	}
	pattern, err := cmd.Flags().GetString("pattern")
	if err != nil {
		return err
	}
	opts := fill.Options{Recursive: recursive, Pattern: pattern}
	if len(args) == 2 {
		opts.Source = args[1]
	}

	// A first interrupt cancels the context so a running crawl winds
	// down politely; a second interrupt kills the process.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping...")
		cancel()
	}()

	svc := fill.NewService(store, cfg, logger)

	wholeShelf, err := cmd.Flags().GetBool("shelf")
	if err != nil {
		return err
	}
	if wholeShelf {
		concurrency, err := cmd.Flags().GetInt("concurrency")
		if err != nil {
			return err
		}
		results, err := svc.FillShelf(ctx, args[0], concurrency)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", r.Box.Name, r.Err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ", r.Box.Name)
			printFillResult(cmd, &fill.Result{Box: r.Box, Session: r.Session})
		}
		return nil
	}

	result, err := svc.Fill(ctx, args[0], opts)
	if err != nil {
		return err
	}
	printFillResult(cmd, result)
	return nil
}

// printFillResult writes the fill summary for either mechanism.
func printFillResult(cmd *cobra.Command, result *fill.Result) {
	out := cmd.OutOrStdout()
	switch {
	case result.Session != nil:
		s := result.Session
		fmt.Fprintf(out, "crawl %s: %d crawled, %d failed in %s\n",
			s.Status, s.PagesCrawled, s.PagesFailed,
			s.CompletedAt.Sub(s.StartedAt).Round(100*time.Millisecond))
	case result.Upload != nil:
		u := result.Upload
		fmt.Fprintf(out, "import finished: %d files (%s), %d failed\n",
			u.FilesImported, report.FormatSize(u.BytesCopied), u.FilesFailed)
	}
}
