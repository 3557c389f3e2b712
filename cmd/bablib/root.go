// Package main provides the entry point for the bablib CLI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/behemotion/bablib/internal/config"
	"github.com/behemotion/bablib/internal/database"
	"github.com/behemotion/bablib/internal/log"
	"github.com/behemotion/bablib/internal/report"
)

// NewRootCmd creates the root command for bablib.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bablib",
		Short: "Personal documentation library with a polite site crawler",
		Long: `bablib organizes documentation into shelves of typed boxes.

Drag boxes are filled by crawling a documentation site, respecting
robots.txt and per-domain rate limits. Rag and bag boxes are filled
by importing files from the local filesystem.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Settings file path (default: "+config.SettingsPath()+")")
	cmd.PersistentFlags().String("data-dir", "",
		"Data directory for the database and box content (default: "+config.DataDir()+")")

	// Add subcommands
	cmd.AddCommand(NewShelfCmd())
	cmd.AddCommand(NewBoxCmd())
	cmd.AddCommand(NewFillCmd())
	cmd.AddCommand(NewSessionsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildConfig creates a Config from defaults, the optional settings
// file, and global flags. An explicitly specified settings file must
// exist; the default location is used only when present.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	settingsPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	explicit := settingsPath != ""
	if !explicit {
		settingsPath = config.SettingsPath()
	}

	settings, err := config.LoadSettings(settingsPath)
	switch {
	case err == nil:
		settings.Apply(cfg)
	case errors.Is(err, config.ErrSettingsNotFound):
		if explicit {
			return nil, fmt.Errorf("settings file not found: %s", settingsPath)
		}
	default:
		return nil, fmt.Errorf("failed to load settings file %s: %w", settingsPath, err)
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	cfg.Verbose, err = cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// openStore opens the SQLite store under the configured data dir.
func openStore(cfg *config.Config) (*database.Store, error) {
	opts := database.DefaultOptions()
	opts.UserAgent = cfg.UserAgent
	return database.Open(cfg.DataDir, opts)
}

// newReportWriter picks the output format from the --markdown and
// --json flags. Plain text is the default.
func newReportWriter(cmd *cobra.Command) (report.Writer, error) {
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	if asMarkdown && asJSON {
		return nil, errors.New("--markdown and --json are mutually exclusive")
	}

	out := cmd.OutOrStdout()
	switch {
	case asMarkdown:
		return report.NewMarkdownWriter(out), nil
	case asJSON:
		return report.NewJSONWriter(out, report.WithPrettyPrint()), nil
	default:
		return report.NewSimpleWriter(out), nil
	}
}

// addFormatFlags registers the shared output format flags.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
}

// setupLogger creates a structured logger based on verbosity.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	return log.NewLogger(cmd.ErrOrStderr(), verbose)
}
