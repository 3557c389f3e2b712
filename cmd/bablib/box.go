package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/behemotion/bablib/internal/model"
	"github.com/behemotion/bablib/internal/report"
)

// NewBoxCmd creates the box command group.
func NewBoxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "box",
		Short: "Manage boxes",
		Long: `Create, inspect, and remove boxes.

A box is a typed content container on a shelf:
  drag  filled by crawling a documentation site
  rag   filled by importing documents for retrieval
  bag   filled by storing files as-is`,
	}

	cmd.AddCommand(newBoxCreateCmd())
	cmd.AddCommand(newBoxShowCmd())
	cmd.AddCommand(newBoxRemoveCmd())
	return cmd
}

func newBoxCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <shelf> <name>",
		Short: "Create a box on a shelf",
		Long: `Create a box on the named shelf.

Examples:
  # A crawled documentation box
  bablib box create reference go-docs --type drag --url https://go.dev/doc/

  # With crawl settings
  bablib box create reference go-docs --type drag --url https://go.dev/doc/ \
    --max-pages 200 --rate-limit 0.5 --depth 2

  # A plain file box
  bablib box create reference files --type bag`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName, err := cmd.Flags().GetString("type")
			if err != nil {
				return err
			}
			boxType, err := model.ParseBoxType(typeName)
			if err != nil {
				return err
			}
			url, err := cmd.Flags().GetString("url")
			if err != nil {
				return err
			}
			maxPages, err := cmd.Flags().GetInt("max-pages")
			if err != nil {
				return err
			}
			rateLimit, err := cmd.Flags().GetFloat64("rate-limit")
			if err != nil {
				return err
			}
			depth, err := cmd.Flags().GetInt("depth")
			if err != nil {
				return err
			}

			svc, store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			box, err := svc.CreateBox(cmd.Context(), args[0], &model.Box{
				Name:       args[1],
				Type:       boxType,
				URL:        url,
				MaxPages:   maxPages,
				RateLimit:  rateLimit,
				CrawlDepth: depth,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "box %s (%s) created on shelf %s\n", box.Name, box.Type, args[0])
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "drag", "Box type: drag, rag, or bag")
	cmd.Flags().StringP("url", "u", "", "Seed URL (required for drag boxes)")
	cmd.Flags().IntP("max-pages", "p", 0, "Page budget per crawl session (0 = default)")
	cmd.Flags().Float64P("rate-limit", "r", 0, "Requests per second per domain (0 = default)")
	cmd.Flags().IntP("depth", "d", 0, "Maximum crawl link depth (0 = default)")
	return cmd
}

func newBoxShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a box with its stored content totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			inv, err := svc.Inventory(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:  %s\n", inv.Box.Name)
			fmt.Fprintf(out, "type:  %s\n", inv.Box.Type)
			if inv.Box.URL != "" {
				fmt.Fprintf(out, "url:   %s\n", inv.Box.URL)
			}
			if inv.Box.Type == model.BoxTypeDrag {
				fmt.Fprintf(out, "crawl: depth %d, max %d pages, %.2g req/s\n",
					inv.Box.CrawlDepth, inv.Box.MaxPages, inv.Box.RateLimit)
			}
			fmt.Fprintf(out, "pages: %d (%s)\n", inv.PageCount, report.FormatSize(inv.TotalSize))
			return nil
		},
	}
}

func newBoxRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a box, its stored pages, and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := svc.RemoveBox(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "box %s removed\n", args[0])
			return nil
		},
	}
}
