package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/behemotion/bablib/internal/database"
	"github.com/behemotion/bablib/internal/library"
)

// NewShelfCmd creates the shelf command group.
func NewShelfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Manage shelves",
		Long:  `Create, list, and remove shelves. A shelf is a named collection of boxes.`,
	}

	cmd.AddCommand(newShelfCreateCmd())
	cmd.AddCommand(newShelfListCmd())
	cmd.AddCommand(newShelfRemoveCmd())
	return cmd
}

func newShelfCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			shelf, err := svc.CreateShelf(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "shelf %s created\n", shelf.Name)
			return nil
		},
	}
}

func newShelfListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [shelf]",
		Short: "List shelves, or show one shelf's boxes with content totals",
		Long: `Without arguments, list all shelf names. With a shelf name,
show that shelf's boxes together with stored page counts and sizes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 1 {
				inv, err := svc.ShelfInventoryByName(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				writer, err := newReportWriter(cmd)
				if err != nil {
					return err
				}
				return writer.WriteInventory(inv)
			}

			shelves, err := svc.ListShelves(cmd.Context())
			if err != nil {
				return err
			}
			if len(shelves) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no shelves yet")
				return nil
			}
			for _, shelf := range shelves {
				fmt.Fprintln(cmd.OutOrStdout(), shelf.Name)
			}
			return nil
		},
	}
	addFormatFlags(cmd)
	return cmd
}

func newShelfRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a shelf and all its boxes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, store, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := svc.RemoveShelf(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "shelf %s removed\n", args[0])
			return nil
		},
	}
}

// openLibrary wires the config, store, and library service for a
// command invocation.
func openLibrary(cmd *cobra.Command) (*library.Service, *database.Store, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger := setupLogger(cmd, cfg.Verbose)
	return library.NewService(store, cfg, library.WithLogger(logger)), store, nil
}
