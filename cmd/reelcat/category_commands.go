package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"reelcat/internal/catalog"
)

func newCategoryCommand(ctx *commandContext) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Manage the category vocabulary",
	}

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				category, err := store.AddCategory(cmdCtx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added category %q\n", category.Name)
				return nil
			})
		},
	})

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				categories, err := store.ListCategories(cmdCtx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(categories) == 0 {
					fmt.Fprintln(out, "No categories")
					return nil
				}
				for _, category := range categories {
					fmt.Fprintln(out, category.Name)
				}
				return nil
			})
		},
	})

	categoryCmd.AddCommand(&cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a category (entries keep their label)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				if err := store.RemoveCategory(cmdCtx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed category %q\n", catalog.CanonicalCategory(args[0]))
				return nil
			})
		},
	})

	return categoryCmd
}
