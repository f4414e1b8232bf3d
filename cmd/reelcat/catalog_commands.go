package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcat/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and edit catalog entries",
	}

	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogSearchCommand(ctx))
	catalogCmd.AddCommand(newCatalogDeleteCommand(ctx))
	catalogCmd.AddCommand(newCatalogClearCommand(ctx))
	catalogCmd.AddCommand(newCatalogResetCommand(ctx))
	catalogCmd.AddCommand(newCatalogSetCommand(ctx))

	return catalogCmd
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var storageFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				var entries []*catalog.Entry
				var err error
				if storage := strings.TrimSpace(storageFlag); storage != "" {
					entries, err = store.ListByStorage(cmdCtx, storage)
				} else {
					entries, err = store.List(cmdCtx)
				}
				if err != nil {
					return err
				}

				if jsonFlag {
					return writeJSON(cmd, entries)
				}
				printEntries(cmd, entries)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&storageFlag, "storage", "s", "", "Only list entries on this storage")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog entry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				entry, err := store.GetByID(cmdCtx, id)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, entry)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:            %d\n", entry.ID)
				fmt.Fprintf(out, "Name:          %s\n", entry.FileName)
				fmt.Fprintf(out, "Extension:     %s\n", entry.Extension)
				fmt.Fprintf(out, "Size:          %d bytes\n", entry.SizeBytes)
				fmt.Fprintf(out, "Storage:       %s\n", entry.StorageID)
				fmt.Fprintf(out, "Path:          %s\n", entry.FullPath)
				fmt.Fprintf(out, "Created:       %s\n", optionalTime(entry.CreationDate))
				fmt.Fprintf(out, "Year:          %s\n", optionalYear(entry.Year))
				fmt.Fprintf(out, "Category:      %s\n", optionalString(entry.Category))
				fmt.Fprintf(out, "Added:         %s\n", entry.AddedOn.Format(catalog.TimeLayout))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of text")
	return cmd
}

func newCatalogSearchCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "search <fragment>",
		Short: "Search entries by file name fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				entries, err := store.SearchByName(cmdCtx, args[0])
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, entries)
				}
				printEntries(cmd, entries)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newCatalogDeleteCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete catalog entries by id",
		Long: `Delete removes rows from the catalog only. Files on disk are never
touched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseEntryID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				deleted, err := store.DeleteEntries(cmdCtx, ids)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d of %d entries\n", deleted, len(ids))
				return nil
			})
		},
	}
	return cmd
}

func newCatalogClearCommand(ctx *commandContext) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every entry from the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !forceFlag {
				return fmt.Errorf("clear removes all catalog entries; re-run with --force to confirm")
			}
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				cleared, err := store.Clear(cmdCtx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries\n", cleared)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Confirm removal of all entries")
	return cmd
}

func newCatalogResetCommand(ctx *commandContext) *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate the catalog schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !forceFlag {
				return fmt.Errorf("reset destroys all catalog data including categories; re-run with --force to confirm")
			}
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				if err := store.Reset(cmdCtx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog reset")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Confirm the reset")
	return cmd
}

func newCatalogSetCommand(ctx *commandContext) *cobra.Command {
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Edit fields of a catalog entry",
	}

	setCmd.AddCommand(&cobra.Command{
		Use:   "category <id> <name|->",
		Short: "Set or clear an entry's category (- clears)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				update := catalog.EntryUpdate{}
				if args[1] == "-" {
					update.ClearCategory = true
				} else {
					name := catalog.CanonicalCategory(args[1])
					known, err := store.HasCategory(cmdCtx, name)
					if err != nil {
						return err
					}
					if !known {
						return fmt.Errorf("unknown category %q; add it first with `reelcat category add`", name)
					}
					update.Category = &name
				}
				if err := store.UpdateEntry(cmdCtx, id, update); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d\n", id)
				return nil
			})
		},
	})

	setCmd.AddCommand(&cobra.Command{
		Use:   "year <id> <year|->",
		Short: "Set or clear an entry's year (- clears)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				update := catalog.EntryUpdate{}
				if args[1] == "-" {
					update.ClearYear = true
				} else {
					year, err := strconv.Atoi(args[1])
					if err != nil {
						return fmt.Errorf("invalid year %q", args[1])
					}
					if err := catalog.ValidateYear(year); err != nil {
						return err
					}
					update.Year = &year
				}
				if err := store.UpdateEntry(cmdCtx, id, update); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d\n", id)
				return nil
			})
		},
	})

	setCmd.AddCommand(&cobra.Command{
		Use:   "storage <id> <label>",
		Short: "Move an entry to a different storage label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			label := strings.TrimSpace(args[1])
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				if err := store.UpdateEntry(cmdCtx, id, catalog.EntryUpdate{StorageID: &label}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d\n", id)
				return nil
			})
		},
	})

	return setCmd
}

func printEntries(cmd *cobra.Command, entries []*catalog.Entry) {
	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries")
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entryRow(entry))
	}
	fmt.Fprintln(out, renderTable(entryHeaders, rows, entryAligns))
	fmt.Fprintf(out, "%d entries\n", len(entries))
}
