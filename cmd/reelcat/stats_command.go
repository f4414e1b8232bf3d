package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelcat/internal/catalog"
	"reelcat/internal/report"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				entries, err := store.List(cmdCtx)
				if err != nil {
					return err
				}
				summary := report.Summarize(entries)

				if jsonFlag {
					return writeJSON(cmd, summary)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Entries: %d across %d storages, %s total\n\n",
					summary.Entries, summary.Storages, report.FormatBytes(summary.TotalBytes))

				printGroups(cmd, "By extension", summary.ByExtension)
				printGroups(cmd, "By category", summary.ByCategory)
				printGroups(cmd, "By storage", summary.ByStorage)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of tables")
	return cmd
}

func printGroups(cmd *cobra.Command, title string, groups []report.Group) {
	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		return
	}
	fmt.Fprintln(out, title)
	rows := make([][]string, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, []string{
			group.Key,
			strconv.Itoa(group.Count),
			report.FormatBytes(group.TotalBytes),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Key", "Count", "Total"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))
}

func newDuplicatesCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "duplicates",
		Short: "List identities cataloged on more than one storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				entries, err := store.List(cmdCtx)
				if err != nil {
					return err
				}
				groups := report.Duplicates(entries)

				if jsonFlag {
					return writeJSON(cmd, groups)
				}

				out := cmd.OutOrStdout()
				if len(groups) == 0 {
					fmt.Fprintln(out, "No duplicates")
					return nil
				}

				var wasted int64
				rows := make([][]string, 0, len(groups))
				for _, group := range groups {
					storages := make([]string, 0, len(group.Entries))
					for _, entry := range group.Entries {
						storages = append(storages, entry.StorageID)
					}
					rows = append(rows, []string{
						group.FileName,
						report.FormatBytes(group.SizeBytes),
						strconv.Itoa(len(group.Entries)),
						strings.Join(storages, ", "),
						report.FormatBytes(group.WastedBytes),
					})
					wasted += group.WastedBytes
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Size", "Copies", "Storages", "Wasted"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignRight},
				))
				fmt.Fprintf(out, "%d duplicate groups wasting %s\n", len(groups), report.FormatBytes(wasted))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}
