package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"reelcat/internal/catalog"
	"reelcat/internal/device"
	"reelcat/internal/report"
	"reelcat/internal/scan"
)

func newStorageCommand(ctx *commandContext) *cobra.Command {
	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Inspect storage media known to the catalog",
	}

	storageCmd.AddCommand(newStorageListCommand(ctx))
	storageCmd.AddCommand(newStorageUsageCommand(ctx))
	storageCmd.AddCommand(newStorageWatchCommand(ctx))

	return storageCmd
}

func newStorageListCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List storage labels with entry counts and sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				entries, err := store.List(cmdCtx)
				if err != nil {
					return err
				}
				groups := report.ByStorage(entries)

				if jsonFlag {
					return writeJSON(cmd, groups)
				}

				out := cmd.OutOrStdout()
				if len(groups) == 0 {
					fmt.Fprintln(out, "No storages")
					return nil
				}
				rows := make([][]string, 0, len(groups))
				for _, group := range groups {
					rows = append(rows, []string{
						group.Key,
						strconv.Itoa(group.Count),
						report.FormatBytes(group.TotalBytes),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Storage", "Entries", "Total"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newStorageUsageCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "usage <path>",
		Short: "Show filesystem capacity for a mounted storage path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			stats, err := scan.Volume(path)
			if err != nil {
				return err
			}

			if jsonFlag {
				return writeJSON(cmd, stats)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:  %s\n", path)
			fmt.Fprintf(out, "Total: %s\n", report.FormatBytes(int64(stats.TotalBytes)))
			fmt.Fprintf(out, "Used:  %s\n", report.FormatBytes(int64(stats.UsedBytes)))
			fmt.Fprintf(out, "Free:  %s\n", report.FormatBytes(int64(stats.FreeBytes)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of text")
	return cmd
}

func newStorageWatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch for storage media being attached or removed",
		Long: `Watch listens for udev block device events and prints attach/detach
notifications until interrupted. When a device carries a filesystem label
the label is shown; labels often map directly to catalog storage ids.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			watchCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			monitor := device.NewMonitor(ctx.ensureLogger(), func(_ context.Context, event device.Event) error {
				if event.Label != "" {
					fmt.Fprintf(out, "%s %s (label %s)\n", event.Action, event.DevName, event.Label)
				} else {
					fmt.Fprintf(out, "%s %s\n", event.Action, event.DevName)
				}
				return nil
			})
			if err := monitor.Start(watchCtx); err != nil {
				return fmt.Errorf("start storage watch: %w", err)
			}
			defer monitor.Stop()

			fmt.Fprintln(out, "Watching for storage events; press Ctrl-C to stop.")
			<-watchCtx.Done()
			return nil
		},
	}
	return cmd
}
