package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reelcat/internal/catalog"
	"reelcat/internal/reconcile"
	"reelcat/internal/report"
	"reelcat/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var storageFlag string
	var flatFlag bool
	var applyFlag bool
	var overrideFlag bool
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a directory and reconcile it against the catalog",
		Long: `Scan walks a directory for video files and classifies each one against
the catalog: new file, moved, in sync, duplicate on another storage, or a
name match with a different size. Classification never writes; pass --apply
to commit the actionable items as one batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			storageID := strings.TrimSpace(storageFlag)
			if storageID == "" {
				storageID = scan.DetectStorageID(root, cfg.Scan.DefaultStorageID)
			}

			logger := ctx.ensureLogger()
			scanner := scan.NewScanner(scan.Options{
				Extensions:     cfg.ExtensionSet(),
				IncludeSubdirs: cfg.Scan.IncludeSubdirs && !flatFlag,
			}, logger)

			descriptors, err := scanner.Scan(cmd.Context(), root)
			if err != nil {
				return err
			}

			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				engine := reconcile.NewEngine(store, logger)
				plan, err := engine.Classify(cmdCtx, descriptors, storageID)
				if err != nil {
					return err
				}

				if !applyFlag {
					if jsonFlag {
						return writeJSON(cmd, plan)
					}
					printPlan(cmd, plan)
					return nil
				}

				applier := reconcile.NewApplier(store, logger)
				result, err := applier.Apply(cmdCtx, plan, nil, reconcile.ApplyOptions{Override: overrideFlag})
				var blocked *reconcile.BlockedError
				if errors.As(err, &blocked) {
					printBlocked(cmd, blocked)
					return err
				}
				if err != nil {
					return err
				}

				if jsonFlag {
					return writeJSON(cmd, struct {
						Plan   *reconcile.Plan        `json:"plan"`
						Result *reconcile.ApplyResult `json:"result"`
					}{plan, result})
				}
				printPlan(cmd, plan)
				fmt.Fprintf(cmd.OutOrStdout(), "\nApplied: %d inserted, %d updated, %d skipped\n",
					result.Inserted, result.Updated, result.Skipped)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&storageFlag, "storage", "s", "", "Storage label for the scanned medium (default: inferred from the path)")
	cmd.Flags().BoolVar(&flatFlag, "flat", false, "Do not descend into subdirectories")
	cmd.Flags().BoolVar(&applyFlag, "apply", false, "Commit the actionable items to the catalog")
	cmd.Flags().BoolVar(&overrideFlag, "override", false, "Insert duplicates already cataloged on another storage")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of a table")
	return cmd
}

func printPlan(cmd *cobra.Command, plan *reconcile.Plan) {
	out := cmd.OutOrStdout()
	color := shouldColorize(out)

	fmt.Fprintf(out, "Storage %s: %d new, %d size-mismatched, %d moved, %d in sync, %d duplicated elsewhere\n",
		plan.StorageID,
		plan.Summary.NewFiles,
		plan.Summary.NameSizeMismatches,
		plan.Summary.Moved,
		plan.Summary.InSync,
		plan.Summary.Duplicates,
	)

	actionable := plan.Actionable()
	if len(actionable) == 0 {
		fmt.Fprintln(out, colorize("Catalog is in sync with the scanned directory.", ansiGreen, color))
		return
	}

	rows := make([][]string, 0, len(actionable))
	for _, item := range actionable {
		note := ""
		if item.Outcome == reconcile.OutcomeDuplicateElsewhere {
			note = "already on " + item.ExistingStorageID
		}
		rows = append(rows, []string{
			string(item.Outcome),
			item.Descriptor.FileName,
			report.FormatBytes(item.Descriptor.SizeBytes),
			item.Descriptor.FullPath,
			note,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Outcome", "Name", "Size", "Path", "Note"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
	))
}

func printBlocked(cmd *cobra.Command, blocked *reconcile.BlockedError) {
	out := cmd.OutOrStdout()
	color := shouldColorize(out)
	fmt.Fprintln(out, colorize("Apply refused: the selection contains duplicates on other storages.", ansiYellow, color))
	for _, item := range blocked.Items {
		fmt.Fprintf(out, "  %s already cataloged on %s\n", item.Descriptor.Identity(), item.ExistingStorageID)
	}
	fmt.Fprintln(out, "Re-run with --override to insert them as extra copies.")
}
