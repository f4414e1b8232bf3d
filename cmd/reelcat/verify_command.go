package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"reelcat/internal/catalog"
	"reelcat/internal/reconcile"
	"reelcat/internal/report"
	"reelcat/internal/scan"
)

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var storageFlag string
	var flatFlag bool
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "verify <directory>",
		Short: "Check a storage's catalog entries against the disk",
		Long: `Verify compares the catalog rows recorded for one storage against a fresh
scan of that storage's directory. Entries missing on disk and files missing
from the catalog are reported; nothing is ever deleted.`,
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
				result, err := engine.Verify(cmdCtx, descriptors, storageID)
				if err != nil {
					return err
				}

				if jsonFlag {
					return writeJSON(cmd, result)
				}

				out := cmd.OutOrStdout()
				color := shouldColorize(out)
				if len(result.MissingOnDisk) == 0 && len(result.MissingInCatalog) == 0 {
					fmt.Fprintf(out, "%s\n", colorize(
						fmt.Sprintf("Storage %s matches the catalog (%d files).", storageID, len(descriptors)),
						ansiGreen, color))
					return nil
				}

				if len(result.MissingOnDisk) > 0 {
					fmt.Fprintf(out, "%s\n", colorize(
						fmt.Sprintf("Cataloged on %s but missing on disk (%d):", storageID, len(result.MissingOnDisk)),
						ansiYellow, color))
					rows := make([][]string, 0, len(result.MissingOnDisk))
					for _, item := range result.MissingOnDisk {
						rows = append(rows, []string{
							item.Entry.FileName,
							report.FormatBytes(item.Entry.SizeBytes),
							item.Entry.FullPath,
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Name", "Size", "Last Known Path"},
						rows,
						[]columnAlignment{alignLeft, alignRight, alignLeft},
					))
				}

				if len(result.MissingInCatalog) > 0 {
					fmt.Fprintf(out, "%s\n", colorize(
						fmt.Sprintf("On disk but missing from the catalog (%d):", len(result.MissingInCatalog)),
						ansiYellow, color))
					rows := make([][]string, 0, len(result.MissingInCatalog))
					for _, item := range result.MissingInCatalog {
						rows = append(rows, []string{
							item.Descriptor.FileName,
							report.FormatBytes(item.Descriptor.SizeBytes),
							item.Descriptor.FullPath,
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Name", "Size", "Path"},
						rows,
						[]columnAlignment{alignLeft, alignRight, alignLeft},
					))
					fmt.Fprintln(out, "Run `reelcat scan` on this directory to catalog them.")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&storageFlag, "storage", "s", "", "Storage label to verify (default: inferred from the path)")
	cmd.Flags().BoolVar(&flatFlag, "flat", false, "Do not descend into subdirectories")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of tables")
	return cmd
}
