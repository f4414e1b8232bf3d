package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"reelcat/internal/catalog"
	"reelcat/internal/config"
	"reelcat/internal/export"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var projectionFlag string
	var outFlag string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog to a CSV file",
		Long: `Export writes catalog rows to a spreadsheet-compatible CSV file. Three
projections are available: names (name, size, storage), full (every
column), and extensions (per-extension aggregate).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			projection, err := export.ParseProjection(projectionFlag)
			if err != nil {
				return err
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outFlag)
			if target == "" {
				target = filepath.Join(cfg.Paths.ExportDir, export.DefaultFileName(projection, time.Now()))
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve export path: %w", err)
				}
				target = expanded
			}

			return ctx.withStore(cmd, func(cmdCtx context.Context, store *catalog.Store) error {
				entries, err := store.List(cmdCtx)
				if err != nil {
					return err
				}
				rows, err := export.WriteCSV(entries, projection, target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", rows, target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&projectionFlag, "projection", "p", string(export.ProjectionNames), "Projection: names, full, or extensions")
	cmd.Flags().StringVarP(&outFlag, "out", "o", "", "Output file (default: timestamped file in the export directory)")
	return cmd
}
