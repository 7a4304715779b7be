// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vullab/rps-export/internal/export"
	"github.com/vullab/rps-export/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Flatten session documents into a CSV table",
	Long: `Export scans the data directory for session JSON documents, flattens
each round into two per-player rows, and writes one CSV file named
<experiment>_data.csv (or the --out path). Test fixtures, free-response
data, and slider data living alongside the sessions are skipped.

Any malformed document or missing required field aborts the run, leaving
the rows written so far in the output file.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("data-dir", "", "directory of per-session JSON documents")
	exportCmd.Flags().String("experiment", "", `experiment identifier, names the output file (e.g. "rps_v3")`)
	exportCmd.Flags().String("schema", "", "session schema version: v1 or v3")
	exportCmd.Flags().String("out", "", "output CSV path (default <experiment>_data.csv)")
	exportCmd.Flags().Bool("manifest", false, "write a YAML run manifest next to the CSV")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	manifest, _ := cmd.Flags().GetBool("manifest")
	cfg := types.ExportConfig{
		DataDir:       flagOrConfig(cmd, "data-dir", "data_dir"),
		Experiment:    flagOrConfig(cmd, "experiment", "experiment"),
		Schema:        types.SchemaVersion(flagOrConfig(cmd, "schema", "schema")),
		Out:           flagOrConfig(cmd, "out", "out"),
		WriteManifest: manifest || viper.GetBool("write_manifest"),
	}

	sum, err := export.Run(cfg, os.Stdout)
	if err != nil {
		return err
	}

	if cfg.WriteManifest {
		return export.WriteManifest(export.ManifestPath(cfg), cfg, sum)
	}
	return nil
}
