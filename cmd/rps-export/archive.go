// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vullab/rps-export/internal/archive"
	"github.com/vullab/rps-export/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Ingest session documents into a SQLite archive",
	Long: `Archive scans the data directory and stores one row per session in a
SQLite database: filename, game id, round count, bot strategy, and the raw
document. Unchanged files are skipped on subsequent runs, so the archive
can be refreshed cheaply as new sessions arrive.`,
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().String("data-dir", "", "directory of per-session JSON documents")
	archiveCmd.Flags().String("schema", "", "session schema version: v1 or v3")
	archiveCmd.Flags().String("db", "", "SQLite database path (default sessions.db)")

	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	cfg := types.ArchiveConfig{
		DataDir: flagOrConfig(cmd, "data-dir", "data_dir"),
		Schema:  types.SchemaVersion(flagOrConfig(cmd, "schema", "schema")),
		DBPath:  flagOrConfig(cmd, "db", "db_path"),
	}

	store, err := archive.NewStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := store.Ingest(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	if sum.HasFailures() {
		return fmt.Errorf("%d session(s) failed ingestion", sum.Failed)
	}
	return nil
}
