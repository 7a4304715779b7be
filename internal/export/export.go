// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export runs the scan-flatten-write pipeline: it enumerates
// session documents in a data directory, flattens each into per-player CSV
// rows, and appends them to a single output file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vullab/rps-export/internal/flatten"
	"github.com/vullab/rps-export/internal/scan"
	"github.com/vullab/rps-export/pkg/types"
)

// Summary holds the outcome of an export run.
type Summary struct {
	// Files is the number of session documents processed.
	Files int
	// Rounds is the total round count across all sessions.
	Rounds int
	// Rows is the number of data rows written (two per round).
	Rows int
	// Output is the CSV path that was written.
	Output string
}

// Run executes one export. Per-file progress lines go to progress. The
// output file is created (truncating any previous content) before the
// first session is read; the header row is written when the first session
// parses, so an empty data directory leaves an empty file.
//
// Any filesystem, decode, or missing-field error aborts the run, leaving
// the rows written so far in the output file.
func Run(cfg types.ExportConfig, progress io.Writer) (Summary, error) {
	var sum Summary
	if err := cfg.Validate(); err != nil {
		return sum, err
	}
	sch, err := flatten.SchemaFor(cfg.Schema)
	if err != nil {
		return sum, err
	}
	files, err := scan.Sessions(cfg.DataDir)
	if err != nil {
		return sum, err
	}

	sum.Output = cfg.OutputPath()
	f, err := os.Create(sum.Output)
	if err != nil {
		return sum, fmt.Errorf("creating %s: %w", sum.Output, err)
	}
	defer f.Close()
	cw := csv.NewWriter(f)

	headerWritten := false
	runErr := func() error {
		for _, name := range files {
			fmt.Fprintf(progress, "Processing: %s\n", name)

			data, err := os.ReadFile(filepath.Join(cfg.DataDir, name))
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			rows, err := flatten.Flatten(sch, data)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			if !headerWritten {
				if err := cw.Write(sch.Header()); err != nil {
					return fmt.Errorf("writing header: %w", err)
				}
				headerWritten = true
			}
			for _, row := range rows {
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("writing %s: %w", sum.Output, err)
				}
			}

			sum.Files++
			sum.Rounds += len(rows) / 2
			sum.Rows += len(rows)
		}
		return nil
	}()

	cw.Flush()
	if runErr != nil {
		return sum, runErr
	}
	if err := cw.Error(); err != nil {
		return sum, fmt.Errorf("writing %s: %w", sum.Output, err)
	}
	if err := f.Close(); err != nil {
		return sum, fmt.Errorf("closing %s: %w", sum.Output, err)
	}

	fmt.Fprintf(progress, "\nExported %d rows from %d sessions to %s\n",
		sum.Rows, sum.Files, sum.Output)
	return sum, nil
}
