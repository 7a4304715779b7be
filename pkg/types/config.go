package types

import (
	"fmt"
	"os"
)

// SchemaVersion identifies an experiment-log schema. Each version has its
// own session metadata keys and CSV column set.
type SchemaVersion string

const (
	// SchemaV1 is the original two-human-player experiment format.
	SchemaV1 SchemaVersion = "v1"
	// SchemaV3 is the human-versus-bot format with SONA recruitment
	// metadata and per-round bot memory.
	SchemaV3 SchemaVersion = "v3"
)

// Valid reports whether v names a supported schema version.
func (v SchemaVersion) Valid() bool {
	switch v {
	case SchemaV1, SchemaV3:
		return true
	}
	return false
}

// ExportConfig holds settings for the CSV export stage.
type ExportConfig struct {
	// DataDir is the directory holding one JSON document per session.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Experiment is an identifier for the experiment (e.g. "rps_v3");
	// it names the output file when Out is empty.
	Experiment string `json:"experiment" yaml:"experiment"`

	// Schema selects the session schema version: v1 or v3.
	Schema SchemaVersion `json:"schema" yaml:"schema"`

	// Out is the output CSV path. Empty means "<experiment>_data.csv"
	// in the current working directory.
	Out string `json:"out,omitempty" yaml:"out,omitempty"`

	// WriteManifest controls whether a YAML run manifest is written
	// next to the CSV.
	WriteManifest bool `json:"write_manifest" yaml:"write_manifest"`
}

// Validate checks the configuration before a run starts: the data
// directory must exist, the experiment identifier must be non-empty, and
// the schema version must be supported.
func (c ExportConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory not set")
	}
	info, err := os.Stat(c.DataDir)
	if err != nil {
		return fmt.Errorf("data directory %s: %w", c.DataDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data directory %s: not a directory", c.DataDir)
	}
	if c.Experiment == "" && c.Out == "" {
		return fmt.Errorf("experiment identifier not set (needed to name the output file)")
	}
	if !c.Schema.Valid() {
		return fmt.Errorf("unsupported schema version %q (want v1 or v3)", c.Schema)
	}
	return nil
}

// OutputPath returns the CSV destination: Out when set, otherwise
// "<experiment>_data.csv" in the current working directory.
func (c ExportConfig) OutputPath() string {
	if c.Out != "" {
		return c.Out
	}
	return c.Experiment + "_data.csv"
}

// ArchiveConfig holds settings for the session archive stage.
type ArchiveConfig struct {
	// DataDir is the directory holding one JSON document per session.
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// Schema selects the session schema version: v1 or v3.
	Schema SchemaVersion `json:"schema" yaml:"schema"`

	// DBPath is the SQLite database file (default "sessions.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// Validate checks the archive configuration before ingestion starts.
func (c ArchiveConfig) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory not set")
	}
	if _, err := os.Stat(c.DataDir); err != nil {
		return fmt.Errorf("data directory %s: %w", c.DataDir, err)
	}
	if !c.Schema.Valid() {
		return fmt.Errorf("unsupported schema version %q (want v1 or v3)", c.Schema)
	}
	return nil
}
