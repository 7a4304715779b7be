// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/vullab/rps-export/pkg/types"
)

// Manifest is the on-disk record of an export run: the configuration that
// produced a CSV file and the resulting counts. It makes a run
// reproducible without digging through shell history.
type Manifest struct {
	Experiment string              `yaml:"experiment"`
	Schema     types.SchemaVersion `yaml:"schema"`
	DataDir    string              `yaml:"data_dir"`
	Output     string              `yaml:"output"`
	Files      int                 `yaml:"files"`
	Rounds     int                 `yaml:"rounds"`
	Rows       int                 `yaml:"rows"`
	Timestamp  time.Time           `yaml:"timestamp"`
}

// ManifestPath returns the manifest location for an export configuration:
// the output path with its extension replaced by "_manifest.yaml".
func ManifestPath(cfg types.ExportConfig) string {
	out := cfg.OutputPath()
	return strings.TrimSuffix(out, filepath.Ext(out)) + "_manifest.yaml"
}

// WriteManifest saves the run record next to the CSV output.
func WriteManifest(path string, cfg types.ExportConfig, sum Summary) error {
	m := Manifest{
		Experiment: cfg.Experiment,
		Schema:     cfg.Schema,
		DataDir:    cfg.DataDir,
		Output:     sum.Output,
		Files:      sum.Files,
		Rounds:     sum.Rounds,
		Rows:       sum.Rows,
		Timestamp:  time.Now(),
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadManifest loads a previously written run record.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
