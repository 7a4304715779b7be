// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates session data files in an experiment data
// directory.
package scan

import (
	"fmt"
	"os"
	"strings"
)

// excludeMarkers are filename substrings that mark non-session files living
// alongside session documents: test runs, free-response surveys, and
// slider-question data. Files containing any of them are never opened.
var excludeMarkers = []string{"TEST", "freeResp", "sliderData"}

// Sessions lists the session documents in dir, in directory listing order.
// A file is included iff its name ends in ".json" and contains none of the
// exclusion markers. The returned names are relative to dir.
func Sessions(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		if excluded(name) {
			continue
		}
		files = append(files, name)
	}
	return files, nil
}

func excluded(name string) bool {
	for _, marker := range excludeMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
