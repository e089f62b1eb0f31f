package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RunFile is one discovered simulation definition.
type RunFile struct {
	// ID is the file stem, e.g. "r01-baseline". Output files reuse it.
	ID   string
	Path string
}

// ListRunFiles finds run definitions in dir. Only files named r*.csv count;
// anything else in the directory is ignored. ReadDir sorts by name, so run
// order is deterministic.
func ListRunFiles(dir string) ([]RunFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	runs := make([]RunFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, "r") || !strings.HasSuffix(name, ".csv") {
			continue
		}
		runs = append(runs, RunFile{
			ID:   strings.TrimSuffix(name, ".csv"),
			Path: filepath.Join(dir, name),
		})
	}
	return runs, nil
}
