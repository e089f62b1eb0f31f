package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListRunFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"r01-baseline.csv", "r02-ptc.csv", "r10-roll.csv", "notes.txt", "x99-other.csv", "results.csv.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "r-subdir"), 0o755))

	runs, err := ListRunFiles(dir)
	require.NoError(t, err)

	require.Equal(t, []RunFile{
		{ID: "r01-baseline", Path: filepath.Join(dir, "r01-baseline.csv")},
		{ID: "r02-ptc", Path: filepath.Join(dir, "r02-ptc.csv")},
		{ID: "r10-roll", Path: filepath.Join(dir, "r10-roll.csv")},
	}, runs)
}

func TestListRunFilesEmptyDir(t *testing.T) {
	runs, err := ListRunFiles(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestListRunFilesMissingDir(t *testing.T) {
	_, err := ListRunFiles(filepath.Join(t.TempDir(), "absent"))
	require.ErrorContains(t, err, "failed to read input directory")
}
