package bodyfile

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWalker_Generate_LineSchema(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("world"), 0o600))

	out := filepath.Join(t.TempDir(), "bodyfile.body")
	w := New(nil)
	require.NoError(t, w.Generate(out, root, Options{CalculateHash: true, HashMaxSizeMB: 10}))

	lines := readLines(t, out)
	require.NotEmpty(t, lines)

	regularFileLines := 0
	for _, line := range lines {
		fields := strings.Split(line, "|")
		require.Len(t, fields, 11, "every line must parse into the 11-field schema: %q", line)
		if strings.HasSuffix(fields[1], ".txt") {
			regularFileLines++
		}
	}
	require.Equal(t, 2, regularFileLines)
}

func TestWalker_Generate_SkipPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "proc"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "proc", "x"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("y"), 0o600))

	out := filepath.Join(t.TempDir(), "bodyfile.body")
	w := New(nil)
	skip := filepath.Join(root, "proc")
	require.NoError(t, w.Generate(out, root, Options{SkipPaths: []string{skip}}))

	lines := readLines(t, out)
	for _, line := range lines {
		fields := strings.Split(line, "|")
		require.False(t, strings.HasPrefix(fields[1], skip), "pruned prefix leaked into output: %q", line)
	}
}

func TestWalker_Generate_EpochVsISO8601(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o600))

	epochOut := filepath.Join(t.TempDir(), "epoch.body")
	isoOut := filepath.Join(t.TempDir(), "iso.body")
	w := New(nil)
	require.NoError(t, w.Generate(epochOut, root, Options{UseISO8601: false}))
	require.NoError(t, w.Generate(isoOut, root, Options{UseISO8601: true}))

	epochLines := readLines(t, epochOut)
	isoLines := readLines(t, isoOut)
	require.NotEmpty(t, epochLines)
	require.NotEmpty(t, isoLines)

	epochFields := strings.Split(epochLines[len(epochLines)-1], "|")
	isoFields := strings.Split(isoLines[len(isoLines)-1], "|")
	require.NotContains(t, epochFields[7], "T")
	require.Contains(t, isoFields[7], "T")
}

func TestModeString(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	info, err := os.Lstat(file)
	require.NoError(t, err)
	mode := modeString(info)
	require.Len(t, mode, 10)
	require.Equal(t, byte('-'), mode[0])
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	require.NoError(t, scanner.Err())
	return lines
}
