package rawaccess

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReader_CollectFile(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	source := filepath.Join(srcDir, "a.txt")
	content := "Test content for integration test"
	require.NoError(t, os.WriteFile(source, []byte(content), 0o600))

	r := New(nil)
	meta, err := r.Collect(context.Background(), source, filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)

	require.Equal(t, int64(len(content)), meta.FileSize)
	require.False(t, meta.IsLocked)

	got, err := os.ReadFile(filepath.Join(dstDir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, content, string(got))
}

func TestReader_CollectMissingSource(t *testing.T) {
	r := New(nil)
	_, err := r.Collect(context.Background(), filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
}

func TestReader_CollectDirectoryAggregatesSizes(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	sizes := []int{100, 200, 300}
	for i, size := range sizes {
		require.NoError(t, os.WriteFile(
			filepath.Join(srcDir, filepathName(i)),
			make([]byte, size),
			0o600,
		))
	}

	r := New(nil)
	meta, err := r.Collect(context.Background(), srcDir, dstDir)
	require.NoError(t, err)
	require.Equal(t, int64(600), meta.FileSize)

	for i := range sizes {
		info, err := os.Stat(filepath.Join(dstDir, filepathName(i)))
		require.NoError(t, err)
		require.Equal(t, int64(sizes[i]), info.Size())
	}
}

func TestReader_CollectDirectoryParallelThreshold(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	const count = 20
	for i := 0; i < count; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, filepathName(i)), []byte("x"), 0o600))
	}

	r := New(nil)
	meta, err := r.Collect(context.Background(), srcDir, dstDir)
	require.NoError(t, err)
	require.Equal(t, int64(count), meta.FileSize)
}

func TestReader_IsDirectory(t *testing.T) {
	r := New(nil)
	dir := t.TempDir()
	isDir, err := r.IsDirectory(dir)
	require.NoError(t, err)
	require.True(t, isDir)

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	isDir, err = r.IsDirectory(file)
	require.NoError(t, err)
	require.False(t, isDir)
}

func filepathName(i int) string {
	return "file" + string(rune('a'+i)) + ".bin"
}
