package hashsum

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.bin")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSHA256_KnownVector(t *testing.T) {
	path := writeTemp(t, "abc")
	digest, ok, err := SHA256(path, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", digest)
}

func TestSHA256_CeilingExceeded(t *testing.T) {
	path := writeTemp(t, "this content is longer than the ceiling")
	_, ok, err := SHA256(path, 4)
	require.NoError(t, err)
	require.False(t, ok, "expected ok=false, not an error, when file exceeds max_bytes")
}

func TestSHA256_CeilingExactBoundary(t *testing.T) {
	path := writeTemp(t, "abc")
	_, ok, err := SHA256(path, 3)
	require.NoError(t, err)
	require.True(t, ok, "file size equal to ceiling must be hashed")
}

func TestSHA256_Unlimited(t *testing.T) {
	path := writeTemp(t, "no ceiling applies here")
	_, ok, err := SHA256(path, 0)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSHA256_MissingFile(t *testing.T) {
	_, _, err := SHA256(filepath.Join(t.TempDir(), "nope"), 0)
	require.Error(t, err)
}

func TestMD5_KnownVector(t *testing.T) {
	path := writeTemp(t, "abc")
	digest, ok, err := MD5(path, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "900150983cd24fb0d6963f7d28e17f72", digest)
}

func TestMD5_CeilingExceeded(t *testing.T) {
	path := writeTemp(t, "this content is longer than the ceiling")
	_, ok, err := MD5(path, 4)
	require.NoError(t, err)
	require.False(t, ok)
}
