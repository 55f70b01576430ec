package crash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueFileCreatesDistinctFiles(t *testing.T) {
	fs := NewFileSystem()
	dir := t.TempDir()

	first, err := fs.UniqueFile(dir, "flutter_crash_", ".log")
	require.NoError(t, err)
	second, err := fs.UniqueFile(dir, "flutter_crash_", ".log")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.FileExists(t, first)
	assert.FileExists(t, second)
	assert.Equal(t, dir, filepath.Dir(first))
}

func TestUniqueFileFailsInMissingDirectory(t *testing.T) {
	fs := NewFileSystem()
	_, err := fs.UniqueFile(filepath.Join(t.TempDir(), "does-not-exist"), "p_", ".log")
	assert.Error(t, err)
}

func TestWriteFileReplacesContents(t *testing.T) {
	fs := NewFileSystem()
	path := filepath.Join(t.TempDir(), "report.log")

	require.NoError(t, fs.WriteFile(path, []byte("first version, longer text")))
	require.NoError(t, fs.WriteFile(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
