package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.csv")

	require.NoError(t, WriteFileAtomic(path, []byte("bodies,threads,time_sec\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bodies,threads,time_sec\n", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileAtomic_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	require.NoError(t, WriteFileAtomic(path, []byte("old")))
	require.NoError(t, WriteFileAtomic(path, []byte("new")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestCheckNonEmpty(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.png")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err := CheckNonEmpty(empty)
	assert.Error(t, err)

	_, err = CheckNonEmpty(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)

	full := filepath.Join(dir, "full.png")
	require.NoError(t, os.WriteFile(full, []byte("png"), 0644))
	size, err := CheckNonEmpty(full)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
}
