// internal/storage/file_test.go
package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save([]byte(`[{"product_id":"1"}]`)))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, `[{"product_id":"1"}]`, string(data))
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestFileStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save([]byte(`["old"]`)))
	require.NoError(t, store.Save([]byte(`["new"]`)))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, string(data))
}

func TestFileStoreCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "cart.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save([]byte(`[]`)))

	data, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))
}
