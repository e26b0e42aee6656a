package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func blobStores(t *testing.T) map[string]BlobStore {
	t.Helper()

	file, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)

	db, err := NewSQLiteConnection(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	sqlite, err := NewSQLiteBlobStore(context.Background(), db)
	require.NoError(t, err)

	return map[string]BlobStore{
		"memory": NewMemoryBlobStore(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestBlobStoresRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range blobStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, StorageKey)
			assert.ErrorIs(t, err, ErrBlobNotFound)

			require.NoError(t, store.Set(ctx, StorageKey, []byte(`[{"id":"1"}]`)))
			got, err := store.Get(ctx, StorageKey)
			require.NoError(t, err)
			assert.Equal(t, `[{"id":"1"}]`, string(got))

			require.NoError(t, store.Set(ctx, StorageKey, []byte(`[]`)))
			got, err = store.Get(ctx, StorageKey)
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
		})
	}
}

func TestMemoryBlobStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryBlobStore()

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileBlobStoreLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileBlobStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, StorageKey, []byte("[]")))
	require.NoError(t, store.Set(ctx, StorageKey, []byte(`[{"id":"2"}]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"ecocrm_leads.json", "ecocrm_leads.json.lock"}, names)
}

func TestFileBlobStoreSanitizesKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileBlobStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "a_b.json"), store.path("a/b"))
}

func TestOpenBlobStoreUnknownDriver(t *testing.T) {
	_, closer, err := OpenBlobStore(context.Background(), StoreConfig{Driver: "mongo"}, zap.NewNop())
	assert.Error(t, err)
	assert.NotNil(t, closer)
}

func TestOpenBlobStoreFileDefault(t *testing.T) {
	store, closer, err := OpenBlobStore(context.Background(), StoreConfig{DataDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	defer closer()

	assert.IsType(t, &FileBlobStore{}, store)
}
