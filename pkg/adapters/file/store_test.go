package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/calform/pkg/adapters/file"
	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements KVStore
var _ ports.KVStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nested", "config.json"))
	ports.RunKVStoreContract(t, store)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	ctx := context.Background()

	require.NoError(t, file.New(path).Set(ctx, "k3d_la_delta", "true"))

	reopened := file.New(path)
	got, err := reopened.Get(ctx, "k3d_la_delta")
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStore_MissingDocument(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "absent.json"))
	ctx := context.Background()

	_, err := store.Get(ctx, "any")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	assert.NoError(t, store.Delete(ctx, "any"))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStore_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := file.New(path).Get(context.Background(), "any")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
}
