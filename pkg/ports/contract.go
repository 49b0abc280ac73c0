package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKVStoreContract runs a suite of tests to verify that a KVStore implementation
// adheres to the defined interface contract.
func RunKVStoreContract(t *testing.T, store KVStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405") + "-"

	t.Run("Set and Get", func(t *testing.T) {
		key := prefix + "value"
		require.NoError(t, store.Set(ctx, key, "42"))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "42", got)

		// Overwrite keeps the last value.
		require.NoError(t, store.Set(ctx, key, "0,5"))
		got, err = store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "0,5", got)
	})

	t.Run("Empty Value Is Stored", func(t *testing.T) {
		key := prefix + "empty"
		require.NoError(t, store.Set(ctx, key, ""))

		got, err := store.Get(ctx, key)
		require.NoError(t, err, "an empty string is a value, not an absence")
		assert.Equal(t, "", got)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, prefix+"missing")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		key := prefix + "deleted"
		require.NoError(t, store.Set(ctx, key, "true"))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "Get after Delete should return ErrKeyNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Delete must be idempotent")
	})

	t.Run("List", func(t *testing.T) {
		k1 := prefix + "list-1"
		k2 := prefix + "list-2"
		require.NoError(t, store.Set(ctx, k1, "a"))
		require.NoError(t, store.Set(ctx, k2, "b"))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
