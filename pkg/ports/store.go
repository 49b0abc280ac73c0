package ports

import "context"

// KVStore is the durable key-value medium behind the configuration store.
// Keys and values are plain strings; the medium survives process restarts
// until entries are explicitly deleted.
type KVStore interface {
	// Get returns the stored value for key.
	// Returns domain.ErrKeyNotFound if the key has no value.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored key, in no particular order.
	List(ctx context.Context) ([]string, error)
}
