package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/stretchr/testify/assert"
)

// MockStore is a map-backed KVStore used to check the contract suite itself.
type MockStore struct {
	data map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]string)}
}

func (m *MockStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return v, nil
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func TestKVStore_Contract(t *testing.T) {
	ports.RunKVStoreContract(t, NewMockStore())
}

func TestReporterFunc(t *testing.T) {
	var got []string
	var r ports.Reporter = ports.ReporterFunc(func(message string) {
		got = append(got, message)
	})

	r.Report("Failed to save file: disk full")
	assert.Equal(t, []string{"Failed to save file: disk full"}, got)
}
