package middleware

import (
	"context"
	"strings"

	"github.com/aretw0/calform/pkg/ports"
)

type namespaceMiddleware struct {
	next   ports.KVStore
	prefix string
}

// NewNamespaceMiddleware scopes every key under prefix, so several forms (or
// profiles) can share one medium without colliding.
func NewNamespaceMiddleware(prefix string) Middleware {
	return func(next ports.KVStore) ports.KVStore {
		return &namespaceMiddleware{next: next, prefix: prefix}
	}
}

func (m *namespaceMiddleware) Get(ctx context.Context, key string) (string, error) {
	return m.next.Get(ctx, m.prefix+key)
}

func (m *namespaceMiddleware) Set(ctx context.Context, key, value string) error {
	return m.next.Set(ctx, m.prefix+key, value)
}

func (m *namespaceMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, m.prefix+key)
}

// List returns only keys inside the namespace, with the prefix stripped.
func (m *namespaceMiddleware) List(ctx context.Context) ([]string, error) {
	all, err := m.next.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if rest, ok := strings.CutPrefix(k, m.prefix); ok {
			keys = append(keys, rest)
		}
	}
	return keys, nil
}
