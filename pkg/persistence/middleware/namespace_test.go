package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/calform/pkg/persistence/middleware"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamespaceMiddleware_Contract(t *testing.T) {
	ports.RunKVStoreContract(t, middleware.NewNamespaceMiddleware("profile:a:")(NewMockStore()))
}

func TestNamespaceMiddleware_Isolation(t *testing.T) {
	base := NewMockStore()
	ctx := context.Background()
	a := middleware.NewNamespaceMiddleware("a:")(base)
	b := middleware.NewNamespaceMiddleware("b:")(base)

	require.NoError(t, a.Set(ctx, "x", "1"))
	require.NoError(t, b.Set(ctx, "x", "2"))

	got, err := a.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "1", got)

	keys, err := b.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, keys)
	assert.Len(t, base.data, 2)
}

func TestChain_OuterFirst(t *testing.T) {
	base := NewMockStore()
	key := generateKey(t)
	store := middleware.Chain(base,
		middleware.NewNamespaceMiddleware("ns:"),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	require.NoError(t, store.Set(context.Background(), "x", "secret"))

	raw, ok := base.data["ns:x"]
	require.True(t, ok)
	assert.NotEqual(t, "secret", raw)

	got, err := store.Get(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}
