package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/calform/pkg/domain"
	"github.com/aretw0/calform/pkg/persistence/middleware"
	"github.com/aretw0/calform/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunKVStoreContract(t, mw(NewMockStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := NewMockStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)
	ctx := context.Background()

	if err := secureStore.Set(ctx, "k3d_la_bedX", "220"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// The underlying medium must only see ciphertext.
	stored, err := underlyingStore.Get(ctx, "k3d_la_bedX")
	if err != nil {
		t.Fatalf("Underlying get failed: %v", err)
	}
	if strings.Contains(stored, "220") || !strings.HasPrefix(stored, "enc:v1:") {
		t.Fatalf("Expected an encrypted envelope, found: %q", stored)
	}

	got, err := secureStore.Get(ctx, "k3d_la_bedX")
	if err != nil {
		t.Fatalf("Get via middleware failed: %v", err)
	}
	if got != "220" {
		t.Errorf("Expected '220', got %q", got)
	}
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)
	if err := oldStore.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}

	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	got, err := rotated.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Equal(t, "v", got)

	wrong := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	_, err = wrong.Get(ctx, "k")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainValues(t *testing.T) {
	underlyingStore := NewMockStore()
	_ = underlyingStore.Set(context.Background(), "k", "plain")

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	_, err := secureStore.Get(context.Background(), "k")
	assert.ErrorIs(t, err, middleware.ErrNotEncrypted)

	_, err = secureStore.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound, "absence passes through untouched")
}

func TestEncryptionMiddleware_InvalidKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
	assert.Len(t, middleware.KeyFromSecret("passphrase"), 32)
}
