package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"testing"
	"time"

	"github.com/aretw0/charter/pkg/adapters/memory"
	"github.com/aretw0/charter/pkg/domain"
	"github.com/aretw0/charter/pkg/persistence/middleware"
	"github.com/aretw0/charter/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, middleware.KeySize)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func bookingSession(userID string) *domain.Session {
	s := domain.NewSession(userID, time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC))
	s.Step = domain.StepRemainingPayment
	s.Draft.Boat = "Bounty"
	s.Draft.ClientName = "Anna Petrova"
	return s
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSessionStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := NewMockStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)
	ctx := context.Background()

	require.NoError(t, secureStore.Save(ctx, "u1", bookingSession("u1")))

	stored, err := underlyingStore.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, stored.Draft.ClientName, "draft must not be stored in clear")
	assert.NotEmpty(t, stored.Sealed)
	assert.Equal(t, domain.StepRemainingPayment, stored.Step, "envelope keeps the step readable")
	assert.NotContains(t, string(stored.Sealed), "Anna")

	loaded, err := secureStore.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Anna Petrova", loaded.Draft.ClientName)
	assert.Empty(t, loaded.Sealed)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := NewMockStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)
	require.NoError(t, secureStoreOld.Save(ctx, "u1", bookingSession("u1")))

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "u1")
	require.NoError(t, err, "fallback key must decrypt")
	assert.Equal(t, "Bounty", loaded.Draft.Boat)

	require.NoError(t, secureStoreNew.Save(ctx, "u1", loaded))
	_, err = secureStoreOld.Load(ctx, "u1")
	assert.Error(t, err, "old key alone cannot read data sealed with the new key")
}

func TestEncryptionMiddleware_PlainSessionRejected(t *testing.T) {
	underlyingStore := NewMockStore()
	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)

	require.NoError(t, underlyingStore.Save(context.Background(), "u1", bookingSession("u1")))
	_, err := secureStore.Load(context.Background(), "u1")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)
	got, err := middleware.ParseKey(base64.StdEncoding.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, got)

	_, err = middleware.ParseKey(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
	_, err = middleware.ParseKey("%%%")
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.SessionStore) ports.SessionStore {
			order = append(order, name)
			return next
		}
	}
	middleware.Chain(NewMockStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, order)
}
