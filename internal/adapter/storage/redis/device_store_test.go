package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeviceStore_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewDeviceStore(client)
	ctx := context.Background()

	userID := uuid.New()

	// Get before set => no device
	token, err := store.GetToken(ctx, userID)
	assert.NoError(t, err)
	assert.Empty(t, token)

	// Set
	err = store.SetToken(ctx, userID, "fcm-token-abc")
	require.NoError(t, err)

	// Get after set
	token, err = store.GetToken(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "fcm-token-abc", token)
}

func TestDeviceStore_OverwriteToken(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewDeviceStore(client)
	ctx := context.Background()

	userID := uuid.New()

	require.NoError(t, store.SetToken(ctx, userID, "old-token"))
	require.NoError(t, store.SetToken(ctx, userID, "new-token"))

	token, err := store.GetToken(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
}

func TestDeviceStore_IsolatedPerUser(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	store := NewDeviceStore(client)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()

	require.NoError(t, store.SetToken(ctx, alice, "alice-token"))

	token, err := store.GetToken(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, token)
}
