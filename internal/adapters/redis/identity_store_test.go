package redis

import (
	"context"
	"testing"
	"time"

	domainauth "github.com/group38/ojweb/internal/domain/auth"
	"github.com/group38/ojweb/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestIdentityStore_ReplaceAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewIdentityStore(client, IdentityStoreOptions{})
	ctx := context.Background()

	identity := domainauth.Identity{
		ID:       "9223372036854775807",
		UserName: "alice",
		Role:     domainauth.AccessUser,
	}
	require.NoError(t, store.Replace(ctx, "sess-1", identity))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestIdentityStore_ReplaceIsWholesale(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewIdentityStore(client, IdentityStoreOptions{})
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "sess-2", domainauth.Identity{
		UserName: "bob", UserAvatar: "a.png", Role: domainauth.AccessAdmin,
	}))
	require.NoError(t, store.Replace(ctx, "sess-2", domainauth.NotLoggedIn()))

	got, err := store.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, domainauth.NotLoggedIn(), got)
	assert.Empty(t, got.UserAvatar)
}

func TestIdentityStore_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewIdentityStore(client, IdentityStoreOptions{})
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIdentityStore_DeleteAndTTL(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewIdentityStore(client, IdentityStoreOptions{Prefix: "test-identity:", TTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "sess-3", domainauth.Anonymous()))
	ttl, err := client.TTL(ctx, "test-identity:sess-3").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	require.NoError(t, store.Delete(ctx, "sess-3"))
	_, err = store.Get(ctx, "sess-3")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete(ctx, ""))
}

func TestIdentityStore_CompareAndReplaceRejectsStaleGeneration(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewIdentityStore(client, IdentityStoreOptions{Prefix: "test-cas:", TTL: time.Minute})
	ctx := context.Background()
	t.Cleanup(func() { client.Del(context.Background(), "test-cas:sess-4") })

	gen, err := store.Generation(ctx, "sess-4")
	require.NoError(t, err)
	assert.Zero(t, gen)

	bob := domainauth.Identity{UserName: "bob", Role: domainauth.AccessUser}
	require.NoError(t, store.Replace(ctx, "sess-4", bob))

	ok, err := store.CompareAndReplace(ctx, "sess-4", gen, domainauth.NotLoggedIn())
	require.NoError(t, err)
	assert.False(t, ok)
	got, err := store.Get(ctx, "sess-4")
	require.NoError(t, err)
	assert.Equal(t, bob, got)

	gen, err = store.Generation(ctx, "sess-4")
	require.NoError(t, err)
	ok, err = store.CompareAndReplace(ctx, "sess-4", gen, domainauth.NotLoggedIn())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIdentityStore_DeleteKeepsGeneration(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewIdentityStore(client, IdentityStoreOptions{Prefix: "test-cas:", TTL: time.Minute})
	ctx := context.Background()
	t.Cleanup(func() { client.Del(context.Background(), "test-cas:sess-5") })

	gen, err := store.Generation(ctx, "sess-5")
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "sess-5"))

	ok, err := store.CompareAndReplace(ctx, "sess-5", gen, domainauth.NotLoggedIn())
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = store.Get(ctx, "sess-5")
	assert.ErrorIs(t, err, ErrNotFound)
}
