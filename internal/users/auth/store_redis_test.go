// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/userhub/internal/users/auth"
	"github.com/taibuivan/userhub/internal/users/auth/authtest"
)

const cacheTTL = 5 * time.Minute

func newCachedStore(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *authtest.Store, *auth.CachedUserStore) {
	t.Helper()

	server, client := newRedis(t)
	backing := authtest.NewStore()
	backing.Seed(auth.User{ID: 7, Username: "jdoe1", Firstname: "John", Lastname: "Doe", PasswordHash: "$2a$04$secret-hash"})

	return server, backing, auth.NewCachedUserStore(backing, client, ttl, discardLogger())
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

// pausingStore holds the first FindByID after the row is read until resume is closed.
type pausingStore struct {
	auth.UserStore
	once    sync.Once
	fetched chan struct{}
	resume  chan struct{}
}

func (store *pausingStore) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	user, err := store.UserStore.FindByID(ctx, id)
	store.once.Do(func() {
		close(store.fetched)
		<-store.resume
	})
	return user, err
}

func TestCachedUserStore_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from redis", func(t *testing.T) {
		server, backing, cache := newCachedStore(t, cacheTTL)

		first, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)
		second, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, backing.Calls(authtest.FindByID))
		assert.Equal(t, cacheTTL, server.TTL("users:profile:id:7"))
	})

	t.Run("password hash never reaches redis", func(t *testing.T) {
		server, _, cache := newCachedStore(t, cacheTTL)

		_, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)

		payload, err := server.Get("users:profile:id:7")
		require.NoError(t, err)
		assert.Contains(t, payload, "jdoe1")
		assert.NotContains(t, payload, "secret-hash")
	})

	t.Run("not found is not cached", func(t *testing.T) {
		server, backing, cache := newCachedStore(t, cacheTTL)

		_, err := cache.FindByID(ctx, 999)
		assert.ErrorIs(t, err, auth.ErrNotFound)
		_, err = cache.FindByID(ctx, 999)
		assert.ErrorIs(t, err, auth.ErrNotFound)

		assert.Equal(t, 2, backing.Calls(authtest.FindByID))
		assert.False(t, server.Exists("users:profile:id:999"))
	})

	t.Run("redis failure falls through", func(t *testing.T) {
		server, backing, cache := newCachedStore(t, cacheTTL)
		server.SetError("ERR cache unavailable")

		user, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "jdoe1", user.Username)
		assert.Equal(t, 1, backing.Calls(authtest.FindByID))
	})

	t.Run("zero ttl disables caching", func(t *testing.T) {
		server, backing, cache := newCachedStore(t, 0)

		_, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)
		_, err = cache.FindByID(ctx, 7)
		require.NoError(t, err)

		assert.Equal(t, 2, backing.Calls(authtest.FindByID))
		assert.Empty(t, server.Keys())
	})
}

func TestCachedUserStore_FindByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("index resolves to cached profile", func(t *testing.T) {
		_, backing, cache := newCachedStore(t, cacheTTL)

		_, err := cache.FindByUsername(ctx, "jdoe1")
		require.NoError(t, err)
		user, err := cache.FindByUsername(ctx, "jdoe1")
		require.NoError(t, err)

		assert.Equal(t, int64(7), user.ID)
		assert.Equal(t, 1, backing.Calls(authtest.FindByUsername))
	})

	t.Run("renamed user is not served under the old name", func(t *testing.T) {
		_, backing, cache := newCachedStore(t, cacheTTL)

		_, err := cache.FindByUsername(ctx, "jdoe1")
		require.NoError(t, err)
		_, err = cache.Update(ctx, &auth.User{ID: 7, Username: "jdoe2", Firstname: "John", Lastname: "Doe"})
		require.NoError(t, err)
		_, err = cache.FindByID(ctx, 7)
		require.NoError(t, err)

		_, err = cache.FindByUsername(ctx, "jdoe1")
		assert.ErrorIs(t, err, auth.ErrNotFound)
		assert.Equal(t, 2, backing.Calls(authtest.FindByUsername))
	})
}

func TestCachedUserStore_Invalidation(t *testing.T) {
	ctx := context.Background()

	t.Run("update drops the cached profile", func(t *testing.T) {
		server, _, cache := newCachedStore(t, cacheTTL)

		_, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)
		require.True(t, server.Exists("users:profile:id:7"))

		_, err = cache.Update(ctx, &auth.User{ID: 7, Username: "jdoe1", Firstname: "Johnny", Lastname: "Doe"})
		require.NoError(t, err)
		assert.False(t, server.Exists("users:profile:id:7"))

		user, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "Johnny", user.Firstname)
	})

	t.Run("password change drops the cached profile", func(t *testing.T) {
		server, backing, cache := newCachedStore(t, cacheTTL)

		_, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)

		require.NoError(t, cache.ChangePassword(ctx, 7, "$2a$04$new-hash"))
		assert.False(t, server.Exists("users:profile:id:7"))
		assert.Equal(t, "$2a$04$new-hash", backing.Hash(7))
	})

	t.Run("rename drops the old username index", func(t *testing.T) {
		server, _, cache := newCachedStore(t, cacheTTL)

		_, err := cache.FindByUsername(ctx, "jdoe1")
		require.NoError(t, err)
		require.True(t, server.Exists("users:profile:username:jdoe1"))

		_, err = cache.Update(ctx, &auth.User{ID: 7, Username: "jdoe9", Firstname: "John", Lastname: "Doe"})
		require.NoError(t, err)
		assert.False(t, server.Exists("users:profile:username:jdoe1"))
		assert.False(t, server.Exists("users:profile:id:7"))
	})

	t.Run("failed update keeps the cache", func(t *testing.T) {
		server, _, cache := newCachedStore(t, cacheTTL)

		_, err := cache.FindByID(ctx, 7)
		require.NoError(t, err)

		_, err = cache.Update(ctx, &auth.User{ID: 999, Username: "ghost"})
		assert.ErrorIs(t, err, auth.ErrNotFound)
		assert.True(t, server.Exists("users:profile:id:7"))
	})
}

func TestCachedUserStore_PasswordHashesBypassCache(t *testing.T) {
	server, backing, cache := newCachedStore(t, cacheTTL)

	hash, err := cache.PasswordHashByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "$2a$04$secret-hash", hash)

	_, err = cache.PasswordHashByUsername(context.Background(), "jdoe1")
	require.NoError(t, err)

	assert.Equal(t, 1, backing.Calls(authtest.PasswordHashByID))
	assert.Empty(t, server.Keys())
}

/*
TestCachedUserStore_ReadRacingUpdate holds a cache-miss read between its
database query and its cache fill while an update renames the user. The
read must not put the old row back into Redis.
*/
func TestCachedUserStore_ReadRacingUpdate(t *testing.T) {
	ctx := context.Background()
	server, client := newRedis(t)

	backing := authtest.NewStore()
	backing.Seed(auth.User{ID: 7, Username: "jdoe1", Firstname: "John", Lastname: "Doe", PasswordHash: "$2a$04$secret-hash"})
	paused := &pausingStore{UserStore: backing, fetched: make(chan struct{}), resume: make(chan struct{})}
	cache := auth.NewCachedUserStore(paused, client, cacheTTL, discardLogger())

	inFlight := make(chan *auth.User, 1)
	go func() {
		user, err := cache.FindByID(ctx, 7)
		assert.NoError(t, err)
		inFlight <- user
	}()

	<-paused.fetched
	_, err := cache.Update(ctx, &auth.User{ID: 7, Username: "jdoe9", Firstname: "John", Lastname: "Doe"})
	require.NoError(t, err)
	close(paused.resume)

	stale := <-inFlight
	require.NotNil(t, stale)
	assert.Equal(t, "jdoe1", stale.Username)
	assert.False(t, server.Exists("users:profile:id:7"))
	assert.False(t, server.Exists("users:profile:username:jdoe1"))

	_, err = cache.FindByUsername(ctx, "jdoe1")
	assert.ErrorIs(t, err, auth.ErrNotFound)

	fresh, err := cache.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "jdoe9", fresh.Username)
	assert.True(t, server.Exists("users:profile:id:7"))
}
