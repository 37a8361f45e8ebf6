// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/userhub/internal/platform/constants"
)

// # Profile Cache

// CachedUserStore is a read-through Redis cache in front of another [UserStore].
//
// Only profiles are cached, keyed by id, plus a username to id index.
// Password hashes are never written to Redis. A Redis failure is logged and
// the call falls through to the wrapped store.
//
// Every write bumps a generation counter. A read fills the cache only if the
// counter is unchanged since before it queried the wrapped store, so a read
// that raced a write cannot put the old row back.
type CachedUserStore struct {
	next   UserStore
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedUserStore wraps next with a profile cache. A ttl of zero disables caching.
func NewCachedUserStore(next UserStore, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedUserStore {
	return &CachedUserStore{next: next, client: client, ttl: ttl, logger: logger}
}

func profileKey(id int64) string {
	return constants.RedisPrefixUser + "id:" + strconv.FormatInt(id, 10)
}

func usernameKey(username string) string {
	return constants.RedisPrefixUser + "username:" + username
}

// generationKey never expires; an expiring counter could restart at a value
// an in-flight read already observed.
var generationKey = constants.RedisPrefixUser + "generation"

// errStaleRead aborts a cache fill that lost a race with a write.
var errStaleRead = errors.New("user cache fill superseded by a write")

func (cache *CachedUserStore) enabled() bool {
	return cache.ttl > 0
}

// FindByID serves the profile from Redis when present.
func (cache *CachedUserStore) FindByID(context context.Context, id int64) (*User, error) {
	if !cache.enabled() {
		return cache.next.FindByID(context, id)
	}

	if user, ok := cache.readProfile(context, id); ok {
		return user, nil
	}

	generation, canFill := cache.readGeneration(context)
	user, err := cache.next.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if canFill {
		cache.writeProfile(context, user, generation)
	}
	return user, nil
}

// FindByUsername resolves username through the index, then the profile.
// An index entry pointing at a renamed profile counts as a miss.
func (cache *CachedUserStore) FindByUsername(context context.Context, username string) (*User, error) {
	if !cache.enabled() {
		return cache.next.FindByUsername(context, username)
	}

	if id, ok := cache.readIndex(context, username); ok {
		if user, ok := cache.readProfile(context, id); ok && user.Username == username {
			return user, nil
		}
	}

	generation, canFill := cache.readGeneration(context)
	user, err := cache.next.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}

	if canFill {
		cache.writeProfile(context, user, generation)
	}
	return user, nil
}

// PasswordHashByUsername is never cached.
func (cache *CachedUserStore) PasswordHashByUsername(context context.Context, username string) (string, error) {
	return cache.next.PasswordHashByUsername(context, username)
}

// PasswordHashByID is never cached.
func (cache *CachedUserStore) PasswordHashByID(context context.Context, id int64) (string, error) {
	return cache.next.PasswordHashByID(context, id)
}

// Create passes through; the new profile is cached on first read.
func (cache *CachedUserStore) Create(context context.Context, user *User) (*User, error) {
	return cache.next.Create(context, user)
}

// Update persists and then drops the cached profile of user.ID together
// with the index entry of its previous username.
func (cache *CachedUserStore) Update(context context.Context, user *User) (*User, error) {
	var previousUsernames []string
	if cache.enabled() {
		if previous, ok := cache.readProfile(context, user.ID); ok {
			previousUsernames = append(previousUsernames, previous.Username)
		}
	}

	updated, err := cache.next.Update(context, user)
	if err != nil {
		return nil, err
	}
	cache.invalidate(context, user.ID, previousUsernames...)
	return updated, nil
}

// ChangePassword persists and then drops the cached profile of id.
func (cache *CachedUserStore) ChangePassword(context context.Context, id int64, newHash string) error {
	if err := cache.next.ChangePassword(context, id, newHash); err != nil {
		return err
	}
	cache.invalidate(context, id)
	return nil
}

// List always reads the wrapped store.
func (cache *CachedUserStore) List(context context.Context) ([]User, error) {
	return cache.next.List(context)
}

// # Cache primitives

func (cache *CachedUserStore) readProfile(context context.Context, id int64) (*User, bool) {
	payload, err := cache.client.Get(context, profileKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.WarnContext(context, "user_cache_read_failed", slog.Int64("user_id", id), slog.Any("error", err))
		}
		return nil, false
	}

	user := &User{}
	if err := json.Unmarshal(payload, user); err != nil {
		cache.logger.WarnContext(context, "user_cache_decode_failed", slog.Int64("user_id", id), slog.Any("error", err))
		return nil, false
	}
	return user, true
}

func (cache *CachedUserStore) readIndex(context context.Context, username string) (int64, bool) {
	id, err := cache.client.Get(context, usernameKey(username)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.WarnContext(context, "user_cache_index_read_failed", slog.Any("error", err))
		}
		return 0, false
	}
	return id, true
}

// readGeneration returns the write counter ("" before the first write).
// ok is false when Redis is unreachable; the caller then skips the fill.
func (cache *CachedUserStore) readGeneration(context context.Context) (string, bool) {
	generation, err := cache.client.Get(context, generationKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		cache.logger.WarnContext(context, "user_cache_generation_read_failed", slog.Any("error", err))
		return "", false
	}
	return generation, true
}

// writeProfile fills the cache unless a write happened after generation was read.
func (cache *CachedUserStore) writeProfile(context context.Context, user *User, generation string) {
	payload, err := json.Marshal(user.Profile())
	if err != nil {
		cache.logger.WarnContext(context, "user_cache_encode_failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
		return
	}

	err = cache.client.Watch(context, func(tx *redis.Tx) error {
		current, err := tx.Get(context, generationKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleRead
		}

		_, err = tx.TxPipelined(context, func(pipe redis.Pipeliner) error {
			pipe.Set(context, profileKey(user.ID), payload, cache.ttl)
			pipe.Set(context, usernameKey(user.Username), user.ID, cache.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleRead), errors.Is(err, redis.TxFailedErr):
		cache.logger.DebugContext(context, "user_cache_fill_skipped", slog.Int64("user_id", user.ID))
	default:
		cache.logger.WarnContext(context, "user_cache_write_failed", slog.Int64("user_id", user.ID), slog.Any("error", err))
	}
}

// invalidate bumps the generation and drops the profile of id plus the given
// username index entries in one transaction.
func (cache *CachedUserStore) invalidate(context context.Context, id int64, usernames ...string) {
	if !cache.enabled() {
		return
	}

	keys := []string{profileKey(id)}
	for _, username := range usernames {
		keys = append(keys, usernameKey(username))
	}

	_, err := cache.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Incr(context, generationKey)
		pipe.Del(context, keys...)
		return nil
	})
	if err != nil {
		cache.logger.WarnContext(context, "user_cache_invalidate_failed", slog.Int64("user_id", id), slog.Any("error", fmt.Errorf("redis_user_cache_invalidate_failed: %w", err)))
	}
}
