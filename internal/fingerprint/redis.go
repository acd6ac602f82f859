// SPDX-License-Identifier: MIT

package fingerprint

import (
	"context"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces fingerprint keys within a shared Redis database.
const keyPrefix = "podcastgen:fingerprint:"

// RedisStore is a Redis-backed fingerprint store for multi-node
// deployments, using SETNX for the atomic test-and-set and Redis's native
// key expiry for TTL — no background sweep is required, so PurgeExpired is
// a no-op kept only to satisfy the Store interface.
type RedisStore struct {
	client  *redis.Client
	enabled bool
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client *redis.Client, enabled bool) *RedisStore {
	return &RedisStore{client: client, enabled: enabled}
}

// SeenOrInsert implements Store.
func (s *RedisStore) SeenOrInsert(ctx context.Context, hash string, ttl time.Duration) (Outcome, error) {
	if !s.enabled {
		return Fresh, nil
	}

	key := keyPrefix + hash
	inserted, err := s.client.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
	if err != nil {
		log.FromContext(ctx, "fingerprint").Warn().Err(err).Str("hash", hash).Msg("redis setnx failed")
		return Fresh, err
	}
	if inserted {
		return Fresh, nil
	}
	return Duplicate, nil
}

// PurgeExpired implements Store. Redis expires keys natively, so this is a
// no-op that exists only to satisfy the interface.
func (s *RedisStore) PurgeExpired(_ context.Context) (int, error) {
	return 0, nil
}
