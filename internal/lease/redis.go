// SPDX-License-Identifier: MIT

package lease

import (
	"context"
	"errors"
	"time"

	"github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "podcastgen:lease:"

// releaseScript deletes the lease key only if it still belongs to the
// caller, a compare-and-delete that avoids releasing a lease another owner
// acquired after this caller's lease expired.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// acquireScript performs the reentrant-by-owner SET NX PX: it succeeds if
// the key is absent, or if it is already held by the same owner (in which
// case the TTL is refreshed).
var acquireScript = redis.NewScript(`
local current = redis.call("GET", KEYS[1])
if current == false or current == ARGV[1] then
	redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
	return 1
end
return 0
`)

// RedisManager is a Redis-backed lease manager for multi-node deployments.
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager wraps an existing Redis client.
func NewRedisManager(client *redis.Client) *RedisManager {
	return &RedisManager{client: client}
}

func (m *RedisManager) Acquire(ctx context.Context, groupID, ownerToken string, ttl time.Duration) (Result, error) {
	key := keyPrefix + groupID
	res, err := acquireScript.Run(ctx, m.client, []string{key}, ownerToken, ttl.Milliseconds()).Int()
	if err != nil {
		log.FromContext(ctx, "lease").Warn().Err(err).Str("group_id", groupID).Msg("redis acquire failed")
		return HeldByOther, err
	}
	if res == 1 {
		return Acquired, nil
	}
	return HeldByOther, nil
}

func (m *RedisManager) Release(ctx context.Context, groupID, ownerToken string) (ReleaseResult, error) {
	key := keyPrefix + groupID
	val, err := m.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return Absent, nil
	}
	if err != nil {
		return Absent, err
	}
	if val != ownerToken {
		return NotOwner, nil
	}
	deleted, err := releaseScript.Run(ctx, m.client, []string{key}, ownerToken).Int()
	if err != nil {
		return Absent, err
	}
	if deleted == 0 {
		return Absent, nil
	}
	return Released, nil
}

func (m *RedisManager) Status(ctx context.Context, groupID string) (Status, error) {
	key := keyPrefix + groupID
	pipe := m.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return Status{}, err
	}

	holder, err := getCmd.Result()
	if errors.Is(err, redis.Nil) {
		return Status{Held: false}, nil
	}
	if err != nil {
		return Status{}, err
	}
	remaining, err := ttlCmd.Result()
	if err != nil {
		return Status{}, err
	}
	return Status{Held: true, Holder: holder, ExpiresAt: time.Now().Add(remaining)}, nil
}

func (m *RedisManager) AnyActive(ctx context.Context) (bool, error) {
	iter := m.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		return true, nil
	}
	return false, iter.Err()
}
