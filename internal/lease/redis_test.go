// SPDX-License-Identifier: MIT

package lease

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *RedisManager) {
	t.Helper()
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, NewRedisManager(client)
}

func TestRedisManager_AcquireExclusive(t *testing.T) {
	mr, m := setupMiniRedis(t)
	defer mr.Close()
	ctx := context.Background()

	res, err := m.Acquire(ctx, "group-1", "owner-a", time.Minute)
	require.NoError(t, err)
	require.Equal(t, Acquired, res)

	res, err = m.Acquire(ctx, "group-1", "owner-b", time.Minute)
	require.NoError(t, err)
	require.Equal(t, HeldByOther, res)
}

func TestRedisManager_ReentrantByOwner(t *testing.T) {
	mr, m := setupMiniRedis(t)
	defer mr.Close()
	ctx := context.Background()

	_, err := m.Acquire(ctx, "group-1", "owner-a", time.Minute)
	require.NoError(t, err)

	res, err := m.Acquire(ctx, "group-1", "owner-a", 2*time.Minute)
	require.NoError(t, err)
	require.Equal(t, Acquired, res)
}

func TestRedisManager_ReleaseRequiresOwnership(t *testing.T) {
	mr, m := setupMiniRedis(t)
	defer mr.Close()
	ctx := context.Background()

	_, err := m.Acquire(ctx, "group-1", "owner-a", time.Minute)
	require.NoError(t, err)

	res, err := m.Release(ctx, "group-1", "owner-b")
	require.NoError(t, err)
	require.Equal(t, NotOwner, res)

	res, err = m.Release(ctx, "group-1", "owner-a")
	require.NoError(t, err)
	require.Equal(t, Released, res)
}

func TestRedisManager_ExpiredLeaseCanBeReacquired(t *testing.T) {
	mr, m := setupMiniRedis(t)
	defer mr.Close()
	ctx := context.Background()

	_, err := m.Acquire(ctx, "group-1", "owner-a", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	res, err := m.Acquire(ctx, "group-1", "owner-b", time.Minute)
	require.NoError(t, err)
	require.Equal(t, Acquired, res)
}

func TestRedisManager_AnyActive(t *testing.T) {
	mr, m := setupMiniRedis(t)
	defer mr.Close()
	ctx := context.Background()

	active, err := m.AnyActive(ctx)
	require.NoError(t, err)
	require.False(t, active)

	_, err = m.Acquire(ctx, "group-1", "owner-a", time.Minute)
	require.NoError(t, err)

	active, err = m.AnyActive(ctx)
	require.NoError(t, err)
	require.True(t, active)
}
