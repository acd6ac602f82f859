// SPDX-License-Identifier: MIT

package fingerprint

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_SeenOrInsert(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, true)
	ctx := context.Background()

	outcome, err := s.SeenOrInsert(ctx, "hash-1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, Fresh, outcome)

	outcome, err = s.SeenOrInsert(ctx, "hash-1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, Duplicate, outcome)
}

func TestRedisStore_DisabledNeverDuplicates(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, false)
	ctx := context.Background()

	outcome, err := s.SeenOrInsert(ctx, "hash-1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, Fresh, outcome)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, true)
	ctx := context.Background()

	_, err := s.SeenOrInsert(ctx, "hash-1", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	outcome, err := s.SeenOrInsert(ctx, "hash-1", time.Minute)
	require.NoError(t, err)
	require.Equal(t, Fresh, outcome)
}
