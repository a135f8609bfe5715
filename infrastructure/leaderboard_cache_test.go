package infrastructure

import (
	"context"
	"testing"
	"time"

	"nexus/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *RedisLeaderboardCache {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
			Labels: map[string]string{
				"test":    "nexus-infrastructure",
				"cleanup": "auto",
			},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := ConnectRedis(ctx, endpoint, "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLeaderboardCache(client, time.Minute)
}

func TestRedisLeaderboardCache(t *testing.T) {
	cache := setupRedis(t)
	ctx := context.Background()

	entries := []*entities.RankEntry{
		{Rank: 1, UserID: 10, XP: 40, Level: 5},
		{Rank: 2, UserID: 20, XP: 90, Level: 4},
	}

	t.Run("miss before set", func(t *testing.T) {
		got, ok, err := cache.Get(ctx, 1, 10)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("hit after set", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, 1, 10, entries))

		got, ok, err := cache.Get(ctx, 1, 10)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, entries, got)

		_, ok, err = cache.Get(ctx, 1, 5)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = cache.Get(ctx, 2, 10)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalidate drops all limits", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, 1, 5, entries[:1]))
		require.NoError(t, cache.Invalidate(ctx, 1))

		for _, limit := range []int{5, 10} {
			_, ok, err := cache.Get(ctx, 1, limit)
			require.NoError(t, err)
			assert.False(t, ok)
		}
	})

	t.Run("later limits do not extend the ttl", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, 3, 10, entries))
		require.NoError(t, cache.client.Expire(ctx, leaderboardKey(3), 20*time.Second).Err())

		require.NoError(t, cache.Set(ctx, 3, 5, entries[:1]))

		ttl, err := cache.client.TTL(ctx, leaderboardKey(3)).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, 20*time.Second)
	})
}

func TestNoopLeaderboardCache(t *testing.T) {
	t.Parallel()

	var cache NoopLeaderboardCache
	require.NoError(t, cache.Set(context.Background(), 1, 10, nil))
	_, ok, err := cache.Get(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, ok)
}
