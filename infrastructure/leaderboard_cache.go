package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"nexus/domain/entities"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// keyLeaderboard is a hash per guild, one field per requested limit
const keyLeaderboard = "nexus:leaderboard:"

// RedisLeaderboardCache caches guild leaderboards in Redis
type RedisLeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLeaderboardCache creates a cache on an existing client
func NewRedisLeaderboardCache(client *redis.Client, ttl time.Duration) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{client: client, ttl: ttl}
}

// ConnectRedis opens a client and verifies it with a ping
func ConnectRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	log.WithField("addr", addr).Info("Connected to Redis")
	return client, nil
}

func leaderboardKey(guildID int64) string {
	return keyLeaderboard + strconv.FormatInt(guildID, 10)
}

// Get returns the cached rows and whether they were present
func (c *RedisLeaderboardCache) Get(ctx context.Context, guildID int64, limit int) ([]*entities.RankEntry, bool, error) {
	data, err := c.client.HGet(ctx, leaderboardKey(guildID), strconv.Itoa(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached leaderboard for guild %d: %w", guildID, err)
	}

	var entries []*entities.RankEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached leaderboard: %w", err)
	}
	return entries, true, nil
}

// Set stores rows for a guild and limit. The guild's TTL starts with its first
// cached limit and is not extended by later ones, so no row outlives it.
func (c *RedisLeaderboardCache) Set(ctx context.Context, guildID int64, limit int, entries []*entities.RankEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}

	key := leaderboardKey(guildID)
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(limit), data)
	pipe.ExpireNX(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache leaderboard for guild %d: %w", guildID, err)
	}
	return nil
}

// Invalidate drops every cached leaderboard of the guild
func (c *RedisLeaderboardCache) Invalidate(ctx context.Context, guildID int64) error {
	if err := c.client.Del(ctx, leaderboardKey(guildID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate leaderboard for guild %d: %w", guildID, err)
	}
	return nil
}

// NoopLeaderboardCache never holds anything. It stands in when Redis is not configured.
type NoopLeaderboardCache struct{}

// Get always misses
func (NoopLeaderboardCache) Get(ctx context.Context, guildID int64, limit int) ([]*entities.RankEntry, bool, error) {
	return nil, false, nil
}

// Set does nothing
func (NoopLeaderboardCache) Set(ctx context.Context, guildID int64, limit int, entries []*entities.RankEntry) error {
	return nil
}

// Invalidate does nothing
func (NoopLeaderboardCache) Invalidate(ctx context.Context, guildID int64) error {
	return nil
}
