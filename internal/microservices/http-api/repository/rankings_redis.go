package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rankingsCacheKey = "rankings:leaderboard"

// RankingsCache keeps the rendered leaderboard payload in Redis so the
// ranked-list endpoint does not hit postgres on every scroll. Entries expire
// on a TTL; ratings drift slowly enough that staleness within the TTL is
// acceptable.
type RankingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRankingsCache connects to Redis and verifies the connection. A nil
// cache is valid and degrades to cache misses, so the API can run without
// Redis in development.
func NewRankingsCache(redisAddr, password string, ttl time.Duration) (*RankingsCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         redisAddr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RankingsCache{client: rdb, ttl: ttl}, nil
}

// Get returns the cached payload, reporting a miss for absent keys and for
// a nil cache.
func (c *RankingsCache) Get(ctx context.Context) ([]byte, bool, error) {
	if c == nil || c.client == nil {
		return nil, false, nil
	}
	payload, err := c.client.Get(ctx, rankingsCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (c *RankingsCache) Set(ctx context.Context, payload []byte) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, rankingsCacheKey, payload, c.ttl).Err()
}

// Invalidate drops the cached leaderboard, used after manual dish edits.
func (c *RankingsCache) Invalidate(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, rankingsCacheKey).Err()
}
