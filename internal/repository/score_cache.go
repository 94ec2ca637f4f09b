package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const scoreKeyPrefix = "trust:score:"

// RedisScoreCache memoizes derived trust scores with a TTL.
type RedisScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisScoreCache builds the cache. A zero ttl keeps entries until invalidated.
func NewRedisScoreCache(client *redis.Client, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{client: client, ttl: ttl}
}

func scoreKey(userID string) string {
	return scoreKeyPrefix + userID
}

// Get returns the cached score; ok is false on a miss.
func (c *RedisScoreCache) Get(ctx context.Context, userID string) (int, bool, error) {
	val, err := c.client.Get(ctx, scoreKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	score, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (c *RedisScoreCache) Set(ctx context.Context, userID string, score int) error {
	return c.client.Set(ctx, scoreKey(userID), score, c.ttl).Err()
}

func (c *RedisScoreCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, scoreKey(userID)).Err()
}
