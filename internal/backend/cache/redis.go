package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	userListKey     = "goprofile:users:usernames"
	defaultCacheTTL = 30 * time.Second
)

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(address string, ttl time.Duration) (*RedisCache, error) {
	if address == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: address}),
		ttl:    ttl,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context) ([]string, bool, error) {
	payload, err := c.client.Get(ctx, userListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var usernames []string
	if err := json.Unmarshal(payload, &usernames); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached user list: %w", err)
	}
	return usernames, true, nil
}

func (c *RedisCache) Set(ctx context.Context, usernames []string) error {
	if usernames == nil {
		usernames = []string{}
	}
	payload, err := json.Marshal(usernames)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userListKey, payload, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, userListKey).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
