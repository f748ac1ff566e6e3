package cache

import (
	"context"
	"fmt"
	"time"
)

// UserListCache holds the serialized username listing served by GET /api/users.
type UserListCache interface {
	// Get returns the cached usernames; ok is false on a cache miss.
	Get(ctx context.Context) (usernames []string, ok bool, err error)
	Set(ctx context.Context, usernames []string) error
	Invalidate(ctx context.Context) error
	Close() error
}

func NewUserListCache(cacheType, address string, ttl time.Duration) (UserListCache, error) {
	switch cacheType {
	case "", "none":
		return NoopCache{}, nil
	case "redis":
		return NewRedisCache(address, ttl)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	}
}

// NoopCache never stores anything.
type NoopCache struct{}

func (NoopCache) Get(context.Context) ([]string, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, []string) error         { return nil }
func (NoopCache) Invalidate(context.Context) error            { return nil }
func (NoopCache) Close() error                                { return nil }
