package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/animeflix/auth-service/application/port/outbound"
)

// NewClient connects to redis from a URL and verifies the connection.
func NewClient(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// SessionCacheAdapter holds at most one refresh token per username, each
// entry expiring with the token it stores.
type SessionCacheAdapter struct {
	client *redis.Client
}

func NewSessionCacheAdapter(client *redis.Client) outbound.SessionCache {
	return &SessionCacheAdapter{client: client}
}

// Set fully replaces the value under key. The previous value, if any, is
// gone after this call regardless of who wrote it.
func (a *SessionCacheAdapter) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := a.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session for %q: %w", key, err)
	}
	return nil
}

func (a *SessionCacheAdapter) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := a.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read session for %q: %w", key, err)
	}
	return value, true, nil
}

// Delete is idempotent; redis DEL of a missing key is a no-op.
func (a *SessionCacheAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session for %q: %w", key, err)
	}
	return nil
}
