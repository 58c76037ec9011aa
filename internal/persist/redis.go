package persist

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBlobs is the durable blob store backed by Redis. Values are stored
// without a TTL; a suspended game has to survive arbitrarily long between
// sessions.
type RedisBlobs struct {
	client *redis.Client
}

// NewRedisBlobs creates a Redis-backed blob store.
func NewRedisBlobs(client *redis.Client) *RedisBlobs {
	return &RedisBlobs{client: client}
}

// Save writes the payload under key.
func (r *RedisBlobs) Save(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Load reads the payload under key, mapping redis.Nil to ErrNotFound.
func (r *RedisBlobs) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}
