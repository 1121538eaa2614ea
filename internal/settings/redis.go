package settings

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/kode4food/flowdesk/internal/config"
)

// RedisBackend persists preferences as Redis string keys
type RedisBackend struct {
	client *redis.Client
	prefix string
}

var _ Backend = (*RedisBackend)(nil)

// NewRedisBackend connects a backend using the settings configuration
func NewRedisBackend(cfg config.SettingsConfig) *RedisBackend {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisBackendWithClient(client, cfg.Prefix)
}

// NewRedisBackendWithClient wraps an existing Redis client
func NewRedisBackendWithClient(
	client *redis.Client, prefix string,
) *RedisBackend {
	return &RedisBackend{client: client, prefix: prefix}
}

func (r *RedisBackend) Load(
	ctx context.Context, key Key,
) (string, bool, error) {
	v, err := r.client.Get(ctx, r.keyFor(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisBackend) Save(ctx context.Context, key Key, value string) error {
	return r.client.Set(ctx, r.keyFor(key), value, 0).Err()
}

// Ping verifies that the Redis server is reachable
func (r *RedisBackend) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}

func (r *RedisBackend) keyFor(key Key) string {
	if r.prefix == "" {
		return "settings:" + string(key)
	}
	return r.prefix + ":settings:" + string(key)
}
