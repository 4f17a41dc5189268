package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sp500-dashboard/src/models"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares cached values between dashboard processes.
type RedisStore struct {
	client *redis.Client
}

// -----------------------------------------------------------------------------

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg models.MCacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	return &RedisStore{client: client}, nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// -----------------------------------------------------------------------------

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// -----------------------------------------------------------------------------

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// -----------------------------------------------------------------------------

func (r *RedisStore) Close() error {
	return r.client.Close()
}
