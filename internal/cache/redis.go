package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis. Keys are namespaced so that prefix
// invalidation and Len only touch this portal's entries.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore connects to redisURL (redis://host:port/db) and pings it.
func NewRedisStore(ctx context.Context, redisURL, namespace string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return &RedisStore{client: client, namespace: namespace}, nil
}

func (r *RedisStore) key(k string) string {
	return r.namespace + k
}

// Get returns the value for key. A missing key is not an error.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores value with ttl. A non-positive ttl never expires.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

// Delete removes key.
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// InvalidatePrefix deletes every key under prefix using SCAN.
func (r *RedisStore) InvalidatePrefix(ctx context.Context, prefix string) error {
	keys, err := r.scan(ctx, r.key(prefix)+"*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// Len counts the keys in the namespace.
func (r *RedisStore) Len(ctx context.Context) (int, error) {
	keys, err := r.scan(ctx, r.namespace+"*")
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Close closes the connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) scan(ctx context.Context, match string) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, match, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan %s: %w", match, err)
	}
	return keys, nil
}
