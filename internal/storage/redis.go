package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the fixed key the blob lives under.
const DefaultRedisKey = "wastewatch:blob"

// RedisBlob keeps the blob under one fixed key in redis. The client is
// owned by the caller; Close leaves it open.
type RedisBlob struct {
	client *redis.Client
	key    string
}

// NewRedisBlob returns a redis-backed blob. An empty key falls back to
// DefaultRedisKey.
func NewRedisBlob(client *redis.Client, key string) *RedisBlob {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisBlob{client: client, key: key}
}

// Load implements Blob.
func (b *RedisBlob) Load(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, fmt.Errorf("storage: redis get %s: %w", b.key, err)
	}
	return data, nil
}

// Save implements Blob.
func (b *RedisBlob) Save(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: redis set %s: %w", b.key, err)
	}
	return nil
}

// Close implements Blob.
func (b *RedisBlob) Close() error { return nil }
