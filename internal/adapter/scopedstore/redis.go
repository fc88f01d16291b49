package scopedstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisMedium is the production storage Medium backed by Redis.
type RedisMedium struct {
	client *redis.Client
}

func NewRedisMedium(client *redis.Client) *RedisMedium {
	return &RedisMedium{client: client}
}

func (m *RedisMedium) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := m.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis GET: %w", err)
	}
	return val, true, nil
}

func (m *RedisMedium) Set(ctx context.Context, key, value string) error {
	if err := m.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis SET: %w", err)
	}
	return nil
}

func (m *RedisMedium) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := m.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis DEL: %w", err)
	}
	return nil
}

// Keys enumerates keys under prefix with SCAN rather than KEYS so a purge
// never blocks the server.
func (m *RedisMedium) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := m.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis SCAN: %w", err)
	}
	return keys, nil
}
