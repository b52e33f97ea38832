package repositories

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKVStore is a Redis implementation of KVStore. It lets several service
// instances share cart state, at the cost of last-write-wins semantics on
// concurrent writes to the same tenant.
type RedisKVStore struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisKVStore creates a new RedisKVStore and verifies the connection
// with a ping.
func NewRedisKVStore(addr, password string) (*RedisKVStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisKVStore{
		client: client,
		ctx:    ctx,
	}, nil
}

// Get returns the value stored under key, and whether it was present.
func (s *RedisKVStore) Get(key string) (string, bool, error) {
	value, err := s.client.Get(s.ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with no expiry. Cart cleanup is handled by the
// auto-clear sweep, not by TTLs.
func (s *RedisKVStore) Set(key, value string) error {
	if err := s.client.Set(s.ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key. Removing a missing key is not an error.
func (s *RedisKVStore) Remove(key string) error {
	if err := s.client.Del(s.ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Keys returns all stored keys with the given prefix, using SCAN to avoid
// blocking the server on large keyspaces.
func (s *RedisKVStore) Keys(prefix string) ([]string, error) {
	keys := make([]string, 0)
	iter := s.client.Scan(s.ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(s.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys with prefix %s: %w", prefix, err)
	}
	return keys, nil
}

// Close releases the underlying Redis connection.
func (s *RedisKVStore) Close() error {
	return s.client.Close()
}
