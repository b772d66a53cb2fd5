package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/propman/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// RedisRunLock implements RunLock using Redis
// This is suitable for distributed deployments where multiple instances
// must not generate bills or payouts for the same month concurrently
type RedisRunLock struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisRunLock creates a new Redis-based run lock
func NewRedisRunLock(cfg RedisConfig) (*RedisRunLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisRunLock{
		client:    client,
		keyPrefix: "billing:runlock:",
	}, nil
}

// NewRedisRunLockWithClient creates a run lock with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisRunLockWithClient(client *redis.Client, keyPrefix string) *RedisRunLock {
	if keyPrefix == "" {
		keyPrefix = "billing:runlock:"
	}
	return &RedisRunLock{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire attempts to take the lock for the key with a TTL.
// Uses SETNX so the check and the claim are a single atomic operation.
func (l *RedisRunLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return acquired, nil
}

// Release frees the lock before its TTL expires
func (l *RedisRunLock) Release(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisRunLock) Close() error {
	return l.client.Close()
}

// Ensure RedisRunLock implements RunLock
var _ shared.RunLock = (*RedisRunLock)(nil)
