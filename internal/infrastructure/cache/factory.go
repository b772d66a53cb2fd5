package cache

import (
	"fmt"

	"github.com/propman/backend/internal/domain/shared"
	"github.com/propman/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RunLockFactory creates run locks based on configuration
type RunLockFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RunLockFactoryOption is a functional option for configuring the factory
type RunLockFactoryOption func(*RunLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) RunLockFactoryOption {
	return func(f *RunLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory lock
// when Redis is unavailable. Default is true (allow fallback).
func WithInMemoryFallback(allow bool) RunLockFactoryOption {
	return func(f *RunLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRunLockFactory creates a new factory
func NewRunLockFactory(cfg config.RedisConfig, opts ...RunLockFactoryOption) *RunLockFactory {
	f := &RunLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisLock creates a Redis-based run lock
func (f *RunLockFactory) CreateRedisLock() (shared.RunLock, error) {
	lock, err := NewRedisRunLock(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis run lock: %w", err)
	}
	return lock, nil
}

// CreateInMemoryLock creates an in-memory run lock
// WARNING: In-memory locks do not share state across process instances,
// which allows concurrent generation runs in distributed deployments
func (f *RunLockFactory) CreateInMemoryLock() shared.RunLock {
	return NewInMemoryRunLock()
}

// CreateLock creates a run lock based on whether Redis is available.
// It tries Redis first and falls back to in-memory when allowed.
func (f *RunLockFactory) CreateLock() (shared.RunLock, error) {
	lock, err := f.CreateRedisLock()
	if err == nil {
		f.logger.Info("using Redis run lock")
		return lock, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for run locking but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory run lock. "+
		"Concurrent generation runs are not serialized across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryLock(), nil
}
