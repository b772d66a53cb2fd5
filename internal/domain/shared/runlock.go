package shared

import (
	"context"
	"time"
)

// RunLock serializes generation runs that must have at most one writer, such
// as bill generation for a month. Locks expire after their TTL so a crashed
// run cannot wedge the month forever.
type RunLock interface {
	// Acquire attempts to take the lock for the given key with a TTL.
	// Returns true if the lock was newly acquired, false if another run
	// currently holds it.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release frees the lock so a subsequent run can proceed before the TTL
	Release(ctx context.Context, key string) error

	// Close closes the lock backend and releases resources
	Close() error
}

// RunLockConfig holds configuration for generation run locking
type RunLockConfig struct {
	// TTL bounds how long a single generation run may hold the lock
	// Default: 5 minutes
	TTL time.Duration

	// Enabled determines whether run locking is enforced
	// Default: true
	Enabled bool
}

// DefaultRunLockConfig returns the default run lock configuration
func DefaultRunLockConfig() RunLockConfig {
	return RunLockConfig{
		TTL:     5 * time.Minute,
		Enabled: true,
	}
}
