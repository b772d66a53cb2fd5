package cache

import (
	"context"
	"sync"
	"time"

	"github.com/propman/backend/internal/domain/shared"
)

// lockEntry represents a held lock with expiration
type lockEntry struct {
	expiresAt time.Time
}

// InMemoryRunLock implements RunLock using an in-memory map
// This is suitable for single-instance deployments and testing
type InMemoryRunLock struct {
	mu        sync.Mutex
	locks     map[string]lockEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRunLock creates a new in-memory run lock
// It starts a background goroutine to clean up expired locks
func NewInMemoryRunLock() *InMemoryRunLock {
	l := &InMemoryRunLock{
		locks:    make(map[string]lockEntry),
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Acquire attempts to take the lock for the key with a TTL.
// Returns false when the lock is held and not yet expired.
func (l *InMemoryRunLock) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, exists := l.locks[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	l.locks[key] = lockEntry{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// Release frees the lock
func (l *InMemoryRunLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
	return nil
}

// Close stops the cleanup goroutine and releases resources
// Safe to call multiple times
func (l *InMemoryRunLock) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopChan)
		l.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired locks
func (l *InMemoryRunLock) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *InMemoryRunLock) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, e := range l.locks {
		if now.After(e.expiresAt) {
			delete(l.locks, key)
		}
	}
}

// Size returns the number of held locks (for testing/monitoring)
func (l *InMemoryRunLock) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Ensure InMemoryRunLock implements RunLock
var _ shared.RunLock = (*InMemoryRunLock)(nil)
