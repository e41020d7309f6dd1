// internal/auth/blacklist.go
package auth

import (
	"context"
	"sync"
	"time"
)

// Blacklist holds revoked token identifiers (jti) until they expire.
type Blacklist interface {
	Add(ctx context.Context, jti string, ttl time.Duration) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// MemoryBlacklist is a process-local Blacklist. Expired entries are dropped
// on lookup and by Prune.
type MemoryBlacklist struct {
	entries map[string]time.Time
	mutex   sync.RWMutex
	now     func() time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (b *MemoryBlacklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.entries[jti] = b.now().Add(ttl)
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mutex.RLock()
	expiresAt, ok := b.entries[jti]
	b.mutex.RUnlock()
	if !ok {
		return false, nil
	}
	if b.now().Before(expiresAt) {
		return true, nil
	}

	b.mutex.Lock()
	if exp, still := b.entries[jti]; still && !b.now().Before(exp) {
		delete(b.entries, jti)
	}
	b.mutex.Unlock()
	return false, nil
}

// Prune removes expired entries and returns how many were removed.
func (b *MemoryBlacklist) Prune() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	now := b.now()
	removed := 0
	for jti, exp := range b.entries {
		if !now.Before(exp) {
			delete(b.entries, jti)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries, expired or not.
func (b *MemoryBlacklist) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.entries)
}

// RunPruner calls Prune every interval until ctx is done.
func (b *MemoryBlacklist) RunPruner(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := b.Prune(); n > 0 {
				customLog.Debugf("Blacklist: pruned %d expired entries", n)
			}
		}
	}
}
