// Package session keeps the list of session tokens that were logged out
// before their natural expiry.
package session

import (
	"context"
	"sync"
	"time"
)

// Revoker records revoked token IDs (jti) until the token would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevoker keeps revocations in process memory. Entries are dropped by Sweep
// once their token has expired.
type MemoryRevoker struct {
	mu      sync.RWMutex
	entries map[string]time.Time // jti -> token expiry
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{entries: make(map[string]time.Time)}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[jti] = expiresAt
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[jti]
	return ok, nil
}

// Sweep removes entries whose token expired before now and returns how many were removed.
func (m *MemoryRevoker) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for jti, exp := range m.entries {
		if now.After(exp) {
			delete(m.entries, jti)
			removed++
		}
	}
	return removed
}

func (m *MemoryRevoker) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
