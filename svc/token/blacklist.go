package token

import (
	"context"
	"sync"
	"time"
)

// Blacklist records revoked token IDs until the tokens would expire anyway.
type Blacklist interface {
	// Add revokes jti until expiresAt. It reports false when jti was
	// already revoked.
	Add(ctx context.Context, jti string, expiresAt time.Time) (bool, error)
	Contains(ctx context.Context, jti string) (bool, error)
}

// MemoryBlacklist is a Blacklist for a single process.
type MemoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

type MemoryBlacklistOption func(*MemoryBlacklist)

func WithMemoryClock(now func() time.Time) MemoryBlacklistOption {
	return func(b *MemoryBlacklist) { b.now = now }
}

func NewMemoryBlacklist(opts ...MemoryBlacklistOption) *MemoryBlacklist {
	b := &MemoryBlacklist{entries: make(map[string]time.Time), now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *MemoryBlacklist) Add(_ context.Context, jti string, expiresAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, exp := range b.entries {
		if !exp.After(now) {
			delete(b.entries, id)
		}
	}

	if _, ok := b.entries[jti]; ok {
		return false, nil
	}
	if expiresAt.After(now) {
		b.entries[jti] = expiresAt
	}
	return true, nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.entries[jti]
	return ok && exp.After(b.now()), nil
}
