package auth

import (
	"context"
	"sync"
	"time"
)

// Revoker records logged-out token ids until the tokens would have
// expired anyway.
type Revoker interface {
	// Revoke marks jti as revoked until expiresAt. Past expiries are ignored.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error

	// IsRevoked reports whether jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevoker keeps revocations in process memory. It serves single
// instance deployments that run without Redis.
type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevoker creates an empty MemoryRevoker.
func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Ensure MemoryRevoker implements Revoker interface
var _ Revoker = (*MemoryRevoker)(nil)

// Revoke implements Revoker.Revoke
func (r *MemoryRevoker) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !expiresAt.After(now) {
		return nil
	}
	r.entries[jti] = expiresAt
	r.pruneLocked(now)
	return nil
}

// IsRevoked implements Revoker.IsRevoked
func (r *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	until, ok := r.entries[jti]
	if !ok {
		return false, nil
	}
	if !until.After(r.now()) {
		delete(r.entries, jti)
		return false, nil
	}
	return true, nil
}

func (r *MemoryRevoker) pruneLocked(now time.Time) {
	for jti, until := range r.entries {
		if !until.After(now) {
			delete(r.entries, jti)
		}
	}
}
