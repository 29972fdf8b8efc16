package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/phrazzld/verba-api/internal/service/auth"
)

// MockRevoker implements auth.Revoker for testing
type MockRevoker struct {
	RevokeFn    func(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevokedFn func(ctx context.Context, jti string) (bool, error)

	mu      sync.Mutex
	Revoked map[string]time.Time
}

var _ auth.Revoker = (*MockRevoker)(nil)

// Revoke implements auth.Revoker
func (m *MockRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, jti, expiresAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Revoked == nil {
		m.Revoked = make(map[string]time.Time)
	}
	m.Revoked[jti] = expiresAt
	return nil
}

// IsRevoked implements auth.Revoker
func (m *MockRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if m.IsRevokedFn != nil {
		return m.IsRevokedFn(ctx, jti)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Revoked[jti]
	return ok, nil
}
