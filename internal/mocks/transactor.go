package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/verba-api/internal/store"
)

// MockTransactor implements store.Transactor without a database.
// fn runs with a nil *sql.Tx, and its error is returned unchanged.
type MockTransactor struct {
	// BeginErr, when set, is returned without running fn.
	BeginErr error

	mu         sync.Mutex
	Calls      int
	Committed  int
	RolledBack int
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTx implements store.Transactor.
func (m *MockTransactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.BeginErr != nil {
		return m.BeginErr
	}

	err := fn(ctx, nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.RolledBack++
		return err
	}
	m.Committed++
	return nil
}
