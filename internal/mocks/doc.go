// Package mocks provides hand-written function-field mocks for testing.
//
// Each mock implements one interface from the store, auth or service
// packages. Set the Fn field of a method to control its behaviour; when it
// is nil the mock returns the zero value and the mock's default Err.
//
//	words := &mocks.MockWordStore{
//	    FindByTextFn: func(ctx context.Context, userID uuid.UUID, text string) (*domain.Word, error) {
//	        return nil, store.ErrWordNotFound
//	    },
//	}
//
// Store mocks return themselves from WithTx so the same mock observes
// calls made inside a transaction. MockTransactor runs the function with a
// nil *sql.Tx.
package mocks
