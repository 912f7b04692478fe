package sqlstore

import (
	"context"

	"github.com/maxviazov/billing-admin-service/internal/repository"
)

type txManager struct{ s *Store }

func NewTxManager(s *Store) repository.TxManager { return &txManager{s: s} }

// WithinTx runs fn in a transaction carried through ctx. A nested call joins the
// outer transaction instead of opening a second one.
func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	tx, err := m.s.db.BeginTxx(ctx, nil)
	if err != nil {
		return repository.MapError(err)
	}
	defer func() {
		// no-op after a successful commit
		_ = tx.Rollback()
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		return repository.MapError(err)
	}
	if err := tx.Commit(); err != nil {
		return repository.MapError(err)
	}
	return nil
}

var _ repository.TxManager = (*txManager)(nil)
