package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nivesh/brokerlink/internal/server/store"
)

// WithTx runs fn inside a transaction. Nested calls reuse the ambient
// transaction rather than opening a new one.
func (s *Store) WithTx(ctx context.Context, fn func(store.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}

	txStore := &Store{db: s.db, q: tx}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, fmt.Errorf("sqlite: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}
