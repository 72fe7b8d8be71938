package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iliyamo/dorm-booking/internal/database"
)

// MySQLStore implements Store on top of a MySQL connection pool.
type MySQLStore struct {
	boundRepos
	db       *sql.DB
	attempts int
}

// NewMySQLStore returns a Store backed by db.  Transactions that fail with
// a deadlock or lock wait timeout are retried up to three times.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{boundRepos: boundRepos{q: db}, db: db, attempts: 3}
}

// DB exposes the underlying pool for health checks and migrations.
func (s *MySQLStore) DB() *sql.DB { return s.db }

// InTx runs fn inside a single transaction.  The transaction is committed
// when fn returns nil and rolled back otherwise, including when ctx is
// cancelled before commit.
func (s *MySQLStore) InTx(ctx context.Context, fn func(tx Repos) error) error {
	return database.WithRetry(ctx, s.attempts, func() error {
		return s.runTx(ctx, fn)
	})
}

func (s *MySQLStore) runTx(ctx context.Context, fn func(tx Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(boundRepos{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
