package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"acquisti/internal/core"

	_ "modernc.org/sqlite"
)

// Store owns the SQLite schema and connection lifecycle. Connections
// come from the database/sql pool, one per operation; every mutating
// operation runs inside a single transaction so a failed call leaves
// the dataset exactly as it was.
type Store struct {
	db *sql.DB
}

// Open creates the backing directory if absent, opens the database and
// brings the schema up to date. Migration is idempotent: a fresh file
// gets the schema once, an existing file is left alone.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// withTx runs fn inside one transaction, rolling back on any error so
// partial writes are never observable.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.StorageError{Op: op, Err: fmt.Errorf("begin: %w", err)}
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return &core.StorageError{Op: op, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx, so read helpers can
// run standalone or inside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
