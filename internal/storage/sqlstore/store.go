// Package sqlstore provides a database/sql implementation of the
// storage.Store interface for SQLite and PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/molodeztom/expense-splitting-app/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

const (
	dialectSQLite   = "sqlite"
	dialectPostgres = "postgres"
)

// dialect captures the differences between the supported databases.
type dialect struct {
	name   string
	driver string
}

// rebind rewrites ? placeholders into the dialect's form.
func (d dialect) rebind(query string) string {
	if d.name != dialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// lockClause is appended to a SELECT of a group row to lock it for the rest
// of the transaction. SQLite transactions hold the write lock from BEGIN, so
// it needs none.
func (d dialect) lockClause(exclusive bool) string {
	switch {
	case d.name != dialectPostgres:
		return ""
	case exclusive:
		return " FOR UPDATE"
	default:
		return " FOR SHARE"
	}
}

// Store implements storage.Store on top of database/sql.
type Store struct {
	db      *sql.DB
	dialect dialect
}

// OpenSQLite opens (creating if needed) a SQLite database at dbPath.
// It creates the parent directories and runs migrations automatically.
func OpenSQLite(dbPath string) (*Store, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Every pooled connection must enforce foreign keys for cascades to work.
	// Immediate transactions take the write lock up front, so a transaction
	// that reads before it writes never sees a ledger another one changes.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	return open(dialect{name: dialectSQLite, driver: "sqlite"}, dsn)
}

// OpenPostgres connects to the PostgreSQL database at databaseURL and runs
// migrations.
func OpenPostgres(databaseURL string) (*Store, error) {
	return open(dialect{name: dialectPostgres, driver: "postgres"}, databaseURL)
}

func open(d dialect, dsn string) (*Store, error) {
	if err := runMigrations(d, dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{db: db, dialect: d}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) exec(ctx context.Context, q dbtx, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) query(ctx context.Context, q dbtx, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, q dbtx, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// inTx runs fn inside a transaction, committing when it returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// lockGroup locks a group row until tx ends. Writers that change balances
// take a shared lock and member removal an exclusive one.
func (s *Store) lockGroup(ctx context.Context, tx *sql.Tx, groupID string, exclusive bool) error {
	var id string
	err := s.queryRow(ctx, tx,
		"SELECT id FROM expense_groups WHERE id = ?"+s.dialect.lockClause(exclusive),
		groupID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to lock group: %w", err)
	}
	return nil
}

// requireRow maps a zero-row update or delete to storage.ErrNotFound.
func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}
