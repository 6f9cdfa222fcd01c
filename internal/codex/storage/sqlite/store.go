package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dusk-meridian/codex-cache/internal/codex/storage"
	"github.com/dusk-meridian/codex-cache/internal/codex/storage/sqlite/migrations"
	sqlitemigrate "github.com/dusk-meridian/codex-cache/internal/platform/storage/sqlitemigrate"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for all codex cache tables.
type Store struct {
	sqlDB *sql.DB
}

// Open opens and migrates a codex cache SQLite store.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CountTable returns the row count of one declared table.
func (s *Store) CountTable(ctx context.Context, table string) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if !isDeclaredTable(table) {
		return 0, fmt.Errorf("count table %q: %w", table, storage.ErrUnknownTable)
	}

	var count int64
	row := s.sqlDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count table %s: %w", table, err)
	}
	return count, nil
}

// ClearTable removes all rows from one declared table. Clearing an empty
// table is a no-op.
func (s *Store) ClearTable(ctx context.Context, table string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if !isDeclaredTable(table) {
		return fmt.Errorf("clear table %q: %w", table, storage.ErrUnknownTable)
	}

	if _, err := s.sqlDB.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear table %s: %w", table, err)
	}
	return nil
}

// isDeclaredTable guards dynamic table names against the schema registry.
func isDeclaredTable(name string) bool {
	return name == storage.TableCacheMetadata || storage.IsDataTable(name)
}

// bulkUpsert executes one upsert statement per record inside a single
// transaction, so a failed bulk refresh applies no changes.
func (s *Store) bulkUpsert(ctx context.Context, op, stmtSQL string, count int, bind func(i int) []any) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if count == 0 {
		return nil
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	for i := 0; i < count; i++ {
		if _, err := stmt.ExecContext(ctx, bind(i)...); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: close statement: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var _ storage.Store = (*Store)(nil)
