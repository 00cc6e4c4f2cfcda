// Package sqlstore provides a database/sql implementation of the storage.Store
// interface for SQLite and PostgreSQL.
package sqlstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/moneytravel/internal/storage"
)

// Supported dialects, named after their database/sql drivers.
const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on top of database/sql.
type Store struct {
	db      *sql.DB
	dialect string
}

// Open connects to the database and runs migrations.
// For sqlite, dsn may be a plain file path; parent directories are created and
// foreign keys are enabled on every connection.
func Open(dialect, dsn string) (*Store, error) {
	switch dialect {
	case DialectSQLite:
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	case DialectPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dialect)
	}

	if err := runMigrations(dialect, dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Store{db: db, dialect: dialect}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// sqliteDSN turns a file path into a modernc DSN with foreign keys and a busy
// timeout. DSNs already using the file: scheme keep their parameters but
// always get foreign keys, which ON DELETE CASCADE depends on.
func sqliteDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "file:") {
		if strings.Contains(dsn, "foreign_keys") {
			return dsn, nil
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		return dsn + sep + "_pragma=foreign_keys(1)", nil
	}
	if dir := filepath.Dir(dsn); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return "file:" + dsn + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
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

// now returns the current time at the precision stored in the database.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// nullMillis stores the zero time as NULL.
func nullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(ms sql.NullInt64) time.Time {
	if !ms.Valid {
		return time.Time{}
	}
	return fromMillis(ms.Int64)
}

// checkAffected maps an update or delete that touched no rows to storage.ErrNotFound.
func checkAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}
