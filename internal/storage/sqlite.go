package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names a database/sql driver the slot table can live in.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// DB wraps a SQL connection holding the slot table.
type DB struct {
	conn    *sql.DB
	dialect Dialect
	table   string
}

// NewSQLite opens (or creates) the SQLite file at dbPath.
func NewSQLite(dbPath, table string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return OpenSQL(context.Background(), DialectSQLite, dbPath+"?_journal_mode=WAL&_busy_timeout=5000", table)
}

// OpenSQL connects with dialect's driver and runs the migrations.
func OpenSQL(ctx context.Context, dialect Dialect, dsn, table string) (*DB, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrBadTableName, table)
	}
	conn, err := sql.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// SQLite only supports one writer; a single connection avoids SQLITE_BUSY
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect %s: %w", dialect, err)
	}

	db := &DB{conn: conn, dialect: dialect, table: table}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Dialect reports which SQL flavour the store speaks.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

func (db *DB) migrate(ctx context.Context) error {
	var migrations []string
	switch db.dialect {
	case DialectPostgres:
		migrations = []string{
			`CREATE TABLE IF NOT EXISTS ` + db.table + ` (
				slot TEXT PRIMARY KEY,
				payload TEXT NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)`,
		}
	case DialectMySQL:
		migrations = []string{
			`CREATE TABLE IF NOT EXISTS ` + db.table + ` (
				slot VARCHAR(191) NOT NULL PRIMARY KEY,
				payload LONGTEXT NOT NULL,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			) DEFAULT CHARSET=utf8mb4`,
		}
	default:
		migrations = []string{
			`CREATE TABLE IF NOT EXISTS ` + db.table + ` (
				slot TEXT PRIMARY KEY,
				payload TEXT NOT NULL,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		}
	}

	for _, m := range migrations {
		if _, err := db.conn.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed on %s: %w", db.table, err)
		}
	}
	return nil
}

// placeholder returns the n-th (1-based) bind parameter for the dialect.
func (db *DB) placeholder(n int) string {
	if db.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Get returns the slot's payload.
func (db *DB) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	err := db.conn.QueryRowContext(ctx,
		`SELECT payload FROM `+db.table+` WHERE slot = `+db.placeholder(1), key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get slot %s: %w", key, err)
	}
	return []byte(payload), true, nil
}

// Set upserts the slot's payload.
func (db *DB) Set(ctx context.Context, key string, value []byte) error {
	var q string
	if db.dialect == DialectMySQL {
		q = `INSERT INTO ` + db.table + ` (slot, payload, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)`
	} else {
		q = fmt.Sprintf(`INSERT INTO %s (slot, payload, updated_at) VALUES (%s, %s, %s)
			ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
			db.table, db.placeholder(1), db.placeholder(2), db.placeholder(3))
	}
	if _, err := db.conn.ExecContext(ctx, q, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}
	return nil
}
