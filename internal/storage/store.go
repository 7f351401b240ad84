package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"pagebuilder/internal/domain"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported storage driver")
	ErrBadTableName      = errors.New("invalid table name")
)

// Supported drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongo"
)

// Drivers lists every accepted driver name.
var Drivers = []string{DriverMemory, DriverSQLite, DriverPostgres, DriverMySQL, DriverMongo}

// Config selects and addresses the slot store. When DSN is empty the
// connection string is assembled from the endpoint fields.
type Config struct {
	Driver     string
	DSN        string
	DataDir    string // sqlite file location when DSN is empty
	Table      string // SQL drivers
	Collection string // mongo
	Endpoint   Endpoint
}

// Endpoint holds discrete connection settings for network databases.
type Endpoint struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

const (
	DefaultTable      = "kv_slots"
	DefaultCollection = "slots"
	sqliteFileName    = "pagebuilder.db"
)

// Open connects to the store described by cfg.
func Open(ctx context.Context, cfg Config) (domain.KVStore, error) {
	table := cfg.Table
	if table == "" {
		table = DefaultTable
	}
	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, "":
		path := cfg.DSN
		if path == "" {
			path = filepath.Join(cfg.DataDir, sqliteFileName)
		}
		db, err := NewSQLite(path, table)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverPostgres:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = PostgresDSN(cfg.Endpoint)
		}
		return openSQLStore(ctx, DialectPostgres, dsn, table)
	case DriverMySQL:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = MySQLDSN(cfg.Endpoint)
		}
		return openSQLStore(ctx, DialectMySQL, dsn, table)
	case DriverMongo:
		uri := cfg.DSN
		if uri == "" {
			uri = MongoURI(cfg.Endpoint)
		}
		coll := cfg.Collection
		if coll == "" {
			coll = DefaultCollection
		}
		m, err := OpenMongo(ctx, uri, cfg.Endpoint.Database, coll)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
}

func openSQLStore(ctx context.Context, dialect Dialect, dsn, table string) (domain.KVStore, error) {
	db, err := OpenSQL(ctx, dialect, dsn, table)
	if err != nil {
		return nil, err
	}
	return db, nil
}
