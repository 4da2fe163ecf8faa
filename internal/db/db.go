package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/journal/internal/logger"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the backing store
type Options struct {
	Driver string // sqlite (default) or postgres
	Path   string // sqlite database file
	DSN    string // postgres connection string
}

// DB wraps the journal database connection
type DB struct {
	*sql.DB
	driver string
	now    func() time.Time
}

// Open opens or creates the journal database and runs migrations
func Open(ctx context.Context, opts Options) (*DB, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var dsn string
	switch driver {
	case DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite database path is empty")
		}
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// Writers wait on the lock instead of failing with SQLITE_BUSY
		dsn = opts.Path + "?_pragma=busy_timeout(5000)"
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres DSN is empty")
		}
		dsn = opts.DSN
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:     sqlDB,
		driver: driver,
		now:    time.Now,
	}

	if err := db.migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Database opened", logger.F("driver", driver))
	return db, nil
}

// Driver returns the name of the driver in use
func (db *DB) Driver() string {
	return db.driver
}

// SetClock overrides the time source used for date_created stamps
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

// rebind rewrites ? placeholders to $N for postgres
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
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
