// Package sqlite manages the SQLite connections backing the local store.
package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	_ "embed"
)

//go:embed schema.sql
var schemaDefinition string

// Database holds a single-writer pool and a wider read-only pool.
//
// One writer connection sidesteps SQLITE_BUSY under concurrent writes while
// WAL mode lets readers scale out, see
// https://github.com/mattn/go-sqlite3/issues/1179#issuecomment-1638083995
type Database struct {
	ReadWrite *sql.DB
	ReadOnly  *sql.DB
	logger    *slog.Logger
}

// NewDatabase opens the database at url and applies the embedded schema.
// Pass ":memory:" for an in-memory database, as tests do.
func NewDatabase(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	db, err := connect(ctx, url, logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	start := time.Now()
	if _, err = db.ReadWrite.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "applied schema", slog.Duration("duration", time.Since(start)))

	return db, nil
}

const optimizedDriver = "sqlite3optimized"

// The driver can only be registered once per process.
var registerOnce sync.Once

func registerOptimizedDriver() {
	sql.Register(optimizedDriver,
		&sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				// Keep temp tables in memory and map the database into the
				// process address space to cut down on syscalls.
				if _, err := conn.Exec(
					"PRAGMA temp_store = memory;"+
						"PRAGMA mmap_size = 30000000000;", nil); err != nil {
					return fmt.Errorf("exec optimization pragmas: %w", err)
				}
				return nil
			},
		})
}

func connect(ctx context.Context, url string, logger *slog.Logger) (*Database, error) {
	// In-memory databases need shared cache mode so both pools see the same
	// data, and a unique name so parallel tests stay isolated. See
	// https://www.sqlite.org/inmemorydb.html.
	inMemoryConfig := ""
	if strings.Contains(url, ":memory:") {
		url = fmt.Sprintf("file:%s", rand.Text())
		inMemoryConfig = "mode=memory&cache=shared"
	}

	// Options with a leading underscore are go-sqlite3 connection settings
	// (https://pkg.go.dev/github.com/mattn/go-sqlite3#SQLiteDriver.Open), the
	// rest are SQLite URI parameters (https://www.sqlite.org/uri.html).
	commonConfig := strings.Join([]string{
		// Timestamps in the current time.Location.
		"_loc=auto",
		// Write-ahead logging for concurrent readers.
		"_journal_mode=wal",
		// Wait instead of failing with SQLITE_BUSY under load.
		"_busy_timeout=5000",
		// Trades some durability for speed, see
		// https://www.sqlite.org/pragma.html#pragma_synchronous.
		"_synchronous=normal",
		"_foreign_keys=on",
	}, "&")
	readConfig := fmt.Sprintf("file:%s?mode=ro&_txlock=deferred&_query_only=true&%s&%s", url, commonConfig, inMemoryConfig)
	readWriteConfig := fmt.Sprintf("file:%s?mode=rwc&_txlock=immediate&%s&%s", url, commonConfig, inMemoryConfig)

	registerOnce.Do(registerOptimizedDriver)

	readWriteDB, err := sql.Open(optimizedDriver, readWriteConfig)
	if err != nil {
		return nil, fmt.Errorf("open read-write database: %w", err)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "opened database", slog.String("sqlDsn", readWriteConfig))

	readWriteDB.SetMaxOpenConns(1)
	readWriteDB.SetMaxIdleConns(1)
	readWriteDB.SetConnMaxLifetime(time.Hour)
	readWriteDB.SetConnMaxIdleTime(time.Hour)

	// sql.Open is lazy, ping to surface connection problems here.
	if err = readWriteDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping read-write database: %w", err)
	}

	readDB, err := sql.Open(optimizedDriver, readConfig)
	if err != nil {
		return nil, fmt.Errorf("open read database: %w", err)
	}

	const maxReadConns = 10
	readDB.SetMaxOpenConns(maxReadConns)
	readDB.SetMaxIdleConns(maxReadConns)
	readDB.SetConnMaxLifetime(time.Hour)
	readDB.SetConnMaxIdleTime(time.Hour)

	return &Database{
		ReadWrite: readWriteDB,
		ReadOnly:  readDB,
		logger:    logger,
	}, nil
}

// Close closes both connection pools.
func (db *Database) Close() error {
	return errors.Join(db.ReadOnly.Close(), db.ReadWrite.Close())
}
