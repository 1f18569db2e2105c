// Package seeddb provides a single-connection handle to a local SQLite
// database that can be initialized with a seed script.
package seeddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nsqlite/nsqliteseed/internal/log"
)

// Config represents the configuration for a Database handle.
type Config struct {
	// Logger is the shared nsqliteseed logger.
	Logger log.Logger
	// Location is a file path, ":memory:" or a "file:" URI.
	Location string
	// Script is the seed script run by Seed. Defaults to DefaultScript.
	Script Script
	// DisableOptimizations disables the WAL journal and relaxed sync
	// settings applied to the connection.
	DisableOptimizations bool
}

// Database owns one open connection to a SQLite database.
//
// A Database is not safe for concurrent use, callers must serialize
// access or open independent handles.
type Database struct {
	Config
	state state
	sqlDB *sql.DB
	conn  *sql.Conn
}

// TableInfo describes a user table and how many rows it holds.
type TableInfo struct {
	Name string
	Rows int64
}

// ReadResult represents the result of a read query.
type ReadResult struct {
	Columns []string
	Rows    [][]any
}

// Open opens the database at config.Location and returns an open handle.
//
// The database file is read and write-locked before returning, so an
// invalid, missing or unwritable location fails here with a
// *ConnectionError. A "file:" URI with mode=ro skips the write check.
func Open(ctx context.Context, config Config) (*Database, error) {
	if !config.Logger.IsInitialized() {
		return nil, errors.New("logger is required")
	}
	if config.Script.IsZero() {
		config.Script = DefaultScript()
	}

	dsn, err := createDSN(config.Location, config.DisableOptimizations)
	if err != nil {
		return nil, &ConnectionError{Location: config.Location, Err: err}
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, &ConnectionError{Location: config.Location, Err: err}
	}
	sqlDB.SetConnMaxIdleTime(0)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		_ = sqlDB.Close()
		return nil, &ConnectionError{
			Location: config.Location,
			Err:      fmt.Errorf("failed to get connection: %w", err),
		}
	}

	var schemaVersion int64
	err = conn.QueryRowContext(ctx, "PRAGMA schema_version").Scan(&schemaVersion)
	if err != nil {
		_ = conn.Close()
		_ = sqlDB.Close()
		return nil, &ConnectionError{
			Location: config.Location,
			Err:      fmt.Errorf("failed to read database file: %w", err),
		}
	}

	if !isReadOnlyLocation(config.Location) {
		if err := checkWritable(ctx, conn); err != nil {
			_ = conn.Close()
			_ = sqlDB.Close()
			return nil, &ConnectionError{
				Location: config.Location,
				Err:      fmt.Errorf("database is not writable: %w", err),
			}
		}
	}

	config.Logger.InfoNs(log.NsDatabase, "database opened", log.KV{
		"location":      config.Location,
		"schemaVersion": schemaVersion,
	})

	return &Database{
		Config: config,
		state:  stateOpen,
		sqlDB:  sqlDB,
		conn:   conn,
	}, nil
}

// IsOpen reports whether the handle has not been closed yet.
func (db *Database) IsOpen() bool {
	return db.state == stateOpen
}

// Seed reads the configured seed script and executes all of its statements
// in file order inside a single transaction. Either every statement is
// applied or none is.
func (db *Database) Seed(ctx context.Context) error {
	if !db.IsOpen() {
		return ErrClosed
	}

	content, err := db.Script.Read()
	if err != nil {
		return err
	}

	runId := uuid.NewString()
	if strings.TrimSpace(content) == "" {
		db.Logger.WarnNs(log.NsSeed, "seed script is empty, nothing to do", log.KV{
			"runId":  runId,
			"script": db.Script.String(),
		})
		return nil
	}

	db.Logger.InfoNs(log.NsSeed, "seeding database", log.KV{
		"runId":  runId,
		"script": db.Script.String(),
	})
	start := time.Now()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, content); err != nil {
		return &ScriptExecutionError{Script: db.Script.String(), Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &ScriptExecutionError{
			Script: db.Script.String(),
			Err:    fmt.Errorf("failed to commit: %w", err),
		}
	}

	db.Logger.InfoNs(log.NsSeed, "database seeded", log.KV{
		"runId":    runId,
		"duration": time.Since(start).String(),
	})
	return nil
}

// Query executes a read query on the handle's connection and returns all
// of its rows.
func (db *Database) Query(
	ctx context.Context, query string, args ...any,
) (ReadResult, error) {
	if !db.IsOpen() {
		return ReadResult{}, ErrClosed
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return ReadResult{}, fmt.Errorf("failed to execute read query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return ReadResult{}, fmt.Errorf("failed to get columns: %w", err)
	}

	values := [][]any{}
	for rows.Next() {
		row := make([]any, len(columns))
		scans := make([]any, len(columns))
		for i := range scans {
			scans[i] = &row[i]
		}

		if err := rows.Scan(scans...); err != nil {
			return ReadResult{}, fmt.Errorf("failed to scan row: %w", err)
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return ReadResult{}, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return ReadResult{
		Columns: columns,
		Rows:    values,
	}, nil
}

// Tables lists the user tables of the database, sorted by name, with their
// row counts.
func (db *Database) Tables(ctx context.Context) ([]TableInfo, error) {
	res, err := db.Query(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]TableInfo, 0, len(res.Rows))
	for _, row := range res.Rows {
		name := fmt.Sprint(row[0])
		if b, ok := row[0].([]byte); ok {
			name = string(b)
		}

		var count int64
		err := db.conn.QueryRowContext(
			ctx, "SELECT COUNT(*) FROM "+quoteIdent(name),
		).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("failed to count rows of %s: %w", name, err)
		}

		tables = append(tables, TableInfo{Name: name, Rows: count})
	}

	return tables, nil
}

// Close releases the connection and every resource held by the engine.
// Calling Close more than once returns ErrClosed.
func (db *Database) Close() error {
	if !db.IsOpen() {
		return ErrClosed
	}
	db.state = stateClosed

	connErr := db.conn.Close()
	dbErr := db.sqlDB.Close()
	if connErr != nil {
		return fmt.Errorf("failed to close connection: %w", connErr)
	}
	if dbErr != nil {
		return fmt.Errorf("failed to close database: %w", dbErr)
	}

	db.Logger.DebugNs(log.NsDatabase, "database closed", log.KV{
		"location": db.Location,
	})
	return nil
}

// checkWritable takes and releases the write lock so a database the engine
// silently opened read-only is reported at open time.
func checkWritable(ctx context.Context, conn *sql.Conn) error {
	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return err
	}
	_, err := conn.ExecContext(ctx, "ROLLBACK")
	return err
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
