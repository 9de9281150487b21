// Package integrations loads generated data into databases through ADBC
// drivers loaded at runtime by the driver manager.
package integrations

import (
	"context"
	"fmt"
	"sync"

	"github.com/apache/arrow-adbc/go/adbc"
	"github.com/apache/arrow-adbc/go/adbc/drivermgr"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// Options define the configuration for opening a database.
type Options struct {
	// Path is the database file for DuckDB ("" => in-memory) or the
	// connection URI for PostgreSQL.
	Path string

	// DriverPath is the location of the ADBC driver library, if empty =>
	// auto-detect
	DriverPath string

	// Context for new database/connection usage
	Context context.Context
}

// Option is a functional config approach
type Option func(*Options)

// WithPath sets the database file or URI.
func WithPath(p string) Option {
	return func(o *Options) {
		o.Path = p
	}
}

// WithDriverPath sets the path to the driver library.
// If not provided, the driver will be auto-detected based on the current OS.
func WithDriverPath(p string) Option {
	return func(o *Options) {
		o.DriverPath = p
	}
}

// WithContext sets a custom Context for DB usage.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

func collectOptions(options []Option) Options {
	var opts Options
	for _, opt := range options {
		opt(&opts)
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	return opts
}

// Database is an open ADBC database. Use NewDuckDB or NewPostgres to
// construct one.
type Database struct {
	mu     sync.Mutex
	name   string
	db     adbc.Database
	driver adbc.Driver
	opts   Options

	conns []*Conn // track open connections

	// ingestMu serializes bulk ingestion; concurrent create-or-append of
	// the same table conflicts in both engines.
	ingestMu sync.Mutex
}

func openDatabase(name string, dbOpts map[string]string, opts Options) (*Database, error) {
	driver := drivermgr.Driver{}
	db, err := driver.NewDatabase(dbOpts)
	if err != nil {
		return nil, fmt.Errorf("error creating new %s database: %w", name, err)
	}
	return &Database{name: name, db: db, driver: driver, opts: opts}, nil
}

// Name is the engine name.
func (d *Database) Name() string {
	return d.name
}

// Path returns the configured database file or URI.
func (d *Database) Path() string {
	return d.opts.Path
}

// OpenConnection opens a new connection. The returned connection should be
// closed by calling its Close method, or you can rely on Database.Close()
// to close all open connections.
func (d *Database) OpenConnection() (*Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil, fmt.Errorf("%s database is closed", d.name)
	}
	conn, err := d.db.Open(d.opts.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	c := &Conn{parent: d, Connection: conn}
	d.conns = append(d.conns, c)
	return c, nil
}

// Close closes the database and all open connections. Call it when
// finished so a file-based DuckDB flushes its WAL.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, c := range d.conns {
		c.Connection.Close()
		c.parent = nil
	}
	d.conns = nil

	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// ConnCount returns the current number of open connections.
func (d *Database) ConnCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

// Conn is an open connection tracked by its Database.
type Conn struct {
	parent *Database
	adbc.Connection
}

// Exec runs a statement that doesn't produce a result set, returning
// the number of rows affected if known, else -1.
func (c *Conn) Exec(ctx context.Context, sql string) (int64, error) {
	stmt, err := c.NewStatement()
	if err != nil {
		return -1, fmt.Errorf("failed to create statement: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SetSqlQuery(sql); err != nil {
		return -1, fmt.Errorf("failed to set SQL query: %w", err)
	}
	return stmt.ExecuteUpdate(ctx)
}

// Query runs a SQL query. The caller closes the returned statement and
// RecordReader.
func (c *Conn) Query(ctx context.Context, sql string) (array.RecordReader, adbc.Statement, error) {
	stmt, err := c.NewStatement()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create statement: %w", err)
	}
	if err := stmt.SetSqlQuery(sql); err != nil {
		stmt.Close()
		return nil, nil, fmt.Errorf("failed to set SQL query: %w", err)
	}
	rr, _, err := stmt.ExecuteQuery(ctx)
	if err != nil {
		stmt.Close()
		return nil, nil, err
	}
	return rr, stmt, nil
}

// Ingest appends record to table, creating the table from the record's
// schema when it does not exist.
func (c *Conn) Ingest(ctx context.Context, table string, record arrow.Record) (int64, error) {
	if db := c.parent; db != nil {
		db.ingestMu.Lock()
		defer db.ingestMu.Unlock()
	}

	stmt, err := c.NewStatement()
	if err != nil {
		return -1, fmt.Errorf("failed to create statement: %w", err)
	}
	defer stmt.Close()

	if err := stmt.SetOption(adbc.OptionKeyIngestTargetTable, table); err != nil {
		return -1, fmt.Errorf("failed to set target table: %w", err)
	}
	if err := stmt.SetOption(adbc.OptionKeyIngestMode, adbc.OptionValueIngestModeCreateAppend); err != nil {
		return -1, fmt.Errorf("failed to set ingest mode: %w", err)
	}
	if err := stmt.Bind(ctx, record); err != nil {
		return -1, fmt.Errorf("failed to bind record: %w", err)
	}
	return stmt.ExecuteUpdate(ctx)
}

// Close closes the connection, removing it from the parent Database's
// tracking.
func (c *Conn) Close() {
	if p := c.parent; p != nil {
		p.mu.Lock()
		for i, conn := range p.conns {
			if conn == c {
				p.conns[i] = p.conns[len(p.conns)-1]
				p.conns = p.conns[:len(p.conns)-1]
				break
			}
		}
		p.mu.Unlock()
		c.parent = nil
		c.Connection.Close()
	}
}
