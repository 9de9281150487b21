package integrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/TFMV/dsgen/pkg/core"
)

// IngestWriter is a DatasetWriter that appends records to a database table.
type IngestWriter struct {
	conn  *Conn
	table string
	rows  int64

	// owned is closed with the writer when the writer opened it
	owned *Database
}

// NewIngestWriter writes to table over a new connection of db. Closing the
// writer closes the connection but not db.
func NewIngestWriter(db *Database, table string) (*IngestWriter, error) {
	if table == "" {
		return nil, errors.New("table is required for ingest writer")
	}
	conn, err := db.OpenConnection()
	if err != nil {
		return nil, err
	}
	return &IngestWriter{conn: conn, table: table}, nil
}

// NewDuckDBWriter opens the DuckDB file in config.ConnectionString and
// returns a writer that owns it.
func NewDuckDBWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	db, err := NewDuckDB(WithPath(config.ConnectionString), WithDriverPath(config.Driver))
	if err != nil {
		return nil, err
	}
	return ownedWriter(db, config.Table)
}

// NewPostgresWriter connects to the URI in config.ConnectionString and
// returns a writer that owns the connection.
func NewPostgresWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	db, err := NewPostgres(WithPath(config.ConnectionString), WithDriverPath(config.Driver))
	if err != nil {
		return nil, err
	}
	return ownedWriter(db, config.Table)
}

func ownedWriter(db *Database, table string) (*IngestWriter, error) {
	w, err := NewIngestWriter(db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	w.owned = db
	return w, nil
}

// Write appends record to the table.
func (w *IngestWriter) Write(ctx context.Context, record arrow.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := w.conn.Ingest(ctx, w.table, record); err != nil {
		return fmt.Errorf("failed to ingest into %s: %w", w.table, err)
	}
	w.rows += record.NumRows()
	return nil
}

// Rows reports how many rows were ingested.
func (w *IngestWriter) Rows() int64 {
	return w.rows
}

// Close closes the connection, and the database when the writer owns it.
func (w *IngestWriter) Close() error {
	if w.conn != nil {
		w.conn.Close()
		w.conn = nil
	}
	if w.owned != nil {
		err := w.owned.Close()
		w.owned = nil
		return err
	}
	return nil
}
