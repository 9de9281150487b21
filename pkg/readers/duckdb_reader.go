package readers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow-adbc/go/adbc"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/TFMV/dsgen/integrations"
	"github.com/TFMV/dsgen/pkg/core"
)

// DuckDBReader streams a table loaded by the duckdb output format.
type DuckDBReader struct {
	db      *integrations.Database
	records array.RecordReader
	stmt    adbc.Statement
}

// NewDuckDBReader opens the DuckDB file in ConnectionString (or Path) and
// selects every row of Table.
func NewDuckDBReader(config core.ReaderConfig) (core.DatasetReader, error) {
	path := config.ConnectionString
	if path == "" {
		path = config.Path
	}
	if path == "" {
		return nil, errors.New("path or connection string is required for DuckDB reader")
	}
	if config.Table == "" {
		return nil, errors.New("table is required for DuckDB reader")
	}

	db, err := integrations.NewDuckDB(integrations.WithPath(path), integrations.WithDriverPath(config.Driver))
	if err != nil {
		return nil, err
	}
	conn, err := db.OpenConnection()
	if err != nil {
		db.Close()
		return nil, err
	}
	records, stmt, err := conn.Query(context.Background(), fmt.Sprintf("SELECT * FROM %q", config.Table))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to query %s: %w", config.Table, err)
	}
	return &DuckDBReader{db: db, records: records, stmt: stmt}, nil
}

// Read returns the next batch of records.
func (r *DuckDBReader) Read(ctx context.Context) (arrow.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.records.Next() {
		if err := r.records.Err(); err != nil {
			return nil, fmt.Errorf("failed to read DuckDB result: %w", err)
		}
		return nil, io.EOF
	}
	record := r.records.Record()
	record.Retain()
	return record, nil
}

// Schema returns the schema of the result set.
func (r *DuckDBReader) Schema() *arrow.Schema {
	return r.records.Schema()
}

// Close releases the result set and closes the database.
func (r *DuckDBReader) Close() error {
	r.records.Release()
	r.stmt.Close()
	return r.db.Close()
}
