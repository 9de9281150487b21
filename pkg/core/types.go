// Package core provides the interfaces shared by the generation pipeline and
// its outputs.
package core

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/TFMV/dsgen/pkg/row"
)

// RowSink consumes the rows of one chunk in generation order.
type RowSink interface {
	// WriteRow receives the next row of the chunk.
	WriteRow(ctx context.Context, r *row.Row) error

	// Close flushes buffered output and releases resources.
	Close() error
}

// DatasetWriter defines an interface for writing Arrow records to various
// destinations.
type DatasetWriter interface {
	// Write writes a record to the destination.
	Write(ctx context.Context, record arrow.Record) error

	// Close closes the writer and flushes any pending data.
	Close() error
}

// WriterConfig provides configuration for creating a writer.
type WriterConfig struct {
	// Type is the type of the writer.
	Type string

	// Path is the path to the output file.
	Path string

	// ConnectionString is the database file for database writers.
	ConnectionString string

	// Driver is the driver library for database writers.
	Driver string

	// Table is the destination table for database writers.
	Table string

	// Schema is the Arrow schema of the records that will be written.
	Schema *arrow.Schema

	// BatchSize is the number of rows per record batch.
	BatchSize int64
}

// DatasetReader reads back Arrow records written by a DatasetWriter.
type DatasetReader interface {
	// Read returns the next record batch, or io.EOF when there are no more.
	// The caller releases the record.
	Read(ctx context.Context) (arrow.Record, error)

	// Schema returns the schema of the dataset.
	Schema() *arrow.Schema

	// Close closes the reader and releases resources.
	Close() error
}

// ReaderConfig provides configuration for creating a reader.
type ReaderConfig struct {
	// Type is the type of the reader.
	Type string

	// Path is the path to the file.
	Path string

	// ConnectionString is the database file or URI for database readers.
	ConnectionString string

	// Driver is the driver library for database readers.
	Driver string

	// Table is the source table for database readers.
	Table string

	// Schema is required by formats that do not store one, such as CSV.
	Schema *arrow.Schema

	// BatchSize is the number of rows per record batch.
	BatchSize int64
}
