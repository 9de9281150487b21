package readers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/TFMV/dsgen/pkg/core"
)

// ParquetReader implements a reader for Parquet files.
type ParquetReader struct {
	file       *os.File
	fileReader *file.Reader
	records    pqarrow.RecordReader
}

// NewParquetReader creates a new Parquet reader.
func NewParquetReader(config core.ReaderConfig) (core.DatasetReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for Parquet reader")
	}

	f, err := os.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Parquet file: %w", err)
	}

	parquetReader, err := file.NewParquetReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create Parquet file reader: %w", err)
	}

	arrowProps := pqarrow.ArrowReadProperties{BatchSize: batchSize(config)}
	arrowReader, err := pqarrow.NewFileReader(parquetReader, arrowProps, memory.NewGoAllocator())
	if err != nil {
		parquetReader.Close()
		f.Close()
		return nil, fmt.Errorf("failed to create Arrow reader: %w", err)
	}

	records, err := arrowReader.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		parquetReader.Close()
		f.Close()
		return nil, fmt.Errorf("failed to create record reader: %w", err)
	}

	return &ParquetReader{file: f, fileReader: parquetReader, records: records}, nil
}

// Read returns the next batch of records.
func (r *ParquetReader) Read(ctx context.Context) (arrow.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.records.Next() {
		if err := r.records.Err(); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read Parquet: %w", err)
		}
		return nil, io.EOF
	}
	rec := r.records.Record()
	rec.Retain()
	return rec, nil
}

// Schema returns the schema of the dataset.
func (r *ParquetReader) Schema() *arrow.Schema {
	return r.records.Schema()
}

// NumRows is the row count recorded in the file footer.
func (r *ParquetReader) NumRows() int64 {
	return r.fileReader.NumRows()
}

// NumRowGroups is the number of row groups in the file.
func (r *ParquetReader) NumRowGroups() int {
	return r.fileReader.NumRowGroups()
}

// Close closes the reader and releases resources.
func (r *ParquetReader) Close() error {
	r.records.Release()
	if err := r.fileReader.Close(); err != nil {
		return err
	}
	if err := r.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
