package readers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/TFMV/dsgen/pkg/core"
)

// CSVReader implements a reader for CSV files with a header line. The
// schema is taken from the configuration, or inferred when none is given.
type CSVReader struct {
	file   *os.File
	reader *csv.Reader
}

// NewCSVReader creates a new CSV reader.
func NewCSVReader(config core.ReaderConfig) (core.DatasetReader, error) {
	if config.Path == "" {
		return nil, errors.New("path is required for CSV reader")
	}

	file, err := os.Open(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}

	opts := []csv.Option{
		csv.WithChunk(int(batchSize(config))),
		csv.WithHeader(true),
		csv.WithNullReader(true, ""),
		csv.WithAllocator(memory.NewGoAllocator()),
	}
	var reader *csv.Reader
	if config.Schema != nil {
		reader = csv.NewReader(file, config.Schema, opts...)
	} else {
		reader = csv.NewInferringReader(file, opts...)
	}
	return &CSVReader{file: file, reader: reader}, nil
}

// Read returns the next batch of records.
func (r *CSVReader) Read(ctx context.Context) (arrow.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.reader.Next() {
		if err := r.reader.Err(); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		return nil, io.EOF
	}
	record := r.reader.Record()
	record.Retain()
	return record, nil
}

// Schema returns the schema of the dataset.
func (r *CSVReader) Schema() *arrow.Schema {
	return r.reader.Schema()
}

// Close closes the reader and releases resources.
func (r *CSVReader) Close() error {
	r.reader.Release()
	return r.file.Close()
}
