package writers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/TFMV/dsgen/pkg/core"
)

// ParquetWriter writes a Snappy compressed Parquet file with one row group
// per record.
type ParquetWriter struct {
	writer *pqarrow.FileWriter
	file   *os.File
}

// NewParquetWriter creates a Parquet writer for config.Schema.
func NewParquetWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	if config.Schema == nil {
		return nil, errors.New("schema is required for Parquet writer")
	}
	file, err := createFile(config, "Parquet")
	if err != nil {
		return nil, err
	}

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithDictionaryDefault(false),
		parquet.WithCreatedBy("dsgen"),
	)
	writer, err := pqarrow.NewFileWriter(config.Schema, file, props, pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create Parquet writer: %w", err)
	}
	return &ParquetWriter{writer: writer, file: file}, nil
}

// Write writes a record as a new row group.
func (w *ParquetWriter) Write(ctx context.Context, record arrow.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close writes the footer and closes the file.
func (w *ParquetWriter) Close() error {
	if w.writer == nil {
		return nil
	}
	err := w.writer.Close()
	// pqarrow may already have closed the file
	if cerr := w.file.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) && err == nil {
		err = cerr
	}
	w.writer = nil
	return err
}
