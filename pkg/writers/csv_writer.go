package writers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"

	"github.com/TFMV/dsgen/pkg/core"
)

// CSVWriter writes comma separated text with a header line. NULL is an
// empty field.
type CSVWriter struct {
	writer *csv.Writer
	file   *os.File
}

// NewCSVWriter creates a CSV writer for config.Schema.
func NewCSVWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	if config.Schema == nil {
		return nil, errors.New("schema is required for CSV writer")
	}
	file, err := createFile(config, "CSV")
	if err != nil {
		return nil, err
	}
	writer := csv.NewWriter(file, config.Schema,
		csv.WithHeader(true),
		csv.WithNullWriter(""),
	)
	return &CSVWriter{writer: writer, file: file}, nil
}

// Write appends the rows of a record.
func (w *CSVWriter) Write(ctx context.Context, record arrow.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close flushes the writer and closes the file.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := closeAll(w.writer.Flush, w.file.Close)
	w.file = nil
	return err
}
