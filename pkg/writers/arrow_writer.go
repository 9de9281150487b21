package writers

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/TFMV/dsgen/pkg/core"
)

// ArrowWriter writes an Arrow IPC file.
type ArrowWriter struct {
	writer *ipc.FileWriter
	file   *os.File
}

// NewArrowWriter creates an Arrow IPC file writer for config.Schema.
func NewArrowWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	if config.Schema == nil {
		return nil, errors.New("schema is required for Arrow writer")
	}
	file, err := createFile(config, "Arrow")
	if err != nil {
		return nil, err
	}
	writer, err := ipc.NewFileWriter(file, ipc.WithSchema(config.Schema))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create Arrow writer: %w", err)
	}
	return &ArrowWriter{writer: writer, file: file}, nil
}

// Write appends a record batch.
func (w *ArrowWriter) Write(ctx context.Context, record arrow.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close writes the file footer and closes the file.
func (w *ArrowWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := closeAll(w.writer.Close, w.file.Close)
	w.file = nil
	return err
}
