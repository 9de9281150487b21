// Package sinks holds the row sinks of the generation pipeline: the
// pipe-delimited text format, checksums of that text, Arrow record batching
// and fan-out to several sinks.
package sinks

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/TFMV/dsgen/pkg/row"
)

// Separator terminates every field of a text row.
const Separator = '|'

// DatSink renders rows as pipe-delimited text. Every field, the last one
// included, is followed by '|'; NULL is an empty field.
type DatSink struct {
	w      *bufio.Writer
	closer io.Closer
	rows   int64
}

// NewDatSink writes to w. Close flushes but does not close w.
func NewDatSink(w io.Writer) *DatSink {
	return &DatSink{w: bufio.NewWriterSize(w, 64*1024)}
}

// CreateDatFile creates path, and any missing parent directory, and returns
// a sink that owns the file.
func CreateDatFile(path string) (*DatSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	s := NewDatSink(f)
	s.closer = f
	return s, nil
}

// WriteRow appends one line.
func (s *DatSink) WriteRow(_ context.Context, r *row.Row) error {
	for i := 0; i < r.Len(); i++ {
		if v, ok := r.Value(i); ok {
			if _, err := s.w.WriteString(v.String()); err != nil {
				return err
			}
		}
		if err := s.w.WriteByte(Separator); err != nil {
			return err
		}
	}
	s.rows++
	return s.w.WriteByte('\n')
}

// Rows reports how many rows were written.
func (s *DatSink) Rows() int64 {
	return s.rows
}

// Close flushes buffered text and closes an owned file.
func (s *DatSink) Close() error {
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.closer = nil
	}
	return err
}

// FileName is the output file of a chunk: <table>_<chunk>_<total>.dat, or
// <table>.dat for a single-chunk run.
func FileName(table string, chunk, totalChunks int, ext string) string {
	if totalChunks <= 1 {
		return fmt.Sprintf("%s.%s", table, ext)
	}
	return fmt.Sprintf("%s_%d_%d.%s", table, chunk, totalChunks, ext)
}
