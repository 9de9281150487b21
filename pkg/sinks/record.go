package sinks

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/TFMV/dsgen/pkg/core"
	"github.com/TFMV/dsgen/pkg/row"
	"github.com/TFMV/dsgen/pkg/schema"
)

// DefaultBatchSize is the number of rows per record when none is given.
const DefaultBatchSize = 8192

// RecordSink batches rows into Arrow records of the table's schema and
// hands them to a DatasetWriter.
type RecordSink struct {
	table   *schema.Table
	builder *array.RecordBuilder
	writer  core.DatasetWriter
	batch   int64
	pending int64
}

// NewRecordSink creates a sink that owns w.
func NewRecordSink(t *schema.Table, w core.DatasetWriter, batchSize int64, mem memory.Allocator) *RecordSink {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	return &RecordSink{
		table:   t,
		builder: array.NewRecordBuilder(mem, t.ArrowSchema()),
		writer:  w,
		batch:   batchSize,
	}
}

// Schema is the schema of the produced records.
func (s *RecordSink) Schema() *arrow.Schema {
	return s.builder.Schema()
}

func (s *RecordSink) WriteRow(ctx context.Context, r *row.Row) error {
	for i, fb := range s.builder.Fields() {
		if r.IsNull(i) {
			fb.AppendNull()
			continue
		}
		v := r.Raw(i)
		switch b := fb.(type) {
		case *array.Int64Builder:
			b.Append(v.Int64())
		case *array.Int32Builder:
			b.Append(int32(v.Int64()))
		case *array.Decimal128Builder:
			b.Append(toDecimal128(v, s.table.Columns[i].Type.Scale))
		case *array.StringBuilder:
			b.Append(v.String())
		default:
			return fmt.Errorf("column %s: unsupported builder %T", s.table.Columns[i].Name, fb)
		}
	}
	s.pending++
	if s.pending >= s.batch {
		return s.flush(ctx)
	}
	return nil
}

func (s *RecordSink) flush(ctx context.Context) error {
	if s.pending == 0 {
		return nil
	}
	rec := s.builder.NewRecord()
	defer rec.Release()
	s.pending = 0
	if err := s.writer.Write(ctx, rec); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close writes the last partial batch and closes the writer.
func (s *RecordSink) Close() error {
	err := s.flush(context.Background())
	s.builder.Release()
	if cerr := s.writer.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func toDecimal128(v row.Value, scale int) decimal128.Num {
	return decimal128.FromBigInt(v.Decimal().Shift(int32(scale)).BigInt())
}
