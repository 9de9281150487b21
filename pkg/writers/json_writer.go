package writers

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/shopspring/decimal"

	"github.com/TFMV/dsgen/pkg/core"
)

// JSONWriter writes one JSON object per line with keys in column order.
// Decimals are written as strings so no precision is lost.
type JSONWriter struct {
	file   *os.File
	out    *bufio.Writer
	fields []string
}

// NewJSONWriter creates a JSON lines writer.
func NewJSONWriter(config core.WriterConfig) (core.DatasetWriter, error) {
	file, err := createFile(config, "JSON")
	if err != nil {
		return nil, err
	}
	w := &JSONWriter{file: file, out: bufio.NewWriter(file)}
	if config.Schema != nil {
		w.setFields(config.Schema)
	}
	return w, nil
}

func (w *JSONWriter) setFields(schema *arrow.Schema) {
	w.fields = make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		key, _ := json.Marshal(f.Name)
		w.fields[i] = string(key)
	}
}

// Write writes the rows of a record.
func (w *JSONWriter) Write(ctx context.Context, record arrow.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.fields == nil {
		w.setFields(record.Schema())
	}

	for i := 0; i < int(record.NumRows()); i++ {
		w.out.WriteByte('{')
		for j := 0; j < int(record.NumCols()); j++ {
			if j > 0 {
				w.out.WriteByte(',')
			}
			w.out.WriteString(w.fields[j])
			w.out.WriteByte(':')

			value, err := jsonValue(record.Column(j), i)
			if err != nil {
				return fmt.Errorf("column %s: %w", record.ColumnName(j), err)
			}
			w.out.Write(value)
		}
		if _, err := w.out.WriteString("}\n"); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func jsonValue(col arrow.Array, i int) ([]byte, error) {
	if col.IsNull(i) {
		return []byte("null"), nil
	}
	switch col := col.(type) {
	case *array.Int32:
		return json.Marshal(col.Value(i))
	case *array.Int64:
		return json.Marshal(col.Value(i))
	case *array.String:
		return json.Marshal(col.Value(i))
	case *array.Decimal128:
		scale := col.DataType().(*arrow.Decimal128Type).Scale
		d := decimal.NewFromBigInt(col.Value(i).BigInt(), -scale)
		return json.Marshal(d.StringFixed(scale))
	default:
		return nil, errors.New("unsupported array type " + col.DataType().String())
	}
}

// Close flushes buffered output and closes the file.
func (w *JSONWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := closeAll(w.out.Flush, w.file.Close)
	w.file = nil
	return err
}
