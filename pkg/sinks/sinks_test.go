package sinks

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/xxh3"

	"github.com/TFMV/dsgen/pkg/row"
	"github.com/TFMV/dsgen/pkg/schema"
)

func testTable(t *testing.T) *schema.Table {
	t.Helper()
	s, err := schema.New([]schema.TableDef{{
		Name: "t",
		Columns: []schema.Column{
			{Name: "t_sk", Type: schema.IdentifierType(), NotNull: true},
			{Name: "t_count", Type: schema.IntegerType()},
			{Name: "t_price", Type: schema.DecimalType(7, 2)},
			{Name: "t_name", Type: schema.VarcharType(20)},
		},
	}})
	require.NoError(t, err)
	tbl, err := s.Table("t")
	require.NoError(t, err)
	return tbl
}

func testRows() []*row.Row {
	var nameNull = row.NewNullMask(4)
	nameNull.Set(3)
	return []*row.Row{
		row.New("t", []row.Value{
			row.Key(1), row.Int(-3), row.Decimal(decimal.New(1999, -2), 2), row.Str("alpha"),
		}, row.NewNullMask(4)),
		row.New("t", []row.Value{
			row.Key(2), row.Int(7), row.Decimal(decimal.New(5, 0), 2), row.Str("beta"),
		}, nameNull),
		row.New("t", []row.Value{
			row.Key(row.NullKey), row.Int(0), row.Decimal(decimal.Zero, 2), row.Str(""),
		}, row.NewNullMask(4)),
	}
}

const testText = "1|-3|19.99|alpha|\n2|7|5.00||\n|0|0.00||\n"

func TestDatSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewDatSink(&buf)
	for _, r := range testRows() {
		require.NoError(t, s.WriteRow(context.Background(), r))
	}
	require.NoError(t, s.Close())
	assert.Equal(t, testText, buf.String())
	assert.Equal(t, int64(3), s.Rows())
}

func TestCreateDatFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", FileName("t", 2, 4, "dat"))
	s, err := CreateDatFile(path)
	require.NoError(t, err)
	for _, r := range testRows() {
		require.NoError(t, s.WriteRow(context.Background(), r))
	}
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testText, string(data))
	assert.Equal(t, "t_2_4.dat", filepath.Base(path))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "reason.dat", FileName("reason", 1, 1, "dat"))
	assert.Equal(t, "promotion_3_10.dat", FileName("promotion", 3, 10, "dat"))
	assert.Equal(t, "promotion_3_10.parquet", FileName("promotion", 3, 10, "parquet"))
}

func TestChecksumSink(t *testing.T) {
	md5Sum := md5.Sum([]byte(testText))
	xxh := xxh3.New()
	_, _ = xxh.Write([]byte(testText))

	tests := []struct {
		algorithm string
		want      string
	}{
		{MD5, hex.EncodeToString(md5Sum[:])},
		{"", hex.EncodeToString(md5Sum[:])},
		{XXH3, hex.EncodeToString(xxh.Sum(nil))},
	}
	for _, tt := range tests {
		t.Run(tt.algorithm, func(t *testing.T) {
			s, err := NewChecksumSink(tt.algorithm)
			require.NoError(t, err)
			for _, r := range testRows() {
				require.NoError(t, s.WriteRow(context.Background(), r))
			}
			require.NoError(t, s.Close())
			assert.Equal(t, tt.want, s.Sum())
			assert.Equal(t, int64(3), s.Rows())
		})
	}

	_, err := NewChecksumSink("crc32")
	assert.Error(t, err)
}

type recordingWriter struct {
	records []arrow.Record
	closed  bool
}

func (w *recordingWriter) Write(_ context.Context, rec arrow.Record) error {
	rec.Retain()
	w.records = append(w.records, rec)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestRecordSink(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	tbl := testTable(t)
	w := &recordingWriter{}

	s := NewRecordSink(tbl, w, 2, mem)
	for _, r := range testRows() {
		require.NoError(t, s.WriteRow(context.Background(), r))
	}
	require.NoError(t, s.Close())
	assert.True(t, w.closed)
	require.Len(t, w.records, 2)
	assert.Equal(t, int64(2), w.records[0].NumRows())
	assert.Equal(t, int64(1), w.records[1].NumRows())

	first := w.records[0]
	assert.Equal(t, int64(1), first.Column(0).(*array.Int64).Value(0))
	assert.Equal(t, int32(-3), first.Column(1).(*array.Int32).Value(0))
	price := first.Column(2).(*array.Decimal128).Value(0)
	assert.Equal(t, uint64(1999), price.LowBits())
	assert.Equal(t, "alpha", first.Column(3).(*array.String).Value(0))
	assert.True(t, first.Column(3).IsNull(1))
	assert.Equal(t, "5.00", decimal.NewFromBigInt(first.Column(2).(*array.Decimal128).Value(1).BigInt(), -2).StringFixed(2))

	last := w.records[1]
	assert.True(t, last.Column(0).IsNull(0))

	for _, rec := range w.records {
		rec.Release()
	}
	mem.AssertSize(t, 0)
}

func TestTee(t *testing.T) {
	var buf bytes.Buffer
	c := &Collector{}
	tee := Tee{NewDatSink(&buf), c}
	for _, r := range testRows() {
		require.NoError(t, tee.WriteRow(context.Background(), r))
	}
	require.NoError(t, tee.Close())
	assert.Equal(t, testText, buf.String())
	assert.Len(t, c.Rows(), 3)
	assert.True(t, c.Closed())
}
