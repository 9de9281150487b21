package readers

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TFMV/dsgen/pkg/core"
	"github.com/TFMV/dsgen/pkg/pipeline"
	"github.com/TFMV/dsgen/pkg/schema"
	"github.com/TFMV/dsgen/pkg/sinks"
	"github.com/TFMV/dsgen/pkg/writers"
)

// generate writes income_band at scale 1 in the given format.
func generate(t *testing.T, format string) (string, *schema.Table) {
	t.Helper()
	tbl, err := schema.Default().Table(schema.IncomeBand)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "income_band."+format)
	w, err := writers.DefaultFactory.Create(core.WriterConfig{Type: format, Path: path, Schema: tbl.ArrowSchema()})
	require.NoError(t, err)

	g := pipeline.New(schema.Default(), schema.DefaultScaling(), pipeline.WithLogger(zap.NewNop()))
	sink := sinks.NewRecordSink(tbl, w, 6, nil)
	_, err = g.GenerateChunk(context.Background(), schema.IncomeBand, 1, 1, 1, sink)
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	return path, tbl
}

func readAll(t *testing.T, r core.DatasetReader) (batches int, rows int64, lower []int32) {
	t.Helper()
	for {
		rec, err := r.Read(context.Background())
		if errors.Is(err, io.EOF) {
			return
		}
		require.NoError(t, err)
		batches++
		rows += rec.NumRows()
		col := rec.Column(1).(*array.Int32)
		for i := 0; i < col.Len(); i++ {
			lower = append(lower, col.Value(i))
		}
		rec.Release()
	}
}

func TestReadersRoundTrip(t *testing.T) {
	for _, format := range []string{"parquet", "arrow", "csv"} {
		t.Run(format, func(t *testing.T) {
			path, tbl := generate(t, format)

			typ, err := TypeFromPath(path)
			require.NoError(t, err)
			require.Equal(t, format, typ)

			r, err := DefaultFactory.Create(core.ReaderConfig{Type: typ, Path: path, Schema: tbl.ArrowSchema(), BatchSize: 8})
			require.NoError(t, err)
			defer r.Close()

			_, rows, lower := readAll(t, r)
			assert.Equal(t, int64(20), rows)
			require.Len(t, lower, 20)
			assert.Equal(t, int32(0), lower[0])
			assert.Equal(t, int32(10001), lower[1])
			assert.Equal(t, int32(190001), lower[19])

			require.NotNil(t, r.Schema())
			assert.Equal(t, arrow.INT64, r.Schema().Field(0).Type.ID())
			assert.Equal(t, "ib_income_band_sk", r.Schema().Field(0).Name)
		})
	}
}

func TestParquetReader_Metadata(t *testing.T) {
	path, _ := generate(t, "parquet")
	r, err := NewParquetReader(core.ReaderConfig{Path: path})
	require.NoError(t, err)
	defer r.Close()

	pr := r.(*ParquetReader)
	assert.Equal(t, int64(20), pr.NumRows())
	assert.Equal(t, 4, pr.NumRowGroups())
}

func TestArrowReader_Batches(t *testing.T) {
	path, _ := generate(t, "arrow")
	r, err := NewArrowReader(core.ReaderConfig{Path: path})
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 4, r.(*ArrowReader).NumRecords())
	batches, _, _ := readAll(t, r)
	assert.Equal(t, 4, batches)
}

func TestReaderErrors(t *testing.T) {
	_, err := DefaultFactory.Create(core.ReaderConfig{Type: "xlsx"})
	assert.ErrorContains(t, err, "unsupported reader type")

	for _, typ := range []string{"parquet", "arrow", "csv"} {
		_, err := DefaultFactory.Create(core.ReaderConfig{Type: typ})
		assert.ErrorContains(t, err, "path is required", typ)

		_, err = DefaultFactory.Create(core.ReaderConfig{Type: typ, Path: filepath.Join(t.TempDir(), "missing")})
		assert.ErrorIs(t, err, os.ErrNotExist, typ)
	}

	_, err = DefaultFactory.Create(core.ReaderConfig{Type: "duckdb", Path: "x.duckdb"})
	assert.ErrorContains(t, err, "table is required")

	_, err = TypeFromPath("income_band.dat")
	assert.Error(t, err)
}

func TestDuckDBReader(t *testing.T) {
	driver := os.Getenv("DSGEN_DUCKDB_DRIVER")
	if driver == "" {
		t.Skip("DSGEN_DUCKDB_DRIVER not set")
	}
	tbl, err := schema.Default().Table(schema.IncomeBand)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tpcds.duckdb")
	w, err := writers.DefaultFactory.Create(core.WriterConfig{Type: "duckdb", ConnectionString: path, Driver: driver, Table: tbl.Name})
	require.NoError(t, err)
	g := pipeline.New(schema.Default(), schema.DefaultScaling(), pipeline.WithLogger(zap.NewNop()))
	sink := sinks.NewRecordSink(tbl, w, 0, nil)
	_, err = g.GenerateChunk(context.Background(), schema.IncomeBand, 1, 1, 1, sink)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	r, err := DefaultFactory.Create(core.ReaderConfig{Type: "duckdb", Path: path, Driver: driver, Table: tbl.Name})
	require.NoError(t, err)
	defer r.Close()

	var rows int64
	for {
		rec, err := r.Read(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		rows += rec.NumRows()
		rec.Release()
	}
	assert.Equal(t, int64(20), rows)
}
