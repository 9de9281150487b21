// Package readers reads generated datasets back as Arrow records.
package readers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TFMV/dsgen/pkg/core"
)

// defaultBatchSize is used when ReaderConfig.BatchSize is not set.
const defaultBatchSize = 8192

// Factory creates a reader based on the given configuration.
type Factory struct {
	// registered readers by type
	readers map[string]Creator
}

// Creator is a function that creates a reader from a configuration.
type Creator func(config core.ReaderConfig) (core.DatasetReader, error)

// NewFactory creates a new reader factory.
func NewFactory() *Factory {
	return &Factory{
		readers: make(map[string]Creator),
	}
}

// Register registers a creator for a reader type.
func (f *Factory) Register(typ string, creator Creator) {
	f.readers[typ] = creator
}

// Create creates a reader based on the given configuration.
func (f *Factory) Create(config core.ReaderConfig) (core.DatasetReader, error) {
	creator, ok := f.readers[config.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported reader type: %s", config.Type)
	}
	return creator(config)
}

// DefaultFactory is the default reader factory with built-in reader types.
var DefaultFactory = NewFactory()

// init registers built-in reader types.
func init() {
	DefaultFactory.Register("parquet", NewParquetReader)
	DefaultFactory.Register("arrow", NewArrowReader)
	DefaultFactory.Register("csv", NewCSVReader)
	DefaultFactory.Register("duckdb", NewDuckDBReader)
}

// TypeFromPath returns the reader type of a file extension.
func TypeFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet", ".pq":
		return "parquet", nil
	case ".arrow", ".ipc", ".feather":
		return "arrow", nil
	case ".csv":
		return "csv", nil
	case ".duckdb", ".db":
		return "duckdb", nil
	default:
		return "", fmt.Errorf("cannot infer reader type of %s", path)
	}
}

func batchSize(config core.ReaderConfig) int64 {
	if config.BatchSize > 0 {
		return config.BatchSize
	}
	return defaultBatchSize
}
