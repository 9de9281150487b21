// Package writers provides dataset writers that persist Arrow records in
// various file formats.
package writers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/TFMV/dsgen/integrations"
	"github.com/TFMV/dsgen/pkg/core"
)

// Factory creates a writer based on the given configuration.
type Factory struct {
	// registered writers by type
	writers map[string]Creator
}

// Creator is a function that creates a writer from a configuration.
type Creator func(config core.WriterConfig) (core.DatasetWriter, error)

// NewFactory creates a new writer factory.
func NewFactory() *Factory {
	return &Factory{
		writers: make(map[string]Creator),
	}
}

// Register registers a creator for a writer type.
func (f *Factory) Register(typ string, creator Creator) {
	f.writers[typ] = creator
}

// Create creates a writer based on the given configuration.
func (f *Factory) Create(config core.WriterConfig) (core.DatasetWriter, error) {
	creator, ok := f.writers[config.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported writer type: %s", config.Type)
	}
	return creator(config)
}

// Types lists the registered writer types.
func (f *Factory) Types() []string {
	types := make([]string, 0, len(f.writers))
	for t := range f.writers {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// DefaultFactory is the default writer factory with built-in writer types.
var DefaultFactory = NewFactory()

// init registers built-in writer types.
func init() {
	DefaultFactory.Register("parquet", NewParquetWriter)
	DefaultFactory.Register("arrow", NewArrowWriter)
	DefaultFactory.Register("json", NewJSONWriter)
	DefaultFactory.Register("csv", NewCSVWriter)
	DefaultFactory.Register("duckdb", integrations.NewDuckDBWriter)
	DefaultFactory.Register("postgres", integrations.NewPostgresWriter)
}

// createFile opens config.Path for writing, creating missing directories.
func createFile(config core.WriterConfig, format string) (*os.File, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("path is required for %s writer", format)
	}
	if err := os.MkdirAll(filepath.Dir(config.Path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s file: %w", format, err)
	}
	return file, nil
}

// closeAll closes c in order and returns the first error.
func closeAll(closers ...func() error) error {
	var err error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if cerr := c(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
