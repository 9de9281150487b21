package integrations

import (
	"os"
	"runtime"
)

// DefaultDuckDBDriver is the usual install location of libduckdb.
func DefaultDuckDBDriver() string {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/local/lib/libduckdb.dylib"
	case "linux":
		return "/usr/local/lib/libduckdb.so"
	case "windows":
		if home, err := os.UserHomeDir(); err == nil {
			return home + "/Downloads/duckdb-windows-amd64/duckdb.dll"
		}
	}
	return ""
}

// NewDuckDB opens or creates a DuckDB instance (file-based or in-memory).
// The driver library is auto-detected if not provided. Example usage:
//
//	duck, err := NewDuckDB(WithPath("/tmp/tpcds.duckdb"))
//	if err != nil { ... }
func NewDuckDB(options ...Option) (*Database, error) {
	opts := collectOptions(options)

	dPath := opts.DriverPath
	if dPath == "" {
		dPath = DefaultDuckDBDriver()
	}
	dbOpts := map[string]string{
		"driver":     dPath,
		"entrypoint": "duckdb_adbc_init",
	}
	if opts.Path != "" {
		dbOpts["path"] = opts.Path
	}
	return openDatabase("DuckDB", dbOpts, opts)
}
