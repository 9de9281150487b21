package integrations

import (
	"errors"
	"os"
	"runtime"

	"github.com/apache/arrow-adbc/go/adbc"
)

// DefaultPostgresDriver is the usual install location of the ADBC
// PostgreSQL driver.
func DefaultPostgresDriver() string {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/local/lib/libadbc_driver_postgresql.dylib"
	case "linux":
		return "/usr/local/lib/libadbc_driver_postgresql.so"
	case "windows":
		if home, err := os.UserHomeDir(); err == nil {
			return home + "/Downloads/postgresql-windows-amd64/postgresql.dll"
		}
	}
	return ""
}

// NewPostgres connects to the PostgreSQL server at the URI given with
// WithPath.
func NewPostgres(options ...Option) (*Database, error) {
	opts := collectOptions(options)
	if opts.Path == "" {
		return nil, errors.New("a connection URI is required for PostgreSQL")
	}

	dPath := opts.DriverPath
	if dPath == "" {
		dPath = DefaultPostgresDriver()
	}
	dbOpts := map[string]string{
		"driver":          dPath,
		adbc.OptionKeyURI: opts.Path,
	}
	return openDatabase("PostgreSQL", dbOpts, opts)
}
