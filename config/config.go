// Package config loads generation settings from YAML, DSGEN_ environment
// variables and command line flags through viper.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/TFMV/dsgen/pkg/random"
	"github.com/TFMV/dsgen/pkg/schema"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix prefixes environment overrides, e.g. DSGEN_OUTPUT_FORMAT.
const EnvPrefix = "DSGEN"

// Formats lists the supported output formats.
var Formats = []string{"dat", "csv", "json", "arrow", "parquet", "duckdb", "postgres", "checksum"}

// --- Configuration Structs ---

type OutputConfig struct {
	Dir          string `mapstructure:"dir"`
	Format       string `mapstructure:"format"`
	BatchSize    int64  `mapstructure:"batch_size"`
	Checksum     string `mapstructure:"checksum"`
	DuckDBPath   string `mapstructure:"duckdb_path"`
	DuckDBDriver string `mapstructure:"duckdb_driver"`
	PostgresURI  string `mapstructure:"postgres_uri"`
	PostgresLib  string `mapstructure:"postgres_driver"`
}

type MetricsConfig struct {
	Path     string `mapstructure:"path"`
	HTMLPath string `mapstructure:"html_path"`
	BoltPath string `mapstructure:"bolt_path"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type Config struct {
	Scale       float64       `mapstructure:"scale"`
	Parallelism int           `mapstructure:"parallelism"`
	Chunk       int           `mapstructure:"chunk"`
	Tables      []string      `mapstructure:"tables"`
	Workers     int           `mapstructure:"workers"`
	SeedBase    int64         `mapstructure:"seed_base"`
	Strict      bool          `mapstructure:"strict"`
	LogLevel    string        `mapstructure:"log_level"`
	Output      OutputConfig  `mapstructure:"output"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Server      ServerConfig  `mapstructure:"server"`
}

// --- Load Configuration ---

// NewViper returns a viper instance with defaults and environment overrides
// set, ready for flags to be bound.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("scale", 1.0)
	v.SetDefault("parallelism", 1)
	v.SetDefault("chunk", 0)
	v.SetDefault("tables", []string{})
	v.SetDefault("workers", 1)
	v.SetDefault("seed_base", random.DefaultSeedBase)
	v.SetDefault("strict", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("output.dir", ".")
	v.SetDefault("output.format", "dat")
	v.SetDefault("output.batch_size", 8192)
	v.SetDefault("output.checksum", "md5")
	v.SetDefault("output.duckdb_path", "dsgen.duckdb")
	v.SetDefault("output.duckdb_driver", "")
	v.SetDefault("output.postgres_uri", "")
	v.SetDefault("output.postgres_driver", "")
	v.SetDefault("metrics.path", "")
	v.SetDefault("metrics.html_path", "")
	v.SetDefault("metrics.bolt_path", "")
	v.SetDefault("server.port", 8080)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads the YAML file at configPath, if any, on top of the
// defaults and environment, and validates the result.
func LoadConfig(configPath string) (*Config, error) {
	v := NewViper()
	if err := ReadFile(v, configPath); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// ReadFile merges the YAML file at path into v. An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

// FromViper decodes and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// --- Validation Functions ---

// validate is a helper function to reduce repetition.
func validate(condition bool, format string, a ...any) error {
	if !condition {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, a...))
	}
	return nil
}

func (c *Config) Validate() error {
	checks := []error{
		validate(c.Scale >= 0, "scale must be >= 0, got %v", c.Scale),
		validate(c.Parallelism >= 1, "parallelism must be >= 1, got %d", c.Parallelism),
		validate(c.Chunk >= 0 && c.Chunk <= c.Parallelism, "chunk must be in [0, %d], got %d", c.Parallelism, c.Chunk),
		validate(c.Workers >= 1, "workers must be >= 1, got %d", c.Workers),
		validate(c.SeedBase > 0 && c.SeedBase < random.Modulus, "seed_base must be in [1, %d], got %d", random.Modulus-1, c.SeedBase),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	known := schema.Default()
	for _, name := range c.Tables {
		if _, err := known.Table(name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return c.Server.Validate()
}

func (o *OutputConfig) Validate() error {
	if err := validate(slices.Contains(Formats, o.Format), "unknown format %q, want one of %s", o.Format, strings.Join(Formats, ", ")); err != nil {
		return err
	}
	if err := validate(o.BatchSize >= 0, "batch_size must be >= 0, got %d", o.BatchSize); err != nil {
		return err
	}
	if err := validate(o.Checksum == "md5" || o.Checksum == "xxh3", "unknown checksum %q", o.Checksum); err != nil {
		return err
	}
	if o.Format == "postgres" {
		return validate(o.PostgresURI != "", "postgres_uri is required for the postgres format")
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	return validate(s.Port > 0 && s.Port < 65536, "server port %d out of range", s.Port)
}

// SelectedTables returns the configured tables, or every table when none
// is configured.
func (c *Config) SelectedTables() []string {
	if len(c.Tables) == 0 {
		return schema.Default().TableNames()
	}
	return c.Tables
}
