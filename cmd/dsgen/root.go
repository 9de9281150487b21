package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/TFMV/dsgen/config"
	"github.com/TFMV/dsgen/logger"
	"github.com/TFMV/dsgen/pkg/pipeline"
	"github.com/TFMV/dsgen/pkg/schema"
	"github.com/TFMV/dsgen/version"
)

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"scale":         "scale",
	"parallelism":   "parallelism",
	"chunk":         "chunk",
	"tables":        "tables",
	"workers":       "workers",
	"seed-base":     "seed_base",
	"strict":        "strict",
	"dir":           "output.dir",
	"format":        "output.format",
	"batch-size":    "output.batch_size",
	"checksum":      "output.checksum",
	"duckdb-path":   "output.duckdb_path",
	"duckdb-driver": "output.duckdb_driver",
	"postgres-uri":  "output.postgres_uri",
	"metrics":       "metrics.path",
	"html-report":   "metrics.html_path",
	"bolt":          "metrics.bolt_path",
	"port":          "server.port",
}

// app is the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string
	logFile    string
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "dsgen",
		Short: "dsgen is a deterministic, chunk-parallel benchmark data generator",
		Long: `dsgen synthesizes the tables of a fixed benchmark schema at any scale factor.
Output is byte-for-byte reproducible, and any table can be split into P chunks
that independent workers generate without coordination: concatenating chunks
1..P in order yields exactly the single-chunk output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogging()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFile, "log-file", "", "JSON log file (default dsgen.log)")

	root.AddCommand(
		a.newGenerateCommand(),
		a.newPlanCommand(),
		a.newVerifyCommand(),
		a.newTablesCommand(),
		a.newServeCommand(),
		a.newRunsCommand(),
		a.newInspectCommand(),
		newVersionCommand(),
	)
	return root
}

func (a *app) initLogging() error {
	lvl, err := zapcore.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.logLevel, err)
	}
	if a.logFile != "" {
		logger.SetLogPath(a.logFile)
	}
	logger.SetLevel(lvl)
	return nil
}

// load resolves the configuration of cmd: defaults, then the config file,
// then DSGEN_ environment variables, then the flags set on cmd.
func (a *app) load(cmd *cobra.Command) (*config.Config, error) {
	v := config.NewViper()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	if err := config.ReadFile(v, a.configPath); err != nil {
		return nil, err
	}
	return config.FromViper(v)
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || err != nil {
			return
		}
		// only explicit flags override the defaults, file and environment
		if f.Changed {
			err = v.BindPFlag(key, f)
		}
	})
	return err
}

func newGenerator(cfg *config.Config) *pipeline.Generator {
	return pipeline.New(schema.Default(), schema.DefaultScaling(),
		pipeline.WithSeedBase(cfg.SeedBase),
		pipeline.WithStrict(cfg.Strict),
		pipeline.WithLogger(logger.GetLogger()),
	)
}

// addScaleFlags registers the flags every generating command shares.
func addScaleFlags(flags *pflag.FlagSet) {
	flags.Float64P("scale", "s", 1, "Scale factor")
	flags.IntP("parallelism", "p", 1, "Total number of chunks per table")
	flags.StringSliceP("tables", "t", nil, "Tables to generate (default all)")
	flags.Int64("seed-base", 0, "Seed base of every column stream")
	flags.Bool("strict", false, "Panic on any draw budget mismatch")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dsgen",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}

func logFields(cfg *config.Config) []zap.Field {
	return []zap.Field{
		zap.Float64("scale", cfg.Scale),
		zap.Int("parallelism", cfg.Parallelism),
		zap.Int("chunk", cfg.Chunk),
		zap.Int("workers", cfg.Workers),
		zap.String("format", cfg.Output.Format),
	}
}
