package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TFMV/dsgen/config"
	"github.com/TFMV/dsgen/logger"
	"github.com/TFMV/dsgen/metrics"
	"github.com/TFMV/dsgen/pkg/pipeline"
	"github.com/TFMV/dsgen/report"
	"github.com/TFMV/dsgen/version"
)

func (a *app) newGenerateCommand() *cobra.Command {
	var progress bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate tables, or one chunk of them",
		Long: `The generate command writes the selected tables at a scale factor.

With --parallelism P every table is split into P chunks and, unless --chunk
selects a single one, all of them are generated using --workers goroutines.
Chunk files are named <table>_<chunk>_<P>.<ext>; a single-chunk run writes
<table>.<ext>. Small tables are generated whole by chunk 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load(cmd)
			if err != nil {
				return err
			}
			var w io.Writer
			if progress {
				w = cmd.ErrOrStderr()
			}
			_, err = runGenerate(cmd.Context(), cfg, cmd.OutOrStdout(), w)
			return err
		},
	}

	flags := cmd.Flags()
	addScaleFlags(flags)
	flags.Int("chunk", 0, "Generate only this chunk (default all chunks)")
	flags.IntP("workers", "w", 1, "Concurrent chunk tasks")
	flags.StringP("dir", "o", ".", "Output directory")
	flags.StringP("format", "f", "dat", "Output format (dat, csv, json, arrow, parquet, duckdb, postgres, checksum)")
	flags.Int64("batch-size", 8192, "Rows per Arrow record batch")
	flags.String("checksum", "md5", "Checksum algorithm for the checksum format (md5, xxh3)")
	flags.String("duckdb-path", "dsgen.duckdb", "DuckDB database file")
	flags.String("duckdb-driver", "", "Path to libduckdb (default auto-detected)")
	flags.String("postgres-uri", "", "PostgreSQL connection URI")
	flags.String("metrics", "", "Write the run report as JSON to this file")
	flags.String("html-report", "", "Write the run report as HTML to this file")
	flags.String("bolt", "", "Record the run in this bbolt run history")
	flags.BoolVar(&progress, "progress", true, "Show a progress spinner")
	return cmd
}

// runGenerate executes a generate run and stores its report. progress, if
// non-nil, receives the spinner.
func runGenerate(ctx context.Context, cfg *config.Config, out, progress io.Writer) (metrics.RunReport, error) {
	log := logger.GetLogger()
	gen := newGenerator(cfg)

	runCfg := pipeline.RunConfig{
		Tables:      cfg.SelectedTables(),
		Scale:       cfg.Scale,
		TotalChunks: cfg.Parallelism,
		Chunk:       cfg.Chunk,
		Workers:     cfg.Workers,
	}
	tasks, err := gen.Tasks(runCfg)
	if err != nil {
		return metrics.RunReport{}, err
	}

	rec := metrics.NewRecorder(metrics.RunMetadata{
		Command:     "generate",
		Version:     version.GetVersion(),
		Scale:       cfg.Scale,
		Parallelism: cfg.Parallelism,
		Chunk:       cfg.Chunk,
		Workers:     cfg.Workers,
		Format:      cfg.Output.Format,
		OutputDir:   cfg.Output.Dir,
		SeedBase:    cfg.SeedBase,
	})
	log.Info("starting generate run", append(logFields(cfg), zap.String("run_id", rec.ID()), zap.Int("tasks", len(tasks)))...)

	outs, err := newOutputs(cfg.Output)
	if err != nil {
		return metrics.RunReport{}, err
	}

	var sp *spinner.Spinner
	if progress != nil {
		sp = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(progress))
		sp.Suffix = fmt.Sprintf(" generating 0/%d chunks", len(tasks))
		sp.Start()
	}

	done := 0
	_, runErr := gen.Run(ctx, runCfg, outs.Sink, func(res pipeline.ChunkResult) {
		task := pipeline.Task{Table: res.Table, Chunk: res.Chunk}
		target, sum := outs.describe(task)
		rec.AddChunk(metrics.ChunkMetrics{
			Table:       res.Table,
			Chunk:       res.Chunk,
			TotalChunks: res.TotalChunks,
			FirstRow:    res.Rows.FirstRow,
			LastRow:     res.Rows.LastRow,
			Rows:        res.RowCount,
			Skipped:     res.Skipped,
			Duration:    res.Duration,
			Checksum:    sum,
			Output:      target,
		})
		if sp != nil {
			sp.Lock()
			done++
			sp.Suffix = fmt.Sprintf(" generating %d/%d chunks", done, len(tasks))
			sp.Unlock()
		}
	})
	if sp != nil {
		sp.Stop()
	}
	if err := outs.Close(); err != nil && runErr == nil {
		runErr = err
	}

	run := rec.Finish(runErr)
	if err := saveRun(ctx, cfg.Metrics, run); err != nil {
		log.Error("failed to store run report", zap.String("run_id", run.Metadata.ID), zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	printRun(out, run)
	return run, runErr
}

// saveRun writes run to every configured report destination.
func saveRun(ctx context.Context, cfg config.MetricsConfig, run metrics.RunReport) error {
	if err := report.SaveReports(run, cfg.Path, cfg.HTMLPath); err != nil {
		return err
	}
	if cfg.BoltPath == "" {
		return nil
	}
	store, err := metrics.NewBoltStore(cfg.BoltPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveWithContext(ctx, run)
}

func printRun(w io.Writer, run metrics.RunReport) {
	status := "OK"
	if !run.Status.Passed {
		status = "FAILED: " + run.Status.Message
	}
	fmt.Fprintf(w, "run %s %s\n", run.Metadata.ID, status)
	for _, t := range run.Tables {
		fmt.Fprintf(w, "  %-24s %10d rows in %d chunk(s)\n", t.Name, t.Rows, t.Chunks)
	}
	for _, c := range run.Chunks {
		if c.Checksum != "" {
			fmt.Fprintf(w, "  %-24s chunk %d/%d %s\n", c.Table, c.Chunk, c.TotalChunks, c.Checksum)
		}
	}
	fmt.Fprintf(w, "  total %d rows in %s\n", run.TotalRows(), run.Metadata.Duration.Round(time.Millisecond))
}
