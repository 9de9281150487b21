package pipeline

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TFMV/dsgen/pkg/core"
	"github.com/TFMV/dsgen/pkg/schema"
)

// Task is one (table, chunk) unit of work.
type Task struct {
	Table string `json:"table"`
	Chunk int    `json:"chunk"`
}

// RunConfig selects the tasks of a run.
type RunConfig struct {
	Tables      []string
	Scale       float64
	TotalChunks int

	// Chunk restricts the run to one chunk index; 0 runs all of them.
	Chunk int

	// Workers bounds concurrent tasks; 0 means GOMAXPROCS.
	Workers int
}

// SinkFactory opens the sink of a task. The runner closes it.
type SinkFactory func(t *schema.Table, task Task, totalChunks int) (core.RowSink, error)

// ProgressFunc is called after each task completes, from the task's goroutine.
type ProgressFunc func(ChunkResult)

// Tasks lists the tasks of cfg in table order, then chunk order.
func (g *Generator) Tasks(cfg RunConfig) ([]Task, error) {
	tables := cfg.Tables
	if len(tables) == 0 {
		tables = g.schema.TableNames()
	}
	var tasks []Task
	for _, name := range tables {
		if _, err := g.schema.Table(name); err != nil {
			return nil, err
		}
		if cfg.Chunk > 0 {
			tasks = append(tasks, Task{Table: name, Chunk: cfg.Chunk})
			continue
		}
		for c := 1; c <= cfg.TotalChunks; c++ {
			tasks = append(tasks, Task{Table: name, Chunk: c})
		}
	}
	return tasks, nil
}

// Run executes every task of cfg with bounded concurrency. Results are in
// task order. The first failure cancels the remaining tasks.
func (g *Generator) Run(ctx context.Context, cfg RunConfig, newSink SinkFactory, progress ProgressFunc) ([]ChunkResult, error) {
	tasks, err := g.Tasks(cfg)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]ChunkResult, len(tasks))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, task := range tasks {
		eg.Go(func() error {
			res, err := g.runTask(ctx, cfg, task, newSink)
			if err != nil {
				return err
			}
			results[i] = res
			if progress != nil {
				progress(res)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var rows int64
	for _, r := range results {
		rows += r.RowCount
	}
	g.logger.Info("run complete",
		zap.Int("tasks", len(tasks)),
		zap.Int("workers", workers),
		zap.Int64("rows", rows))
	return results, nil
}

func (g *Generator) runTask(ctx context.Context, cfg RunConfig, task Task, newSink SinkFactory) (res ChunkResult, err error) {
	bounds, err := g.ChunkRows(task.Table, cfg.Scale, cfg.TotalChunks, task.Chunk)
	if err != nil {
		return res, &ChunkError{Table: task.Table, Chunk: task.Chunk, Err: err}
	}
	if bounds.Empty() {
		return ChunkResult{
			Table:       task.Table,
			Chunk:       task.Chunk,
			TotalChunks: cfg.TotalChunks,
			Rows:        bounds,
			Skipped:     true,
		}, nil
	}

	t, _ := g.schema.Table(task.Table)
	sink, err := newSink(t, task, cfg.TotalChunks)
	if err != nil {
		return res, &ChunkError{Table: task.Table, Chunk: task.Chunk, Err: err}
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = &ChunkError{Table: task.Table, Chunk: task.Chunk, Err: cerr}
		}
	}()
	return g.GenerateChunk(ctx, task.Table, cfg.Scale, cfg.TotalChunks, task.Chunk, sink)
}
