// Package pipeline generates chunks of tables. A chunk is an independent
// task: it owns a fresh set of column streams, skips them to its first row
// and emits its rows to a sink in order. Concatenating the output of chunks
// 1..P in chunk order reproduces a single-chunk run byte for byte.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/TFMV/dsgen/logger"
	"github.com/TFMV/dsgen/pkg/core"
	"github.com/TFMV/dsgen/pkg/parallel"
	"github.com/TFMV/dsgen/pkg/random"
	"github.com/TFMV/dsgen/pkg/rowgen"
	"github.com/TFMV/dsgen/pkg/schema"
)

// defaultCheckEvery is how many rows are generated between context checks.
const defaultCheckEvery = 1024

// ChunkResult describes a finished chunk.
type ChunkResult struct {
	Table       string                   `json:"table"`
	Chunk       int                      `json:"chunk"`
	TotalChunks int                      `json:"total_chunks"`
	Rows        parallel.ChunkBoundaries `json:"rows"`
	RowCount    int64                    `json:"row_count"`
	Skipped     bool                     `json:"skipped,omitempty"`
	Duration    time.Duration            `json:"duration"`
}

// Generator produces table chunks for a schema.
type Generator struct {
	schema     *schema.Schema
	scaling    schema.Scaling
	seedBase   int64
	strict     bool
	observer   random.BudgetObserver
	checkEvery int64
	logger     *zap.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeedBase overrides the stream seed base.
func WithSeedBase(base int64) Option {
	return func(g *Generator) {
		g.seedBase = base
	}
}

// WithStrict makes any draw budget mismatch panic.
func WithStrict(strict bool) Option {
	return func(g *Generator) {
		g.strict = strict
	}
}

// WithBudgetObserver replaces the default draw budget warning.
func WithBudgetObserver(fn random.BudgetObserver) Option {
	return func(g *Generator) {
		g.observer = fn
	}
}

// WithCheckEvery sets how often cancellation is checked.
func WithCheckEvery(rows int64) Option {
	return func(g *Generator) {
		if rows > 0 {
			g.checkEvery = rows
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// New creates a Generator.
func New(s *schema.Schema, scaling schema.Scaling, opts ...Option) *Generator {
	g := &Generator{
		schema:     s,
		scaling:    scaling,
		seedBase:   random.DefaultSeedBase,
		checkEvery: defaultCheckEvery,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = logger.GetLogger()
	}
	if g.observer == nil {
		l := g.logger
		g.observer = func(table, column string, used, budget int) {
			l.Warn("column missed its draw budget",
				zap.String("table", table),
				zap.String("column", column),
				zap.Int("used", used),
				zap.Int("budget", budget))
		}
	}
	return g
}

// Schema returns the generated schema.
func (g *Generator) Schema() *schema.Schema {
	return g.schema
}

// RowCount is the row count of table at scale.
func (g *Generator) RowCount(table string, scale float64) (int64, error) {
	if _, err := g.schema.Table(table); err != nil {
		return 0, err
	}
	return g.scaling.RowCount(table, scale)
}

// ChunkRows returns the rows chunk covers. Small tables are generated whole
// by chunk 1 and every other chunk of them is empty.
func (g *Generator) ChunkRows(table string, scale float64, totalChunks, chunk int) (parallel.ChunkBoundaries, error) {
	t, err := g.schema.Table(table)
	if err != nil {
		return parallel.ChunkBoundaries{}, err
	}
	n, err := g.scaling.RowCount(table, scale)
	if err != nil {
		return parallel.ChunkBoundaries{}, err
	}
	if t.Small {
		// validates chunk against totalChunks
		if _, err := parallel.SplitWork(n, totalChunks, chunk); err != nil {
			return parallel.ChunkBoundaries{}, err
		}
		if chunk != 1 {
			return parallel.ChunkBoundaries{FirstRow: n + 1, LastRow: n}, nil
		}
		return parallel.ChunkBoundaries{FirstRow: 1, LastRow: n}, nil
	}
	return parallel.SplitWork(n, totalChunks, chunk)
}

// GenerateChunk writes the rows of one chunk to sink in order. The sink is
// not closed. Failures are returned as *ChunkError.
func (g *Generator) GenerateChunk(ctx context.Context, table string, scale float64, totalChunks, chunk int, sink core.RowSink) (ChunkResult, error) {
	start := time.Now()
	res := ChunkResult{Table: table, Chunk: chunk, TotalChunks: totalChunks}
	wrap := func(err error) (ChunkResult, error) {
		return res, &ChunkError{Table: table, Chunk: chunk, Err: err}
	}

	bounds, err := g.ChunkRows(table, scale, totalChunks, chunk)
	if err != nil {
		return wrap(err)
	}
	res.Rows = bounds
	if bounds.Empty() {
		res.Skipped = true
		res.Duration = time.Since(start)
		return res, nil
	}

	gen, reg, err := g.bind(table, scale)
	if err != nil {
		return wrap(err)
	}
	streams, err := reg.Table(table)
	if err != nil {
		return wrap(err)
	}

	streams.SkipToRow(bounds.FirstRow)
	for id := bounds.FirstRow; id <= bounds.LastRow; id++ {
		if (id-bounds.FirstRow)%g.checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return wrap(err)
			}
		}
		if err := sink.WriteRow(ctx, gen.GenerateRow(id)); err != nil {
			return wrap(err)
		}
		streams.ResetRowUsage()
		res.RowCount++
	}

	res.Duration = time.Since(start)
	g.logger.Debug("chunk generated",
		zap.String("table", table),
		zap.Int("chunk", chunk),
		zap.Int("total_chunks", totalChunks),
		zap.Int64("rows", res.RowCount),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// bind builds the streams and row generator of one task.
func (g *Generator) bind(table string, scale float64) (*rowgen.RowGenerator, *random.Registry, error) {
	specs, err := g.schema.StreamSpecs(table)
	if err != nil {
		return nil, nil, err
	}
	opts := []random.Option{random.WithSeedBase(g.seedBase), random.WithBudgetObserver(g.observer)}
	if g.strict {
		opts = append(opts, random.WithStrict())
	}
	reg, err := random.NewRegistry(specs, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("streams: %w", err)
	}
	gen, err := rowgen.New(reg, g.schema, table, scale, g.scaling)
	if err != nil {
		return nil, nil, err
	}
	return gen, reg, nil
}
