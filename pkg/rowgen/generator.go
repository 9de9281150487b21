// Package rowgen turns column streams into rows. Each table is described by
// a Plan, an ordered list of value generators with fixed draw counts; a
// RowGenerator interprets the plan against the streams of a Registry.
package rowgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/TFMV/dsgen/pkg/random"
	"github.com/TFMV/dsgen/pkg/row"
	"github.com/TFMV/dsgen/pkg/schema"
)

// ErrPlanMismatch is returned when a plan does not line up with its table.
var ErrPlanMismatch = errors.New("plan does not match table")

// ColumnPlan binds a generator to a column.
type ColumnPlan struct {
	Column string
	Gen    ValueGenerator
}

// Plan lists the generators of a table in column order.
type Plan []ColumnPlan

// Context is what a generator may observe besides its own stream.
type Context struct {
	RowID int64

	table     *schema.Table
	values    []row.Value
	rowCounts map[string]int64
}

// Value returns an already generated column of the current row.
func (c *Context) Value(column string) row.Value {
	i, _ := c.table.Position(column)
	return c.values[i]
}

// RowCount is the row count of a referenced table at the bound scale.
func (c *Context) RowCount(table string) int64 {
	return c.rowCounts[table]
}

// RowGenerator produces the rows of one table. It holds stream state and is
// not safe for concurrent use.
type RowGenerator struct {
	table   *schema.Table
	gens    []ValueGenerator
	streams []*random.Stream
	nulls   *random.Stream
	ctx     Context
}

// New binds the built-in plan of table to the streams of reg.
func New(reg *random.Registry, s *schema.Schema, table string, scale float64, scaling schema.Scaling) (*RowGenerator, error) {
	t, err := s.Table(table)
	if err != nil {
		return nil, err
	}
	plan, err := PlanFor(table)
	if err != nil {
		return nil, err
	}
	return NewWithPlan(reg, t, plan, scale, scaling)
}

// NewWithPlan binds an explicit plan. The plan must name the table's columns
// in order and every generator must draw exactly its column's budget.
func NewWithPlan(reg *random.Registry, t *schema.Table, plan Plan, scale float64, scaling schema.Scaling) (*RowGenerator, error) {
	if len(plan) != len(t.Columns) {
		return nil, fmt.Errorf("%w: %s has %d columns, plan has %d", ErrPlanMismatch, t.Name, len(t.Columns), len(plan))
	}

	g := &RowGenerator{
		table:   t,
		gens:    make([]ValueGenerator, len(plan)),
		streams: make([]*random.Stream, len(plan)),
		ctx:     Context{table: t, rowCounts: make(map[string]int64)},
	}
	for i, cp := range plan {
		col := t.Columns[i]
		if cp.Column != col.Name {
			return nil, fmt.Errorf("%w: position %d is %s, plan has %s", ErrPlanMismatch, i, col.Name, cp.Column)
		}
		if cp.Gen.Draws() != col.SeedsPerRow {
			return nil, fmt.Errorf("%w: %s.%s draws %d values, budget is %d",
				ErrPlanMismatch, t.Name, col.Name, cp.Gen.Draws(), col.SeedsPerRow)
		}
		if v, ok := cp.Gen.(validator); ok {
			if err := v.validate(); err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %v", ErrPlanMismatch, t.Name, col.Name, err)
			}
		}
		if d, ok := cp.Gen.(dependent); ok {
			pos, found := t.Position(d.dependsOn())
			if !found || pos >= i {
				return nil, fmt.Errorf("%w: %s.%s depends on %s which is not an earlier column",
					ErrPlanMismatch, t.Name, col.Name, d.dependsOn())
			}
		}
		if r, ok := cp.Gen.(referencing); ok {
			ref := r.references()
			n, err := scaling.RowCount(ref, scale)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t.Name, col.Name, err)
			}
			g.ctx.rowCounts[ref] = n
		}

		s, err := reg.StreamFor(t.Name, col.Name)
		if err != nil {
			return nil, err
		}
		g.gens[i] = cp.Gen
		g.streams[i] = s
	}

	nulls, err := reg.StreamFor(t.Name, t.NullsColumn().Name)
	if err != nil {
		return nil, err
	}
	g.nulls = nulls
	return g, nil
}

// Table returns the table being generated.
func (g *RowGenerator) Table() *schema.Table {
	return g.table
}

// GenerateRow builds the row with the given 1-indexed id from the current
// stream positions: columns in order, then the null bitmap.
func (g *RowGenerator) GenerateRow(rowID int64) *row.Row {
	values := make([]row.Value, len(g.gens))
	g.ctx.RowID = rowID
	g.ctx.values = values
	for i, gen := range g.gens {
		values[i] = gen.Generate(&g.ctx, g.streams[i])
	}
	g.ctx.values = nil

	bits := NullBits(g.table, g.nulls)
	return row.New(g.table.Name, values, row.MaskFromBits(len(values), bits))
}

// NullBits draws the null bitmap of one row from the table's nulls stream.
// It always makes exactly two draws: a threshold in [0, 9999] and a bitmap
// in [1, MaxInt32]. Columns in the table's not-null mask are cleared.
func NullBits(t *schema.Table, s *random.Stream) uint64 {
	threshold := random.UniformInt(0, 9999, s)
	bitmap := random.UniformKey(1, math.MaxInt32, s)
	if threshold < t.NullBasisPoints {
		return uint64(bitmap) &^ t.NotNullMask()
	}
	return 0
}
