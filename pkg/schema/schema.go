// Package schema declares the fixed benchmark schema: its tables and
// columns, the dense global column numbering that seeds every column
// stream, per-table null policy and the scale factor to row count lookup.
package schema

import (
	"errors"
	"fmt"
	"sync"

	"github.com/TFMV/dsgen/pkg/random"
)

var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
)

// NullsSeedsPerRow is the draw budget of every table's null bitmap column.
const NullsSeedsPerRow = 2

// Column is one output attribute of a table.
type Column struct {
	Name        string
	Type        DataType
	NotNull     bool
	SeedsPerRow int

	// GlobalNumber and Position are assigned when the schema is built.
	GlobalNumber int
	Position     int
}

// Table is a generated table.
type Table struct {
	Name    string
	Columns []*Column

	// NullBasisPoints is the chance, in 1/10000, that a row draws nulls.
	NullBasisPoints int

	// Small tables are generated whole by chunk 1 of any parallel run.
	Small bool

	nulls   *Column
	index   map[string]int
	notNull uint64
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name, name)
	}
	return t.Columns[i], nil
}

// Position returns the 0-indexed position of a column.
func (t *Table) Position(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// NullsColumn is the pseudo-column whose stream decides row nullability.
func (t *Table) NullsColumn() *Column {
	return t.nulls
}

// NotNullMask has bit i set when column i can never be NULL.
func (t *Table) NotNullMask() uint64 {
	return t.notNull
}

// ColumnNames returns the output column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// StreamSpecs lists the generator columns of the table, nulls column last.
func (t *Table) StreamSpecs() []random.ColumnSpec {
	specs := make([]random.ColumnSpec, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		specs = append(specs, random.ColumnSpec{
			Table:        t.Name,
			Column:       c.Name,
			GlobalNumber: c.GlobalNumber,
			SeedsPerRow:  c.SeedsPerRow,
		})
	}
	return append(specs, random.ColumnSpec{
		Table:        t.Name,
		Column:       t.nulls.Name,
		GlobalNumber: t.nulls.GlobalNumber,
		SeedsPerRow:  t.nulls.SeedsPerRow,
	})
}

// Schema is an ordered set of tables with a dense global column numbering.
type Schema struct {
	tables []*Table
	byName map[string]*Table
	maxCol int
}

// TableDef declares a table; New turns definitions into a numbered Schema.
type TableDef struct {
	Name            string
	NullsColumn     string
	NullBasisPoints int
	Small           bool
	Columns         []Column
}

// New numbers every column of defs from 1 in declaration order, each table's
// nulls column directly after its last output column.
func New(defs []TableDef) (*Schema, error) {
	s := &Schema{byName: make(map[string]*Table, len(defs))}
	next := 1
	for _, def := range defs {
		if _, dup := s.byName[def.Name]; dup {
			return nil, fmt.Errorf("table %s declared twice", def.Name)
		}
		if def.NullBasisPoints < 0 || def.NullBasisPoints > 10000 {
			return nil, fmt.Errorf("table %s: null basis points %d outside [0, 10000]", def.Name, def.NullBasisPoints)
		}
		t := &Table{
			Name:            def.Name,
			NullBasisPoints: def.NullBasisPoints,
			Small:           def.Small,
			index:           make(map[string]int, len(def.Columns)),
		}
		for i, cd := range def.Columns {
			if _, dup := t.index[cd.Name]; dup {
				return nil, fmt.Errorf("column %s.%s declared twice", def.Name, cd.Name)
			}
			if cd.SeedsPerRow < 0 {
				return nil, fmt.Errorf("column %s.%s: %w", def.Name, cd.Name, random.ErrInvalidSeedsPerRow)
			}
			c := cd
			c.GlobalNumber = next
			c.Position = i
			next++
			t.Columns = append(t.Columns, &c)
			t.index[c.Name] = i
			if c.NotNull && i < 64 {
				t.notNull |= 1 << uint(i)
			}
		}
		nullsName := def.NullsColumn
		if nullsName == "" {
			nullsName = def.Name + "_nulls"
		}
		t.nulls = &Column{
			Name:         nullsName,
			Type:         IntegerType(),
			SeedsPerRow:  NullsSeedsPerRow,
			GlobalNumber: next,
			Position:     -1,
		}
		next++
		s.tables = append(s.tables, t)
		s.byName[t.Name] = t
	}
	s.maxCol = next - 1
	return s, nil
}

var (
	defaultOnce   sync.Once
	defaultSchema *Schema
)

// Default returns the benchmark schema.
func Default() *Schema {
	defaultOnce.Do(func() {
		s, err := New(benchmarkTables())
		if err != nil {
			panic(fmt.Sprintf("schema: invalid benchmark schema: %v", err))
		}
		defaultSchema = s
	})
	return defaultSchema
}

// Table returns the named table.
func (s *Schema) Table(name string) (*Table, error) {
	t, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return t, nil
}

// Tables returns the tables in declaration order.
func (s *Schema) Tables() []*Table {
	out := make([]*Table, len(s.tables))
	copy(out, s.tables)
	return out
}

// TableNames returns the table names in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.tables))
	for i, t := range s.tables {
		names[i] = t.Name
	}
	return names
}

// ColumnCount is the highest global column number.
func (s *Schema) ColumnCount() int {
	return s.maxCol
}

// StreamSpecs lists the generator columns of the named tables, or of every
// table when none are named.
func (s *Schema) StreamSpecs(tables ...string) ([]random.ColumnSpec, error) {
	selected := s.tables
	if len(tables) > 0 {
		selected = make([]*Table, 0, len(tables))
		for _, name := range tables {
			t, err := s.Table(name)
			if err != nil {
				return nil, err
			}
			selected = append(selected, t)
		}
	}
	var specs []random.ColumnSpec
	for _, t := range selected {
		specs = append(specs, t.StreamSpecs()...)
	}
	return specs, nil
}
