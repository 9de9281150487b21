package random

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownStream is returned when a (table, column) pair has no stream.
var ErrUnknownStream = errors.New("unknown stream")

// ColumnSpec declares one generator column of the schema.
type ColumnSpec struct {
	Table        string
	Column       string
	GlobalNumber int
	SeedsPerRow  int
}

// BudgetObserver is told the first time a column draws a number of values for
// a row other than its declared budget. It is only consulted outside strict
// mode.
type BudgetObserver func(table, column string, used, budget int)

// Option configures a Registry.
type Option func(*Registry)

// WithSeedBase overrides DefaultSeedBase for every stream.
func WithSeedBase(base int64) Option {
	return func(r *Registry) {
		r.seedBase = base
	}
}

// WithStrict turns any draw budget mismatch into a panic.
func WithStrict() Option {
	return func(r *Registry) {
		r.strict = true
	}
}

// WithBudgetObserver installs the budget mismatch callback.
func WithBudgetObserver(fn BudgetObserver) Option {
	return func(r *Registry) {
		r.observer = fn
	}
}

type entry struct {
	spec    ColumnSpec
	stream  *Stream
	flagged bool
}

// TableStreams is the set of streams belonging to one table.
type TableStreams struct {
	name     string
	entries  []*entry
	strict   bool
	observer BudgetObserver
}

// Registry owns one Stream per declared column. A Registry is not safe for
// concurrent use; every generation task builds its own.
type Registry struct {
	seedBase int64
	strict   bool
	observer BudgetObserver

	byNumber map[int]*entry
	byName   map[string]*entry
	tables   map[string]*TableStreams
}

// NewRegistry creates the streams for specs eagerly.
func NewRegistry(specs []ColumnSpec, opts ...Option) (*Registry, error) {
	r := &Registry{
		seedBase: DefaultSeedBase,
		byNumber: make(map[int]*entry, len(specs)),
		byName:   make(map[string]*entry, len(specs)),
		tables:   make(map[string]*TableStreams),
	}
	for _, opt := range opts {
		opt(r)
	}

	sorted := make([]ColumnSpec, len(specs))
	copy(sorted, specs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GlobalNumber < sorted[j].GlobalNumber
	})

	for _, spec := range sorted {
		if _, dup := r.byNumber[spec.GlobalNumber]; dup {
			return nil, fmt.Errorf("global column number %d declared twice (%s.%s)", spec.GlobalNumber, spec.Table, spec.Column)
		}
		key := streamKey(spec.Table, spec.Column)
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("column %s declared twice", key)
		}
		stream, err := NewStreamWithBase(spec.GlobalNumber, r.seedBase, spec.SeedsPerRow)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", key, err)
		}
		e := &entry{spec: spec, stream: stream}
		r.byNumber[spec.GlobalNumber] = e
		r.byName[key] = e

		ts, ok := r.tables[spec.Table]
		if !ok {
			ts = &TableStreams{name: spec.Table, strict: r.strict, observer: r.observer}
			r.tables[spec.Table] = ts
		}
		ts.entries = append(ts.entries, e)
	}
	return r, nil
}

func streamKey(table, column string) string {
	return table + "." + column
}

// StreamFor returns the stream of a column.
func (r *Registry) StreamFor(table, column string) (*Stream, error) {
	e, ok := r.byName[streamKey(table, column)]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownStream, table, column)
	}
	return e.stream, nil
}

// ByGlobalNumber returns the stream of a global column number.
func (r *Registry) ByGlobalNumber(n int) (*Stream, bool) {
	e, ok := r.byNumber[n]
	if !ok {
		return nil, false
	}
	return e.stream, true
}

// Table returns the streams of a table.
func (r *Registry) Table(name string) (*TableStreams, error) {
	ts, ok := r.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: no streams for table %s", ErrUnknownStream, name)
	}
	return ts, nil
}

// SkipAllToRow repositions every stream of table to the state preceding
// generation of row.
func (r *Registry) SkipAllToRow(table string, row int64) error {
	ts, err := r.Table(table)
	if err != nil {
		return err
	}
	ts.SkipToRow(row)
	return nil
}

// ResetRowUsage closes the current row of table. See TableStreams.ResetRowUsage.
func (r *Registry) ResetRowUsage(table string) error {
	ts, err := r.Table(table)
	if err != nil {
		return err
	}
	ts.ResetRowUsage()
	return nil
}

// Len reports the number of streams.
func (r *Registry) Len() int {
	return len(r.byNumber)
}

// Name returns the table name.
func (t *TableStreams) Name() string {
	return t.name
}

// Len reports the number of streams of the table.
func (t *TableStreams) Len() int {
	return len(t.entries)
}

// SkipToRow calls SkipToRow on every stream of the table.
func (t *TableStreams) SkipToRow(row int64) {
	for _, e := range t.entries {
		e.stream.SkipToRow(row)
	}
}

// ResetToStart rewinds every stream of the table to its initial seed.
func (t *TableStreams) ResetToStart() {
	for _, e := range t.entries {
		e.stream.ResetSeed()
	}
}

// ResetRowUsage is called once a row is complete. A mismatch is reported to
// the observer once per column. A stream that drew fewer values than its
// budget is then advanced to the budget so its position keeps matching
// SkipToRow. In strict mode either mismatch panics.
func (t *TableStreams) ResetRowUsage() {
	for _, e := range t.entries {
		s := e.stream
		used, budget := s.seedsUsed, s.seedsPerRow
		if used != budget {
			if t.strict {
				panic(fmt.Sprintf("random: %s.%s drew %d values for one row, budget is %d",
					e.spec.Table, e.spec.Column, used, budget))
			}
			if !e.flagged {
				e.flagged = true
				if t.observer != nil {
					t.observer(e.spec.Table, e.spec.Column, used, budget)
				}
			}
			for s.seedsUsed < budget {
				s.Next()
			}
		}
		s.seedsUsed = 0
	}
}
