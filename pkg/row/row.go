package row

import "fmt"

// Row is one generated row. Positions flagged in the null mask read as NULL
// whatever value is stored there, so generators may compute every value
// first and decide nullability afterwards.
type Row struct {
	table  string
	values []Value
	nulls  NullMask
}

// New takes ownership of values. The mask width must match len(values).
func New(table string, values []Value, nulls NullMask) *Row {
	if nulls.Width() != len(values) {
		panic(fmt.Sprintf("row: %s has %d values but a null mask of width %d", table, len(values), nulls.Width()))
	}
	return &Row{table: table, values: values, nulls: nulls}
}

func (r *Row) Table() string { return r.table }
func (r *Row) Len() int { return len(r.values) }

// Nulls returns a copy of the null mask.
func (r *Row) Nulls() NullMask {
	return r.nulls.Clone()
}

// IsNull reports whether attribute i reads as NULL: its mask bit is set, or
// it is a key holding NullKey.
func (r *Row) IsNull(i int) bool {
	if r.nulls.IsSet(i) {
		return true
	}
	v := r.values[i]
	return v.kind == KindKey && v.i == NullKey
}

// Value returns attribute i, or false when it reads as NULL.
func (r *Row) Value(i int) (Value, bool) {
	if r.IsNull(i) {
		return Value{}, false
	}
	return r.values[i], true
}

// Raw returns the stored value of attribute i ignoring nullability.
func (r *Row) Raw(i int) Value {
	return r.values[i]
}

// Strings renders the row as optional strings, nil marking NULL.
func (r *Row) Strings() []*string {
	out := make([]*string, len(r.values))
	for i := range r.values {
		if v, ok := r.Value(i); ok {
			s := v.String()
			out[i] = &s
		}
	}
	return out
}
