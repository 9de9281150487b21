// Package row holds the table-independent row representation produced by
// every generator: typed values plus a null bitmask.
package row

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind identifies the representation stored in a Value.
type Kind uint8

const (
	// KindKey is a surrogate or foreign key. -1 reads as NULL.
	KindKey Kind = iota
	KindInt
	KindDecimal
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindString:
		return "string"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// NullKey is the key value that is always rendered as NULL.
const NullKey int64 = -1

// Value is one attribute of a row.
type Value struct {
	kind   Kind
	places int32
	i      int64
	d      decimal.Decimal
	s      string
}

func Key(v int64) Value { return Value{kind: KindKey, i: v} }
func Int(v int64) Value { return Value{kind: KindInt, i: v} }
func Str(s string) Value { return Value{kind: KindString, s: s} }

// Decimal stores d and renders it with exactly places fractional digits.
func Decimal(d decimal.Decimal, places int32) Value {
	return Value{kind: KindDecimal, d: d, places: places}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) Int64() int64 { return v.i }
func (v Value) Decimal() decimal.Decimal { return v.d }
func (v Value) Places() int32 { return v.places }
func (v Value) Text() string { return v.s }

// String renders the value the way the text output expects it.
func (v Value) String() string {
	switch v.kind {
	case KindKey, KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		return v.d.StringFixed(v.places)
	default:
		return v.s
	}
}
