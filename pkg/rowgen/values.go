package rowgen

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/TFMV/dsgen/pkg/random"
	"github.com/TFMV/dsgen/pkg/row"
)

// ValueGenerator computes one column of a row. Generate must draw exactly
// Draws() values from s on every call, whatever branch it takes.
type ValueGenerator interface {
	Draws() int
	Generate(c *Context, s *random.Stream) row.Value
}

// optional hooks checked when a plan is bound
type validator interface{ validate() error }
type dependent interface{ dependsOn() string }
type referencing interface{ references() string }

// SurrogateKey is the row id.
type SurrogateKey struct{}

func (SurrogateKey) Draws() int { return 0 }
func (SurrogateKey) Generate(c *Context, _ *random.Stream) row.Value {
	return row.Key(c.RowID)
}

// BusinessKey is the 16 character business identifier of the row id.
type BusinessKey struct{}

func (BusinessKey) Draws() int { return 0 }
func (BusinessKey) Generate(c *Context, _ *random.Stream) row.Value {
	return row.Str(MakeBusinessKey(c.RowID))
}

// Cycle walks Values by row id, advancing one entry every Divisor rows.
type Cycle struct {
	Values  []string
	Divisor int64
}

func (Cycle) Draws() int { return 0 }
func (g Cycle) Generate(c *Context, _ *random.Stream) row.Value {
	d := max(g.Divisor, 1)
	return row.Str(g.Values[((c.RowID-1)/d)%int64(len(g.Values))])
}
func (g Cycle) validate() error {
	if len(g.Values) == 0 {
		return fmt.Errorf("cycle has no values")
	}
	return nil
}

// Bounds yields the lower or upper bound of the row's band of width Step:
// row 1 is [0, Step], row n is [(n-1)*Step+1, n*Step].
type Bounds struct {
	Step  int64
	Upper bool
}

func (Bounds) Draws() int { return 0 }
func (g Bounds) Generate(c *Context, _ *random.Stream) row.Value {
	if g.Upper {
		return row.Int(c.RowID * g.Step)
	}
	if c.RowID <= 1 {
		return row.Int(0)
	}
	return row.Int((c.RowID-1)*g.Step + 1)
}

// Const is the same text on every row.
type Const struct {
	Value string
}

func (Const) Draws() int { return 0 }
func (g Const) Generate(*Context, *random.Stream) row.Value {
	return row.Str(g.Value)
}

// UniformInt draws an integer in [Min, Max].
type UniformInt struct {
	Min, Max int64
}

func (UniformInt) Draws() int { return 1 }
func (g UniformInt) Generate(_ *Context, s *random.Stream) row.Value {
	return row.Int(random.UniformKey(g.Min, g.Max, s))
}
func (g UniformInt) validate() error { return checkRange(g.Min, g.Max) }

// UniformDecimal draws a decimal in [Min, Max] expressed in units of
// 10^-Places, so Min 1000 with Places 2 is 10.00.
type UniformDecimal struct {
	Min, Max int64
	Places   int32
}

func (UniformDecimal) Draws() int { return 1 }
func (g UniformDecimal) Generate(_ *Context, s *random.Stream) row.Value {
	units := random.UniformKey(g.Min, g.Max, s)
	return row.Decimal(decimal.New(units, -g.Places), g.Places)
}
func (g UniformDecimal) validate() error { return checkRange(g.Min, g.Max) }

// Pick draws one of Values uniformly.
type Pick struct {
	Values []string
}

func (Pick) Draws() int { return 1 }
func (g Pick) Generate(_ *Context, s *random.Stream) row.Value {
	return row.Str(g.Values[random.UniformInt(0, len(g.Values)-1, s)])
}
func (g Pick) validate() error {
	if len(g.Values) == 0 {
		return fmt.Errorf("pick has no values")
	}
	return nil
}

// PickDecimal draws one of a fixed set of decimals uniformly.
type PickDecimal struct {
	values []decimal.Decimal
	places int32
}

// NewPickDecimal parses values, panicking on malformed literals.
func NewPickDecimal(places int32, values ...string) PickDecimal {
	g := PickDecimal{places: places, values: make([]decimal.Decimal, len(values))}
	for i, v := range values {
		g.values[i] = decimal.RequireFromString(v)
	}
	return g
}

func (PickDecimal) Draws() int { return 1 }
func (g PickDecimal) Generate(_ *Context, s *random.Stream) row.Value {
	return row.Decimal(g.values[random.UniformInt(0, len(g.values)-1, s)], g.places)
}
func (g PickDecimal) validate() error {
	if len(g.values) == 0 {
		return fmt.Errorf("pick has no values")
	}
	return nil
}

// Flag is "Y" with probability Percent/100, else "N".
type Flag struct {
	Percent int
}

func (Flag) Draws() int { return 1 }
func (g Flag) Generate(_ *Context, s *random.Stream) row.Value {
	if random.UniformInt(1, 100, s) <= g.Percent {
		return row.Str("Y")
	}
	return row.Str("N")
}

// RandomText draws a length in [Min, Max] and then one character per
// position up to Max. Characters past the drawn length are discarded.
type RandomText struct {
	Charset  string
	Min, Max int
}

func (g RandomText) Draws() int { return g.Max + 1 }
func (g RandomText) Generate(_ *Context, s *random.Stream) row.Value {
	n := random.UniformInt(g.Min, g.Max, s)
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < g.Max; i++ {
		ch := g.Charset[random.UniformInt(0, len(g.Charset)-1, s)]
		if i < n {
			b.WriteByte(ch)
		}
	}
	return row.Str(b.String())
}
func (g RandomText) validate() error {
	if g.Charset == "" {
		return fmt.Errorf("random text has an empty charset")
	}
	return checkRange(int64(g.Min), int64(g.Max))
}

// Words draws a word count in [Min, Max] and then one word per slot up to
// Max, joining the first count words with spaces.
type Words struct {
	List     []string
	Min, Max int
}

func (g Words) Draws() int { return g.Max + 1 }
func (g Words) Generate(_ *Context, s *random.Stream) row.Value {
	n := random.UniformInt(g.Min, g.Max, s)
	picked := make([]string, 0, n)
	for i := 0; i < g.Max; i++ {
		w := g.List[random.UniformInt(0, len(g.List)-1, s)]
		if i < n {
			picked = append(picked, w)
		}
	}
	return row.Str(strings.Join(picked, " "))
}
func (g Words) validate() error {
	if len(g.List) == 0 {
		return fmt.Errorf("words has an empty list")
	}
	return checkRange(int64(g.Min), int64(g.Max))
}

// Formatted renders an integer drawn from [Min, Max] with Format.
type Formatted struct {
	Format   string
	Min, Max int64
}

func (Formatted) Draws() int { return 1 }
func (g Formatted) Generate(_ *Context, s *random.Stream) row.Value {
	return row.Str(fmt.Sprintf(g.Format, random.UniformKey(g.Min, g.Max, s)))
}
func (g Formatted) validate() error { return checkRange(g.Min, g.Max) }

// DateRange draws a julian day number in [From, To].
type DateRange struct {
	From, To int64
}

// Dates builds a DateRange from calendar dates.
func Dates(fromYear, fromMonth, fromDay, toYear, toMonth, toDay int) DateRange {
	return DateRange{From: JulianDay(fromYear, fromMonth, fromDay), To: JulianDay(toYear, toMonth, toDay)}
}

func (DateRange) Draws() int { return 1 }
func (g DateRange) Generate(_ *Context, s *random.Stream) row.Value {
	return row.Key(random.UniformKey(g.From, g.To, s))
}
func (g DateRange) validate() error { return checkRange(g.From, g.To) }

// DateOffset adds a day count in [Min, Max] to an earlier key column.
type DateOffset struct {
	Column   string
	Min, Max int64
}

func (DateOffset) Draws() int { return 1 }
func (g DateOffset) Generate(c *Context, s *random.Stream) row.Value {
	days := random.UniformKey(g.Min, g.Max, s)
	return row.Key(c.Value(g.Column).Int64() + days)
}
func (g DateOffset) validate() error { return checkRange(g.Min, g.Max) }
func (g DateOffset) dependsOn() string { return g.Column }

// ForeignKey draws a key of Table in [1, rows of Table at the bound scale].
// When Table is empty the draw is still made and the key is NULL.
type ForeignKey struct {
	Table string
}

func (ForeignKey) Draws() int { return 1 }
func (g ForeignKey) Generate(c *Context, s *random.Stream) row.Value {
	n := c.RowCount(g.Table)
	if n < 1 {
		s.Next()
		return row.Key(row.NullKey)
	}
	return row.Key(random.UniformKey(1, n, s))
}
func (g ForeignKey) references() string { return g.Table }

func checkRange(min, max int64) error {
	if min > max {
		return fmt.Errorf("empty range [%d, %d]", min, max)
	}
	return nil
}
