package schema

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidScale is returned for a negative or non-finite scale factor.
var ErrInvalidScale = errors.New("invalid scale factor")

// Scaling maps a scale factor to a table's row count.
type Scaling interface {
	RowCount(table string, scale float64) (int64, error)
}

// DefinedScales are the scale factors with published row counts.
var DefinedScales = [...]float64{1, 10, 100, 300, 1000, 3000, 10000, 30000, 100000}

// ScalingModel is either a fixed row count or the row counts at each of
// DefinedScales.
type ScalingModel struct {
	Fixed   int64
	Defined [len(DefinedScales)]int64

	fixed bool
}

// Fixed returns a model whose row count does not depend on scale.
func Fixed(n int64) ScalingModel {
	return ScalingModel{Fixed: n, fixed: true}
}

// IsFixed reports whether the model was built with Fixed.
func (m ScalingModel) IsFixed() bool {
	return m.fixed
}

// Defined returns a model given the row counts at DefinedScales.
func Defined(counts ...int64) ScalingModel {
	if len(counts) != len(DefinedScales) {
		panic(fmt.Sprintf("schema: %d defined row counts, want %d", len(counts), len(DefinedScales)))
	}
	var m ScalingModel
	copy(m.Defined[:], counts)
	return m
}

// RowCount evaluates the model. Scale 0 yields no rows. Below scale 1 the
// scale-1 count is scaled down proportionally, keeping at least one row.
// Between defined scales the count is interpolated linearly; past the last
// defined scale it grows proportionally.
func (m ScalingModel) RowCount(scale float64) (int64, error) {
	if math.IsNaN(scale) || math.IsInf(scale, 0) || scale < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	if scale == 0 {
		return 0, nil
	}
	if m.fixed {
		return m.Fixed, nil
	}

	last := len(DefinedScales) - 1
	switch {
	case scale < DefinedScales[0]:
		n := int64(math.Floor(float64(m.Defined[0]) * scale))
		return max(n, 1), nil
	case scale >= DefinedScales[last]:
		return int64(math.Floor(float64(m.Defined[last]) * scale / DefinedScales[last])), nil
	}

	for i := 0; i < last; i++ {
		lo, hi := DefinedScales[i], DefinedScales[i+1]
		if scale == lo {
			return m.Defined[i], nil
		}
		if scale < hi {
			span := float64(m.Defined[i+1] - m.Defined[i])
			return m.Defined[i] + int64(math.Floor((scale-lo)*span/(hi-lo))), nil
		}
	}
	return m.Defined[last], nil
}

// TableScaling is a Scaling backed by per-table models.
type TableScaling map[string]ScalingModel

// RowCount implements Scaling.
func (ts TableScaling) RowCount(table string, scale float64) (int64, error) {
	m, ok := ts[table]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no scaling model", ErrUnknownTable, table)
	}
	n, err := m.RowCount(scale)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", table, err)
	}
	return n, nil
}

// DefaultScaling returns the row count models of the benchmark schema.
func DefaultScaling() TableScaling {
	return TableScaling{
		HouseholdDemographics: Fixed(7200),
		IncomeBand:            Fixed(20),
		Promotion:             Defined(300, 500, 1000, 1300, 1500, 1800, 2000, 2300, 2500),
		Reason:                Defined(35, 45, 55, 60, 65, 67, 70, 72, 75),
		ShipMode:              Fixed(20),
		Warehouse:             Defined(5, 10, 15, 17, 20, 22, 25, 27, 30),
		Item:                  Defined(18000, 102000, 204000, 264000, 300000, 360000, 402000, 462000, 502000),
	}
}
