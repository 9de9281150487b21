package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScaling_RowCount(t *testing.T) {
	scaling := DefaultScaling()

	tests := []struct {
		name  string
		table string
		scale float64
		want  int64
	}{
		{"fixed", ShipMode, 1, 20},
		{"fixed ignores scale", ShipMode, 1000, 20},
		{"defined scale", Warehouse, 10, 10},
		{"defined scale 100000", Promotion, 100000, 2500},
		{"interpolated", Reason, 55, 50},
		{"below one", Promotion, 0.5, 150},
		{"below one keeps a row", Warehouse, 0.01, 1},
		{"zero scale", Promotion, 0, 0},
		{"zero scale fixed table", ShipMode, 0, 0},
		{"past last defined scale", Warehouse, 200000, 60},
		{"reference-only table", Item, 1, 18000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := scaling.RowCount(tt.table, tt.scale)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultScaling_Errors(t *testing.T) {
	scaling := DefaultScaling()

	_, err := scaling.RowCount("missing", 1)
	assert.ErrorIs(t, err, ErrUnknownTable)

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := scaling.RowCount(Reason, bad)
		assert.ErrorIs(t, err, ErrInvalidScale)
	}
}

func TestDefaultScaling_CoversSchema(t *testing.T) {
	scaling := DefaultScaling()
	for _, name := range Default().TableNames() {
		_, ok := scaling[name]
		assert.True(t, ok, "no scaling model for %s", name)
	}
}

func TestFixed_Zero(t *testing.T) {
	m := Fixed(0)
	assert.True(t, m.IsFixed())
	for _, scale := range []float64{0.5, 1, 10, 100000} {
		n, err := m.RowCount(scale)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n, "scale %v", scale)
	}

	assert.False(t, Defined(1, 2, 3, 4, 5, 6, 7, 8, 9).IsFixed())
}

func TestDefined_PanicsOnWrongArity(t *testing.T) {
	assert.Panics(t, func() { Defined(1, 2, 3) })
}
