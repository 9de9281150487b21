package schema

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_NumberingIsDenseAndStable(t *testing.T) {
	s := Default()

	seen := make(map[int]string)
	for _, tbl := range s.Tables() {
		for _, spec := range tbl.StreamSpecs() {
			prev, dup := seen[spec.GlobalNumber]
			require.False(t, dup, "global number %d used by %s and %s.%s", spec.GlobalNumber, prev, spec.Table, spec.Column)
			seen[spec.GlobalNumber] = spec.Table + "." + spec.Column
		}
	}
	for n := 1; n <= s.ColumnCount(); n++ {
		assert.Contains(t, seen, n)
	}
	assert.Len(t, seen, s.ColumnCount())

	// the first column of the schema and the nulls column placement
	hd, err := s.Table(HouseholdDemographics)
	require.NoError(t, err)
	assert.Equal(t, 1, hd.Columns[0].GlobalNumber)
	assert.Equal(t, 6, hd.NullsColumn().GlobalNumber)

	ib, err := s.Table(IncomeBand)
	require.NoError(t, err)
	assert.Equal(t, 7, ib.Columns[0].GlobalNumber)

	assert.Same(t, s, Default())
}

func TestSchema_Lookup(t *testing.T) {
	s := Default()
	assert.Equal(t, []string{HouseholdDemographics, IncomeBand, Promotion, Reason, ShipMode, Warehouse}, s.TableNames())

	_, err := s.Table("lineitem")
	assert.ErrorIs(t, err, ErrUnknownTable)

	sm, err := s.Table(ShipMode)
	require.NoError(t, err)
	c, err := sm.Column("sm_contract")
	require.NoError(t, err)
	assert.Equal(t, 21, c.SeedsPerRow)
	assert.Equal(t, 5, c.Position)

	_, err = sm.Column("sm_nope")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	pos, ok := sm.Position("sm_code")
	assert.True(t, ok)
	assert.Equal(t, 3, pos)
	assert.Equal(t, uint64(0b11), sm.NotNullMask())
	assert.Equal(t, "sm_nulls", sm.NullsColumn().Name)
	assert.Equal(t, NullsSeedsPerRow, sm.NullsColumn().SeedsPerRow)
}

func TestSchema_StreamSpecs(t *testing.T) {
	s := Default()
	specs, err := s.StreamSpecs(Reason)
	require.NoError(t, err)
	require.Len(t, specs, 4)
	assert.Equal(t, "r_nulls", specs[3].Column)
	for _, spec := range specs {
		assert.Equal(t, Reason, spec.Table)
	}

	all, err := s.StreamSpecs()
	require.NoError(t, err)
	assert.Len(t, all, s.ColumnCount())

	_, err = s.StreamSpecs("missing")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestNew_RejectsBadDefinitions(t *testing.T) {
	_, err := New([]TableDef{{Name: "a"}, {Name: "a"}})
	assert.Error(t, err)

	_, err = New([]TableDef{{Name: "a", Columns: []Column{primaryKey("x"), primaryKey("x")}}})
	assert.Error(t, err)

	_, err = New([]TableDef{{Name: "a", NullBasisPoints: 10001}})
	assert.Error(t, err)

	_, err = New([]TableDef{{Name: "a", Columns: []Column{col("x", IntegerType(), -1)}}})
	assert.Error(t, err)

	s, err := New([]TableDef{{Name: "a", Columns: []Column{primaryKey("x")}}})
	require.NoError(t, err)
	a, err := s.Table("a")
	require.NoError(t, err)
	assert.Equal(t, "a_nulls", a.NullsColumn().Name)
}

func TestTable_ArrowSchema(t *testing.T) {
	p, err := Default().Table(Promotion)
	require.NoError(t, err)

	as := p.ArrowSchema()
	require.Equal(t, len(p.Columns), as.NumFields())

	sk := as.Field(0)
	assert.Equal(t, "p_promo_sk", sk.Name)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, sk.Type)
	assert.False(t, sk.Nullable)

	cost := as.Field(5)
	dt, ok := cost.Type.(*arrow.Decimal128Type)
	require.True(t, ok)
	assert.Equal(t, int32(15), dt.Precision)
	assert.Equal(t, int32(2), dt.Scale)
	assert.True(t, cost.Nullable)
	v, ok := cost.Metadata.GetValue("sql_type")
	assert.True(t, ok)
	assert.Equal(t, "decimal(15,2)", v)

	assert.Equal(t, arrow.BinaryTypes.String, as.Field(7).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int32, as.Field(6).Type)
}

func TestDataType_String(t *testing.T) {
	assert.Equal(t, "identifier", IdentifierType().String())
	assert.Equal(t, "integer", IntegerType().String())
	assert.Equal(t, "char(16)", CharType(16).String())
	assert.Equal(t, "varchar(60)", VarcharType(60).String())
	assert.Equal(t, "decimal(5,2)", DecimalType(5, 2).String())
}
