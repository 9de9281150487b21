package schema

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// BaseType is the SQL type family of a column.
type BaseType int

const (
	Identifier BaseType = iota
	Integer
	Decimal
	Char
	Varchar
)

// DataType is a column's SQL type.
type DataType struct {
	Base      BaseType
	Precision int
	Scale     int
	Length    int
}

func IdentifierType() DataType { return DataType{Base: Identifier} }
func IntegerType() DataType { return DataType{Base: Integer} }
func CharType(n int) DataType { return DataType{Base: Char, Length: n} }

func VarcharType(n int) DataType {
	return DataType{Base: Varchar, Length: n}
}

func DecimalType(precision, scale int) DataType {
	return DataType{Base: Decimal, Precision: precision, Scale: scale}
}

func (t DataType) String() string {
	switch t.Base {
	case Identifier:
		return "identifier"
	case Integer:
		return "integer"
	case Decimal:
		return fmt.Sprintf("decimal(%d,%d)", t.Precision, t.Scale)
	case Char:
		return fmt.Sprintf("char(%d)", t.Length)
	case Varchar:
		return fmt.Sprintf("varchar(%d)", t.Length)
	default:
		return fmt.Sprintf("type(%d)", int(t.Base))
	}
}

// ArrowType maps the SQL type onto its Arrow physical type.
func (t DataType) ArrowType() arrow.DataType {
	switch t.Base {
	case Identifier:
		return arrow.PrimitiveTypes.Int64
	case Integer:
		return arrow.PrimitiveTypes.Int32
	case Decimal:
		return &arrow.Decimal128Type{Precision: int32(t.Precision), Scale: int32(t.Scale)}
	default:
		return arrow.BinaryTypes.String
	}
}

// ArrowSchema returns the Arrow schema of a table. Each field records its
// SQL type under the "sql_type" metadata key.
func (t *Table) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(t.Columns))
	for i, c := range t.Columns {
		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     c.Type.ArrowType(),
			Nullable: !c.NotNull,
			Metadata: arrow.NewMetadata([]string{"sql_type"}, []string{c.Type.String()}),
		}
	}
	md := arrow.NewMetadata([]string{"table"}, []string{t.Name})
	return arrow.NewSchema(fields, &md)
}
