package datatype

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
)

// DataType is the name of a column type as it appears in table declarations.
type DataType string

const (
	Null      DataType = "null"
	Bool      DataType = "bool"
	String    DataType = "string"
	Integer   DataType = "int64"
	Float     DataType = "float64"
	Timestamp DataType = "timestamp"
)

var (
	Arrow = struct {
		Null      arrow.DataType
		Bool      arrow.DataType
		String    arrow.DataType
		Integer   arrow.DataType
		Float     arrow.DataType
		Timestamp arrow.DataType
	}{
		Null:      arrow.Null,
		Bool:      arrow.FixedWidthTypes.Boolean,
		String:    arrow.BinaryTypes.String,
		Integer:   arrow.PrimitiveTypes.Int64,
		Float:     arrow.PrimitiveTypes.Float64,
		Timestamp: arrow.FixedWidthTypes.Timestamp_ns,
	}

	ToArrow = map[DataType]arrow.DataType{
		Null:      Arrow.Null,
		Bool:      Arrow.Bool,
		String:    Arrow.String,
		Integer:   Arrow.Integer,
		Float:     Arrow.Float,
		Timestamp: Arrow.Timestamp,
	}
)

// Field returns a nullable Arrow field named name of the given type.
func Field(name string, dt DataType) (arrow.Field, error) {
	typ, ok := ToArrow[dt]
	if !ok {
		return arrow.Field{}, fmt.Errorf("unsupported data type %q for column %s", dt, name)
	}
	return arrow.Field{Name: name, Type: typ, Nullable: true}, nil
}

// Column declares a named, typed column.
type Column struct {
	Name string   `yaml:"name"`
	Type DataType `yaml:"type"`
}

// NewSchema builds an Arrow schema from column declarations.
func NewSchema(columns ...Column) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(columns))
	for _, col := range columns {
		f, err := Field(col.Name, col.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return arrow.NewSchema(fields, nil), nil
}

// MustSchema is like [NewSchema] but panics on unsupported types.
func MustSchema(columns ...Column) *arrow.Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// SameShape reports whether a and b have the same number of fields with
// identical types at each position. Field names are not compared.
func SameShape(a, b *arrow.Schema) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.NumFields() != b.NumFields() {
		return false
	}
	for i := 0; i < a.NumFields(); i++ {
		if !arrow.TypeEqual(a.Field(i).Type, b.Field(i).Type) {
			return false
		}
	}
	return true
}
