// Package schema describes the layout of a row in format v2. A schema is
// read-only once built: the codec borrows it and computes every byte
// position in a record from the field metadata here.
package schema

import (
	"github.com/vanirdb/vanir/pkg/types"
)

// PropertyType is the on-disk type of a property field.
type PropertyType uint8

const (
	TypeUnknown PropertyType = iota
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeTimestamp
	TypeFloat
	TypeDouble
	TypeString
	TypeFixedString
	TypeGeography
	TypeDate
	TypeTime
	TypeDateTime
	TypeDuration
	TypeListString
	TypeListInt
	TypeListFloat
	TypeSetString
	TypeSetInt
	TypeSetFloat
)

func (t PropertyType) String() string {
	switch t {
	case TypeBool:
		return "BOOL"
	case TypeInt8:
		return "INT8"
	case TypeInt16:
		return "INT16"
	case TypeInt32:
		return "INT32"
	case TypeInt64:
		return "INT64"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeString:
		return "STRING"
	case TypeFixedString:
		return "FIXED_STRING"
	case TypeGeography:
		return "GEOGRAPHY"
	case TypeDate:
		return "DATE"
	case TypeTime:
		return "TIME"
	case TypeDateTime:
		return "DATETIME"
	case TypeDuration:
		return "DURATION"
	case TypeListString:
		return "LIST_STRING"
	case TypeListInt:
		return "LIST_INT"
	case TypeListFloat:
		return "LIST_FLOAT"
	case TypeSetString:
		return "SET_STRING"
	case TypeSetInt:
		return "SET_INT"
	case TypeSetFloat:
		return "SET_FLOAT"
	}
	return "UNKNOWN"
}

// IsList reports whether the type is one of the LIST_* types.
func (t PropertyType) IsList() bool {
	return t == TypeListString || t == TypeListInt || t == TypeListFloat
}

// IsSet reports whether the type is one of the SET_* types.
func (t PropertyType) IsSet() bool {
	return t == TypeSetString || t == TypeSetInt || t == TypeSetFloat
}

// IsContainer reports whether the type is a list or set type.
func (t PropertyType) IsContainer() bool {
	return t.IsList() || t.IsSet()
}

// fixedWidth returns the number of bytes the type occupies in the fixed
// region. STRING and GEOGRAPHY slots hold an (offset, length) int32 pair;
// container slots hold a single int32 tail offset. fixedLen only matters
// for FIXED_STRING.
func fixedWidth(t PropertyType, fixedLen int) int {
	switch t {
	case TypeBool, TypeInt8:
		return 1
	case TypeInt16:
		return 2
	case TypeInt32, TypeFloat:
		return 4
	case TypeInt64, TypeTimestamp, TypeDouble:
		return 8
	case TypeString, TypeGeography:
		return 8
	case TypeFixedString:
		return fixedLen
	case TypeDate:
		return 4
	case TypeTime:
		return 7
	case TypeDateTime:
		return 11
	case TypeDuration:
		return 16
	case TypeListString, TypeListInt, TypeListFloat,
		TypeSetString, TypeSetInt, TypeSetFloat:
		return 4
	}
	return 0
}

// Field is one property in a schema.
type Field struct {
	name        string
	typ         PropertyType
	offset      int
	size        int
	nullable    bool
	nullFlagPos int
	defaultExpr []byte
	geoShape    types.GeoShape
}

// Name returns the property name.
func (f *Field) Name() string { return f.name }

// Type returns the on-disk property type.
func (f *Field) Type() PropertyType { return f.typ }

// Offset is the field's byte offset within the fixed region.
func (f *Field) Offset() int { return f.offset }

// Size is the width of the field's slot in the fixed region.
func (f *Field) Size() int { return f.size }

// Nullable reports whether the field may hold NULL.
func (f *Field) Nullable() bool { return f.nullable }

// NullFlagPos is the field's bit position in the null bitmap. Only
// meaningful when Nullable is true.
func (f *Field) NullFlagPos() int { return f.nullFlagPos }

// HasDefault reports whether the field carries a default-value expression.
func (f *Field) HasDefault() bool { return f.defaultExpr != nil }

// DefaultExpr returns the encoded default-value expression, or nil.
func (f *Field) DefaultExpr() []byte { return f.defaultExpr }

// GeoShape returns the shape constraint for GEOGRAPHY fields.
func (f *Field) GeoShape() types.GeoShape { return f.geoShape }

// Schema is an ordered set of fields plus a version. It is immutable once
// built and safe for concurrent readers.
type Schema struct {
	version     uint64
	fields      []Field
	byName      map[string]int
	fixedSize   int
	numNullable int
}

// Version returns the schema version.
func (s *Schema) Version() uint64 { return s.version }

// NumFields returns the number of fields.
func (s *Schema) NumFields() int { return len(s.fields) }

// NumNullableFields returns how many fields are nullable.
func (s *Schema) NumNullableFields() int { return s.numNullable }

// FixedSize is the total width of the fixed region in bytes.
func (s *Schema) FixedSize() int { return s.fixedSize }

// Field returns the field at ordinal i, or nil if out of range.
func (s *Schema) Field(i int) *Field {
	if i < 0 || i >= len(s.fields) {
		return nil
	}
	return &s.fields[i]
}

// FieldIndex returns the ordinal of the named field, or -1.
func (s *Schema) FieldIndex(name string) int {
	i, ok := s.byName[name]
	if !ok {
		return -1
	}
	return i
}
