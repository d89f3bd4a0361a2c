package schema

import (
	"github.com/vanirdb/vanir/pkg/types"
)

// FieldOption customizes a field added through the Builder.
type FieldOption func(*Field)

// Nullable marks the field as accepting NULL.
func Nullable() FieldOption {
	return func(f *Field) { f.nullable = true }
}

// WithDefault attaches an encoded default-value expression.
func WithDefault(expr []byte) FieldOption {
	return func(f *Field) { f.defaultExpr = expr }
}

// WithGeoShape constrains a GEOGRAPHY field to a single geometry kind.
func WithGeoShape(shape types.GeoShape) FieldOption {
	return func(f *Field) { f.geoShape = shape }
}

// WithFixedLen declares the byte length of a FIXED_STRING field.
func WithFixedLen(n int) FieldOption {
	return func(f *Field) { f.size = n }
}

// Builder assembles a Schema, assigning each field its fixed-region offset
// and, for nullable fields, a densely packed null-flag position.
type Builder struct {
	version     uint64
	fields      []Field
	byName      map[string]int
	fixedSize   int
	numNullable int
}

// NewBuilder starts a schema at the given version.
func NewBuilder(version uint64) *Builder {
	return &Builder{
		version: version,
		byName:  make(map[string]int),
	}
}

// AddField appends a field. Fields are laid out in the order they are
// added; offsets and null-flag positions are derived, not supplied.
func (b *Builder) AddField(name string, typ PropertyType, opts ...FieldOption) *Builder {
	f := Field{
		name:     name,
		typ:      typ,
		geoShape: types.ShapeAny,
	}
	for _, opt := range opts {
		opt(&f)
	}
	if typ != TypeFixedString {
		f.size = fixedWidth(typ, 0)
	}
	f.offset = b.fixedSize
	if f.nullable {
		f.nullFlagPos = b.numNullable
		b.numNullable++
	}
	b.byName[name] = len(b.fields)
	b.fields = append(b.fields, f)
	b.fixedSize += f.size
	return b
}

// Build freezes the schema.
func (b *Builder) Build() *Schema {
	return &Schema{
		version:     b.version,
		fields:      b.fields,
		byName:      b.byName,
		fixedSize:   b.fixedSize,
		numNullable: b.numNullable,
	}
}
