package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanirdb/vanir/pkg/types"
)

func TestBuilder_OffsetsAndSizes(t *testing.T) {
	s := NewBuilder(5).
		AddField("flag", TypeBool).
		AddField("count", TypeInt32).
		AddField("name", TypeString).
		AddField("code", TypeFixedString, WithFixedLen(10)).
		AddField("when", TypeDateTime).
		AddField("span", TypeDuration).
		AddField("tags", TypeListString).
		Build()

	require.Equal(t, 7, s.NumFields())
	assert.Equal(t, uint64(5), s.Version())

	wantOffsets := []int{0, 1, 5, 13, 23, 34, 50}
	wantSizes := []int{1, 4, 8, 10, 11, 16, 4}
	for i := range wantOffsets {
		f := s.Field(i)
		require.NotNil(t, f)
		assert.Equal(t, wantOffsets[i], f.Offset(), "field %d offset", i)
		assert.Equal(t, wantSizes[i], f.Size(), "field %d size", i)
	}
	assert.Equal(t, 54, s.FixedSize())
}

func TestBuilder_NullFlagPositionsArePackedDensely(t *testing.T) {
	s := NewBuilder(0).
		AddField("a", TypeInt8).
		AddField("b", TypeInt8, Nullable()).
		AddField("c", TypeInt8).
		AddField("d", TypeString, Nullable()).
		AddField("e", TypeDouble, Nullable()).
		Build()

	assert.Equal(t, 3, s.NumNullableFields())
	assert.Equal(t, 0, s.Field(1).NullFlagPos())
	assert.Equal(t, 1, s.Field(3).NullFlagPos())
	assert.Equal(t, 2, s.Field(4).NullFlagPos())
	assert.False(t, s.Field(0).Nullable())
	assert.True(t, s.Field(1).Nullable())
}

func TestSchema_FieldIndex(t *testing.T) {
	s := NewBuilder(0).
		AddField("id", TypeInt64).
		AddField("name", TypeString).
		Build()

	assert.Equal(t, 0, s.FieldIndex("id"))
	assert.Equal(t, 1, s.FieldIndex("name"))
	assert.Equal(t, -1, s.FieldIndex("missing"))
	assert.Nil(t, s.Field(2))
	assert.Nil(t, s.Field(-1))
}

func TestField_GeoShapeAndDefaults(t *testing.T) {
	blob := []byte{0x02, 0x07, 0, 0, 0, 0, 0, 0, 0}
	s := NewBuilder(0).
		AddField("loc", TypeGeography, WithGeoShape(types.ShapePolygon)).
		AddField("n", TypeInt64, WithDefault(blob)).
		Build()

	assert.Equal(t, types.ShapePolygon, s.Field(0).GeoShape())
	assert.False(t, s.Field(0).HasDefault())
	assert.True(t, s.Field(1).HasDefault())
	assert.Equal(t, blob, s.Field(1).DefaultExpr())
	assert.Equal(t, types.ShapeAny, s.Field(1).GeoShape())
}

func TestPropertyType_Strings(t *testing.T) {
	assert.Equal(t, "INT64", TypeInt64.String())
	assert.Equal(t, "SET_FLOAT", TypeSetFloat.String())
	assert.Equal(t, "UNKNOWN", TypeUnknown.String())

	assert.True(t, TypeListInt.IsList())
	assert.False(t, TypeListInt.IsSet())
	assert.True(t, TypeSetString.IsSet())
	assert.True(t, TypeSetString.IsContainer())
	assert.False(t, TypeString.IsContainer())
}
