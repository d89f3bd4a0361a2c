// Package expr carries the default-value expressions a schema can attach
// to its fields. Schemas store expressions as opaque blobs; the codec asks
// this package to decode a blob and evaluate it against the read-only
// default-value context. Only constant expressions survive distillation to
// the storage layer — anything richer is reduced by the query engine
// before it reaches a schema.
package expr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb/encoding/wkb"
	"github.com/vanirdb/vanir/pkg/types"
)

// Context is the evaluation environment. The default-value context has no
// variables; every lookup misses.
type Context interface {
	Value(name string) any
}

// DefaultContext is the read-only context used when materializing column
// defaults.
type DefaultContext struct{}

// Value always reports an unknown property.
func (DefaultContext) Value(string) any {
	return types.NullUnknownProp
}

// Expression is a decoded default-value expression.
type Expression interface {
	Eval(ctx Context) any
}

// Constant is a literal expression.
type Constant struct {
	val any
}

// NewConstant wraps a literal value.
func NewConstant(v any) *Constant {
	return &Constant{val: v}
}

// Eval returns the literal.
func (c *Constant) Eval(Context) any {
	return c.val
}

// Blob tags. The payload that follows each tag is little-endian.
const (
	tagNull     = 0x00 // 1 byte null variant
	tagBool     = 0x01 // 1 byte
	tagInt      = 0x02 // int64
	tagFloat    = 0x03 // float64 bits
	tagString   = 0x04 // uint32 length + bytes
	tagDate     = 0x05 // int16 year, int8 month, int8 day
	tagTime     = 0x06 // 3 x int8, int32 microsec
	tagDateTime = 0x07 // int16 year, 5 x int8, int32 microsec
	tagDuration = 0x08 // int64 seconds, int32 microsec, int32 months
	tagList     = 0x09 // uint32 count + tagged elements
	tagSet      = 0x0A // uint32 count + tagged elements
	tagGeo      = 0x0B // uint32 length + WKB bytes
)

var (
	// ErrMalformedExpr is returned when a blob cannot be decoded.
	ErrMalformedExpr = errors.New("expr: malformed expression")
	// ErrUnsupportedExpr is returned when encoding a non-constant value.
	ErrUnsupportedExpr = errors.New("expr: unsupported expression")
)

// Decode parses an expression blob.
func Decode(blob []byte) (Expression, error) {
	v, rest, err := decodeValue(blob)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedExpr, len(rest))
	}
	return NewConstant(v), nil
}

func decodeValue(b []byte) (any, []byte, error) {
	if len(b) == 0 {
		return nil, nil, fmt.Errorf("%w: empty blob", ErrMalformedExpr)
	}
	tag, b := b[0], b[1:]
	switch tag {
	case tagNull:
		if len(b) < 1 {
			return nil, nil, ErrMalformedExpr
		}
		return types.Null(b[0]), b[1:], nil
	case tagBool:
		if len(b) < 1 {
			return nil, nil, ErrMalformedExpr
		}
		return b[0] != 0, b[1:], nil
	case tagInt:
		if len(b) < 8 {
			return nil, nil, ErrMalformedExpr
		}
		return int64(binary.LittleEndian.Uint64(b)), b[8:], nil
	case tagFloat:
		if len(b) < 8 {
			return nil, nil, ErrMalformedExpr
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), b[8:], nil
	case tagString:
		s, rest, err := decodeBytes(b)
		if err != nil {
			return nil, nil, err
		}
		return string(s), rest, nil
	case tagDate:
		if len(b) < 4 {
			return nil, nil, ErrMalformedExpr
		}
		d := types.Date{
			Year:  int16(binary.LittleEndian.Uint16(b)),
			Month: int8(b[2]),
			Day:   int8(b[3]),
		}
		return d, b[4:], nil
	case tagTime:
		if len(b) < 7 {
			return nil, nil, ErrMalformedExpr
		}
		t := types.Time{
			Hour:     int8(b[0]),
			Minute:   int8(b[1]),
			Sec:      int8(b[2]),
			Microsec: int32(binary.LittleEndian.Uint32(b[3:])),
		}
		return t, b[7:], nil
	case tagDateTime:
		if len(b) < 11 {
			return nil, nil, ErrMalformedExpr
		}
		dt := types.DateTime{
			Year:     int16(binary.LittleEndian.Uint16(b)),
			Month:    int8(b[2]),
			Day:      int8(b[3]),
			Hour:     int8(b[4]),
			Minute:   int8(b[5]),
			Sec:      int8(b[6]),
			Microsec: int32(binary.LittleEndian.Uint32(b[7:])),
		}
		return dt, b[11:], nil
	case tagDuration:
		if len(b) < 16 {
			return nil, nil, ErrMalformedExpr
		}
		d := types.Duration{
			Seconds:      int64(binary.LittleEndian.Uint64(b)),
			Microseconds: int32(binary.LittleEndian.Uint32(b[8:])),
			Months:       int32(binary.LittleEndian.Uint32(b[12:])),
		}
		return d, b[16:], nil
	case tagList, tagSet:
		if len(b) < 4 {
			return nil, nil, ErrMalformedExpr
		}
		count := int(binary.LittleEndian.Uint32(b))
		b = b[4:]
		vals := make([]any, 0, count)
		for i := 0; i < count; i++ {
			var v any
			var err error
			v, b, err = decodeValue(b)
			if err != nil {
				return nil, nil, err
			}
			vals = append(vals, v)
		}
		if tag == tagList {
			return types.List{Values: vals}, b, nil
		}
		return types.Set{Values: vals}, b, nil
	case tagGeo:
		raw, rest, err := decodeBytes(b)
		if err != nil {
			return nil, nil, err
		}
		g, err := wkb.Unmarshal(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: bad WKB: %v", ErrMalformedExpr, err)
		}
		return types.NewGeography(g), rest, nil
	}
	return nil, nil, fmt.Errorf("%w: unknown tag 0x%02X", ErrMalformedExpr, tag)
}

func decodeBytes(b []byte) ([]byte, []byte, error) {
	if len(b) < 4 {
		return nil, nil, ErrMalformedExpr
	}
	n := int(binary.LittleEndian.Uint32(b))
	b = b[4:]
	if len(b) < n {
		return nil, nil, ErrMalformedExpr
	}
	return b[:n], b[n:], nil
}

// Encode serializes a constant expression to its blob form. It is the
// inverse of Decode and exists for schema authors and tests.
func Encode(e Expression) ([]byte, error) {
	c, ok := e.(*Constant)
	if !ok {
		return nil, ErrUnsupportedExpr
	}
	return encodeValue(nil, c.val)
}

func encodeValue(out []byte, v any) ([]byte, error) {
	switch val := v.(type) {
	case types.Null:
		return append(out, tagNull, byte(val)), nil
	case bool:
		b := byte(0)
		if val {
			b = 1
		}
		return append(out, tagBool, b), nil
	case int:
		return appendInt(out, int64(val)), nil
	case int8:
		return appendInt(out, int64(val)), nil
	case int16:
		return appendInt(out, int64(val)), nil
	case int32:
		return appendInt(out, int64(val)), nil
	case int64:
		return appendInt(out, val), nil
	case float32:
		return appendFloat(out, float64(val)), nil
	case float64:
		return appendFloat(out, val), nil
	case string:
		return appendBytes(append(out, tagString), []byte(val)), nil
	case []byte:
		return appendBytes(append(out, tagString), val), nil
	case types.Date:
		out = append(out, tagDate)
		out = binary.LittleEndian.AppendUint16(out, uint16(val.Year))
		return append(out, byte(val.Month), byte(val.Day)), nil
	case types.Time:
		out = append(out, tagTime, byte(val.Hour), byte(val.Minute), byte(val.Sec))
		return binary.LittleEndian.AppendUint32(out, uint32(val.Microsec)), nil
	case types.DateTime:
		out = append(out, tagDateTime)
		out = binary.LittleEndian.AppendUint16(out, uint16(val.Year))
		out = append(out, byte(val.Month), byte(val.Day), byte(val.Hour), byte(val.Minute), byte(val.Sec))
		return binary.LittleEndian.AppendUint32(out, uint32(val.Microsec)), nil
	case types.Duration:
		out = append(out, tagDuration)
		out = binary.LittleEndian.AppendUint64(out, uint64(val.Seconds))
		out = binary.LittleEndian.AppendUint32(out, uint32(val.Microseconds))
		return binary.LittleEndian.AppendUint32(out, uint32(val.Months)), nil
	case types.List:
		return encodeContainer(out, tagList, val.Values)
	case types.Set:
		return encodeContainer(out, tagSet, val.Values)
	case types.Geography:
		raw, err := val.AsWKB()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedExpr, err)
		}
		return appendBytes(append(out, tagGeo), raw), nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedExpr, v)
}

func encodeContainer(out []byte, tag byte, vals []any) ([]byte, error) {
	out = append(out, tag)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(vals)))
	var err error
	for _, v := range vals {
		out, err = encodeValue(out, v)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendInt(out []byte, v int64) []byte {
	out = append(out, tagInt)
	return binary.LittleEndian.AppendUint64(out, uint64(v))
}

func appendFloat(out []byte, v float64) []byte {
	out = append(out, tagFloat)
	return binary.LittleEndian.AppendUint64(out, math.Float64bits(v))
}

func appendBytes(out []byte, b []byte) []byte {
	out = binary.LittleEndian.AppendUint32(out, uint32(len(b)))
	return append(out, b...)
}
