package codec

import (
	"encoding/binary"
	"log/slog"
	"math"
)

// elemKind is the element family a LIST_*/SET_* field declares.
type elemKind uint8

const (
	elemString elemKind = iota
	elemInt
	elemFloat
)

// classifyElem maps a runtime element to its family.
func classifyElem(v any) (elemKind, bool) {
	switch v.(type) {
	case string, []byte:
		return elemString, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return elemInt, true
	case float32, float64:
		return elemFloat, true
	}
	return 0, false
}

// validateElems rejects the whole container when any element is outside
// the declared family. Nothing is written on failure.
func validateElems(items []any, kind elemKind) error {
	for _, item := range items {
		got, ok := classifyElem(item)
		if !ok || got != kind {
			slog.Error("container element type mismatch",
				"want", int(kind), "got", slogElemType(item))
			return ErrTypeMismatch
		}
	}
	return nil
}

func slogElemType(v any) string {
	switch v.(type) {
	case string, []byte:
		return "string"
	case float32, float64:
		return "float"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	}
	return "unsupported"
}

// appendElem writes one validated element to the tail. Integer elements
// persist as int32 and float elements as float32; both narrowings are a
// format decision carried from format v2's first release.
func (w *RowWriter) appendElem(v any, kind elemKind) {
	switch kind {
	case elemString:
		b := elemBytes(v)
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(b)))
		w.buf = append(w.buf, b...)
	case elemInt:
		w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(int32(elemInt64(v))))
	case elemFloat:
		w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(float32(elemFloat64(v))))
	}
}

// elemKey normalizes an element for set dedup.
func elemKey(v any, kind elemKind) any {
	switch kind {
	case elemString:
		return string(elemBytes(v))
	case elemInt:
		return elemInt64(v)
	default:
		return elemFloat64(v)
	}
}

func elemBytes(v any) []byte {
	switch s := v.(type) {
	case string:
		return []byte(s)
	case []byte:
		return s
	}
	return nil
}

// elemInt64 widens an integer element, reinterpreting unsigned values as
// same-width signed first, matching the scalar coercion rule.
func elemInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(int8(n))
	case uint16:
		return int64(int16(n))
	case uint32:
		return int64(int32(n))
	case uint64:
		return int64(n)
	}
	return 0
}

func elemFloat64(v any) float64 {
	switch f := v.(type) {
	case float32:
		return float64(f)
	case float64:
		return f
	}
	return 0
}
