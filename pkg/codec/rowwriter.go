package codec

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"

	"github.com/vanirdb/vanir/pkg/expr"
	"github.com/vanirdb/vanir/pkg/schema"
	"github.com/vanirdb/vanir/pkg/timeutil"
	"github.com/vanirdb/vanir/pkg/types"
)

const (
	// headerSignature is the fixed bit pattern of the first header byte;
	// its low three bits carry the schema version byte count.
	headerSignature = 0x08
	headerVerMask   = 0x07

	// maxSchemaVersion is the largest version representable in the seven
	// little-endian version bytes the header can carry.
	maxSchemaVersion = uint64(1)<<56 - 1

	trailerLen = 8
)

// RowWriter encodes one row of property values against a schema. It owns
// its buffer and is strictly single-owner; the schema is borrowed and
// never mutated. After Finish the writer is sealed and any further
// mutation panics.
type RowWriter struct {
	schema *schema.Schema
	buf    []byte

	headerLen    int
	numNullBytes int
	approxStrLen int

	isSet         []bool
	strList       [][]byte
	outOfSpaceStr bool
	finished      bool
}

// NewRowWriter starts an empty row bound to the schema. It panics if the
// schema version does not fit the header's seven version bytes.
func NewRowWriter(s *schema.Schema) *RowWriter {
	if s == nil {
		panic("codec: nil schema")
	}
	if s.Version() > maxSchemaVersion {
		panic(fmt.Sprintf("codec: schema version %d too big", s.Version()))
	}

	w := &RowWriter{
		schema: s,
		buf:    make([]byte, 0, s.FixedSize()+s.NumNullableFields()/8+trailerLen+1024),
	}

	ver := s.Version()
	if ver > 0 {
		k := 1
		for ver >= uint64(1)<<(8*uint(k)) {
			k++
		}
		w.buf = append(w.buf, byte(headerSignature|k))
		var vb [8]byte
		binary.LittleEndian.PutUint64(vb[:], ver)
		w.buf = append(w.buf, vb[:k]...)
		w.headerLen = 1 + k
	} else {
		w.buf = append(w.buf, headerSignature)
		w.headerLen = 1
	}

	if n := s.NumNullableFields(); n > 0 {
		w.numNullBytes = (n-1)>>3 + 1
	}

	// Null bitmap and fixed region start zeroed; the tail grows past them.
	w.buf = append(w.buf, make([]byte, w.numNullBytes+s.FixedSize())...)
	w.isSet = make([]bool, s.NumFields())
	return w
}

// NewRowWriterFromEncoded seeds the writer from an existing encoded row,
// trailer included, so fields can be rewritten in place. All fields start
// out marked set; rewriting a variable-length field therefore goes through
// out-of-space mode. Panics if the record's header does not carry the
// schema's version.
func NewRowWriterFromEncoded(s *schema.Schema, encoded []byte) *RowWriter {
	if len(encoded) < 1+trailerLen {
		panic("codec: encoded row too short")
	}
	payload := encoded[: len(encoded)-trailerLen : len(encoded)-trailerLen]

	w := &RowWriter{
		schema: s,
		buf:    append(make([]byte, 0, len(encoded)), payload...),
	}

	if w.buf[0]&0x18 != headerSignature {
		panic(fmt.Sprintf("codec: bad row header byte 0x%02X", w.buf[0]))
	}
	verBytes := int(w.buf[0] & headerVerMask)
	if len(w.buf) < 1+verBytes {
		panic("codec: encoded row too short for version bytes")
	}
	var ver uint64
	for i := 0; i < verBytes; i++ {
		ver |= uint64(w.buf[1+i]) << (8 * uint(i))
	}
	if ver != s.Version() {
		panic(fmt.Sprintf("codec: row encoded with schema version %d, schema has version %d",
			ver, s.Version()))
	}

	w.headerLen = verBytes + 1
	if n := s.NumNullableFields(); n > 0 {
		w.numNullBytes = (n-1)>>3 + 1
	}
	w.approxStrLen = len(encoded) - w.headerLen - w.numNullBytes - s.FixedSize() - trailerLen

	w.isSet = make([]bool, s.NumFields())
	for i := range w.isSet {
		w.isSet[i] = true
	}
	return w
}

// NewRowWriterFromReader seeds the writer by copying every field from a
// decoded row. A reader reporting a value kind outside the property value
// set is a programming error and panics.
func NewRowWriterFromReader(r RowReader) (*RowWriter, error) {
	w := NewRowWriter(r.Schema())
	for i := 0; i < r.NumFields(); i++ {
		v := r.ValueByIndex(i)
		switch v.(type) {
		case types.Null:
			if err := w.SetNull(i); err != nil {
				return nil, fmt.Errorf("reseed field %d: %w", i, err)
			}
		case bool,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64,
			string, []byte,
			types.Date, types.Time, types.DateTime, types.Duration,
			types.Geography, types.List, types.Set:
			if err := w.Set(i, v); err != nil {
				return nil, fmt.Errorf("reseed field %d: %w", i, err)
			}
		default:
			panic(fmt.Sprintf("codec: reader returned unsupported value %T for field %d", v, i))
		}
	}
	return w, nil
}

// Schema returns the borrowed schema.
func (w *RowWriter) Schema() *schema.Schema { return w.schema }

// Len returns the current length of the encoding buffer.
func (w *RowWriter) Len() int { return len(w.buf) }

// Finished reports whether Finish has sealed the writer.
func (w *RowWriter) Finished() bool { return w.finished }

// Set assigns a value to the field at the given ordinal, coercing it into
// the field's on-disk type.
func (w *RowWriter) Set(index int, value any) error {
	w.mustMutable()
	if index < 0 || index >= w.schema.NumFields() {
		return ErrUnknownField
	}

	switch v := value.(type) {
	case types.Null:
		if v.IsBad() {
			return ErrTypeMismatch
		}
		return w.SetNull(index)
	case bool:
		return w.writeBool(index, v)
	case int8:
		return w.writeInt8(index, v)
	case uint8:
		return w.writeInt8(index, int8(v))
	case int16:
		return w.writeInt16(index, v)
	case uint16:
		return w.writeInt16(index, int16(v))
	case int32:
		return w.writeInt32(index, v)
	case uint32:
		return w.writeInt32(index, int32(v))
	case int64:
		return w.writeInt64(index, v)
	case uint64:
		return w.writeInt64(index, int64(v))
	case int:
		return w.writeInt64(index, int64(v))
	case uint:
		return w.writeInt64(index, int64(v))
	case float32:
		return w.writeFloat32(index, v)
	case float64:
		return w.writeFloat64(index, v)
	case string:
		return w.writeStr(index, []byte(v), false)
	case []byte:
		return w.writeStr(index, v, false)
	case types.Date:
		return w.writeDate(index, v)
	case types.Time:
		return w.writeTime(index, v)
	case types.DateTime:
		return w.writeDateTime(index, v)
	case types.Duration:
		return w.writeDuration(index, v)
	case types.Geography:
		return w.writeGeography(index, v)
	case types.List:
		return w.writeList(index, v)
	case types.Set:
		return w.writeSet(index, v)
	}
	return ErrTypeMismatch
}

// SetByName assigns a value to the named field.
func (w *RowWriter) SetByName(name string, value any) error {
	return w.Set(w.schema.FieldIndex(name), value)
}

// SetNull marks the field NULL. The field's slot bytes are left untouched.
func (w *RowWriter) SetNull(index int) error {
	w.mustMutable()
	if index < 0 || index >= w.schema.NumFields() {
		return ErrUnknownField
	}
	f := w.schema.Field(index)
	if !f.Nullable() {
		return ErrNotNullable
	}
	w.setNullBit(f.NullFlagPos())
	w.isSet[index] = true
	return nil
}

// SetNullByName marks the named field NULL.
func (w *RowWriter) SetNullByName(name string) error {
	return w.SetNull(w.schema.FieldIndex(name))
}

// Finish fills unset fields from defaults or NULL, collapses out-of-space
// strings into a fresh contiguous tail, appends the wall-clock trailer,
// and seals the writer. It may be called at most once.
func (w *RowWriter) Finish() ([]byte, error) {
	w.mustMutable()

	if err := w.checkUnsetFields(); err != nil {
		return nil, err
	}

	if w.outOfSpaceStr {
		w.buf = w.processOutOfSpace()
		canonicalizeTotal.Inc()
	}

	w.buf = binary.LittleEndian.AppendUint64(w.buf, timeutil.NowMicros())
	w.finished = true

	rowsFinishedTotal.Inc()
	rowBytesEmittedTotal.Add(float64(len(w.buf)))
	return w.buf, nil
}

func (w *RowWriter) mustMutable() {
	if w.finished {
		panic("codec: Finish has already been called")
	}
}

// slot returns the absolute offset of the field's fixed-region slot.
func (w *RowWriter) slot(f *schema.Field) int {
	return w.headerLen + w.numNullBytes + f.Offset()
}

// markSet records a successful assignment, clearing the null bit for
// nullable fields.
func (w *RowWriter) markSet(index int, f *schema.Field) {
	if f.Nullable() {
		w.clearNullBit(f.NullFlagPos())
	}
	w.isSet[index] = true
}

// Null bitmap bits are MSB-first within each byte.

func (w *RowWriter) setNullBit(pos int) {
	w.buf[w.headerLen+pos>>3] |= byte(0x80) >> uint(pos&7)
}

func (w *RowWriter) clearNullBit(pos int) {
	w.buf[w.headerLen+pos>>3] &^= byte(0x80) >> uint(pos&7)
}

func (w *RowWriter) checkNullBit(pos int) bool {
	return w.buf[w.headerLen+pos>>3]&(byte(0x80)>>uint(pos&7)) != 0
}

func (w *RowWriter) writeBool(index int, v bool) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	b := byte(0x00)
	if v {
		b = 0x01
	}
	switch f.Type() {
	case schema.TypeBool, schema.TypeInt8:
		w.buf[off] = b
	case schema.TypeInt16, schema.TypeInt32, schema.TypeInt64:
		// The slot may hold stale bytes after a reseed; only the low byte
		// carries the value, the rest must be zeroed.
		for i := 1; i < f.Size(); i++ {
			w.buf[off+i] = 0
		}
		w.buf[off] = b
	default:
		return ErrTypeMismatch
	}
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeInt8(index int, v int8) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	switch f.Type() {
	case schema.TypeBool:
		w.buf[off] = boolByte(v != 0)
	case schema.TypeInt8:
		w.buf[off] = byte(v)
	case schema.TypeInt16:
		binary.LittleEndian.PutUint16(w.buf[off:], uint16(int16(v)))
	case schema.TypeInt32:
		binary.LittleEndian.PutUint32(w.buf[off:], uint32(int32(v)))
	case schema.TypeInt64:
		binary.LittleEndian.PutUint64(w.buf[off:], uint64(int64(v)))
	case schema.TypeFloat:
		binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(float32(v)))
	case schema.TypeDouble:
		binary.LittleEndian.PutUint64(w.buf[off:], math.Float64bits(float64(v)))
	default:
		return ErrTypeMismatch
	}
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeInt16(index int, v int16) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	switch f.Type() {
	case schema.TypeBool:
		w.buf[off] = boolByte(v != 0)
	case schema.TypeInt8:
		if v > math.MaxInt8 || v < math.MinInt8 {
			return ErrOutOfRange
		}
		w.buf[off] = byte(int8(v))
	case schema.TypeInt16:
		binary.LittleEndian.PutUint16(w.buf[off:], uint16(v))
	case schema.TypeInt32:
		binary.LittleEndian.PutUint32(w.buf[off:], uint32(int32(v)))
	case schema.TypeInt64:
		binary.LittleEndian.PutUint64(w.buf[off:], uint64(int64(v)))
	case schema.TypeFloat:
		binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(float32(v)))
	case schema.TypeDouble:
		binary.LittleEndian.PutUint64(w.buf[off:], math.Float64bits(float64(v)))
	default:
		return ErrTypeMismatch
	}
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeInt32(index int, v int32) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	switch f.Type() {
	case schema.TypeBool:
		w.buf[off] = boolByte(v != 0)
	case schema.TypeInt8:
		if v > math.MaxInt8 || v < math.MinInt8 {
			return ErrOutOfRange
		}
		w.buf[off] = byte(int8(v))
	case schema.TypeInt16:
		if v > math.MaxInt16 || v < math.MinInt16 {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint16(w.buf[off:], uint16(int16(v)))
	case schema.TypeInt32:
		binary.LittleEndian.PutUint32(w.buf[off:], uint32(v))
	case schema.TypeTimestamp:
		// A 32-bit timestamp only reaches 2038-01-19.
		ts, err := timeutil.ToTimestamp(int64(v))
		if err != nil {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint64(w.buf[off:], uint64(ts))
	case schema.TypeInt64:
		binary.LittleEndian.PutUint64(w.buf[off:], uint64(int64(v)))
	case schema.TypeFloat:
		binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(float32(v)))
	case schema.TypeDouble:
		binary.LittleEndian.PutUint64(w.buf[off:], math.Float64bits(float64(v)))
	default:
		return ErrTypeMismatch
	}
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeInt64(index int, v int64) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	switch f.Type() {
	case schema.TypeBool:
		w.buf[off] = boolByte(v != 0)
	case schema.TypeInt8:
		if v > math.MaxInt8 || v < math.MinInt8 {
			return ErrOutOfRange
		}
		w.buf[off] = byte(int8(v))
	case schema.TypeInt16:
		if v > math.MaxInt16 || v < math.MinInt16 {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint16(w.buf[off:], uint16(int16(v)))
	case schema.TypeInt32:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint32(w.buf[off:], uint32(int32(v)))
	case schema.TypeTimestamp:
		ts, err := timeutil.ToTimestamp(v)
		if err != nil {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint64(w.buf[off:], uint64(ts))
	case schema.TypeInt64:
		binary.LittleEndian.PutUint64(w.buf[off:], uint64(v))
	case schema.TypeFloat:
		binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(float32(v)))
	case schema.TypeDouble:
		binary.LittleEndian.PutUint64(w.buf[off:], math.Float64bits(float64(v)))
	default:
		return ErrTypeMismatch
	}
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeFloat32(index int, v float32) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	switch f.Type() {
	case schema.TypeInt8:
		if v > math.MaxInt8 || v < math.MinInt8 {
			return ErrOutOfRange
		}
		w.buf[off] = byte(int8(roundHalfAway(float64(v))))
	case schema.TypeInt16:
		if v > math.MaxInt16 || v < math.MinInt16 {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint16(w.buf[off:], uint16(int16(roundHalfAway(float64(v)))))
	case schema.TypeInt32:
		// Compare in float32: the int32 bounds are not exactly
		// representable and widening first would reject valid values.
		if v > float32(math.MaxInt32) || v < float32(math.MinInt32) {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint32(w.buf[off:], uint32(int32(roundHalfAway(float64(v)))))
	case schema.TypeInt64:
		if v > float32(math.MaxInt64) || v < float32(math.MinInt64) {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint64(w.buf[off:], uint64(int64(roundHalfAway(float64(v)))))
	case schema.TypeFloat:
		binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(v))
	case schema.TypeDouble:
		binary.LittleEndian.PutUint64(w.buf[off:], math.Float64bits(float64(v)))
	default:
		return ErrTypeMismatch
	}
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeFloat64(index int, v float64) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	switch f.Type() {
	case schema.TypeInt8:
		if v > math.MaxInt8 || v < math.MinInt8 {
			return ErrOutOfRange
		}
		w.buf[off] = byte(int8(roundHalfAway(v)))
	case schema.TypeInt16:
		if v > math.MaxInt16 || v < math.MinInt16 {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint16(w.buf[off:], uint16(int16(roundHalfAway(v))))
	case schema.TypeInt32:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint32(w.buf[off:], uint32(int32(roundHalfAway(v))))
	case schema.TypeInt64:
		if v > float64(math.MaxInt64) || v < float64(math.MinInt64) {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint64(w.buf[off:], uint64(int64(roundHalfAway(v))))
	case schema.TypeFloat:
		if v > math.MaxFloat32 || v < -math.MaxFloat32 {
			return ErrOutOfRange
		}
		binary.LittleEndian.PutUint32(w.buf[off:], math.Float32bits(float32(v)))
	case schema.TypeDouble:
		binary.LittleEndian.PutUint64(w.buf[off:], math.Float64bits(v))
	default:
		return ErrTypeMismatch
	}
	w.markSet(index, f)
	return nil
}

// writeStr stores string payloads. STRING and GEOGRAPHY slots hold an
// (offset, length) int32 pair pointing into the tail; FIXED_STRING copies
// in place, truncating on a UTF-8 boundary and zero-padding.
func (w *RowWriter) writeStr(index int, v []byte, isWKB bool) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	switch f.Type() {
	case schema.TypeGeography:
		// Only serialized WKB may land in a geography slot.
		if !isWKB {
			return ErrTypeMismatch
		}
		fallthrough
	case schema.TypeString:
		if w.isSet[index] {
			// The slot already points at tail bytes; appending again and
			// re-pointing would conflate lengths on the next overwrite.
			// Park the new value and reconcile at Finish.
			w.outOfSpaceStr = true
		}

		var strOffset, strLen int32
		if w.outOfSpaceStr {
			w.strList = append(w.strList, append([]byte(nil), v...))
			strOffset = 0
			// The length field doubles as the index into strList.
			strLen = int32(len(w.strList) - 1)
		} else {
			strOffset = int32(len(w.buf))
			strLen = int32(len(v))
			w.buf = append(w.buf, v...)
		}
		binary.LittleEndian.PutUint32(w.buf[off:], uint32(strOffset))
		binary.LittleEndian.PutUint32(w.buf[off+4:], uint32(strLen))
		w.approxStrLen += len(v)
	case schema.TypeFixedString:
		n := len(v)
		if n > f.Size() {
			n = utf8CutSize(v, f.Size())
		}
		copy(w.buf[off:], v[:n])
		for i := n; i < f.Size(); i++ {
			w.buf[off+i] = 0
		}
	default:
		return ErrTypeMismatch
	}
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeDate(index int, v types.Date) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	if f.Type() != schema.TypeDate {
		return ErrTypeMismatch
	}
	binary.LittleEndian.PutUint16(w.buf[off:], uint16(v.Year))
	w.buf[off+2] = byte(v.Month)
	w.buf[off+3] = byte(v.Day)
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeTime(index int, v types.Time) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	if f.Type() != schema.TypeTime {
		return ErrTypeMismatch
	}
	w.buf[off] = byte(v.Hour)
	w.buf[off+1] = byte(v.Minute)
	w.buf[off+2] = byte(v.Sec)
	binary.LittleEndian.PutUint32(w.buf[off+3:], uint32(v.Microsec))
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeDateTime(index int, v types.DateTime) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	if f.Type() != schema.TypeDateTime {
		return ErrTypeMismatch
	}
	binary.LittleEndian.PutUint16(w.buf[off:], uint16(v.Year))
	w.buf[off+2] = byte(v.Month)
	w.buf[off+3] = byte(v.Day)
	w.buf[off+4] = byte(v.Hour)
	w.buf[off+5] = byte(v.Minute)
	w.buf[off+6] = byte(v.Sec)
	binary.LittleEndian.PutUint32(w.buf[off+7:], uint32(v.Microsec))
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeDuration(index int, v types.Duration) error {
	f := w.schema.Field(index)
	off := w.slot(f)
	if f.Type() != schema.TypeDuration {
		return ErrTypeMismatch
	}
	binary.LittleEndian.PutUint64(w.buf[off:], uint64(v.Seconds))
	binary.LittleEndian.PutUint32(w.buf[off+8:], uint32(v.Microseconds))
	binary.LittleEndian.PutUint32(w.buf[off+12:], uint32(v.Months))
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeGeography(index int, v types.Geography) error {
	f := w.schema.Field(index)
	if f.GeoShape() != types.ShapeAny && f.GeoShape() != v.Shape() {
		return ErrTypeMismatch
	}
	wkbBytes, err := v.AsWKB()
	if err != nil {
		return fmt.Errorf("%w: serialize WKB: %v", ErrTypeMismatch, err)
	}
	return w.writeStr(index, wkbBytes, true)
}

func (w *RowWriter) writeList(index int, list types.List) error {
	f := w.schema.Field(index)
	off := w.slot(f)

	var kind elemKind
	switch f.Type() {
	case schema.TypeListString:
		kind = elemString
	case schema.TypeListInt:
		kind = elemInt
	case schema.TypeListFloat:
		kind = elemFloat
	default:
		slog.Error("unsupported list field type", "field", f.Name(), "type", f.Type().String())
		return ErrTypeMismatch
	}
	if err := validateElems(list.Values, kind); err != nil {
		return err
	}

	if w.isSet[index] {
		// The old payload stays behind as dead tail bytes.
		w.outOfSpaceStr = true
	}

	listOffset := int32(len(w.buf))
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(list.Values)))
	for _, item := range list.Values {
		w.appendElem(item, kind)
	}
	binary.LittleEndian.PutUint32(w.buf[off:], uint32(listOffset))
	w.markSet(index, f)
	return nil
}

func (w *RowWriter) writeSet(index int, set types.Set) error {
	f := w.schema.Field(index)
	off := w.slot(f)

	var kind elemKind
	switch f.Type() {
	case schema.TypeSetString:
		kind = elemString
	case schema.TypeSetInt:
		kind = elemInt
	case schema.TypeSetFloat:
		kind = elemFloat
	default:
		slog.Error("unsupported set field type", "field", f.Name(), "type", f.Type().String())
		return ErrTypeMismatch
	}
	if err := validateElems(set.Values, kind); err != nil {
		return err
	}

	if w.isSet[index] {
		w.outOfSpaceStr = true
	}

	// Dedup before the count is written so the stored count matches the
	// payload.
	seen := make(map[any]struct{}, len(set.Values))
	unique := make([]any, 0, len(set.Values))
	for _, item := range set.Values {
		k := elemKey(item, kind)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, item)
	}

	setOffset := int32(len(w.buf))
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(len(unique)))
	for _, item := range unique {
		w.appendElem(item, kind)
	}
	binary.LittleEndian.PutUint32(w.buf[off:], uint32(setOffset))
	w.markSet(index, f)
	return nil
}

// checkUnsetFields fills every unset field from its default expression or
// marks it NULL. A default literal that cannot coerce into its own field
// indicates a corrupt schema and panics.
func (w *RowWriter) checkUnsetFields() error {
	ctx := expr.DefaultContext{}
	for i := 0; i < w.schema.NumFields(); i++ {
		if w.isSet[i] {
			continue
		}
		f := w.schema.Field(i)
		if !f.Nullable() && !f.HasDefault() {
			return fmt.Errorf("%w: %s", ErrFieldUnset, f.Name())
		}

		if !f.HasDefault() {
			w.setNullBit(f.NullFlagPos())
			continue
		}

		e, err := expr.Decode(f.DefaultExpr())
		if err != nil {
			panic(fmt.Sprintf("codec: corrupt default expression for field %s: %v", f.Name(), err))
		}
		def := e.Eval(ctx)

		var werr error
		switch v := def.(type) {
		case types.Null:
			if v.IsBad() {
				werr = ErrTypeMismatch
			} else {
				werr = w.SetNull(i)
			}
		case bool:
			werr = w.writeBool(i, v)
		case int:
			werr = w.writeInt64(i, int64(v))
		case int64:
			werr = w.writeInt64(i, v)
		case float64:
			werr = w.writeFloat64(i, v)
		case string:
			werr = w.writeStr(i, []byte(v), false)
		case []byte:
			werr = w.writeStr(i, v, false)
		case types.Date:
			werr = w.writeDate(i, v)
		case types.Time:
			werr = w.writeTime(i, v)
		case types.DateTime:
			werr = w.writeDateTime(i, v)
		case types.Duration:
			werr = w.writeDuration(i, v)
		case types.Geography:
			werr = w.writeGeography(i, v)
		case types.List:
			werr = w.writeList(i, v)
		case types.Set:
			werr = w.writeSet(i, v)
		default:
			slog.Error("unsupported default value kind",
				"field", f.Name(), "kind", fmt.Sprintf("%T", def))
			panic(fmt.Sprintf("codec: unsupported default value kind %T for field %s", def, f.Name()))
		}
		if werr != nil {
			panic(fmt.Sprintf("codec: default value for field %s does not fit %s: %v",
				f.Name(), f.Type(), werr))
		}
	}
	return nil
}

// processOutOfSpace rebuilds the buffer with a fresh contiguous tail,
// resolving out-of-space entries through strList. LIST/SET payloads are
// not copied into the new buffer; their slots keep offsets into the old
// one.
func (w *RowWriter) processOutOfSpace() []byte {
	fixedEnd := w.headerLen + w.numNullBytes + w.schema.FixedSize()
	temp := make([]byte, 0, fixedEnd+w.approxStrLen+trailerLen)
	temp = append(temp, w.buf[:fixedEnd]...)

	for i := 0; i < w.schema.NumFields(); i++ {
		f := w.schema.Field(i)
		if f.Type() != schema.TypeString && f.Type() != schema.TypeGeography {
			continue
		}

		off := w.slot(f)
		newOffset := int32(len(temp))
		var strLen int32

		if f.Nullable() && w.checkNullBit(f.NullFlagPos()) {
			newOffset, strLen = 0, 0
		} else {
			oldOffset := int32(binary.LittleEndian.Uint32(w.buf[off:]))
			strLen = int32(binary.LittleEndian.Uint32(w.buf[off+4:]))
			if oldOffset > 0 {
				temp = append(temp, w.buf[oldOffset:oldOffset+strLen]...)
			} else {
				idx := int(strLen)
				if idx >= len(w.strList) {
					panic(fmt.Sprintf("codec: out-of-space index %d past %d parked strings",
						idx, len(w.strList)))
				}
				temp = append(temp, w.strList[idx]...)
				strLen = int32(len(w.strList[idx]))
			}
		}

		binary.LittleEndian.PutUint32(temp[off:], uint32(newOffset))
		binary.LittleEndian.PutUint32(temp[off+4:], uint32(strLen))
	}
	return temp
}

func boolByte(b bool) byte {
	if b {
		return 0x01
	}
	return 0x00
}

// roundHalfAway rounds to the nearest integer, halves away from zero.
func roundHalfAway(v float64) float64 {
	return math.Round(v)
}
