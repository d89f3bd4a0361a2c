// Package codec implements the row format v2 encoder for VanirDB.
//
// A row is a self-describing binary record whose layout is fully
// determined by its schema. The RowWriter takes typed field assignments
// and produces the canonical encoding consumed by the storage engine.
//
// # Record Format
//
// Records are laid out little-endian:
//
//	[Header(1..8)][Null bitmap][Fixed region][Tail][Timestamp(8)]
//
// Fields:
//   - Header: byte 0 is 0b0000_1kkk, where k is the number of schema
//     version bytes that follow (0 for version 0); bytes 1..k carry the
//     version little-endian.
//   - Null bitmap: ceil(nullableFields/8) bytes, one bit per nullable
//     field, most-significant bit first within each byte. Bit set means
//     NULL.
//   - Fixed region: one slot per field at its schema-computed offset.
//     Scalars are stored in place. STRING and GEOGRAPHY slots hold an
//     (offset, length) int32 pair pointing into the tail; LIST_* and
//     SET_* slots hold a single int32 tail offset.
//   - Tail: variable-length payloads in write order. String payloads are
//     raw bytes; container payloads are an int32 count followed by the
//     elements (strings length-prefixed, ints as int32, floats as
//     float32).
//   - Timestamp: microseconds since the Unix epoch, stamped at Finish.
//
// # Overwrites
//
// Rewriting a variable-length field cannot reuse its old tail bytes, so
// the writer parks the new value aside and Finish rebuilds the buffer
// with a fresh contiguous tail for every STRING/GEOGRAPHY field. Rewriting
// a LIST or SET field triggers the same rebuild. The rebuild does not copy
// LIST and SET payloads: once it runs, the record holds no container
// payloads and container slots keep their old tail offsets.
//
// # Usage
//
//	w := codec.NewRowWriter(sch)
//	if err := w.SetByName("name", "Freyja"); err != nil {
//	    return err
//	}
//	if err := w.SetByName("age", int64(28)); err != nil {
//	    return err
//	}
//	encoded, err := w.Finish()
//	if err != nil {
//	    return err
//	}
//
// Unset fields are filled at Finish from the field's default expression,
// or set NULL when nullable; a field with neither fails Finish with
// ErrFieldUnset.
//
// # Error Handling
//
// Recoverable outcomes are the sentinel errors in errors.go, comparable
// with errors.Is. Misuse — mutating a finished writer, reseeding against
// the wrong schema version, a default literal that cannot coerce into its
// own field — panics.
//
// The writer is single-owner and not safe for concurrent use.
package codec
