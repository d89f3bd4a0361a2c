package codec

import "errors"

// Recoverable write outcomes. The writer stays memory-safe after any of
// these, but callers that need atomicity should discard it.
var (
	// ErrUnknownField is returned when the field index or name does not
	// exist in the schema.
	ErrUnknownField = errors.New("codec: unknown field")

	// ErrTypeMismatch is returned when a value cannot coerce into the
	// field's on-disk type.
	ErrTypeMismatch = errors.New("codec: type mismatch")

	// ErrOutOfRange is returned when a narrowing coercion would lose the
	// value, or a timestamp fails validation.
	ErrOutOfRange = errors.New("codec: value out of range")

	// ErrNotNullable is returned when NULL is assigned to a non-nullable
	// field.
	ErrNotNullable = errors.New("codec: field is not nullable")

	// ErrFieldUnset is returned by Finish when a field has no value, no
	// default, and cannot be NULL.
	ErrFieldUnset = errors.New("codec: field not set and has no default")
)
