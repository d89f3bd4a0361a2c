package codec

import "github.com/vanirdb/vanir/pkg/schema"

// RowReader is the narrow contract the writer consumes when reseeding from
// an already-decoded row. Implementations live with the reader side of the
// storage engine.
type RowReader interface {
	// Schema returns the schema the row was decoded with.
	Schema() *schema.Schema

	// NumFields returns the number of fields in the row.
	NumFields() int

	// ValueByIndex returns the value of field i. NULL fields report
	// types.NullValue.
	ValueByIndex(i int) any
}
