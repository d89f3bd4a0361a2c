package codec_test

import (
	"fmt"
	"log"

	"github.com/vanirdb/vanir/pkg/codec"
	"github.com/vanirdb/vanir/pkg/schema"
)

// ExampleRowWriter demonstrates encoding one row against a schema.
func ExampleRowWriter() {
	sch := schema.NewBuilder(1).
		AddField("id", schema.TypeInt64).
		AddField("name", schema.TypeString).
		AddField("score", schema.TypeDouble, schema.Nullable()).
		Build()

	w := codec.NewRowWriter(sch)

	if err := w.SetByName("id", int64(42)); err != nil {
		log.Fatal(err)
	}
	if err := w.SetByName("name", "freyja"); err != nil {
		log.Fatal(err)
	}
	if err := w.SetNullByName("score"); err != nil {
		log.Fatal(err)
	}

	encoded, err := w.Finish()
	if err != nil {
		log.Fatal(err)
	}

	// header(2) + null bitmap(1) + fixed(24) + "freyja"(6) + timestamp(8)
	fmt.Printf("Encoded %d bytes\n", len(encoded))
	fmt.Printf("Header: 0x%02X\n", encoded[0])

	// Output:
	// Encoded 41 bytes
	// Header: 0x09
}

// ExampleRowWriter_editInPlace rewrites a field of an existing record.
func ExampleRowWriter_editInPlace() {
	sch := schema.NewBuilder(0).
		AddField("city", schema.TypeString).
		Build()

	w := codec.NewRowWriter(sch)
	if err := w.Set(0, "Bergen"); err != nil {
		log.Fatal(err)
	}
	original, err := w.Finish()
	if err != nil {
		log.Fatal(err)
	}

	edit := codec.NewRowWriterFromEncoded(sch, original)
	if err := edit.Set(0, "Oslo"); err != nil {
		log.Fatal(err)
	}
	edited, err := edit.Finish()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Original %d bytes, edited %d bytes\n", len(original), len(edited))

	// Output:
	// Original 23 bytes, edited 21 bytes
}
