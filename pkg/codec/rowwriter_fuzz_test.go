//go:build fuzz
// +build fuzz

package codec

import (
	"encoding/binary"
	"testing"

	"github.com/vanirdb/vanir/pkg/schema"
)

// FuzzRowWriter_StringRoundTrip drives the string path, including the
// out-of-space rewrite, with arbitrary payloads and checks the emitted
// slot still points at the last value written.
func FuzzRowWriter_StringRoundTrip(f *testing.F) {
	f.Add([]byte(""), []byte("x"))
	f.Add([]byte("hello"), []byte("world"))
	f.Add([]byte{0x00, 0xFF}, []byte{0x80})
	f.Add([]byte("日本語"), []byte("ascii"))

	sch := schema.NewBuilder(0).
		AddField("s", schema.TypeString).
		AddField("n", schema.TypeInt64).
		Build()

	f.Fuzz(func(t *testing.T, first, second []byte) {
		if len(first) > 1<<16 || len(second) > 1<<16 {
			t.Skip("input too large")
		}

		w := NewRowWriter(sch)
		if err := w.Set(0, first); err != nil {
			t.Fatalf("first write: %v", err)
		}
		if err := w.Set(0, second); err != nil {
			t.Fatalf("second write: %v", err)
		}
		if err := w.Set(1, int64(len(first))); err != nil {
			t.Fatalf("int write: %v", err)
		}

		rec, err := w.Finish()
		if err != nil {
			t.Fatalf("finish: %v", err)
		}

		body := rec[:len(rec)-8]
		if want := 1 + 16 + len(second); len(body) != want {
			t.Fatalf("record body is %d bytes, want %d", len(body), want)
		}

		off := binary.LittleEndian.Uint32(body[1:5])
		n := binary.LittleEndian.Uint32(body[5:9])
		if int(off) != 17 || int(n) != len(second) {
			t.Fatalf("slot (%d, %d), want (17, %d)", off, n, len(second))
		}
		if got := body[off : int(off)+int(n)]; string(got) != string(second) {
			t.Fatalf("tail holds %q, want %q", got, second)
		}
	})
}
