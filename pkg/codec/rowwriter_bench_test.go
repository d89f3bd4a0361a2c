//go:build bench
// +build bench

package codec

import (
	"bytes"
	"testing"

	"github.com/vanirdb/vanir/pkg/schema"
	"github.com/vanirdb/vanir/pkg/types"
)

func benchSchema() *schema.Schema {
	return schema.NewBuilder(1).
		AddField("id", schema.TypeInt64).
		AddField("name", schema.TypeString).
		AddField("score", schema.TypeDouble, schema.Nullable()).
		AddField("tags", schema.TypeListString, schema.Nullable()).
		Build()
}

func BenchmarkRowWriter_FixedOnly(b *testing.B) {
	s := schema.NewBuilder(0).
		AddField("a", schema.TypeInt64).
		AddField("b", schema.TypeInt32).
		AddField("c", schema.TypeDouble).
		Build()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := NewRowWriter(s)
		if err := w.Set(0, int64(i)); err != nil {
			b.Fatal(err)
		}
		if err := w.Set(1, int32(i)); err != nil {
			b.Fatal(err)
		}
		if err := w.Set(2, float64(i)); err != nil {
			b.Fatal(err)
		}
		if _, err := w.Finish(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRowWriter_Strings(b *testing.B) {
	benchmarks := []struct {
		name  string
		value []byte
	}{
		{"small", []byte("thor")},
		{"medium", bytes.Repeat([]byte("v"), 1000)},
		{"large", bytes.Repeat([]byte("v"), 10000)},
	}

	s := benchSchema()
	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w := NewRowWriter(s)
				if err := w.Set(0, int64(i)); err != nil {
					b.Fatal(err)
				}
				if err := w.Set(1, bm.value); err != nil {
					b.Fatal(err)
				}
				if _, err := w.Finish(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRowWriter_Canonicalize(b *testing.B) {
	s := benchSchema()
	first := bytes.Repeat([]byte("a"), 512)
	second := bytes.Repeat([]byte("b"), 512)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := NewRowWriter(s)
		if err := w.Set(0, int64(i)); err != nil {
			b.Fatal(err)
		}
		if err := w.Set(1, first); err != nil {
			b.Fatal(err)
		}
		if err := w.Set(1, second); err != nil {
			b.Fatal(err)
		}
		if _, err := w.Finish(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRowWriter_Containers(b *testing.B) {
	s := benchSchema()
	tags := types.List{Values: []any{"alpha", "beta", "gamma", "delta"}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := NewRowWriter(s)
		if err := w.Set(0, int64(i)); err != nil {
			b.Fatal(err)
		}
		if err := w.Set(1, "odin"); err != nil {
			b.Fatal(err)
		}
		if err := w.Set(3, tags); err != nil {
			b.Fatal(err)
		}
		if _, err := w.Finish(); err != nil {
			b.Fatal(err)
		}
	}
}
