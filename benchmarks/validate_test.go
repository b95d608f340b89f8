package benchmarks_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/reoring/jadn"
)

const library = `{
  "info": {
    "package": "http://example.com/bench",
    "exports": ["Library"],
    "config": {"$MaxElements": 5000}
  },
  "types": [
    ["Library", "Record", [], "", [
      [1, "name", "String", [], ""],
      [2, "books", "Book", ["[0", "]0"], ""]
    ]],
    ["Book", "Record", [], "", [
      [1, "isbn", "String", ["%^[0-9]{13}$"], ""],
      [2, "title", "String", ["{1"], ""],
      [3, "format", "Format", [], ""],
      [4, "tags", "String", ["[0", "]8", "q"], ""]
    ]],
    ["Format", "Enumerated", [], "", [[1, "hardcover", ""], [2, "paperback", ""], [3, "ebook", ""]]]
  ]
}`

func loadLibrary(tb testing.TB) *jadn.Schema {
	tb.Helper()
	s, err := jadn.Loads([]byte(library))
	if err != nil {
		tb.Fatalf("schema load failed: %v", err)
	}
	return s
}

// libraryJSON returns a library document with n books.
func libraryJSON(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString(`{"name":"city","books":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"isbn":"%013d","title":"book %d","format":"ebook","tags":["a","b"]}`, i, i)
	}
	buf.WriteString(`]}`)
	return buf.Bytes()
}

func BenchmarkLoads(b *testing.B) {
	data := []byte(library)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jadn.Loads(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeInstance(b *testing.B) {
	data := libraryJSON(1000)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := jadn.DecodeInstance(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkValidate(b *testing.B) {
	s := loadLibrary(b)
	ctx := context.Background()
	for _, n := range []int{10, 1000} {
		v, err := jadn.DecodeInstance(libraryJSON(n))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("books=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if err := s.Validate(ctx, v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkValidate_Parallel(b *testing.B) {
	s := loadLibrary(b)
	v, err := jadn.DecodeInstance(libraryJSON(100))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := s.Validate(context.Background(), v); err != nil {
				b.Error(err)
				return
			}
		}
	})
}

func BenchmarkSimplify(b *testing.B) {
	s := loadLibrary(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := s.Simplify(jadn.PassAll); err != nil {
			b.Fatal(err)
		}
	}
}
