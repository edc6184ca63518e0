//go:build bench
// +build bench

package harness

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ssargent/wordpack/pkg/checksum"
	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/codec/schema"
	"github.com/ssargent/wordpack/pkg/mmap"
)

const benchLines = 100000

func benchInput() []string {
	lines := make([]string, benchLines)
	for i := range lines {
		lines[i] = fmt.Sprintf("word%06d", i)
	}
	return lines
}

func BenchmarkEncode(b *testing.B) {
	lines := benchInput()
	for _, format := range codec.Formats {
		c, err := NewCodec(format, schema.BuilderOptions{}, schema.ReaderOptions{})
		if err != nil {
			b.Fatal(err)
		}
		b.Run(format.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := c.Encode(lines); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// benchFile encodes the bench input once and returns the file path.
func benchFile(b *testing.B, format codec.Format) string {
	b.Helper()
	lines := benchInput()
	c, err := NewCodec(format, schema.BuilderOptions{}, schema.ReaderOptions{})
	if err != nil {
		b.Fatal(err)
	}
	buf, err := c.Encode(lines)
	if err != nil {
		b.Fatal(err)
	}
	path := filepath.Join(b.TempDir(), format.String()+".bin")
	w, err := NewFileWriter(WriterConfig{FilePath: path})
	if err != nil {
		b.Fatal(err)
	}
	if _, err := w.Write(buf); err != nil {
		b.Fatal(err)
	}
	if err := w.Close(); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkDecodeNth(b *testing.B) {
	for _, format := range codec.Formats {
		path := benchFile(b, format)
		r, err := NewRunner(Options{Format: format, Mmap: mmap.DefaultOptions()})
		if err != nil {
			b.Fatal(err)
		}
		b.Run(format.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := r.DecodeNth(path, 10000); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecodeAll(b *testing.B) {
	for _, format := range codec.Formats {
		path := benchFile(b, format)
		r, err := NewRunner(Options{Format: format, Mmap: mmap.DefaultOptions()})
		if err != nil {
			b.Fatal(err)
		}
		b.Run(format.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := r.DecodeAll(path); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSumAllInMemory(b *testing.B) {
	lines := benchInput()
	c, err := NewCodec(codec.Schema, schema.BuilderOptions{}, schema.ReaderOptions{})
	if err != nil {
		b.Fatal(err)
	}
	buf, err := c.Encode(lines)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq, err := c.Decode(buf)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := checksum.SumAll(seq); err != nil {
			b.Fatal(err)
		}
	}
}
