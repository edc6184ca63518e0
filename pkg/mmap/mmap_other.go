//go:build !unix

package mmap

import (
	"os"

	"github.com/ssargent/wordpack/pkg/codec"
)

// Open reads the file into memory on platforms without mmap support. The
// buffer is private, so in-place decoding never reaches the file.
func Open(path string, opts Options) (*View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, codec.IOError(err, "read", path)
	}
	return &View{path: path, opts: opts, data: data}, nil
}
