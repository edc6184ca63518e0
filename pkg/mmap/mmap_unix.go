//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/wordpack/pkg/codec"
)

// Open maps the whole file at path. An empty file yields an empty view with no
// mapping behind it.
func Open(path string, opts Options) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, codec.IOError(err, "open", path)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, codec.IOError(err, "stat", path)
	}
	size := st.Size()
	if size == 0 {
		return &View{path: path, opts: opts, data: []byte{}}, nil
	}
	if int64(int(size)) != size {
		return nil, errors.Wrapf(codec.ErrTooLarge, "%s: %d bytes", path, size)
	}

	prot, flags := unix.PROT_READ, unix.MAP_SHARED
	if opts.CopyOnWrite {
		prot, flags = unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), prot, flags)
	if err != nil {
		return nil, codec.IOError(err, "mmap", path)
	}
	return &View{
		path:  path,
		opts:  opts,
		data:  data,
		unmap: func() error { return unix.Munmap(data) },
	}, nil
}
