// Package mmap maps encoded files into memory for zero-copy decoding.
package mmap

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/wordpack/pkg/codec"
)

// Options controls how a file is mapped.
type Options struct {
	// CopyOnWrite maps the file privately and writable, so codecs that decode
	// in place can patch the mapping without touching the file. When false the
	// mapping is shared and read-only, which only suits read-only codecs.
	CopyOnWrite bool
}

// DefaultOptions maps copy-on-write.
func DefaultOptions() Options {
	return Options{CopyOnWrite: true}
}

// View is a mapped file. Sequences decoded through a View stop working once it
// is closed.
type View struct {
	path  string
	opts  Options
	data  []byte
	unmap func() error

	mu     sync.RWMutex
	closed bool
}

// Path returns the mapped file's path.
func (v *View) Path() string { return v.path }

// Len returns the mapped size in bytes.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.data)
}

// Bytes returns the mapping. The slice is invalid after Close.
func (v *View) Bytes() ([]byte, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return nil, errors.Wrapf(codec.ErrReleased, "%s", v.path)
	}
	return v.data, nil
}

// Decode runs c over the mapping and returns a sequence guarded by the view.
func (v *View) Decode(c codec.Codec) (codec.Sequence, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil, errors.Wrapf(codec.ErrReleased, "%s", v.path)
	}
	if c.InPlace() && !v.opts.CopyOnWrite {
		return nil, errors.Newf("mmap: %s decodes in place and needs a copy-on-write mapping", c.Format())
	}
	seq, err := c.Decode(v.data)
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", v.path)
	}
	return &guarded{v: v, seq: seq}, nil
}

// Close unmaps the file. It is safe to call more than once.
func (v *View) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return nil
	}
	v.closed = true
	v.data = nil
	if v.unmap == nil {
		return nil
	}
	return codec.IOError(v.unmap(), "munmap", v.path)
}

// With opens path, passes the view to fn and closes it on every exit path.
// A Close failure is reported only when fn itself succeeded.
func With(path string, opts Options, fn func(*View) error) (err error) {
	v, err := Open(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := v.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(v)
}

type guarded struct {
	v   *View
	seq codec.Sequence
}

func (g *guarded) Len() int { return g.seq.Len() }

func (g *guarded) At(i int) ([]byte, error) {
	g.v.mu.RLock()
	defer g.v.mu.RUnlock()
	if g.v.closed {
		return nil, errors.Wrapf(codec.ErrReleased, "%s", g.v.path)
	}
	return g.seq.At(i)
}
