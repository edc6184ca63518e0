// Package harness runs the encode, decode and verify pipelines over files.
package harness

import (
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"

	"github.com/ssargent/wordpack/pkg/checksum"
	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/codec/reloc"
	"github.com/ssargent/wordpack/pkg/codec/schema"
	"github.com/ssargent/wordpack/pkg/lines"
	"github.com/ssargent/wordpack/pkg/metrics"
	"github.com/ssargent/wordpack/pkg/mmap"
)

// Options configures a Runner.
type Options struct {
	Format   codec.Format
	Builder  schema.BuilderOptions
	Reader   schema.ReaderOptions
	Mmap     mmap.Options
	Sync     bool
	Recorder metrics.Recorder
}

// DefaultOptions uses the relocatable format and a copy-on-write mapping.
func DefaultOptions() Options {
	return Options{
		Format:   codec.Relocatable,
		Mmap:     mmap.DefaultOptions(),
		Recorder: metrics.Noop{},
	}
}

// Runner executes harness operations. It holds no state between calls.
type Runner struct {
	opts  Options
	codec codec.Codec
}

// EncodeResult describes a written file.
type EncodeResult struct {
	Lines  int
	Bytes  int64
	Digest uint64 // xxhash64 of the encoded bytes
}

// VerifyResult holds the per-format checksums of a verify run.
type VerifyResult struct {
	Lines int
	Sums  map[codec.Format]uint32
}

// NewRunner builds a runner for opts.Format.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Recorder == nil {
		opts.Recorder = metrics.Noop{}
	}
	c, err := NewCodec(opts.Format, opts.Builder, opts.Reader)
	if err != nil {
		return nil, err
	}
	return &Runner{opts: opts, codec: c}, nil
}

// NewCodec returns the codec for format.
func NewCodec(format codec.Format, b schema.BuilderOptions, r schema.ReaderOptions) (codec.Codec, error) {
	switch format {
	case codec.Relocatable:
		return reloc.New(), nil
	case codec.Schema:
		return schema.New(b, r), nil
	default:
		return nil, errors.Wrapf(codec.ErrUnknownFormat, "format %d", int(format))
	}
}

// Format returns the format the runner encodes and decodes.
func (r *Runner) Format() codec.Format { return r.opts.Format }

func (r *Runner) observe(op string, start time.Time, err error) {
	r.opts.Recorder.RecordOperation(op, r.opts.Format, err == nil, time.Since(start))
}

// Encode reads the lines of in and writes them, encoded, to out.
func (r *Runner) Encode(in, out string) (res EncodeResult, err error) {
	defer func(start time.Time) { r.observe(ModeEncode.String(), start, err) }(time.Now())

	src, err := lines.ReadFile(in)
	if err != nil {
		return EncodeResult{}, err
	}
	buf, err := r.codec.Encode(src)
	if err != nil {
		return EncodeResult{}, errors.Wrapf(err, "encode %s", in)
	}

	w, err := NewFileWriter(WriterConfig{FilePath: out, Sync: r.opts.Sync})
	if err != nil {
		return EncodeResult{}, err
	}
	if _, err := w.Write(buf); err != nil {
		w.Close()
		return EncodeResult{}, err
	}
	if err := w.Close(); err != nil {
		return EncodeResult{}, err
	}

	r.opts.Recorder.RecordEncoded(r.opts.Format, len(src), len(buf))
	return EncodeResult{Lines: len(src), Bytes: w.Size(), Digest: xxhash.Sum64(buf)}, nil
}

// DecodeNth maps path, decodes it and returns the byte sum of element n.
func (r *Runner) DecodeNth(path string, n int) (sum uint32, err error) {
	defer func(start time.Time) { r.observe(ModeDecodeNth.String(), start, err) }(time.Now())

	err = mmap.With(path, r.opts.Mmap, func(v *mmap.View) error {
		seq, err := v.Decode(r.codec)
		if err != nil {
			return err
		}
		sum, err = checksum.SumOne(seq, n)
		return err
	})
	if err != nil {
		return 0, err
	}
	r.opts.Recorder.RecordChecksum(ModeDecodeNth.String(), r.opts.Format, sum)
	return sum, nil
}

// DecodeAll maps path, decodes it and returns the sum over every element.
func (r *Runner) DecodeAll(path string) (sum uint32, err error) {
	defer func(start time.Time) { r.observe(ModeDecodeAll.String(), start, err) }(time.Now())

	err = mmap.With(path, r.opts.Mmap, func(v *mmap.View) error {
		seq, err := v.Decode(r.codec)
		if err != nil {
			return err
		}
		sum, err = checksum.SumAll(seq)
		return err
	})
	if err != nil {
		return 0, err
	}
	r.opts.Recorder.RecordChecksum(ModeDecodeAll.String(), r.opts.Format, sum)
	return sum, nil
}

// Verify encodes the lines of in with every format, decodes each buffer and
// checks that all of them reproduce the source byte sums element by element.
func (r *Runner) Verify(in string) (res VerifyResult, err error) {
	defer func(start time.Time) { r.observe(ModeVerify.String(), start, err) }(time.Now())

	src, err := lines.ReadFile(in)
	if err != nil {
		return VerifyResult{}, err
	}
	want, err := checksum.Sums(codec.Lines(src))
	if err != nil {
		return VerifyResult{}, err
	}

	res = VerifyResult{Lines: len(src), Sums: make(map[codec.Format]uint32, len(codec.Formats))}
	for _, f := range codec.Formats {
		c, err := NewCodec(f, r.opts.Builder, r.opts.Reader)
		if err != nil {
			return VerifyResult{}, err
		}
		total, err := roundTrip(c, src, want)
		if err != nil {
			return VerifyResult{}, errors.Wrapf(err, "%s", f)
		}
		res.Sums[f] = total
	}
	return res, nil
}

// roundTrip encodes src with c, decodes it again and compares each element's
// byte sum with want.
func roundTrip(c codec.Codec, src []string, want []uint32) (uint32, error) {
	buf, err := c.Encode(src)
	if err != nil {
		return 0, err
	}
	seq, err := c.Decode(buf)
	if err != nil {
		return 0, err
	}
	if seq.Len() != len(want) {
		return 0, errors.Wrapf(codec.ErrMismatch, "decoded %d elements, want %d", seq.Len(), len(want))
	}
	got, err := checksum.Sums(seq)
	if err != nil {
		return 0, err
	}
	var total uint32
	for i := range got {
		if got[i] != want[i] {
			return 0, errors.Wrapf(codec.ErrMismatch, "element %d: sum %d, want %d", i, got[i], want[i])
		}
		total += got[i]
	}
	return total, nil
}
