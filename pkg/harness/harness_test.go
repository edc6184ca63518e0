package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/codec/schema"
	"github.com/ssargent/wordpack/pkg/metrics"
)

func writeLines(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newRunner(t *testing.T, format codec.Format) *Runner {
	t.Helper()
	opts := DefaultOptions()
	opts.Format = format
	opts.Builder = schema.BuilderOptions{FirstSegmentWords: 8}
	r, err := NewRunner(opts)
	require.NoError(t, err)
	return r
}

func TestParseMode(t *testing.T) {
	for _, name := range ModeNames() {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}

	for _, bad := range []string{"", "Encode", "decode", "bogus"} {
		_, err := ParseMode(bad)
		assert.True(t, errors.Is(err, codec.ErrInvalidMode), "mode %q", bad)
	}
}

func TestEncodeDecode(t *testing.T) {
	for _, format := range codec.Formats {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			in := writeLines(t, dir, "ab\nc\n")
			out := filepath.Join(dir, "out", "words.bin")
			r := newRunner(t, format)

			res, err := r.Encode(in, out)
			require.NoError(t, err)
			assert.Equal(t, 2, res.Lines)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), res.Bytes)
			assert.Equal(t, xxhash.Sum64(data), res.Digest)

			sum, err := r.DecodeNth(out, 0)
			require.NoError(t, err)
			assert.Equal(t, uint32(195), sum)

			sum, err = r.DecodeNth(out, 1)
			require.NoError(t, err)
			assert.Equal(t, uint32(99), sum)

			sum, err = r.DecodeAll(out)
			require.NoError(t, err)
			assert.Equal(t, uint32(294), sum)

			_, err = r.DecodeNth(out, 2)
			assert.True(t, errors.Is(err, codec.ErrIndexOutOfRange))
		})
	}
}

func TestEmptyInput(t *testing.T) {
	for _, format := range codec.Formats {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			in := writeLines(t, dir, "")
			out := filepath.Join(dir, "words.bin")
			r := newRunner(t, format)

			res, err := r.Encode(in, out)
			require.NoError(t, err)
			assert.Zero(t, res.Lines)

			sum, err := r.DecodeAll(out)
			require.NoError(t, err)
			assert.Zero(t, sum)

			_, err = r.DecodeNth(out, 0)
			assert.True(t, errors.Is(err, codec.ErrIndexOutOfRange))
		})
	}
}

func TestCrossFormatIdentity(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 12000; i++ {
		fmt.Fprintf(&b, "word-%d-%s\n", i, strings.Repeat("é", i%5))
	}
	dir := t.TempDir()
	in := writeLines(t, dir, b.String())

	sums := map[codec.Format][2]uint32{}
	for _, format := range codec.Formats {
		r := newRunner(t, format)
		out := filepath.Join(dir, format.String()+".bin")
		_, err := r.Encode(in, out)
		require.NoError(t, err)

		all, err := r.DecodeAll(out)
		require.NoError(t, err)
		nth, err := r.DecodeNth(out, 10000)
		require.NoError(t, err)
		sums[format] = [2]uint32{all, nth}
	}
	assert.Equal(t, sums[codec.Relocatable], sums[codec.Schema])

	res, err := newRunner(t, codec.Relocatable).Verify(in)
	require.NoError(t, err)
	assert.Equal(t, 12000, res.Lines)
	assert.Equal(t, sums[codec.Relocatable][0], res.Sums[codec.Relocatable])
	assert.Equal(t, sums[codec.Schema][0], res.Sums[codec.Schema])
}

func TestDecodeWrongFormat(t *testing.T) {
	dir := t.TempDir()
	in := writeLines(t, dir, "ab\nc\n")
	out := filepath.Join(dir, "words.bin")

	_, err := newRunner(t, codec.Schema).Encode(in, out)
	require.NoError(t, err)

	_, err = newRunner(t, codec.Relocatable).DecodeAll(out)
	assert.True(t, errors.Is(err, codec.ErrCorruptEncoding))
}

func TestTruncatedFile(t *testing.T) {
	for _, format := range codec.Formats {
		t.Run(format.String(), func(t *testing.T) {
			dir := t.TempDir()
			in := writeLines(t, dir, "alpha\nbeta\n")
			out := filepath.Join(dir, "words.bin")
			r := newRunner(t, format)

			_, err := r.Encode(in, out)
			require.NoError(t, err)

			info, err := os.Stat(out)
			require.NoError(t, err)
			require.NoError(t, os.Truncate(out, info.Size()-1))

			_, err = r.DecodeAll(out)
			assert.True(t, errors.Is(err, codec.ErrCorruptEncoding))
		})
	}
}

func TestIOErrors(t *testing.T) {
	dir := t.TempDir()
	r := newRunner(t, codec.Relocatable)

	_, err := r.Encode(filepath.Join(dir, "missing.txt"), filepath.Join(dir, "out.bin"))
	assert.True(t, errors.Is(err, codec.ErrIO))

	_, err = r.DecodeAll(filepath.Join(dir, "missing.bin"))
	assert.True(t, errors.Is(err, codec.ErrIO))

	_, err = r.Verify(filepath.Join(dir, "missing.txt"))
	assert.True(t, errors.Is(err, codec.ErrIO))
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewRunner(Options{Format: codec.Format(42)})
	assert.True(t, errors.Is(err, codec.ErrUnknownFormat))
}

type brokenCodec struct {
	codec.Codec
}

func (brokenCodec) Decode(buf []byte) (codec.Sequence, error) {
	return codec.Lines{"ab", "d"}, nil
}

func TestRoundTripMismatch(t *testing.T) {
	c := brokenCodec{Codec: schemaCodec()}
	_, err := roundTrip(c, []string{"ab", "c"}, []uint32{195, 99})
	assert.True(t, errors.Is(err, codec.ErrMismatch))

	_, err = roundTrip(c, []string{"ab"}, []uint32{195})
	assert.True(t, errors.Is(err, codec.ErrMismatch))
}

func schemaCodec() codec.Codec {
	c, _ := NewCodec(codec.Schema, schema.BuilderOptions{}, schema.ReaderOptions{})
	return c
}

func TestRecordsMetrics(t *testing.T) {
	dir := t.TempDir()
	in := writeLines(t, dir, "ab\nc\n")
	out := filepath.Join(dir, "words.bin")

	m := metrics.New()
	opts := DefaultOptions()
	opts.Recorder = m
	r, err := NewRunner(opts)
	require.NoError(t, err)

	_, err = r.Encode(in, out)
	require.NoError(t, err)
	_, err = r.DecodeAll(out)
	require.NoError(t, err)
	_, err = r.DecodeNth(out, 5)
	require.Error(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "wordpack_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
