package reloc

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/wordpack/pkg/codec"
)

func decodeAll(t *testing.T, seq codec.Sequence) []string {
	t.Helper()
	out := make([]string, seq.Len())
	for i := range out {
		b, err := seq.At(i)
		require.NoError(t, err)
		out[i] = string(b)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"two words", []string{"ab", "c"}},
		{"empty strings", []string{"", "x", ""}},
		{"single", []string{"hello world"}},
		{"utf8", []string{"héllo", "世界", "🙂"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			buf, err := c.Encode(tt.lines)
			require.NoError(t, err)

			seq, err := c.Decode(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.lines, decodeAll(t, seq))
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	buf, err := New().Encode([]string{"ab", "c"})
	require.NoError(t, err)
	require.Len(t, buf, HeaderSize+2*EntrySize+3)

	h, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, Header{Magic: Magic, Version: VersionV1, Len: 2, Cap: 2}, h)

	// Relative offsets 0 and 2, lengths 2 and 1.
	assert.Equal(t, uint64(0), binary.LittleEndian.Uint64(buf[HeaderSize:]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(buf[HeaderSize+8:]))
	assert.Equal(t, uint64(2), binary.LittleEndian.Uint64(buf[HeaderSize+EntrySize:]))
	assert.Equal(t, uint64(1), binary.LittleEndian.Uint64(buf[HeaderSize+EntrySize+8:]))
	assert.Equal(t, "abc", string(buf[HeaderSize+2*EntrySize:]))
}

func TestRelocatePatchesInPlace(t *testing.T) {
	buf, err := New().Encode([]string{"ab", "c"})
	require.NoError(t, err)

	table, err := Relocate(buf)
	require.NoError(t, err)

	h, err := ParseHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(HeaderSize), h.Data)
	assert.NotZero(t, h.Flags&FlagRelocated)

	strStart := uint64(HeaderSize + 2*EntrySize)
	assert.Equal(t, strStart, binary.LittleEndian.Uint64(buf[HeaderSize:]))
	assert.Equal(t, strStart+2, binary.LittleEndian.Uint64(buf[HeaderSize+EntrySize:]))

	s, err := table.Text(0)
	require.NoError(t, err)
	assert.Equal(t, "ab", s)
}

func TestEmptySequence(t *testing.T) {
	c := New()
	buf, err := c.Encode(nil)
	require.NoError(t, err)
	assert.Len(t, buf, HeaderSize)

	seq, err := c.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, seq.Len())

	_, err = seq.At(0)
	assert.True(t, errors.Is(err, codec.ErrIndexOutOfRange))
}

func TestDecodeTwiceFails(t *testing.T) {
	c := New()
	buf, err := c.Encode([]string{"ab", "c"})
	require.NoError(t, err)

	_, err = c.Decode(buf)
	require.NoError(t, err)

	_, err = c.Decode(buf)
	assert.True(t, errors.Is(err, codec.ErrCorruptEncoding))
}

func TestAtOutOfRange(t *testing.T) {
	c := New()
	buf, err := c.Encode([]string{"ab", "c"})
	require.NoError(t, err)
	seq, err := c.Decode(buf)
	require.NoError(t, err)

	for _, i := range []int{-1, 2, 100} {
		_, err := seq.At(i)
		assert.True(t, errors.Is(err, codec.ErrIndexOutOfRange), "index %d", i)
	}
}

func TestTruncation(t *testing.T) {
	c := New()
	buf, err := c.Encode([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)

	for n := 0; n < len(buf); n++ {
		cut := append([]byte(nil), buf[:n]...)
		_, err := c.Decode(cut)
		assert.True(t, errors.Is(err, codec.ErrCorruptEncoding), "truncated to %d bytes", n)
	}
}

func TestTrailingBytes(t *testing.T) {
	c := New()
	buf, err := c.Encode([]string{"ab"})
	require.NoError(t, err)

	_, err = c.Decode(append(buf, 0))
	assert.True(t, errors.Is(err, codec.ErrCorruptEncoding))
}

func TestCorruptHeader(t *testing.T) {
	valid := func(t *testing.T) []byte {
		buf, err := New().Encode([]string{"ab", "c"})
		require.NoError(t, err)
		return buf
	}

	tests := []struct {
		name   string
		mutate func([]byte)
	}{
		{"bad magic", func(b []byte) { b[0] ^= 0xff }},
		{"bad version", func(b []byte) { binary.LittleEndian.PutUint16(b[4:], 9) }},
		{"nonzero data offset", func(b []byte) { binary.LittleEndian.PutUint64(b[8:], 32) }},
		{"huge length", func(b []byte) { binary.LittleEndian.PutUint64(b[16:], 1<<62) }},
		{"capacity below length", func(b []byte) { binary.LittleEndian.PutUint64(b[24:], 1) }},
		{"entry offset skew", func(b []byte) { binary.LittleEndian.PutUint64(b[HeaderSize+EntrySize:], 1) }},
		{"entry length overrun", func(b []byte) { binary.LittleEndian.PutUint64(b[HeaderSize+EntrySize+8:], 1<<40) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := valid(t)
			tt.mutate(buf)
			_, err := New().Decode(buf)
			assert.True(t, errors.Is(err, codec.ErrCorruptEncoding), "got %v", err)
		})
	}
}

func TestCodecContract(t *testing.T) {
	var c codec.Codec = New()
	assert.Equal(t, codec.Relocatable, c.Format())
	assert.True(t, c.InPlace())
}
