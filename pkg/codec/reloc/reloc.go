package reloc

import (
	"encoding/binary"
	"unsafe"

	"github.com/ssargent/wordpack/pkg/codec"
)

const (
	Magic     = 0x31434c52 // "RLC1"
	VersionV1 = 1

	HeaderSize = 32
	EntrySize  = 16

	FlagRelocated = 0x0001
)

// Header mirrors the slice header at the front of an encoded buffer.
type Header struct {
	Magic   uint32
	Version uint16
	Flags   uint16
	Data    uint64 // element table offset; relative to HeaderSize until relocated
	Len     uint64
	Cap     uint64
}

// Codec implements codec.Codec for the relocatable layout.
type Codec struct{}

// New returns a relocatable codec.
func New() *Codec {
	return &Codec{}
}

func (c *Codec) Format() codec.Format { return codec.Relocatable }

// InPlace is true: Decode patches offsets inside the buffer it is given.
func (c *Codec) InPlace() bool { return true }

// Encode lays lines out exactly as they are relocated on load:
// header, one entry per line, then the string bytes back to back.
func (c *Codec) Encode(lines []string) ([]byte, error) {
	total := HeaderSize + EntrySize*len(lines)
	for _, s := range lines {
		total += len(s)
	}

	buf := make([]byte, total)
	putHeader(buf, Header{
		Magic:   Magic,
		Version: VersionV1,
		Len:     uint64(len(lines)),
		Cap:     uint64(len(lines)),
	})

	var rel uint64
	pos := HeaderSize + EntrySize*len(lines)
	for i, s := range lines {
		entry := buf[HeaderSize+i*EntrySize:]
		binary.LittleEndian.PutUint64(entry[0:], rel)
		binary.LittleEndian.PutUint64(entry[8:], uint64(len(s)))
		copy(buf[pos:], s)
		pos += len(s)
		rel += uint64(len(s))
	}
	return buf, nil
}

// Decode relocates buf in place and returns a Table aliasing it. buf is
// consumed: a second Decode of the same bytes fails. The string bytes are not
// validated as UTF-8.
func (c *Codec) Decode(buf []byte) (codec.Sequence, error) {
	t, err := Relocate(buf)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Relocate performs the fix-up pass. Every entry's relative offset must match
// the running cursor, and the last string must end exactly at len(buf).
func Relocate(buf []byte) (*Table, error) {
	h, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	if h.Flags&FlagRelocated != 0 {
		return nil, codec.Corruptf("buffer already relocated")
	}
	if h.Data != 0 {
		return nil, codec.Corruptf("element table offset %d, want 0", h.Data)
	}
	if h.Cap < h.Len {
		return nil, codec.Corruptf("capacity %d below length %d", h.Cap, h.Len)
	}

	size := uint64(len(buf))
	if h.Len > (size-HeaderSize)/EntrySize {
		return nil, codec.Corruptf("%d entries do not fit in %d bytes", h.Len, size)
	}
	n := int(h.Len)
	strStart := uint64(HeaderSize + EntrySize*n)

	cursor := strStart
	for i := 0; i < n; i++ {
		entry := buf[HeaderSize+i*EntrySize:]
		rel := binary.LittleEndian.Uint64(entry[0:])
		l := binary.LittleEndian.Uint64(entry[8:])
		if rel != cursor-strStart {
			return nil, codec.Corruptf("entry %d: offset %d, want %d", i, rel, cursor-strStart)
		}
		if l > size-cursor {
			return nil, codec.Corruptf("entry %d: %d bytes at %d overrun buffer of %d", i, l, cursor, size)
		}
		binary.LittleEndian.PutUint64(entry[0:], cursor)
		cursor += l
	}
	if cursor != size {
		return nil, codec.Corruptf("%d bytes left over after decode", size-cursor)
	}

	binary.LittleEndian.PutUint64(buf[8:], HeaderSize)
	binary.LittleEndian.PutUint64(buf[24:], h.Len)
	binary.LittleEndian.PutUint16(buf[6:], h.Flags|FlagRelocated)
	return &Table{buf: buf, n: n}, nil
}

// ParseHeader reads the header without modifying buf.
func ParseHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, codec.Corruptf("buffer of %d bytes too short for header", len(buf))
	}
	h := Header{
		Magic:   binary.LittleEndian.Uint32(buf[0:]),
		Version: binary.LittleEndian.Uint16(buf[4:]),
		Flags:   binary.LittleEndian.Uint16(buf[6:]),
		Data:    binary.LittleEndian.Uint64(buf[8:]),
		Len:     binary.LittleEndian.Uint64(buf[16:]),
		Cap:     binary.LittleEndian.Uint64(buf[24:]),
	}
	if h.Magic != Magic {
		return Header{}, codec.Corruptf("bad magic %#x", h.Magic)
	}
	if h.Version != VersionV1 {
		return Header{}, codec.Corruptf("unsupported version %d", h.Version)
	}
	return h, nil
}

func putHeader(buf []byte, h Header) {
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.Version)
	binary.LittleEndian.PutUint16(buf[6:], h.Flags)
	binary.LittleEndian.PutUint64(buf[8:], h.Data)
	binary.LittleEndian.PutUint64(buf[16:], h.Len)
	binary.LittleEndian.PutUint64(buf[24:], h.Cap)
}

// Table is a relocated buffer read as a sequence. It owns no storage of its
// own; it is valid only while the buffer it was relocated from is.
type Table struct {
	buf []byte
	n   int
}

func (t *Table) Len() int { return t.n }

// At returns element i as a subslice of the relocated buffer.
func (t *Table) At(i int) ([]byte, error) {
	if i < 0 || i >= t.n {
		return nil, codec.IndexError(i, t.n)
	}
	entry := t.buf[HeaderSize+i*EntrySize:]
	off := binary.LittleEndian.Uint64(entry[0:])
	l := binary.LittleEndian.Uint64(entry[8:])
	return t.buf[off : off+l : off+l], nil
}

// Text returns element i as a string sharing memory with the buffer.
func (t *Table) Text(i int) (string, error) {
	b, err := t.At(i)
	if err != nil || len(b) == 0 {
		return "", err
	}
	return unsafe.String(&b[0], len(b)), nil
}
