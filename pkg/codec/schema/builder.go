package schema

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/wordpack/pkg/codec"
)

// DefaultFirstSegmentWords is the capacity of segment 0 unless configured.
const DefaultFirstSegmentWords = 1024

// BuilderOptions controls segment allocation.
type BuilderOptions struct {
	// FirstSegmentWords is the capacity of segment 0. Later segments grow to
	// at least the total allocated so far.
	FirstSegmentWords int
}

type segment struct {
	data []byte // len is the used size, cap the capacity; both word multiples
}

func (s *segment) usedWords() int { return len(s.data) / wordSize }
func (s *segment) freeWords() int { return (cap(s.data) - len(s.data)) / wordSize }

// alloc extends the segment by n zeroed words and returns the first word index.
func (s *segment) alloc(n int) int {
	start := s.usedWords()
	s.data = s.data[:len(s.data)+n*wordSize]
	return start
}

// Builder assembles a message in one or more segments. The total size does not
// need to be known up front.
type Builder struct {
	opts      BuilderOptions
	segs      []*segment
	allocated int // words across all segments
	hasRoot   bool
}

// NewBuilder returns an empty message builder.
func NewBuilder(opts BuilderOptions) *Builder {
	if opts.FirstSegmentWords <= 0 {
		opts.FirstSegmentWords = DefaultFirstSegmentWords
	}
	return &Builder{opts: opts}
}

// newSegment appends a segment able to hold at least minWords.
func (b *Builder) newSegment(minWords int) (int, error) {
	size := b.opts.FirstSegmentWords
	if len(b.segs) > 0 && b.allocated > size {
		size = b.allocated
	}
	if size < minWords {
		size = minWords
	}
	if size > maxSegWords {
		size = maxSegWords
	}
	if minWords > size {
		return 0, errors.Wrapf(codec.ErrTooLarge, "object of %d words exceeds segment limit", minWords)
	}
	b.segs = append(b.segs, &segment{data: make([]byte, 0, size*wordSize)})
	return len(b.segs) - 1, nil
}

// allocAnywhere places n words in the last segment, or a fresh one.
func (b *Builder) allocAnywhere(n int) (seg, word int, err error) {
	seg = len(b.segs) - 1
	if seg < 0 || b.segs[seg].freeWords() < n {
		if seg, err = b.newSegment(n); err != nil {
			return 0, 0, err
		}
	}
	b.allocated += n
	return seg, b.segs[seg].alloc(n), nil
}

// place allocates n words for an object referenced by the pointer at
// (ptrSeg, ptrWord) and writes that pointer. When the object cannot share the
// pointer's segment it lands in another one behind a far pointer and a
// one-word landing pad. tag builds the near pointer for a given offset.
func (b *Builder) place(ptrSeg, ptrWord, n int, tag func(offset int) uint64) (seg, word int, err error) {
	if s := b.segs[ptrSeg]; s.freeWords() >= n {
		word = s.alloc(n)
		b.allocated += n
		off := word - (ptrWord + 1)
		if off > maxOffset || off < -maxOffset {
			return 0, 0, errors.Wrapf(codec.ErrTooLarge, "pointer offset %d", off)
		}
		writeWord(s.data, ptrWord, tag(off))
		return ptrSeg, word, nil
	}

	seg, pad, err := b.allocAnywhere(n + 1)
	if err != nil {
		return 0, 0, err
	}
	writeWord(b.segs[seg].data, pad, tag(0))
	writeWord(b.segs[ptrSeg].data, ptrWord, farPointer(pad, seg, false))
	return seg, pad + 1, nil
}

// InitRoot allocates the root pointer and a struct with the given section
// sizes, and points the root at it. It may be called once.
func (b *Builder) InitRoot(dataWords, ptrCount int) (StructBuilder, error) {
	if b.hasRoot {
		return StructBuilder{}, errors.New("schema: root already initialized")
	}
	seg, rootWord, err := b.allocAnywhere(1)
	if err != nil {
		return StructBuilder{}, err
	}
	b.hasRoot = true
	seg, word, err := b.place(seg, rootWord, dataWords+ptrCount, func(off int) uint64 {
		return structPointer(off, dataWords, ptrCount)
	})
	if err != nil {
		return StructBuilder{}, err
	}
	return StructBuilder{b: b, seg: seg, word: word, dataWords: dataWords, ptrCount: ptrCount}, nil
}

// Segments returns the used portion of every segment.
func (b *Builder) Segments() [][]byte {
	out := make([][]byte, len(b.segs))
	for i, s := range b.segs {
		out[i] = s.data
	}
	return out
}

// segmentTable renders the stream framing header for the current segments.
func (b *Builder) segmentTable() []byte {
	n := len(b.segs)
	hdr := make([]byte, wordsFor(4+4*n)*wordSize)
	binary.LittleEndian.PutUint32(hdr[0:], uint32(n-1))
	for i, s := range b.segs {
		binary.LittleEndian.PutUint32(hdr[4+4*i:], uint32(s.usedWords()))
	}
	return hdr
}

// Marshal returns the framed message as one contiguous buffer.
func (b *Builder) Marshal() ([]byte, error) {
	if !b.hasRoot {
		return nil, errors.New("schema: message has no root")
	}
	hdr := b.segmentTable()
	size := len(hdr)
	for _, s := range b.segs {
		size += len(s.data)
	}
	out := make([]byte, 0, size)
	out = append(out, hdr...)
	for _, s := range b.segs {
		out = append(out, s.data...)
	}
	return out, nil
}

// WriteTo streams the framed message to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	if !b.hasRoot {
		return 0, errors.New("schema: message has no root")
	}
	bw := bufio.NewWriter(w)
	var total int64
	n, err := bw.Write(b.segmentTable())
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, s := range b.segs {
		n, err = bw.Write(s.data)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, bw.Flush()
}

// StructBuilder writes into an allocated struct.
type StructBuilder struct {
	b         *Builder
	seg, word int
	dataWords int
	ptrCount  int
}

// InitTextList allocates a list of n text pointers and stores it in pointer
// field i.
func (s StructBuilder) InitTextList(i, n int) (TextListBuilder, error) {
	if i < 0 || i >= s.ptrCount {
		return TextListBuilder{}, errors.Newf("schema: pointer field %d out of %d", i, s.ptrCount)
	}
	if n > maxListCount {
		return TextListBuilder{}, errors.Wrapf(codec.ErrTooLarge, "list of %d elements", n)
	}
	ptrWord := s.word + s.dataWords + i
	seg, word, err := s.b.place(s.seg, ptrWord, n, func(off int) uint64 {
		return listPointer(off, sizePointer, n)
	})
	if err != nil {
		return TextListBuilder{}, err
	}
	return TextListBuilder{b: s.b, seg: seg, word: word, n: n}, nil
}

// TextListBuilder fills a List(Text).
type TextListBuilder struct {
	b         *Builder
	seg, word int
	n         int
}

func (l TextListBuilder) Len() int { return l.n }

// Set stores text as element i, NUL-terminated and padded to a word boundary.
func (l TextListBuilder) Set(i int, text string) error {
	if i < 0 || i >= l.n {
		return codec.IndexError(i, l.n)
	}
	count := len(text) + 1
	if count > maxListCount {
		return errors.Wrapf(codec.ErrTooLarge, "text of %d bytes", len(text))
	}
	seg, word, err := l.b.place(l.seg, l.word+i, wordsFor(count), func(off int) uint64 {
		return listPointer(off, sizeByte, count)
	})
	if err != nil {
		return err
	}
	copy(l.b.segs[seg].data[word*wordSize:], text)
	return nil
}
