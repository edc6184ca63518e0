package schema

import (
	"encoding/binary"

	"github.com/ssargent/wordpack/pkg/codec"
)

const (
	// DefaultTraversalLimitWords bounds how many words a reader may visit.
	// 64 MiB.
	DefaultTraversalLimitWords = 8 * 1024 * 1024
	// DefaultMaxSegments bounds the claimed segment count.
	DefaultMaxSegments = 512
)

// ReaderOptions bounds the work a Message may perform.
type ReaderOptions struct {
	TraversalLimitWords uint64
	MaxSegments         int
}

func (o ReaderOptions) withDefaults() ReaderOptions {
	if o.TraversalLimitWords == 0 {
		o.TraversalLimitWords = DefaultTraversalLimitWords
	}
	if o.MaxSegments <= 0 {
		o.MaxSegments = DefaultMaxSegments
	}
	return o
}

// Message is a framed message read in place. Segments alias the input buffer.
type Message struct {
	segs      [][]byte
	remaining uint64 // traversal budget in words
}

// ReadMessage parses the segment table of a framed message. The buffer must
// contain exactly one message: a short or overlong buffer is corrupt.
func ReadMessage(data []byte, opts ReaderOptions) (*Message, error) {
	opts = opts.withDefaults()
	if len(data) < wordSize {
		return nil, codec.Corruptf("message of %d bytes too short for segment table", len(data))
	}
	count := uint64(binary.LittleEndian.Uint32(data[0:])) + 1
	if count > uint64(opts.MaxSegments) {
		return nil, codec.Corruptf("message claims %d segments, limit %d", count, opts.MaxSegments)
	}
	n := int(count)
	hdrBytes := wordsFor(4+4*n) * wordSize
	if len(data) < hdrBytes {
		return nil, codec.Corruptf("segment table of %d segments truncated", n)
	}

	body := uint64(len(data) - hdrBytes)
	var total uint64
	sizes := make([]uint64, n)
	for i := range sizes {
		sizes[i] = uint64(binary.LittleEndian.Uint32(data[4+4*i:]))
		total += sizes[i]
	}
	if total*wordSize != body {
		return nil, codec.Corruptf("segment table claims %d bytes, have %d", total*wordSize, body)
	}
	if total > opts.TraversalLimitWords {
		return nil, codec.Corruptf("message of %d words exceeds traversal limit %d", total, opts.TraversalLimitWords)
	}
	if sizes[0] == 0 {
		return nil, codec.Corruptf("first segment is empty")
	}

	m := &Message{segs: make([][]byte, n), remaining: opts.TraversalLimitWords}
	off := uint64(hdrBytes)
	for i, sz := range sizes {
		end := off + sz*wordSize
		m.segs[i] = data[off:end:end]
		off = end
	}
	return m, nil
}

// NumSegments reports how many segments the message holds.
func (m *Message) NumSegments() int { return len(m.segs) }

// charge consumes words from the traversal budget. Zero-sized objects still
// cost one word.
func (m *Message) charge(words int) error {
	w := uint64(words)
	if w == 0 {
		w = 1
	}
	if w > m.remaining {
		m.remaining = 0
		return codec.Corruptf("traversal limit exceeded")
	}
	m.remaining -= w
	return nil
}

// target is a resolved pointer: the object's first word and the pointer word
// carrying its kind and sizes.
type target struct {
	seg, word int
	tag       uint64
}

// follow dereferences the pointer stored at (seg, word), resolving far
// pointers. ok is false for a null pointer.
func (m *Message) follow(seg, word int) (t target, ok bool, err error) {
	p := readWord(m.segs[seg], word)
	if p == 0 {
		return target{}, false, nil
	}
	switch pointerKind(p) {
	case kindStruct, kindList:
		return target{seg: seg, word: word + 1 + pointerOffset(p), tag: p}, true, nil
	case kindFar:
		pad, padSeg, double := farTarget(p)
		if padSeg >= len(m.segs) {
			return target{}, false, codec.Corruptf("far pointer to segment %d of %d", padSeg, len(m.segs))
		}
		padWords := 1
		if double {
			padWords = 2
		}
		if pad+padWords > len(m.segs[padSeg])/wordSize {
			return target{}, false, codec.Corruptf("landing pad %d out of segment %d", pad, padSeg)
		}
		first := readWord(m.segs[padSeg], pad)
		if !double {
			if k := pointerKind(first); k != kindStruct && k != kindList {
				return target{}, false, codec.Corruptf("landing pad holds pointer kind %d", k)
			}
			return target{seg: padSeg, word: pad + 1 + pointerOffset(first), tag: first}, true, nil
		}
		if pointerKind(first) != kindFar || first&4 != 0 {
			return target{}, false, codec.Corruptf("double-far landing pad is not a single far pointer")
		}
		start, contentSeg, _ := farTarget(first)
		if contentSeg >= len(m.segs) {
			return target{}, false, codec.Corruptf("double-far content in segment %d of %d", contentSeg, len(m.segs))
		}
		tag := readWord(m.segs[padSeg], pad+1)
		if pointerOffset(tag) != 0 {
			return target{}, false, codec.Corruptf("double-far tag carries an offset")
		}
		return target{seg: contentSeg, word: start, tag: tag}, true, nil
	default:
		return target{}, false, codec.Corruptf("unsupported pointer kind %d", pointerKind(p))
	}
}

// checkBounds verifies that words [word, word+n) lie inside segment seg.
func (m *Message) checkBounds(seg, word, n int) error {
	size := len(m.segs[seg]) / wordSize
	if word < 0 || n < 0 || word > size || n > size-word {
		return codec.Corruptf("object of %d words at %d outside segment %d of %d words", n, word, seg, size)
	}
	return nil
}

// structAt resolves a struct pointer stored at (seg, word).
func (m *Message) structAt(seg, word int) (StructReader, error) {
	t, ok, err := m.follow(seg, word)
	if err != nil || !ok {
		return StructReader{msg: m}, err
	}
	if pointerKind(t.tag) != kindStruct {
		return StructReader{}, codec.Corruptf("expected struct pointer, got kind %d", pointerKind(t.tag))
	}
	dataWords, ptrCount := structSizes(t.tag)
	if err := m.checkBounds(t.seg, t.word, dataWords+ptrCount); err != nil {
		return StructReader{}, err
	}
	if err := m.charge(dataWords + ptrCount); err != nil {
		return StructReader{}, err
	}
	return StructReader{msg: m, seg: t.seg, word: t.word, dataWords: dataWords, ptrCount: ptrCount}, nil
}

// listAt resolves a list pointer stored at (seg, word) and checks its element
// size. ok is false for a null pointer.
func (m *Message) listAt(seg, word, wantSize int) (l listReader, ok bool, err error) {
	t, ok, err := m.follow(seg, word)
	if err != nil || !ok {
		return listReader{}, false, err
	}
	if pointerKind(t.tag) != kindList {
		return listReader{}, false, codec.Corruptf("expected list pointer, got kind %d", pointerKind(t.tag))
	}
	elemSize, count := listSizes(t.tag)
	if elemSize != wantSize {
		return listReader{}, false, codec.Corruptf("list element size %d, want %d", elemSize, wantSize)
	}
	var words int
	switch elemSize {
	case sizeByte:
		words = wordsFor(count)
	case sizePointer:
		words = count
	default:
		return listReader{}, false, codec.Corruptf("unsupported list element size %d", elemSize)
	}
	if err := m.checkBounds(t.seg, t.word, words); err != nil {
		return listReader{}, false, err
	}
	if err := m.charge(words); err != nil {
		return listReader{}, false, err
	}
	return listReader{seg: t.seg, word: t.word, count: count}, true, nil
}

// Root returns the message's root struct.
func (m *Message) Root() (StructReader, error) {
	return m.structAt(0, 0)
}

// StructReader reads a struct in place. The zero StructReader (a null
// pointer) has no fields and reads every pointer as null.
type StructReader struct {
	msg       *Message
	seg, word int
	dataWords int
	ptrCount  int
}

// TextList reads pointer field i as a List(Text). A missing or null field is
// an empty list.
func (s StructReader) TextList(i int) (TextList, error) {
	if s.msg == nil || i < 0 || i >= s.ptrCount {
		return TextList{}, nil
	}
	l, _, err := s.msg.listAt(s.seg, s.word+s.dataWords+i, sizePointer)
	if err != nil {
		return TextList{}, err
	}
	return TextList{msg: s.msg, list: l}, nil
}

type listReader struct {
	seg, word int
	count     int
}

// TextList reads a List(Text). Elements are resolved one at a time on access.
type TextList struct {
	msg  *Message
	list listReader
}

func (l TextList) Len() int { return l.list.count }

// At resolves element i without touching any other element. A null element
// reads as empty text.
func (l TextList) At(i int) ([]byte, error) {
	if i < 0 || i >= l.list.count {
		return nil, codec.IndexError(i, l.list.count)
	}
	b, ok, err := l.msg.listAt(l.list.seg, l.list.word+i, sizeByte)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []byte{}, nil
	}
	if b.count == 0 {
		return nil, codec.Corruptf("text element %d is not NUL-terminated", i)
	}
	start := b.word * wordSize
	raw := l.msg.segs[b.seg][start : start+b.count]
	if raw[b.count-1] != 0 {
		return nil, codec.Corruptf("text element %d is not NUL-terminated", i)
	}
	text := raw[:b.count-1]
	return text[:len(text):len(text)], nil
}
