package schema

import "encoding/binary"

const wordSize = 8

// Pointer kinds, stored in the low two bits of a pointer word.
const (
	kindStruct = 0
	kindList   = 1
	kindFar    = 2
	kindOther  = 3
)

// List element sizes, stored in bits 32..34 of a list pointer.
const (
	sizeVoid      = 0
	sizeBit       = 1
	sizeByte      = 2
	sizeTwoBytes  = 3
	sizeFourBytes = 4
	sizeEightByte = 5
	sizePointer   = 6
	sizeComposite = 7
)

const (
	maxOffset    = 1<<29 - 1 // signed 30-bit word offset
	maxListCount = 1<<29 - 1
	maxSegWords  = 1<<29 - 1
)

func pointerKind(p uint64) int { return int(p & 3) }

// pointerOffset returns the signed word offset from the end of the pointer to
// the start of its target.
func pointerOffset(p uint64) int {
	return int(int32(uint32(p)) >> 2)
}

func structPointer(offset, dataWords, ptrCount int) uint64 {
	return uint64(uint32(int32(offset)<<2)) | kindStruct |
		uint64(uint16(dataWords))<<32 | uint64(uint16(ptrCount))<<48
}

func structSizes(p uint64) (dataWords, ptrCount int) {
	return int(uint16(p >> 32)), int(uint16(p >> 48))
}

func listPointer(offset, elemSize, count int) uint64 {
	return uint64(uint32(int32(offset)<<2)) | kindList |
		uint64(elemSize&7)<<32 | uint64(count)<<35
}

func listSizes(p uint64) (elemSize, count int) {
	return int((p >> 32) & 7), int(p >> 35)
}

func farPointer(padOffset, segID int, double bool) uint64 {
	p := uint64(kindFar) | uint64(padOffset)<<3 | uint64(uint32(segID))<<32
	if double {
		p |= 1 << 2
	}
	return p
}

func farTarget(p uint64) (padOffset, segID int, double bool) {
	return int(uint32(p) >> 3), int(uint32(p >> 32)), p&4 != 0
}

func wordsFor(bytes int) int {
	return (bytes + wordSize - 1) / wordSize
}

func readWord(seg []byte, word int) uint64 {
	return binary.LittleEndian.Uint64(seg[word*wordSize:])
}

func writeWord(seg []byte, word int, v uint64) {
	binary.LittleEndian.PutUint64(seg[word*wordSize:], v)
}
