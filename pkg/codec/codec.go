package codec

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Sequence is a read-only, indexable view of decoded lines. The bytes returned
// by At are borrowed from the buffer the sequence was decoded from and must not
// be retained past its lifetime.
type Sequence interface {
	// Len returns the number of elements.
	Len() int
	// At returns the bytes of element i.
	At(i int) ([]byte, error)
}

// Codec encodes a line sequence into one binary layout and decodes it back.
type Codec interface {
	// Format identifies the layout produced by Encode.
	Format() Format
	// Encode serializes lines into a single self-contained buffer.
	Encode(lines []string) ([]byte, error)
	// Decode interprets buf without copying the element bytes. Codecs that
	// report InPlace may rewrite buf while decoding.
	Decode(buf []byte) (Sequence, error)
	// InPlace reports whether Decode mutates its input.
	InPlace() bool
}

// Format names a binary layout.
type Format int

const (
	// Relocatable is the in-place layout fixed up by offset patching.
	Relocatable Format = iota + 1
	// Schema is the segmented, schema-described message layout.
	Schema
)

// Formats lists every supported layout.
var Formats = []Format{Relocatable, Schema}

func (f Format) String() string {
	switch f {
	case Relocatable:
		return "relocatable"
	case Schema:
		return "schema"
	default:
		return "unknown"
	}
}

// ParseFormat accepts the names returned by Format.String, plus the short
// aliases "reloc" and "capn".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "relocatable", "reloc":
		return Relocatable, nil
	case "schema", "capn":
		return Schema, nil
	default:
		return 0, errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

// Lines is a Sequence over plain strings. It lets callers compare decoded data
// against the source lines through the same interface.
type Lines []string

func (l Lines) Len() int { return len(l) }

func (l Lines) At(i int) ([]byte, error) {
	if i < 0 || i >= len(l) {
		return nil, IndexError(i, len(l))
	}
	return []byte(l[i]), nil
}
