package schema

import (
	"github.com/ssargent/wordpack/pkg/codec"
)

// Codec implements codec.Codec for the segmented message layout.
type Codec struct {
	Builder BuilderOptions
	Reader  ReaderOptions
}

// New returns a schema codec with the given options. Zero options select the
// defaults.
func New(b BuilderOptions, r ReaderOptions) *Codec {
	return &Codec{Builder: b, Reader: r}
}

func (c *Codec) Format() codec.Format { return codec.Schema }

// InPlace is false: decoding only reads the buffer.
func (c *Codec) InPlace() bool { return false }

func (c *Codec) Encode(lines []string) ([]byte, error) {
	b := NewBuilder(c.Builder)
	words, err := NewDictionary(b, len(lines))
	if err != nil {
		return nil, err
	}
	for i, s := range lines {
		if err := words.Set(i, s); err != nil {
			return nil, err
		}
	}
	return b.Marshal()
}

// Decode validates the framing and resolves the words list. Individual
// elements are resolved, and bounds checked, on At.
func (c *Codec) Decode(buf []byte) (codec.Sequence, error) {
	m, err := ReadMessage(buf, c.Reader)
	if err != nil {
		return nil, err
	}
	d, err := ReadDictionary(m)
	if err != nil {
		return nil, err
	}
	words, err := d.Words()
	if err != nil {
		return nil, err
	}
	return words, nil
}
