// Package codec defines the contracts shared by the wordpack binary layouts.
//
// A Codec turns an ordered sequence of text lines into one self-contained
// buffer and interprets such a buffer again as a Sequence. Decoding never
// copies element bytes: a Sequence hands out slices of the buffer it was
// decoded from, so the buffer must outlive every slice taken from it.
//
// # Layouts
//
// Two layouts are implemented in subpackages:
//   - reloc: a mirror of an in-memory slice of strings whose element references
//     are stored as relative offsets and patched in place on decode
//   - schema: a segmented message with a root struct holding a List(Text),
//     resolved lazily one element at a time
//
// Neither layout identifies itself reliably enough to be sniffed; the caller
// picks the codec. Decoding with the wrong codec fails a magic, length or
// bounds check.
//
// # Usage
//
//	c := reloc.New()
//
//	buf, err := c.Encode([]string{"ab", "c"})
//	if err != nil {
//	    return err
//	}
//
//	seq, err := c.Decode(buf) // buf is rewritten by the relocatable codec
//	if err != nil {
//	    return err
//	}
//
//	b, err := seq.At(1) // "c"
//
// # Error Handling
//
// Every error wraps one of the sentinel kinds declared in this package:
//   - ErrIO for failures reading or writing files
//   - ErrCorruptEncoding for malformed or truncated buffers
//   - ErrIndexOutOfRange for element access past the end
//   - ErrInvalidMode for unrecognized harness modes
//
// Test for them with errors.Is.
//
// # Thread Safety
//
// Codec values hold only configuration and are safe for concurrent use.
// Sequences are not: the schema layout charges reads against a per-message
// traversal budget.
package codec
