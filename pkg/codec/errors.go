package codec

import (
	"github.com/cockroachdb/errors"
)

// Error kinds. Every error returned by the wordpack packages wraps exactly one
// of these; test for them with errors.Is.
var (
	ErrIO              = errors.New("wordpack: i/o failure")
	ErrCorruptEncoding = errors.New("wordpack: corrupt encoding")
	ErrIndexOutOfRange = errors.New("wordpack: index out of range")
	ErrInvalidMode     = errors.New("wordpack: invalid mode")
)

var (
	ErrUnknownFormat = errors.New("wordpack: unknown format")
	ErrTooLarge      = errors.New("wordpack: value too large for layout")
	ErrReleased      = errors.New("wordpack: mapped view released")
	ErrMismatch      = errors.New("wordpack: checksum mismatch between formats")
)

// Corruptf wraps ErrCorruptEncoding with a formatted reason.
func Corruptf(format string, args ...any) error {
	return errors.Wrapf(ErrCorruptEncoding, format, args...)
}

// IndexError reports an access to element i of a sequence holding n elements.
func IndexError(i, n int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d, length %d", i, n)
}

// IOError wraps ErrIO with the operation and path, keeping cause as a
// secondary error so it shows up in verbose formatting.
func IOError(cause error, op, path string) error {
	if cause == nil {
		return nil
	}
	return errors.WithSecondaryError(errors.Wrapf(ErrIO, "%s %s: %v", op, path, cause), cause)
}
