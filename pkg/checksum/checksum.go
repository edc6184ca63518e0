// Package checksum computes the wrapping byte sums used to compare decoded
// sequences.
package checksum

import (
	"github.com/cockroachdb/errors"
	"github.com/ssargent/wordpack/pkg/codec"
)

// ByteSum adds every byte of b into a uint32, wrapping on overflow.
func ByteSum(b []byte) uint32 {
	var sum uint32
	for _, c := range b {
		sum += uint32(c)
	}
	return sum
}

// SumOne returns the byte sum of element n.
func SumOne(seq codec.Sequence, n int) (uint32, error) {
	if n < 0 || n >= seq.Len() {
		return 0, codec.IndexError(n, seq.Len())
	}
	b, err := seq.At(n)
	if err != nil {
		return 0, err
	}
	return ByteSum(b), nil
}

// SumAll returns the wrapping sum of every element's byte sum.
func SumAll(seq codec.Sequence) (uint32, error) {
	var sum uint32
	for i := 0; i < seq.Len(); i++ {
		b, err := seq.At(i)
		if err != nil {
			return 0, errors.Wrapf(err, "element %d", i)
		}
		sum += ByteSum(b)
	}
	return sum, nil
}

// Sums returns the byte sum of every element in order.
func Sums(seq codec.Sequence) ([]uint32, error) {
	out := make([]uint32, seq.Len())
	for i := range out {
		b, err := seq.At(i)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out[i] = ByteSum(b)
	}
	return out, nil
}
