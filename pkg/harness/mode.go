package harness

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/wordpack/pkg/codec"
)

// Mode selects a harness operation.
type Mode int

const (
	ModeEncode Mode = iota + 1
	ModeDecodeNth
	ModeDecodeAll
	ModeVerify
)

var modeNames = map[Mode]string{
	ModeEncode:    "encode",
	ModeDecodeNth: "decode-nth",
	ModeDecodeAll: "decode-all",
	ModeVerify:    "verify",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

// ParseMode maps a command name to its Mode. Matching is exact.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if s == name {
			return m, nil
		}
	}
	return 0, errors.Wrapf(codec.ErrInvalidMode, "%q (want one of %s)", s, strings.Join(ModeNames(), ", "))
}

// ModeNames lists the accepted mode names in a stable order.
func ModeNames() []string {
	return []string{
		ModeEncode.String(),
		ModeDecodeNth.String(),
		ModeDecodeAll.String(),
		ModeVerify.String(),
	}
}
