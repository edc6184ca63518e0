// Package lines reads the text files fed to the encoders.
package lines

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/wordpack/pkg/codec"
)

// ReadFile reads every line of the file at path.
func ReadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, codec.IOError(err, "open", path)
	}
	defer f.Close()

	out, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return out, nil
}

// Read splits r into lines. Lines end at '\n' with an optional preceding
// '\r' removed; a final line without a terminator is kept. Invalid UTF-8 is
// rejected.
func Read(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var out []string
	for n := 1; ; n++ {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			line = bytes.TrimSuffix(line, []byte{'\n'})
			line = bytes.TrimSuffix(line, []byte{'\r'})
			if !utf8.Valid(line) {
				return nil, errors.Wrapf(codec.ErrIO, "line %d: invalid UTF-8", n)
			}
			out = append(out, string(line))
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, codec.IOError(err, "read", "input")
		}
	}
}
