package codec_test

import (
	"fmt"
	"log"

	"github.com/ssargent/wordpack/pkg/checksum"
	"github.com/ssargent/wordpack/pkg/codec"
	"github.com/ssargent/wordpack/pkg/codec/reloc"
	"github.com/ssargent/wordpack/pkg/codec/schema"
)

// Example_roundTrip encodes the same lines with both layouts and checksums the
// decoded sequences.
func Example_roundTrip() {
	lines := []string{"ab", "c"}

	codecs := []codec.Codec{
		reloc.New(),
		schema.New(schema.BuilderOptions{}, schema.ReaderOptions{}),
	}
	for _, c := range codecs {
		buf, err := c.Encode(lines)
		if err != nil {
			log.Fatal(err)
		}

		seq, err := c.Decode(buf)
		if err != nil {
			log.Fatal(err)
		}

		first, err := checksum.SumOne(seq, 0)
		if err != nil {
			log.Fatal(err)
		}
		all, err := checksum.SumAll(seq)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %d elements, first %d, all %d\n", c.Format(), seq.Len(), first, all)
	}

	// Output:
	// relocatable: 2 elements, first 195, all 294
	// schema: 2 elements, first 195, all 294
}

// ExampleParseFormat shows the accepted format names.
func ExampleParseFormat() {
	for _, name := range []string{"relocatable", "reloc", "schema", "capn", "json"} {
		f, err := codec.ParseFormat(name)
		if err != nil {
			fmt.Printf("%s: %v\n", name, err)
			continue
		}
		fmt.Printf("%s: %s\n", name, f)
	}

	// Output:
	// relocatable: relocatable
	// reloc: relocatable
	// schema: schema
	// capn: schema
	// json: "json": wordpack: unknown format
}
