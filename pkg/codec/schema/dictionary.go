package schema

// Dictionary is the root struct of an encoded message:
//
//	struct Dictionary {
//	  words @0 :List(Text);
//	}
type Dictionary struct {
	s StructReader
}

const (
	dictionaryDataWords = 0
	dictionaryPtrCount  = 1
	dictionaryWordsPtr  = 0
)

// ReadDictionary resolves the root of m as a Dictionary.
func ReadDictionary(m *Message) (Dictionary, error) {
	s, err := m.Root()
	if err != nil {
		return Dictionary{}, err
	}
	return Dictionary{s: s}, nil
}

// Words returns the words list. Elements are not resolved until read.
func (d Dictionary) Words() (TextList, error) {
	return d.s.TextList(dictionaryWordsPtr)
}

// NewDictionary initializes the root of b as a Dictionary holding n words.
func NewDictionary(b *Builder, n int) (TextListBuilder, error) {
	root, err := b.InitRoot(dictionaryDataWords, dictionaryPtrCount)
	if err != nil {
		return TextListBuilder{}, err
	}
	return root.InitTextList(dictionaryWordsPtr, n)
}
