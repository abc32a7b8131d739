package vocab

// SpecialToken is an enum of the reserved ids a Vocabulary hands out beyond its words.
type SpecialToken int

const (
	// TokUnknown is the out-of-vocabulary id, V.
	TokUnknown SpecialToken = iota

	// TokPad is the padding id, V+1.
	TokPad

	// TokSpecialTokensCount is the number of special tokens, not a token itself.
	TokSpecialTokensCount
)

//go:generate enumer -type=SpecialToken -trimprefix=Tok -transform=snake -values -text -json -yaml special.go

const (
	// UnknownWord is returned by Vocabulary.Decode for the out-of-vocabulary id.
	UnknownWord = "<UNK>"

	// PadWord is returned by Vocabulary.Decode for the padding id.
	PadWord = "<PAD>"
)
