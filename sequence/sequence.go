// Package sequence encodes sentences with fitted vocabularies and packs them into fixed-length
// arrays for a sequence tagging model.
package sequence

import (
	"github.com/gomlx/go-conll/corpus"
	"github.com/gomlx/go-conll/vocab"
	"github.com/pkg/errors"
)

// Encoded is a sentence mapped to ids. TagIDs is nil for unlabeled input.
type Encoded struct {
	SentenceID int
	WordIDs    []int
	TagIDs     []int
}

// Len returns the number of tokens in the sentence.
func (e Encoded) Len() int {
	return len(e.WordIDs)
}

// Transform maps the words and normalized tags of each sentence to ids.
//
// Words not in the vocabulary take its out-of-vocabulary id. A tag not in the tag vocabulary
// fails the whole transform with a *vocab.UnknownLabelError.
func Transform(sentences []corpus.Sentence, words *vocab.Vocabulary, tags *vocab.TagVocabulary) ([]Encoded, error) {
	encoded := TransformWords(sentences, words)
	for ii, s := range sentences {
		tagIDs := make([]int, len(s.Tokens))
		for jj, t := range s.Tokens {
			id, err := tags.ID(t.Tag)
			if err != nil {
				return nil, errors.WithMessagef(err, "sentence %d, token %d (%q)", s.ID, jj, t.Word)
			}
			tagIDs[jj] = id
		}
		encoded[ii].TagIDs = tagIDs
	}
	return encoded, nil
}

// TransformWords maps only the words of each sentence, for input without gold labels.
func TransformWords(sentences []corpus.Sentence, words *vocab.Vocabulary) []Encoded {
	encoded := make([]Encoded, len(sentences))
	for ii, s := range sentences {
		encoded[ii] = Encoded{
			SentenceID: s.ID,
			WordIDs:    words.Encode(s.Words()),
		}
	}
	return encoded
}

// Pad returns ids brought to exactly opts.MaxLength: truncated on opts.Truncating, or filled
// with pad on opts.Padding. It fails if opts are not valid.
func Pad(ids []int, pad int, opts Options) ([]int, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return padIDs(ids, pad, opts), nil
}

func padIDs(ids []int, pad int, opts Options) []int {
	out := make([]int, opts.MaxLength)
	from, kept, offset := opts.window(len(ids))
	for ii := range out {
		out[ii] = pad
	}
	copy(out[offset:offset+kept], ids[from:from+kept])
	return out
}
