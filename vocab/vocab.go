// Package vocab holds the word and tag vocabularies fitted on the training split.
//
// Ids are assigned in sorted order of the distinct strings (byte order, which for UTF-8 is the
// same as code point order), the order an alphabetical label encoder produces. A fitted
// vocabulary is immutable: it is built once from the training tokens and only read afterwards.
package vocab

import (
	"sort"

	"github.com/gomlx/go-conll/corpus"
	"github.com/pkg/errors"
)

// Vocabulary maps the words seen at fit time to the ids 0..V-1.
//
// Any other word maps to the out-of-vocabulary id V. The padding sentinel is V+1, so it never
// collides with a word or with the out-of-vocabulary id.
type Vocabulary struct {
	words []string
	ids   map[string]int
}

// FitWords builds the Vocabulary of the distinct words in tokens.
func FitWords(tokens []corpus.Token) *Vocabulary {
	seen := make(map[string]struct{})
	for _, t := range tokens {
		seen[t.Word] = struct{}{}
	}
	return newVocabulary(sortedKeys(seen))
}

// NewVocabulary creates a Vocabulary from words already in id order, as stored by Save.
// It returns an error if the words are not sorted or not unique, since such a list could not
// have been produced by FitWords.
func NewVocabulary(words []string) (*Vocabulary, error) {
	if err := checkSortedUnique(words); err != nil {
		return nil, errors.WithMessage(err, "invalid vocabulary")
	}
	return newVocabulary(append([]string(nil), words...)), nil
}

func newVocabulary(words []string) *Vocabulary {
	ids := make(map[string]int, len(words))
	for id, w := range words {
		ids[w] = id
	}
	return &Vocabulary{words: words, ids: ids}
}

// Size returns the number of known words, V.
func (v *Vocabulary) Size() int {
	return len(v.words)
}

// OOVID returns the id given to words not in the Vocabulary, V.
func (v *Vocabulary) OOVID() int {
	return len(v.words)
}

// PadID returns the padding sentinel, V+1.
func (v *Vocabulary) PadID() int {
	return len(v.words) + 1
}

// SpecialTokenID returns the id for the given special token, or an error if not known.
func (v *Vocabulary) SpecialTokenID(token SpecialToken) (int, error) {
	switch token {
	case TokUnknown:
		return v.OOVID(), nil
	case TokPad:
		return v.PadID(), nil
	}
	return 0, errors.Errorf("unknown special token: %s (%d)", token, token)
}

// ID returns the id of word, or OOVID if the word was not seen at fit time.
func (v *Vocabulary) ID(word string) int {
	if id, found := v.ids[word]; found {
		return id
	}
	return v.OOVID()
}

// Contains reports whether word was seen at fit time.
func (v *Vocabulary) Contains(word string) bool {
	_, found := v.ids[word]
	return found
}

// Word returns the word with the given id. It returns false for the special ids and for
// anything out of range.
func (v *Vocabulary) Word(id int) (string, bool) {
	if id < 0 || id >= len(v.words) {
		return "", false
	}
	return v.words[id], true
}

// Words returns a copy of the words in id order.
func (v *Vocabulary) Words() []string {
	return append([]string(nil), v.words...)
}

// Encode maps each word to its id.
func (v *Vocabulary) Encode(words []string) []int {
	return sliceMap(words, v.ID)
}

// Decode maps ids back to words, using UnknownWord and PadWord for the special ids.
func (v *Vocabulary) Decode(ids []int) []string {
	return sliceMap(ids, func(id int) string {
		if w, ok := v.Word(id); ok {
			return w
		}
		if id == v.PadID() {
			return PadWord
		}
		return UnknownWord
	})
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkSortedUnique(values []string) error {
	for ii := 1; ii < len(values); ii++ {
		if values[ii-1] >= values[ii] {
			return errors.Errorf("entries %d (%q) and %d (%q) are out of order or repeated",
				ii-1, values[ii-1], ii, values[ii])
		}
	}
	return nil
}

// sliceMap executes the given function sequentially for every element on in, and returns a mapped slice.
func sliceMap[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	out = make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return
}
