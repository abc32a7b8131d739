package vocab

import (
	"fmt"

	"github.com/gomlx/go-conll/corpus"
	"github.com/pkg/errors"
)

// UnknownLabelError is returned when a gold tag was never seen when the TagVocabulary was fit.
// Unlike words, labels are a closed set.
type UnknownLabelError struct {
	Tag string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown label %q: not seen in the training split", e.Tag)
}

// TagVocabulary maps the normalized entity tags to the ids 0..K-1.
type TagVocabulary struct {
	tags []string
	ids  map[string]int
}

// FitTags builds the TagVocabulary of the distinct normalized tags in tokens.
func FitTags(tokens []corpus.Token) *TagVocabulary {
	seen := make(map[string]struct{})
	for _, t := range tokens {
		seen[t.Tag] = struct{}{}
	}
	return newTagVocabulary(sortedKeys(seen))
}

// NewTagVocabulary creates a TagVocabulary from tags already in id order.
func NewTagVocabulary(tags []string) (*TagVocabulary, error) {
	if err := checkSortedUnique(tags); err != nil {
		return nil, errors.WithMessage(err, "invalid tag vocabulary")
	}
	return newTagVocabulary(append([]string(nil), tags...)), nil
}

func newTagVocabulary(tags []string) *TagVocabulary {
	ids := make(map[string]int, len(tags))
	for id, t := range tags {
		ids[t] = id
	}
	return &TagVocabulary{tags: tags, ids: ids}
}

// Fit builds both vocabularies from the training tokens.
func Fit(tokens []corpus.Token) (*Vocabulary, *TagVocabulary) {
	return FitWords(tokens), FitTags(tokens)
}

// Size returns the number of tag classes, K.
func (tv *TagVocabulary) Size() int {
	return len(tv.tags)
}

// ID returns the id of the normalized tag, or an *UnknownLabelError.
func (tv *TagVocabulary) ID(tag string) (int, error) {
	id, found := tv.ids[tag]
	if !found {
		return 0, &UnknownLabelError{Tag: tag}
	}
	return id, nil
}

// Tag returns the tag with the given id.
func (tv *TagVocabulary) Tag(id int) (string, bool) {
	if id < 0 || id >= len(tv.tags) {
		return "", false
	}
	return tv.tags[id], true
}

// Tags returns a copy of the tags in id order.
func (tv *TagVocabulary) Tags() []string {
	return append([]string(nil), tv.tags...)
}

// OneHot returns a vector of length K with a 1 at position id.
// An id out of range gives the all-zero vector, the same used for padding.
func (tv *TagVocabulary) OneHot(id int) []float32 {
	vec := make([]float32, len(tv.tags))
	if id >= 0 && id < len(vec) {
		vec[id] = 1
	}
	return vec
}
