package vocab

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/gomlx/go-conll/corpus"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokensOf(words, tags []string) []corpus.Token {
	tokens := make([]corpus.Token, len(words))
	for ii := range words {
		tokens[ii] = corpus.Token{Word: words[ii], RawTag: tags[ii], Tag: corpus.NormalizeTag(tags[ii])}
	}
	return tokens
}

var (
	exampleWords = []string{"China", "says", "Taiwan", "spoils", "atmosphere", "for", "talks", "."}
	exampleTags  = []string{"B-ORG", "O", "B-LOC", "O", "O", "O", "O", "O"}
)

func TestFitWordsSortedOrder(t *testing.T) {
	v := FitWords(tokensOf(exampleWords, exampleTags))
	assert.Equal(t, []string{".", "China", "Taiwan", "atmosphere", "for", "says", "spoils", "talks"}, v.Words())
	assert.Equal(t, 8, v.Size())
	assert.Equal(t, 1, v.ID("China"))
	assert.Equal(t, 0, v.ID("."))
	assert.Equal(t, 7, v.ID("talks"))
}

func TestVocabularyRoundTrip(t *testing.T) {
	v := FitWords(tokensOf(exampleWords, exampleTags))
	for _, w := range exampleWords {
		got, ok := v.Word(v.ID(w))
		require.True(t, ok)
		assert.Equal(t, w, got)
	}
	assert.Equal(t, exampleWords, v.Decode(v.Encode(exampleWords)))
}

func TestVocabularyOOV(t *testing.T) {
	v := FitWords(tokensOf(exampleWords, exampleTags))
	assert.Equal(t, v.Size(), v.ID("Zyzzyx"))
	assert.Equal(t, 8, v.OOVID())
	assert.Equal(t, 9, v.PadID())
	assert.False(t, v.Contains("Zyzzyx"))
	assert.False(t, v.Contains("china"), "lookups are case-sensitive")

	_, ok := v.Word(v.OOVID())
	assert.False(t, ok)
	assert.Equal(t, []string{"China", UnknownWord, PadWord}, v.Decode([]int{1, v.OOVID(), v.PadID()}))
}

func TestSpecialTokenID(t *testing.T) {
	v := FitWords(tokensOf(exampleWords, exampleTags))
	id, err := v.SpecialTokenID(TokUnknown)
	require.NoError(t, err)
	assert.Equal(t, v.OOVID(), id)

	id, err = v.SpecialTokenID(TokPad)
	require.NoError(t, err)
	assert.Equal(t, v.PadID(), id)

	_, err = v.SpecialTokenID(TokSpecialTokensCount)
	assert.Error(t, err)
}

func TestSpecialTokenNames(t *testing.T) {
	assert.Equal(t, "unknown", TokUnknown.String())
	assert.Equal(t, "pad", TokPad.String())
	assert.Equal(t, []string{"unknown", "pad", "special_tokens_count"}, SpecialTokenStrings())
	token, err := SpecialTokenString("PAD")
	require.NoError(t, err)
	assert.Equal(t, TokPad, token)
	_, err = SpecialTokenString("mask")
	assert.Error(t, err)
	assert.Equal(t, "SpecialToken(7)", SpecialToken(7).String())
}

func TestFitTags(t *testing.T) {
	tv := FitTags(tokensOf(
		[]string{"a", "b", "c", "d", "e", "f"},
		[]string{"B-PER", "I-PER", "O", "B-ORG", "I-MISC", "B-LOC"}))
	assert.Equal(t, []string{"LOC", "MISC", "O", "ORG", "PER"}, tv.Tags())
	assert.Equal(t, 5, tv.Size())

	id, err := tv.ID("ORG")
	require.NoError(t, err)
	assert.Equal(t, 3, id)
	assert.Equal(t, []float32{0, 0, 0, 1, 0}, tv.OneHot(id))
	assert.Equal(t, []float32{0, 0, 0, 0, 0}, tv.OneHot(-1))

	tag, ok := tv.Tag(4)
	require.True(t, ok)
	assert.Equal(t, "PER", tag)
}

func TestTagVocabularyUnknownLabel(t *testing.T) {
	tv := FitTags(tokensOf(exampleWords, exampleTags))
	_, err := tv.ID("PER")
	require.Error(t, err)

	var unknown *UnknownLabelError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "PER", unknown.Tag)
}

func TestNewVocabularyRejectsUnsorted(t *testing.T) {
	_, err := NewVocabulary([]string{"b", "a"})
	assert.Error(t, err)
	_, err = NewVocabulary([]string{"a", "a"})
	assert.Error(t, err)
	_, err = NewTagVocabulary([]string{"O", "LOC"})
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	words, tags := Fit(tokensOf(exampleWords, exampleTags))

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, words, tags))
	gotWords, gotTags, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, words.Words(), gotWords.Words())
	assert.Equal(t, tags.Tags(), gotTags.Tags())
	assert.Equal(t, words.ID("Taiwan"), gotWords.ID("Taiwan"))

	path := filepath.Join(t.TempDir(), "vocab.json")
	require.NoError(t, SaveFile(path, words, tags))
	gotWords, gotTags, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, words.Words(), gotWords.Words())
	assert.Equal(t, tags.Tags(), gotTags.Tags())
}
