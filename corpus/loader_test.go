package corpus

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `-DOCSTART- -X- -X- O

EU NNP B-NP B-ORG
rejects VBZ B-VP O
German JJ B-NP B-MISC
call NN I-NP O
. . O O

Peter NNP B-NP B-PER
Blackburn NNP I-NP I-PER

BRUSSELS NNP B-NP B-LOC
1996-08-22 CD I-NP O
`

func TestNormalizeTag(t *testing.T) {
	testCases := []struct {
		raw, want string
	}{
		{"B-ORG", "ORG"},
		{"I-PER", "PER"},
		{"B-LOC", "LOC"},
		{"I-MISC", "MISC"},
		{"O", "O"},
		{"ORG", "ORG"},
		{"B-SUB-TYPE", "TYPE"},
		{"", ""},
	}
	for _, tc := range testCases {
		got := NormalizeTag(tc.raw)
		assert.Equal(t, tc.want, got, "NormalizeTag(%q)", tc.raw)
		assert.Equal(t, got, NormalizeTag(got), "NormalizeTag must be idempotent for %q", tc.raw)
	}
}

func TestLoaderRead(t *testing.T) {
	tokens, err := NewLoader().Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, tokens, 9)

	assert.Equal(t, Token{Word: "EU", POS: "NNP", Chunk: "B-NP", RawTag: "B-ORG", Tag: "ORG", SentenceID: 1}, tokens[0])
	assert.Equal(t, "MISC", tokens[2].Tag)
	assert.Equal(t, 1, tokens[4].SentenceID)
	assert.Equal(t, 2, tokens[5].SentenceID)
	assert.Equal(t, "PER", tokens[6].Tag)
	assert.Equal(t, 3, tokens[7].SentenceID)
	assert.Equal(t, 3, tokens[8].SentenceID)

	sentences := GroupSentences(tokens)
	require.Len(t, sentences, 3)
	assert.Equal(t, []string{"EU", "rejects", "German", "call", "."}, sentences[0].Words())
	assert.Equal(t, []string{"PER", "PER"}, sentences[1].Tags())
	assert.Equal(t, []string{"BRUSSELS", "1996-08-22"}, sentences[2].Words())
}

func TestLoaderKeepDocStart(t *testing.T) {
	tokens, err := NewLoader().WithDocStart(true).Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, tokens, 10)
	assert.Equal(t, DocStart, tokens[0].Word)
	assert.Equal(t, 0, tokens[0].SentenceID)
	assert.Len(t, GroupSentences(tokens), 4)
}

func TestSentenceCountConvention(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  int
	}{
		{"trailing blank line", "a B C O\n\nb B C O\n\n", 2},
		{"trailing tokens", "a B C O\n\nb B C O\n", 2},
		{"single sentence without separator", "a B C O\nb B C O\n", 1},
		{"consecutive blank lines", "a B C O\n\n\n\nb B C O\n", 2},
		{"empty input", "", 0},
		{"only blank lines", "\n\n\n", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := NewLoader().Read(strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Len(t, GroupSentences(tokens), tc.want)
		})
	}
}

func TestSentenceIDsCountBlankLines(t *testing.T) {
	tokens, err := NewLoader().Read(strings.NewReader("a B C O\n\n\nb B C O\n"))
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, 0, tokens[0].SentenceID)
	assert.Equal(t, 2, tokens[1].SentenceID)
}

func TestLoaderMalformedRecord(t *testing.T) {
	input := "EU NNP B-NP B-ORG\nrejects VBZ O\n"
	_, err := NewLoader().Read(strings.NewReader(input))
	require.Error(t, err)

	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 2, malformed.Line)
	assert.Equal(t, 3, malformed.Fields)
	assert.Equal(t, "rejects VBZ O", malformed.Text)
}

func TestLoaderHandlesCRLF(t *testing.T) {
	tokens, err := NewLoader().Read(strings.NewReader("EU NNP B-NP B-ORG\r\n\r\nPeter NNP B-NP B-PER\r\n"))
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "ORG", tokens[0].Tag)
	assert.Equal(t, 1, tokens[1].SentenceID)
}

func TestLoaderReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	tokens, err := NewLoader().ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, tokens, 9)

	_, err = NewLoader().ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
