package corpus

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// numFields in each non-blank line: word, POS tag, chunk tag and entity tag.
const numFields = 4

// maxLineSize accepted by the Loader.
const maxLineSize = 1 << 20

// Loader parses CoNLL corpora. Create it with NewLoader.
type Loader struct {
	keepDocStart bool
}

// NewLoader returns a Loader that drops the "-DOCSTART-" document markers.
func NewLoader() *Loader {
	return &Loader{}
}

// WithDocStart configures whether "-DOCSTART-" records are kept as regular tokens.
// Blank lines around them always advance the sentence counter.
func (l *Loader) WithDocStart(keep bool) *Loader {
	l.keepDocStart = keep
	return l
}

// ReadFile opens and parses the corpus file at path.
func (l *Loader) ReadFile(path string) ([]Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open corpus file %q", path)
	}
	defer func() { _ = f.Close() }()

	tokens, err := l.Read(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "while reading corpus file %q", path)
	}
	klog.V(1).Infof("read %d tokens from %q", len(tokens), path)
	return tokens, nil
}

// Read parses the whole stream and returns the tokens in input order.
//
// It fails with a *MalformedRecordError on the first non-blank line that doesn't have exactly
// four whitespace separated fields.
func (l *Loader) Read(r io.Reader) ([]Token, error) {
	var (
		tokens     []Token
		sentenceID int
		lineNum    int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			sentenceID++
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != numFields {
			return nil, &MalformedRecordError{Line: lineNum, Text: line, Fields: len(fields)}
		}
		if fields[0] == DocStart && !l.keepDocStart {
			continue
		}
		tokens = append(tokens, Token{
			Word:       fields[0],
			POS:        fields[1],
			Chunk:      fields[2],
			RawTag:     fields[3],
			Tag:        NormalizeTag(fields[3]),
			SentenceID: sentenceID,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed scanning corpus after line %d", lineNum)
	}
	return tokens, nil
}
