// Package embeddings loads pretrained word vectors and builds the embedding initialization
// matrix for a fitted vocabulary.
//
// Vector tables are plain text, one word per line followed by its values, separated by
// whitespace, with no header (the GloVe format).
package embeddings

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// maxLineSize accepted when reading vector tables. 300 dimensional vectors take ~3KB per line.
const maxLineSize = 1 << 20

// DimensionMismatchError is returned when a line of the vector table doesn't have the same
// number of values as the first one.
type DimensionMismatchError struct {
	Line     int
	Word     string
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("vector for %q at line %d has %d values, expected %d", e.Word, e.Line, e.Got, e.Expected)
}

// Table maps words to fixed dimension vectors.
type Table struct {
	dim     int
	vectors map[string][]float64
}

// Dim returns the dimension D of the vectors.
func (t *Table) Dim() int {
	return t.dim
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	return len(t.vectors)
}

// Lookup returns the vector of word by exact, case-sensitive match.
func (t *Table) Lookup(word string) ([]float64, bool) {
	vec, found := t.vectors[word]
	return vec, found
}

// Read parses a vector table. If a word is repeated, the last vector wins.
//
// If keep is not nil, only words for which it returns true are stored, which saves memory
// when the table is much larger than the vocabulary.
func Read(r io.Reader, keep func(word string) bool) (*Table, error) {
	t := &Table{vectors: make(map[string][]float64)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lineNum, skipped int
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		word, values := fields[0], fields[1:]
		if t.dim == 0 {
			if len(values) == 0 {
				return nil, errors.Errorf("line %d: word %q has no vector", lineNum, word)
			}
			t.dim = len(values)
		}
		if len(values) != t.dim {
			return nil, &DimensionMismatchError{Line: lineNum, Word: word, Expected: t.dim, Got: len(values)}
		}
		if keep != nil && !keep(word) {
			skipped++
			continue
		}
		vec := make([]float64, t.dim)
		for ii, v := range values {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: invalid value #%d for word %q", lineNum, ii, word)
			}
			vec[ii] = f
		}
		t.vectors[word] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed scanning vector table after line %d", lineNum)
	}
	klog.V(2).Infof("vector table: kept %s words, skipped %s, dimension %d",
		humanize.Comma(int64(len(t.vectors))), humanize.Comma(int64(skipped)), t.dim)
	return t, nil
}

// ReadFile opens and parses the vector table at path. See Read.
func ReadFile(path string, keep func(word string) bool) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open vector table %q", path)
	}
	defer func() { _ = f.Close() }()
	if info, err := f.Stat(); err == nil {
		klog.V(1).Infof("reading vector table %q (%s)", path, humanize.Bytes(uint64(info.Size())))
	}
	t, err := Read(f, keep)
	if err != nil {
		return nil, errors.WithMessagef(err, "while reading vector table %q", path)
	}
	return t, nil
}
