// Package report scores tag predictions against gold tags, token by token.
package report

import (
	"fmt"
	"strings"

	"github.com/gomlx/go-conll/vocab"
	"github.com/pkg/errors"
)

// ClassScore holds the scores of one tag.
type ClassScore struct {
	Tag       string
	Precision float64
	Recall    float64
	F1        float64

	// Support is the number of gold tokens with this tag.
	Support int
}

// Report is a token-level classification report.
type Report struct {
	Classes []ClassScore

	// Accuracy is the fraction of tokens with the right tag. For single label tagging it equals
	// micro averaged precision, recall and F1.
	Accuracy float64

	// MacroF1 is the unweighted mean of the per class F1.
	MacroF1 float64

	// Total number of scored tokens.
	Total int
}

// New compares gold and predicted tag ids, both given per sentence without padding (see
// sequence.Batch.Unpack). Sentences must have matching lengths.
func New(gold, predicted [][]int, tags *vocab.TagVocabulary) (*Report, error) {
	if len(gold) != len(predicted) {
		return nil, errors.Errorf("got %d gold sentences and %d predicted ones", len(gold), len(predicted))
	}
	k := tags.Size()
	truePos := make([]int, k)
	goldCount := make([]int, k)
	predCount := make([]int, k)
	r := &Report{}
	var correct int
	for ii := range gold {
		if len(gold[ii]) != len(predicted[ii]) {
			return nil, errors.Errorf("sentence %d has %d gold tags and %d predicted ones", ii, len(gold[ii]), len(predicted[ii]))
		}
		for jj, g := range gold[ii] {
			p := predicted[ii][jj]
			if g < 0 || g >= k || p < 0 || p >= k {
				return nil, errors.Errorf("sentence %d, token %d: tag ids (%d, %d) out of range [0, %d)", ii, jj, g, p, k)
			}
			r.Total++
			goldCount[g]++
			predCount[p]++
			if g == p {
				truePos[g]++
				correct++
			}
		}
	}

	var sumF1 float64
	for id := 0; id < k; id++ {
		tag, _ := tags.Tag(id)
		cs := ClassScore{
			Tag:       tag,
			Precision: ratio(truePos[id], predCount[id]),
			Recall:    ratio(truePos[id], goldCount[id]),
			Support:   goldCount[id],
		}
		if cs.Precision+cs.Recall > 0 {
			cs.F1 = 2 * cs.Precision * cs.Recall / (cs.Precision + cs.Recall)
		}
		sumF1 += cs.F1
		r.Classes = append(r.Classes, cs)
	}
	r.Accuracy = ratio(correct, r.Total)
	if k > 0 {
		r.MacroF1 = sumF1 / float64(k)
	}
	return r, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// String implements fmt.Stringer, rendering the report as a table.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%10s %10s %10s %10s %10s\n", "tag", "precision", "recall", "f1", "support")
	for _, cs := range r.Classes {
		fmt.Fprintf(&sb, "%10s %10.4f %10.4f %10.4f %10d\n", cs.Tag, cs.Precision, cs.Recall, cs.F1, cs.Support)
	}
	fmt.Fprintf(&sb, "\n%10s %32.4f %10d\n", "accuracy", r.Accuracy, r.Total)
	fmt.Fprintf(&sb, "%10s %32.4f %10d\n", "macro f1", r.MacroF1, r.Total)
	return sb.String()
}
