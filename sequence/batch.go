package sequence

import (
	"github.com/gomlx/go-conll/vocab"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/pkg/errors"
)

// Batch holds a whole split packed to a fixed length.
type Batch struct {
	// Inputs has shape (N, L), with PadID on padded positions.
	Inputs [][]int32

	// Labels has shape (N, L, K), one-hot rows for tokens and all-zero rows for padding.
	// It is nil when the sentences have no gold tags.
	Labels [][][]float32

	// Lengths is the number of tokens kept for each sentence, at most L.
	Lengths []int

	// SentenceIDs of each row, as given by the corpus.
	SentenceIDs []int

	Options    Options
	PadID      int
	NumClasses int
}

// Len returns the number of sentences, N.
func (b *Batch) Len() int {
	return len(b.Inputs)
}

// Pack pads every encoded sentence to opts.MaxLength.
//
// tags may be nil, in which case no labels are produced. Otherwise every sentence must carry
// TagIDs.
func Pack(encoded []Encoded, words *vocab.Vocabulary, tags *vocab.TagVocabulary, opts Options) (*Batch, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := &Batch{
		Inputs:      make([][]int32, len(encoded)),
		Lengths:     make([]int, len(encoded)),
		SentenceIDs: make([]int, len(encoded)),
		Options:     opts,
		PadID:       words.PadID(),
	}
	if tags != nil {
		b.NumClasses = tags.Size()
		b.Labels = make([][][]float32, len(encoded))
	}

	for ii, e := range encoded {
		padded := padIDs(e.WordIDs, b.PadID, opts)
		row := make([]int32, len(padded))
		for jj, id := range padded {
			row[jj] = int32(id)
		}
		b.Inputs[ii] = row
		b.SentenceIDs[ii] = e.SentenceID
		from, kept, offset := opts.window(e.Len())
		b.Lengths[ii] = kept

		if tags == nil {
			continue
		}
		if len(e.TagIDs) != e.Len() {
			return nil, errors.Errorf("sentence %d has %d words but %d tags", e.SentenceID, e.Len(), len(e.TagIDs))
		}
		labels := make([][]float32, opts.MaxLength)
		for jj := range labels {
			labels[jj] = make([]float32, b.NumClasses)
		}
		for jj := 0; jj < kept; jj++ {
			labels[offset+jj] = tags.OneHot(e.TagIDs[from+jj])
		}
		b.Labels[ii] = labels
	}
	return b, nil
}

// Unpack returns, for each row of per-position values (N, L), the values of the positions that
// hold real tokens, dropping padding. It is the inverse of the padding done by Pack.
func (b *Batch) Unpack(values [][]int) ([][]int, error) {
	if len(values) != len(b.Lengths) {
		return nil, errors.Errorf("got %d rows to unpack, batch has %d sentences", len(values), len(b.Lengths))
	}
	out := make([][]int, len(values))
	for ii, row := range values {
		if len(row) != b.Options.MaxLength {
			return nil, errors.Errorf("row %d has length %d, expected %d", ii, len(row), b.Options.MaxLength)
		}
		kept := b.Lengths[ii]
		offset := 0
		if b.Options.Padding == Pre {
			offset = b.Options.MaxLength - kept
		}
		out[ii] = append([]int(nil), row[offset:offset+kept]...)
	}
	return out, nil
}

// Tensors returns the inputs as an int32 tensor shaped (N, L) and, if present, the labels as
// a float32 tensor shaped (N, L, K). labels is nil if the batch has no labels.
func (b *Batch) Tensors() (inputs, labels *tensors.Tensor) {
	n, l := b.Len(), b.Options.MaxLength
	flatInputs := make([]int32, 0, n*l)
	for _, row := range b.Inputs {
		flatInputs = append(flatInputs, row...)
	}
	inputs = tensors.FromFlatDataAndDimensions(flatInputs, n, l)
	if b.Labels == nil {
		return
	}

	flatLabels := make([]float32, 0, n*l*b.NumClasses)
	for _, rows := range b.Labels {
		for _, oneHot := range rows {
			flatLabels = append(flatLabels, oneHot...)
		}
	}
	labels = tensors.FromFlatDataAndDimensions(flatLabels, n, l, b.NumClasses)
	return
}

// ArgMax converts per-position class scores shaped (N, L, K) into the index of the highest
// score of each position, shaped (N, L).
func ArgMax(scores *tensors.Tensor) ([][]int, error) {
	value, ok := scores.Value().([][][]float32)
	if !ok {
		return nil, errors.Errorf("expected float32 scores shaped (N, L, K), got shape %s", scores.Shape())
	}
	out := make([][]int, len(value))
	for ii, rows := range value {
		out[ii] = make([]int, len(rows))
		for jj, classes := range rows {
			best := 0
			for kk := 1; kk < len(classes); kk++ {
				if classes[kk] > classes[best] {
					best = kk
				}
			}
			out[ii][jj] = best
		}
	}
	return out, nil
}
