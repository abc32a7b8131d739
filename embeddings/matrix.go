package embeddings

import (
	"github.com/gomlx/go-conll/vocab"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Coverage counts how many vocabulary words were found in the vector table.
type Coverage struct {
	Hits   int
	Misses int

	// Missing lists the words without a pretrained vector, in id order.
	Missing []string
}

// Ratio returns the fraction of vocabulary words that have a pretrained vector.
func (c Coverage) Ratio() float64 {
	total := c.Hits + c.Misses
	if total == 0 {
		return 0
	}
	return float64(c.Hits) / float64(total)
}

// Matrix builds the embedding initialization matrix for words, shaped (V+1, D).
//
// Row i holds the vector of the word with id i. Words missing from the table and the last row,
// for the out-of-vocabulary id V, are all zeros. It fails if the table is empty.
func Matrix(words *vocab.Vocabulary, table *Table) (*mat.Dense, Coverage, error) {
	var cov Coverage
	if table.Dim() == 0 {
		return nil, cov, errors.New("vector table is empty")
	}
	m := mat.NewDense(words.Size()+1, table.Dim(), nil)
	for id, w := range words.Words() {
		vec, found := table.Lookup(w)
		if !found {
			cov.Misses++
			cov.Missing = append(cov.Missing, w)
			continue
		}
		cov.Hits++
		m.SetRow(id, vec)
	}
	return m, cov, nil
}

// WithPadRow returns a copy of the (V+1, D) matrix m with one more all-zero row, for the padding
// id V+1. Use it when the model gathers embeddings for every input id instead of masking padding.
func WithPadRow(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows+1, cols, nil)
	out.Slice(0, rows, 0, cols).(*mat.Dense).Copy(m)
	return out
}

// Tensor converts the matrix to a float32 tensor with the same shape.
func Tensor(m *mat.Dense) *tensors.Tensor {
	rows, cols := m.Dims()
	flat := make([]float32, 0, rows*cols)
	for ii := 0; ii < rows; ii++ {
		for _, v := range m.RawRowView(ii) {
			flat = append(flat, float32(v))
		}
	}
	return tensors.FromFlatDataAndDimensions(flat, rows, cols)
}
