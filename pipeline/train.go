package pipeline

import (
	"context"
	"slices"

	"github.com/gomlx/go-conll/report"
	"github.com/gomlx/go-conll/sequence"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Train fits the tagger on the training split.
func Train(ctx context.Context, tagger Tagger, ds *Dataset) error {
	inputs, labels := ds.Train.Batch.Tensors()
	klog.V(1).Infof("training on inputs %s, labels %s", inputs.Shape(), labels.Shape())
	if err := tagger.Fit(ctx, inputs, labels); err != nil {
		return errors.WithMessage(err, "tagger failed to fit")
	}
	return nil
}

// Predict runs the tagger over the split and returns the predicted tag ids of each sentence,
// padding removed. Sentences longer than the fixed length only have predictions for the
// positions kept.
func Predict(ctx context.Context, tagger Tagger, ds *Dataset, name SplitName) ([][]int, error) {
	split, err := ds.Split(name)
	if err != nil {
		return nil, err
	}
	batch := split.Batch
	inputs, _ := batch.Tensors()
	scores, err := tagger.Predict(ctx, inputs)
	if err != nil {
		return nil, errors.WithMessagef(err, "tagger failed to predict %s split", name)
	}
	want := []int{batch.Len(), batch.Options.MaxLength, ds.Tags.Size()}
	if got := scores.Shape().Dimensions; !slices.Equal(got, want) {
		return nil, errors.Errorf("tagger returned scores shaped %v, expected %v", got, want)
	}
	predicted, err := sequence.ArgMax(scores)
	if err != nil {
		return nil, err
	}
	return batch.Unpack(predicted)
}

// Evaluate scores the tagger predictions for the split against its gold tags.
func Evaluate(ctx context.Context, tagger Tagger, ds *Dataset, name SplitName) (*report.Report, error) {
	predicted, err := Predict(ctx, tagger, ds, name)
	if err != nil {
		return nil, err
	}
	split, _ := ds.Split(name)
	_, labels := split.Batch.Tensors()
	gold, err := sequence.ArgMax(labels)
	if err != nil {
		return nil, err
	}
	gold, err = split.Batch.Unpack(gold)
	if err != nil {
		return nil, err
	}
	return report.New(gold, predicted, ds.Tags)
}
