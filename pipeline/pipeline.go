// Package pipeline prepares the CoNLL-2003 splits for a sequence tagging model, and defines the
// contract with that model.
//
// Prepare reads the splits, fits the vocabularies on the training split only, and packs every
// split into fixed length tensors. Train and Evaluate hand those tensors to a Tagger.
package pipeline

import (
	"context"

	"github.com/gomlx/go-conll/config"
	"github.com/gomlx/go-conll/corpus"
	"github.com/gomlx/go-conll/embeddings"
	"github.com/gomlx/go-conll/sequence"
	"github.com/gomlx/go-conll/vocab"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// Tagger is the sequence tagging model fed by the pipeline. Its internals are out of scope.
type Tagger interface {
	// Fit trains on inputs shaped (N, L) int32 and one-hot labels shaped (N, L, K) float32.
	Fit(ctx context.Context, inputs, labels *tensors.Tensor) error

	// Predict returns per-position class probabilities shaped (N, L, K) float32.
	Predict(ctx context.Context, inputs *tensors.Tensor) (*tensors.Tensor, error)
}

// SplitName identifies one of the corpus splits.
type SplitName string

const (
	TrainSplit      SplitName = "train"
	ValidationSplit SplitName = "validation"
	TestSplit       SplitName = "test"
)

// Split is one corpus split, encoded with the vocabularies fitted on the training split.
type Split struct {
	Name      SplitName
	Path      string
	Sentences []corpus.Sentence
	Stats     corpus.Stats
	Batch     *sequence.Batch
}

// Dataset is the result of Prepare.
type Dataset struct {
	Words *vocab.Vocabulary
	Tags  *vocab.TagVocabulary

	// Train is always present, Validation and Test only if configured.
	Train, Validation, Test *Split

	// Embeddings is the (V+1, D) matrix of pretrained vectors, nil if no vector table is configured.
	// It has no row for the padding id V+1 found in the inputs: models must mask padded positions,
	// or use embeddings.WithPadRow.
	Embeddings *mat.Dense
	Coverage   embeddings.Coverage
}

// Split returns the split with the given name, or an error if it was not prepared.
func (ds *Dataset) Split(name SplitName) (*Split, error) {
	var s *Split
	switch name {
	case TrainSplit:
		s = ds.Train
	case ValidationSplit:
		s = ds.Validation
	case TestSplit:
		s = ds.Test
	default:
		return nil, errors.Errorf("unknown split %q", name)
	}
	if s == nil {
		return nil, errors.Errorf("split %q was not configured", name)
	}
	return s, nil
}

// ProgressFunc is called at the start of each stage of Prepare.
type ProgressFunc func(stage string)

// Stages returns the stages PrepareWithProgress reports for cfg, in order.
func Stages(cfg *config.Config) []string {
	stages := []string{"download", string(TrainSplit)}
	if cfg.Corpus.Validation != "" {
		stages = append(stages, string(ValidationSplit))
	}
	if cfg.Corpus.Test != "" {
		stages = append(stages, string(TestSplit))
	}
	if cfg.Embeddings.Path != "" {
		stages = append(stages, "embeddings")
	}
	return stages
}

// Prepare runs the preprocessing described by cfg. See PrepareWithProgress.
func Prepare(ctx context.Context, cfg *config.Config) (*Dataset, error) {
	return PrepareWithProgress(ctx, cfg, nil)
}

// PrepareWithProgress reads the configured splits (downloading them first if cfg.Hub.Repo is set),
// fits the vocabularies on the training split, packs every split and, if configured, builds the
// embedding matrix and saves the vocabularies.
//
// Validation and test words unseen in training map to the OOV id, while unseen tags are an error.
func PrepareWithProgress(ctx context.Context, cfg *config.Config, progress ProgressFunc) (*Dataset, error) {
	if progress == nil {
		progress = func(string) {}
	}
	if cfg.Corpus.Train == "" {
		return nil, errors.New("no training split configured (corpus.train)")
	}
	opts, err := cfg.SequenceOptions()
	if err != nil {
		return nil, err
	}

	progress("download")
	paths, err := resolve(ctx, cfg)
	if err != nil {
		return nil, err
	}

	loader := corpus.NewLoader().WithDocStart(cfg.Corpus.KeepDocStart)
	progress(string(TrainSplit))
	trainTokens, err := loader.ReadFile(paths.train)
	if err != nil {
		return nil, errors.WithMessage(err, "training split")
	}
	ds := &Dataset{}
	ds.Words, ds.Tags = vocab.Fit(trainTokens)
	klog.V(1).Infof("vocabulary: %d words, %d tags %v", ds.Words.Size(), ds.Tags.Size(), ds.Tags.Tags())
	ds.Train, err = ds.packSplit(TrainSplit, paths.train, trainTokens, opts)
	if err != nil {
		return nil, err
	}

	for _, s := range []struct {
		name SplitName
		path string
		dst  **Split
	}{
		{ValidationSplit, paths.validation, &ds.Validation},
		{TestSplit, paths.test, &ds.Test},
	} {
		if s.path == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress(string(s.name))
		tokens, err := loader.ReadFile(s.path)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s split", s.name)
		}
		*s.dst, err = ds.packSplit(s.name, s.path, tokens, opts)
		if err != nil {
			return nil, err
		}
	}

	if paths.embeddings != "" {
		progress("embeddings")
		var keep func(string) bool
		if cfg.Embeddings.VocabularyOnly {
			keep = ds.Words.Contains
		}
		table, err := embeddings.ReadFile(paths.embeddings, keep)
		if err != nil {
			return nil, err
		}
		ds.Embeddings, ds.Coverage, err = embeddings.Matrix(ds.Words, table)
		if err != nil {
			return nil, errors.WithMessagef(err, "vector table %q", paths.embeddings)
		}
		klog.V(1).Infof("embeddings: %d of %d words found (%.1f%%)",
			ds.Coverage.Hits, ds.Words.Size(), 100*ds.Coverage.Ratio())
	}

	if cfg.Output.Vocabulary != "" {
		if err := vocab.SaveFile(cfg.Output.Vocabulary, ds.Words, ds.Tags); err != nil {
			return nil, err
		}
		klog.V(1).Infof("vocabularies saved to %q", cfg.Output.Vocabulary)
	}
	return ds, nil
}

func (ds *Dataset) packSplit(name SplitName, path string, tokens []corpus.Token, opts sequence.Options) (*Split, error) {
	sentences := corpus.GroupSentences(tokens)
	encoded, err := sequence.Transform(sentences, ds.Words, ds.Tags)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s split %q", name, path)
	}
	batch, err := sequence.Pack(encoded, ds.Words, ds.Tags, opts)
	if err != nil {
		return nil, errors.WithMessagef(err, "%s split %q", name, path)
	}
	split := &Split{
		Name:      name,
		Path:      path,
		Sentences: sentences,
		Stats:     corpus.Describe(sentences),
		Batch:     batch,
	}
	klog.V(1).Infof("%s: %d sentences, %d tokens, max length %d", name,
		split.Stats.NumSentences, split.Stats.NumTokens, split.Stats.MaxLength)
	return split, nil
}
