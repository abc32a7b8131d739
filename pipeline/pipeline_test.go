package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gomlx/go-conll/config"
	"github.com/gomlx/go-conll/vocab"
	"github.com/gomlx/gomlx/types/tensors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainText = `-DOCSTART- -X- -X- O

EU NNP B-NP B-ORG
rejects VBZ B-VP O
German JJ B-NP B-MISC
call NN I-NP O
. . O O

Peter NNP B-NP B-PER
Blackburn NNP I-NP I-PER
`

const testText = `China NNP B-NP B-ORG
says VBZ B-VP O
Zyzzyx NNP B-NP B-PER
`

const vectorsText = `EU 1 2
Peter 3 4
unused 5 6
`

func writeFile(t *testing.T, dir, name, content string) string {
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Corpus.Train = writeFile(t, dir, "train.txt", trainText)
	cfg.Corpus.Test = writeFile(t, dir, "test.txt", testText)
	cfg.Embeddings.Path = writeFile(t, dir, "vectors.txt", vectorsText)
	cfg.Embeddings.VocabularyOnly = true
	cfg.Sequence.MaxLength = 5
	cfg.Sequence.Padding = "pre"
	cfg.Sequence.Truncating = "pre"
	cfg.Output.Vocabulary = filepath.Join(dir, "vocab.json")
	return cfg
}

// constantTagger records what it was trained on and always predicts the same tag.
type constantTagger struct {
	tagID, numClasses int
	fitInputs         []int
	fitLabels         []int
	fitErr            error
}

func (c *constantTagger) Fit(_ context.Context, inputs, labels *tensors.Tensor) error {
	c.fitInputs = inputs.Shape().Dimensions
	c.fitLabels = labels.Shape().Dimensions
	return c.fitErr
}

func (c *constantTagger) Predict(_ context.Context, inputs *tensors.Tensor) (*tensors.Tensor, error) {
	dims := inputs.Shape().Dimensions
	n, l := dims[0], dims[1]
	flat := make([]float32, n*l*c.numClasses)
	for ii := 0; ii < n*l; ii++ {
		flat[ii*c.numClasses+c.tagID] = 1
	}
	return tensors.FromFlatDataAndDimensions(flat, n, l, c.numClasses), nil
}

func TestPrepare(t *testing.T) {
	cfg := testConfig(t)
	var stages []string
	ds, err := PrepareWithProgress(context.Background(), cfg, func(stage string) { stages = append(stages, stage) })
	require.NoError(t, err)
	assert.Equal(t, []string{"download", "train", "test", "embeddings"}, stages)
	assert.Equal(t, Stages(cfg), stages)

	assert.Equal(t, []string{".", "Blackburn", "EU", "German", "Peter", "call", "rejects"}, ds.Words.Words())
	assert.Equal(t, []string{"MISC", "O", "ORG", "PER"}, ds.Tags.Tags())
	assert.Nil(t, ds.Validation)

	require.NotNil(t, ds.Train)
	assert.Equal(t, 2, ds.Train.Batch.Len())
	assert.Equal(t, 7, ds.Train.Stats.NumTokens)
	assert.Equal(t, []int32{8, 8, 8, 4, 1}, ds.Train.Batch.Inputs[1])

	// Unseen words in the test split map to the OOV id.
	require.NotNil(t, ds.Test)
	assert.Equal(t, [][]int32{{8, 8, 7, 7, 7}}, ds.Test.Batch.Inputs)

	require.NotNil(t, ds.Embeddings)
	rows, cols := ds.Embeddings.Dims()
	assert.Equal(t, 8, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, []float64{1, 2}, ds.Embeddings.RawRowView(2))
	assert.Equal(t, []float64{3, 4}, ds.Embeddings.RawRowView(4))
	assert.Equal(t, []float64{0, 0}, ds.Embeddings.RawRowView(7))
	assert.Equal(t, 2, ds.Coverage.Hits)
	assert.Equal(t, 5, ds.Coverage.Misses)

	words, tags, err := vocab.LoadFile(cfg.Output.Vocabulary)
	require.NoError(t, err)
	assert.Equal(t, ds.Words.Words(), words.Words())
	assert.Equal(t, ds.Tags.Tags(), tags.Tags())

	_, err = ds.Split(ValidationSplit)
	assert.Error(t, err)
	_, err = ds.Split("dev")
	assert.Error(t, err)
}

func TestStagesTrainOnly(t *testing.T) {
	cfg := testConfig(t)
	cfg.Corpus.Test = ""
	cfg.Embeddings.Path = ""
	var stages []string
	_, err := PrepareWithProgress(context.Background(), cfg, func(stage string) { stages = append(stages, stage) })
	require.NoError(t, err)
	assert.Equal(t, []string{"download", "train"}, stages)
	assert.Equal(t, Stages(cfg), stages)
}

func TestPrepareErrors(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.Corpus.Train = ""
	_, err := Prepare(ctx, cfg)
	assert.Error(t, err)

	// Tags unseen in training are an error.
	cfg = testConfig(t)
	cfg.Corpus.Test = writeFile(t, t.TempDir(), "test.txt", "Paris NNP B-NP B-LOC\n")
	_, err = Prepare(ctx, cfg)
	var unknown *vocab.UnknownLabelError
	require.True(t, errors.As(err, &unknown), "got %v", err)
	assert.Equal(t, "LOC", unknown.Tag)

	cfg = testConfig(t)
	cfg.Sequence.Padding = "middle"
	_, err = Prepare(ctx, cfg)
	assert.Error(t, err)
}

func TestTrainAndEvaluate(t *testing.T) {
	ctx := context.Background()
	ds, err := Prepare(ctx, testConfig(t))
	require.NoError(t, err)

	outside, err := ds.Tags.ID("O")
	require.NoError(t, err)
	tagger := &constantTagger{tagID: outside, numClasses: ds.Tags.Size()}
	require.NoError(t, Train(ctx, tagger, ds))
	assert.Equal(t, []int{2, 5}, tagger.fitInputs)
	assert.Equal(t, []int{2, 5, 4}, tagger.fitLabels)

	predicted, err := Predict(ctx, tagger, ds, TestSplit)
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 1, 1}}, predicted)

	r, err := Evaluate(ctx, tagger, ds, TestSplit)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Total)
	assert.InDelta(t, 1.0/3.0, r.Accuracy, 1e-9)

	tagger.fitErr = errors.New("out of memory")
	assert.Error(t, Train(ctx, tagger, ds))

	wrong := &constantTagger{tagID: 0, numClasses: 3}
	_, err = Evaluate(ctx, wrong, ds, TestSplit)
	assert.Error(t, err)
}

func TestPrepareFromHub(t *testing.T) {
	files := map[string]string{
		"/datasets/test/conll/resolve/main/train.txt": trainText,
		"/datasets/test/conll/resolve/main/test.txt":  testText,
		"/test/vectors/resolve/main/glove.txt":        vectorsText,
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		content, found := files[req.URL.Path]
		if !found {
			http.NotFound(w, req)
			return
		}
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()
	t.Setenv("HF_ENDPOINT", server.URL)

	cfg := &config.Config{}
	cfg.Corpus.Train = "train.txt"
	cfg.Corpus.Test = "test.txt"
	cfg.Embeddings.Path = "glove.txt"
	cfg.Sequence.MaxLength = 5
	cfg.Sequence.Padding = "pre"
	cfg.Sequence.Truncating = "post"
	cfg.Hub.Repo = "test/conll"
	cfg.Hub.Type = "datasets"
	cfg.Hub.Revision = "main"
	cfg.Hub.EmbeddingsRepo = "test/vectors"
	cfg.Hub.CacheDir = t.TempDir()
	cfg.Hub.MaxParallel = 2

	ds, err := Prepare(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ds.Train.Path, cfg.Hub.CacheDir))
	assert.Equal(t, 2, ds.Train.Batch.Len())
	assert.Equal(t, 2, ds.Coverage.Hits)
}
