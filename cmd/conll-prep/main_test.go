package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/go-conll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `-DOCSTART- -X- -X- O

EU NNP B-NP B-ORG
rejects VBZ B-VP O
German JJ B-NP B-MISC

Peter NNP B-NP B-PER
Blackburn NNP I-NP I-PER
`

func run(t *testing.T, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	app := newApp(UI{Out: &out, Err: &errOut})
	err := app.Run(append([]string{"conll-prep"}, args...))
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "conll-prep "+conll.Version+"\n", out)
}

func TestStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "train.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	out, err := run(t, "stats", path)
	require.NoError(t, err)
	assert.Contains(t, out, "sentences: 2\n")
	assert.Contains(t, out, "tokens:    5\n")
	assert.Contains(t, out, "PER:       2\n")

	_, err = run(t, "stats")
	assert.Error(t, err)
	_, err = run(t, "stats", "-q", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestPrepare(t *testing.T) {
	dir := t.TempDir()
	train := filepath.Join(dir, "train.txt")
	require.NoError(t, os.WriteFile(train, []byte(sample), 0644))
	configPath := filepath.Join(dir, "conll.yaml")
	configText := "corpus:\n  train: " + train + "\nsequence:\n  max_length: 4\n" +
		"output:\n  vocabulary: " + filepath.Join(dir, "vocab.json") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(configText), 0644))

	out, err := run(t, "prepare", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "words: 5 (OOV id 5, padding id 6)\n")
	assert.Contains(t, out, "tags:  [MISC O ORG PER]\n")
	assert.Contains(t, out, "vocabularies saved to")
	assert.FileExists(t, filepath.Join(dir, "vocab.json"))

	_, err = run(t, "prepare", "-q", "--config", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFetchRequiresFiles(t *testing.T) {
	_, err := run(t, "fetch", "--repo", "owner/conll2003")
	assert.Error(t, err)
	_, err = run(t, "fetch", "--repo", "owner/conll2003", "--type", "model", "train.txt")
	assert.Error(t, err)
}
