package vocab

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// DefaultFileCreationPerm is used when saving vocabularies to disk.
var DefaultFileCreationPerm = os.FileMode(0644)

// fileFormat is the JSON layout of a saved vocabulary pair. Ids are the positions in the lists.
type fileFormat struct {
	Words []string `json:"words"`
	Tags  []string `json:"tags"`
}

// Save writes both vocabularies as JSON.
func Save(w io.Writer, words *Vocabulary, tags *TagVocabulary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fileFormat{Words: words.words, Tags: tags.tags}); err != nil {
		return errors.Wrap(err, "failed to encode vocabularies")
	}
	return nil
}

// Load reads vocabularies written by Save.
func Load(r io.Reader) (*Vocabulary, *TagVocabulary, error) {
	var ff fileFormat
	if err := json.NewDecoder(r).Decode(&ff); err != nil {
		return nil, nil, errors.Wrap(err, "failed to decode vocabularies")
	}
	words, err := NewVocabulary(ff.Words)
	if err != nil {
		return nil, nil, err
	}
	tags, err := NewTagVocabulary(ff.Tags)
	if err != nil {
		return nil, nil, err
	}
	return words, tags, nil
}

// SaveFile writes both vocabularies to the file at path, replacing it if it exists.
func SaveFile(path string, words *Vocabulary, tags *TagVocabulary) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, DefaultFileCreationPerm)
	if err != nil {
		return errors.Wrapf(err, "failed to create vocabulary file %q", path)
	}
	if err = Save(f, words, tags); err != nil {
		_ = f.Close()
		return errors.WithMessagef(err, "while saving %q", path)
	}
	return errors.Wrapf(f.Close(), "failed to close vocabulary file %q", path)
}

// LoadFile reads vocabularies saved with SaveFile.
func LoadFile(path string) (*Vocabulary, *TagVocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open vocabulary file %q", path)
	}
	defer func() { _ = f.Close() }()
	words, tags, err := Load(f)
	if err != nil {
		return nil, nil, errors.WithMessagef(err, "read from file %q", path)
	}
	return words, tags, nil
}
