// Package conll only holds the version of the set of tools to prepare CoNLL-2003 named entity
// recognition data for sequence tagging models in GoMLX.
//
// The sub-packages are:
//
//   - corpus: to read the CoNLL-2003 column format into tokens and sentences.
//   - vocab: the word and tag vocabularies, fitted on the training split.
//   - sequence: encoding, padding and packing of sentences into tensors.
//   - embeddings: pretrained word vectors and the embedding matrix.
//   - pipeline: the end-to-end preparation, and the contract with the tagging model.
//   - hub: to download corpus splits and word vectors from HuggingFace Hub.
package conll

// Version of the library.
// Manually kept in sync with project releases.
var Version = "v0.1.0-dev"
