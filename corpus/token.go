// Package corpus reads CoNLL-formatted NER corpora into token records.
//
// A corpus file has one token per line, with the fields `word POS chunk entity-tag`, and blank
// lines between sentences. Each blank line advances a sentence counter, which is the
// SentenceID given to the tokens that follow it.
package corpus

import "strings"

// OutsideTag is the entity tag of tokens that are not part of any named entity.
const OutsideTag = "O"

// DocStart is the word used by CoNLL-2003 to mark the start of a new document.
const DocStart = "-DOCSTART-"

// Token is one record of the corpus.
type Token struct {
	Word  string `json:"word"`
	POS   string `json:"pos"`
	Chunk string `json:"chunk"`

	// RawTag is the entity tag as found in the corpus, e.g. "B-ORG", "I-PER" or "O".
	RawTag string `json:"raw_tag"`

	// Tag is RawTag with its positional prefix removed, see NormalizeTag.
	Tag string `json:"tag"`

	// SentenceID is the number of blank lines seen before this token.
	SentenceID int `json:"sent"`
}

// NormalizeTag strips the positional prefix ("B-", "I-", ...) of an entity tag, keeping the
// substring after the last hyphen. Tags without a hyphen, like "O", are returned unchanged, so
// normalizing an already normalized tag is a no-op.
func NormalizeTag(raw string) string {
	if raw == OutsideTag {
		return raw
	}
	if idx := strings.LastIndexByte(raw, '-'); idx >= 0 {
		return raw[idx+1:]
	}
	return raw
}
