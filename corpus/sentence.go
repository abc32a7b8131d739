package corpus

// Sentence holds the tokens sharing one SentenceID, in corpus order.
type Sentence struct {
	ID     int
	Tokens []Token
}

// Words returns the words of the sentence.
func (s Sentence) Words() []string {
	words := make([]string, len(s.Tokens))
	for ii, t := range s.Tokens {
		words[ii] = t.Word
	}
	return words
}

// Tags returns the normalized entity tags of the sentence.
func (s Sentence) Tags() []string {
	tags := make([]string, len(s.Tokens))
	for ii, t := range s.Tokens {
		tags[ii] = t.Tag
	}
	return tags
}

// GroupSentences groups tokens by SentenceID. Sentences are returned in order of first
// appearance and tokens keep their order within the sentence. Sentence ids with no tokens
// (consecutive blank lines) yield no sentence.
func GroupSentences(tokens []Token) []Sentence {
	var sentences []Sentence
	index := make(map[int]int)
	for _, t := range tokens {
		idx, found := index[t.SentenceID]
		if !found {
			idx = len(sentences)
			index[t.SentenceID] = idx
			sentences = append(sentences, Sentence{ID: t.SentenceID})
		}
		sentences[idx].Tokens = append(sentences[idx].Tokens, t)
	}
	return sentences
}
