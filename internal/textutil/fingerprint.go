package textutil

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// stopwords are dropped before weighting; they dominate headline text without
// saying anything about the topic.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "are": {}, "was": {}, "were": {}, "has": {}, "have": {},
	"had": {}, "its": {}, "into": {}, "over": {}, "after": {}, "about": {},
	"says": {}, "said": {}, "will": {}, "new": {}, "not": {}, "but": {},
}

// Fingerprint is a term-frequency vector used for text similarity comparison.
type Fingerprint struct {
	tokens map[string]float64
	norm   float64
}

// NewFingerprint creates a fingerprint from the provided text.
// Returns nil if the text produces no valid tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	return newWeighted(counts)
}

func newWeighted(weights map[string]float64) *Fingerprint {
	var norm float64
	for _, w := range weights {
		norm += w * w
	}
	return &Fingerprint{tokens: weights, norm: math.Sqrt(norm)}
}

// Tokenize splits text into lowercase tokens, dropping short tokens and stopwords.
func Tokenize(text string) []string {
	raw := tokenSplitPattern.Split(strings.ToLower(text), -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len(token) < 3 {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// TokenCount returns the number of unique tokens in the fingerprint.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.tokens)
}

// TopTerms returns up to n terms ordered by weight, ties alphabetical.
func (f *Fingerprint) TopTerms(n int) []string {
	if f == nil || n <= 0 {
		return nil
	}
	terms := make([]string, 0, len(f.tokens))
	for token := range f.tokens {
		terms = append(terms, token)
	}
	sort.Slice(terms, func(i, j int) bool {
		wi, wj := f.tokens[terms[i]], f.tokens[terms[j]]
		if wi != wj {
			return wi > wj
		}
		return terms[i] < terms[j]
	})
	if len(terms) > n {
		terms = terms[:n]
	}
	return terms
}

// Merge returns the sum of the supplied fingerprints. Nil entries are skipped.
func Merge(prints ...*Fingerprint) *Fingerprint {
	sum := make(map[string]float64)
	for _, fp := range prints {
		if fp == nil {
			continue
		}
		for token, w := range fp.tokens {
			sum[token] += w
		}
	}
	if len(sum) == 0 {
		return nil
	}
	return newWeighted(sum)
}

// WithIDF returns a new Fingerprint with TF-IDF weights applied.
// Terms absent from the IDF map retain their original weight.
func (f *Fingerprint) WithIDF(idf map[string]float64) *Fingerprint {
	if f == nil || len(idf) == 0 {
		return f
	}
	weighted := make(map[string]float64, len(f.tokens))
	for token, count := range f.tokens {
		w := count
		if idfVal, ok := idf[token]; ok {
			w *= idfVal
		}
		if w == 0 {
			continue
		}
		weighted[token] = w
	}
	if len(weighted) == 0 {
		return nil
	}
	return newWeighted(weighted)
}

// Corpus collects document frequency statistics for IDF computation.
type Corpus struct {
	docCount int
	docFreq  map[string]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int)}
}

// Add registers a fingerprint's unique terms in the corpus.
func (c *Corpus) Add(fp *Fingerprint) {
	if c == nil || fp == nil {
		return
	}
	c.docCount++
	for token := range fp.tokens {
		c.docFreq[token]++
	}
}

// IDF computes smoothed inverse document frequency: log((N+1)/(1+df)) + 1.
// The +1 keeps terms shared by every document from vanishing entirely.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docCount == 0 {
		return nil
	}
	idf := make(map[string]float64, len(c.docFreq))
	n := float64(c.docCount)
	for term, df := range c.docFreq {
		idf[term] = math.Log((n+1)/(1+float64(df))) + 1
	}
	return idf
}
