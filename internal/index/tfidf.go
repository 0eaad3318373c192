// Package index implements the per-video semantic index: a TF-IDF term
// weighting model fitted on one video's chunk texts, plus an in-memory
// vector store for cosine-similarity search. Each video gets its own local
// vector space; vocabularies and dimensions are never comparable across
// videos.
package index

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ytbrain/ytbrain/internal/domain"
)

// DefaultMaxFeatures caps the vocabulary size learned from a chunk corpus.
const DefaultMaxFeatures = 500

var tokenPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

// Vectorizer is a TF-IDF model fitted on a single video's chunk texts.
// Fit must be called once before EmbedQuery or EmbedBatch. A fitted
// Vectorizer is read-only and safe for concurrent use.
type Vectorizer struct {
	maxFeatures int
	vocab       map[string]int
	idf         []float64
	fitted      bool
}

// NewVectorizer creates a Vectorizer. maxFeatures <= 0 uses the default.
func NewVectorizer(maxFeatures int) *Vectorizer {
	if maxFeatures <= 0 {
		maxFeatures = DefaultMaxFeatures
	}
	return &Vectorizer{maxFeatures: maxFeatures}
}

// Tokenize lowercases text and extracts word tokens with stop words removed.
func Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if !stopWords[t] {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Fit learns the vocabulary and inverse document frequencies from the
// corpus. Returns domain.ErrIndexFit when the corpus is empty or yields no
// usable vocabulary; callers then disable semantic search for the video.
func (v *Vectorizer) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return domain.ErrIndexFit
	}

	docFreq := make(map[string]int)
	totalFreq := make(map[string]int)
	for _, doc := range corpus {
		seen := make(map[string]bool)
		for _, tok := range Tokenize(doc) {
			totalFreq[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}
	if len(totalFreq) == 0 {
		return domain.ErrIndexFit
	}

	terms := make([]string, 0, len(totalFreq))
	for term := range totalFreq {
		terms = append(terms, term)
	}
	// Keep the most frequent terms, alphabetical within equal counts so
	// fitting is deterministic.
	sort.Slice(terms, func(i, j int) bool {
		if totalFreq[terms[i]] != totalFreq[terms[j]] {
			return totalFreq[terms[i]] > totalFreq[terms[j]]
		}
		return terms[i] < terms[j]
	})
	if len(terms) > v.maxFeatures {
		terms = terms[:v.maxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(corpus))
	v.vocab = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocab[term] = i
		// Smoothed idf, matching the fit the original corpus model used.
		v.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	v.fitted = true
	return nil
}

// Fitted reports whether Fit has succeeded.
func (v *Vectorizer) Fitted() bool {
	return v.fitted
}

// Dimensions returns the size of the fitted vector space.
func (v *Vectorizer) Dimensions() int {
	return len(v.idf)
}

// EmbedQuery projects arbitrary text into the fitted vector space. Terms
// outside the fitted vocabulary are ignored, so a query sharing no terms
// with the video embeds to the zero vector.
func (v *Vectorizer) EmbedQuery(text string) []float32 {
	return v.transform(text)
}

// EmbedBatch embeds each text into the fitted vector space.
func (v *Vectorizer) EmbedBatch(texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	for i, t := range texts {
		vectors[i] = v.transform(t)
	}
	return vectors
}

func (v *Vectorizer) transform(text string) []float32 {
	vec := make([]float32, len(v.idf))
	if !v.fitted {
		return vec
	}

	counts := make(map[int]int)
	for _, tok := range Tokenize(text) {
		if col, ok := v.vocab[tok]; ok {
			counts[col]++
		}
	}

	var sumSq float64
	for col, count := range counts {
		w := float64(count) * v.idf[col]
		vec[col] = float32(w)
		sumSq += w * w
	}
	if sumSq > 0 {
		norm := float32(math.Sqrt(sumSq))
		for col := range counts {
			vec[col] /= norm
		}
	}
	return vec
}
