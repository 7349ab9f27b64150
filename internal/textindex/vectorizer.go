// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package textindex

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Defaults for the production index. These balance discriminative power
// against vocabulary noise and matrix memory for large catalogs.
const (
	DefaultMaxFeatures = 200000
	DefaultMinDocFreq  = 2
	DefaultMaxDocRatio = 0.6
)

// ErrEmptyVocabulary indicates that no term survived document-frequency
// pruning, leaving nothing to index.
var ErrEmptyVocabulary = errors.New("textindex: empty vocabulary after pruning")

// Config controls vocabulary construction.
type Config struct {
	// MaxFeatures caps the vocabulary size. When truncation is needed,
	// terms rank by corpus-wide occurrence count (ties by term).
	MaxFeatures int

	// MinDocFreq drops terms appearing in fewer documents (singleton noise).
	MinDocFreq int

	// MaxDocRatio drops terms appearing in more than this fraction of
	// documents (near-universal, low-information terms).
	MaxDocRatio float64
}

// DefaultConfig returns the production vectorizer configuration.
func DefaultConfig() Config {
	return Config{
		MaxFeatures: DefaultMaxFeatures,
		MinDocFreq:  DefaultMinDocFreq,
		MaxDocRatio: DefaultMaxDocRatio,
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.MaxFeatures <= 0 {
		return fmt.Errorf("max features must be positive, got %d", c.MaxFeatures)
	}
	if c.MinDocFreq < 1 {
		return fmt.Errorf("min doc freq must be at least 1, got %d", c.MinDocFreq)
	}
	if c.MaxDocRatio <= 0 || c.MaxDocRatio > 1 {
		return fmt.Errorf("max doc ratio must be in (0, 1], got %g", c.MaxDocRatio)
	}
	return nil
}

// Vectorizer is a fitted TF-IDF model: the vocabulary and its smoothed
// inverse-document-frequency weights. A fitted vectorizer is frozen;
// Transform never mutates it.
//
// Fields are exported for gob serialization of index artifacts.
type Vectorizer struct {
	// Terms lists vocabulary terms in lexicographic order; the position
	// of a term is its matrix column.
	Terms []string

	// Index maps term to column, the inverse of Terms.
	Index map[string]int32

	// IDF holds per-column smoothed inverse document frequency:
	// ln((1+N)/(1+df)) + 1.
	IDF []float32

	// DocCount is the size of the fitted corpus.
	DocCount int
}

// VocabSize returns the number of vocabulary terms.
func (v *Vectorizer) VocabSize() int { return len(v.Terms) }

// Fit builds the vocabulary over the corpus and returns the fitted model
// together with the L2-normalized document-term matrix. Unigrams and
// bigrams are extracted from normalized text after stop word removal.
// Fitting is all-or-nothing: any error leaves no partial state behind.
func Fit(docs []string, cfg Config) (*Vectorizer, *Matrix, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid vectorizer config: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	// Pass 1: per-document term counts, document frequency, corpus counts.
	docTerms := make([]map[string]int, len(docs))
	df := make(map[string]int)
	corpusCount := make(map[string]int64)
	for i, doc := range docs {
		counts := termCounts(doc)
		docTerms[i] = counts
		for term, c := range counts {
			df[term]++
			corpusCount[term] += int64(c)
		}
	}

	// Prune by document frequency.
	n := len(docs)
	dfCutoff := cfg.MaxDocRatio * float64(n)
	kept := make([]string, 0, len(df))
	for term, d := range df {
		if d < cfg.MinDocFreq || float64(d) > dfCutoff {
			continue
		}
		kept = append(kept, term)
	}
	if len(kept) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	// Truncate to the most important terms if the cap is exceeded.
	if len(kept) > cfg.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			ci, cj := corpusCount[kept[i]], corpusCount[kept[j]]
			if ci != cj {
				return ci > cj
			}
			return kept[i] < kept[j]
		})
		kept = kept[:cfg.MaxFeatures]
	}

	// Final vocabulary in lexicographic column order.
	sort.Strings(kept)
	index := make(map[string]int32, len(kept))
	idf := make([]float32, len(kept))
	for i, term := range kept {
		index[term] = int32(i)
		idf[i] = float32(math.Log(float64(1+n)/float64(1+df[term])) + 1)
	}

	vec := &Vectorizer{
		Terms:    kept,
		Index:    index,
		IDF:      idf,
		DocCount: n,
	}

	mat := NewMatrix(len(kept))
	for _, counts := range docTerms {
		cols, vals := vec.rowFromCounts(counts)
		mat.AppendRow(cols, vals)
	}

	return vec, mat, nil
}

// Transform vectorizes documents against the fitted vocabulary, applying
// the same tokenization, weighting, and L2 normalization as Fit.
func (v *Vectorizer) Transform(docs []string) *Matrix {
	mat := NewMatrix(len(v.Terms))
	for _, doc := range docs {
		cols, vals := v.rowFromCounts(termCounts(doc))
		mat.AppendRow(cols, vals)
	}
	return mat
}

// rowFromCounts converts raw term counts to a sorted, L2-normalized
// sparse row of tf*idf weights.
func (v *Vectorizer) rowFromCounts(counts map[string]int) ([]int32, []float32) {
	cols := make([]int32, 0, len(counts))
	for term := range counts {
		if col, ok := v.Index[term]; ok {
			cols = append(cols, col)
		}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i] < cols[j] })

	vals := make([]float32, len(cols))
	var sumSq float64
	for i, col := range cols {
		w := float64(counts[v.Terms[col]]) * float64(v.IDF[col])
		vals[i] = float32(w)
		sumSq += w * w
	}
	if sumSq > 0 {
		inv := float32(1 / math.Sqrt(sumSq))
		for i := range vals {
			vals[i] *= inv
		}
	}
	return cols, vals
}

// termCounts extracts unigram and bigram counts from one document.
// Stop words are removed first, so bigrams span removed words.
func termCounts(doc string) map[string]int {
	toks := Tokenize(Normalize(doc))
	filtered := toks[:0]
	for _, t := range toks {
		if !IsStopword(t) {
			filtered = append(filtered, t)
		}
	}

	counts := make(map[string]int, 2*len(filtered))
	for i, t := range filtered {
		counts[t]++
		if i+1 < len(filtered) {
			counts[t+" "+filtered[i+1]]++
		}
	}
	return counts
}
