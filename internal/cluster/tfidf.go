// Package cluster provides the exploratory grouping primitives: a TF-IDF
// vectorizer and a seeded K-Means, plus the text cluster engine built on both.
// The numerics are implemented here because the output must be reproducible
// across runs; the exact choices (smooth IDF, L2 rows, k-means++ with a fixed
// seed) are part of the contract.
package cluster

import (
	"math"
	"sort"
	"strings"
)

// TFIDF is a fitted term-frequency–inverse-document-frequency vectorizer.
// Documents are split on whitespace only; tokens are taken verbatim, so the
// vectorizer composes with the tokenizer's normalization.
type TFIDF struct {
	// Terms holds the vocabulary in sorted order; column i of every vector
	// corresponds to Terms[i].
	Terms []string

	index map[string]int
	idf   []float64
}

// FitTFIDF builds the vocabulary and IDF weights from the corpus and returns
// the vectorizer with the document matrix. IDF is smoothed,
// ln((1+n)/(1+df))+1, and every row is L2-normalized.
func FitTFIDF(docs []string) (*TFIDF, [][]float64) {
	df := make(map[string]int)
	tokenized := make([][]string, len(docs))
	for i, doc := range docs {
		toks := strings.Fields(doc)
		tokenized[i] = toks
		seen := make(map[string]struct{}, len(toks))
		for _, tok := range toks {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v := &TFIDF{
		Terms: terms,
		index: make(map[string]int, len(terms)),
		idf:   make([]float64, len(terms)),
	}
	n := float64(len(docs))
	for i, term := range terms {
		v.index[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	matrix := make([][]float64, len(docs))
	for i, toks := range tokenized {
		matrix[i] = v.vectorize(toks)
	}
	return v, matrix
}

func (v *TFIDF) vectorize(tokens []string) []float64 {
	vec := make([]float64, len(v.Terms))
	for _, tok := range tokens {
		if i, ok := v.index[tok]; ok {
			vec[i] += v.idf[i]
		}
	}
	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
