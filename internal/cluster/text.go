package cluster

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// Defaults for the text cluster engine.
const (
	DefaultTextClusters = 6
	DefaultTopTerms     = 10
	DefaultSeed         = 42
)

// TextOptions configures a text clustering run.
type TextOptions struct {
	Clusters int
	TopTerms int
	Seed     int64
}

// TextResult is the outcome of clustering a token corpus. The assignment is
// advisory, exploratory labeling only — rule-based labels stay authoritative.
type TextResult struct {
	// Labels has one cluster id per input document.
	Labels []int
	// Terms maps cluster id to its top representative terms, ranked by
	// descending centroid weight.
	Terms map[int][]string
}

// ClusterTexts groups whitespace-joined token documents via TF-IDF + K-Means.
// Degenerate corpora never error: an empty corpus yields no labels, and a
// corpus where every document is empty puts everything in cluster 0 without
// fitting the vectorizer. The effective cluster count shrinks to the number
// of non-empty documents, and a single effective cluster skips K-Means.
func ClusterTexts(docs []string, opts TextOptions) (*TextResult, error) {
	if opts.Clusters <= 0 {
		opts.Clusters = DefaultTextClusters
	}
	if opts.TopTerms <= 0 {
		opts.TopTerms = DefaultTopTerms
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}

	if len(docs) == 0 {
		return &TextResult{Terms: map[int][]string{}}, nil
	}

	nonEmpty := 0
	for _, doc := range docs {
		if strings.TrimSpace(doc) != "" {
			nonEmpty++
		}
	}
	if nonEmpty == 0 {
		return &TextResult{
			Labels: make([]int, len(docs)),
			Terms:  map[int][]string{0: {}},
		}, nil
	}

	k := opts.Clusters
	if nonEmpty < k {
		k = nonEmpty
	}

	vectorizer, matrix := FitTFIDF(docs)

	if k == 1 {
		return &TextResult{
			Labels: make([]int, len(docs)),
			Terms:  map[int][]string{0: topTerms(meanVector(matrix), vectorizer.Terms, opts.TopTerms)},
		}, nil
	}

	fit, err := KMeans(matrix, k, opts.Seed)
	if err != nil {
		return nil, eris.Wrap(err, "cluster: fit text corpus")
	}

	terms := make(map[int][]string, k)
	for c, centroid := range fit.Centroids {
		terms[c] = topTerms(centroid, vectorizer.Terms, opts.TopTerms)
	}
	return &TextResult{Labels: fit.Labels, Terms: terms}, nil
}

// topTerms ranks vocabulary terms by centroid weight, heaviest first. Equal
// weights order alphabetically so the ranking is stable.
func topTerms(centroid []float64, vocab []string, n int) []string {
	type weighted struct {
		term   string
		weight float64
	}
	ws := make([]weighted, 0, len(vocab))
	for i, term := range vocab {
		if centroid[i] > 0 {
			ws = append(ws, weighted{term: term, weight: centroid[i]})
		}
	}
	sort.Slice(ws, func(i, j int) bool {
		if ws[i].weight != ws[j].weight {
			return ws[i].weight > ws[j].weight
		}
		return ws[i].term < ws[j].term
	})
	if len(ws) > n {
		ws = ws[:n]
	}
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.term
	}
	return out
}

func meanVector(matrix [][]float64) []float64 {
	if len(matrix) == 0 {
		return nil
	}
	mean := make([]float64, len(matrix[0]))
	for _, row := range matrix {
		for i, x := range row {
			mean[i] += x
		}
	}
	for i := range mean {
		mean[i] /= float64(len(matrix))
	}
	return mean
}
