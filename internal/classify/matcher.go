// Package classify implements the two-phase rule-based labeling: keyword
// category matching for context and modality, time-window inference, and the
// orchestrator that writes the combined result onto a record.
package classify

import (
	"sort"
	"strings"

	"github.com/urbandata-br/ruido-cli/internal/lexicon"
	"github.com/urbandata-br/ruido-cli/internal/model"
)

// Match scores every category of the dictionary against the token sequence
// and returns the best one. The score is the number of distinct tokens that
// intersect the category keyword set; the largest intersection wins and ties
// break to the category that appears first in the dictionary. With no match
// the result carries an empty label and zero score — never an error.
func Match(tokens []string, dict *lexicon.Dictionary) model.MatchResult {
	tokenSet := foldSet(tokens)

	best := model.MatchResult{}
	for _, cat := range dict.Categories {
		var overlap []string
		for tok := range tokenSet {
			if cat.Contains(tok) {
				overlap = append(overlap, tok)
			}
		}
		// Strictly greater: the first category at a given score keeps the win.
		if len(overlap) > best.Score {
			sort.Strings(overlap)
			best = model.MatchResult{Label: cat.Label, Score: len(overlap), Terms: overlap}
		}
	}
	return best
}

// TimeWindows returns every window label whose keyword set intersects the
// token set, in dictionary order. Windows are not exclusive: a description
// mentioning both an hour marker and a weekday yields both windows.
func TimeWindows(tokens []string, dict *lexicon.Dictionary) []string {
	tokenSet := foldSet(tokens)

	var windows []string
	for _, cat := range dict.Categories {
		for tok := range tokenSet {
			if cat.Contains(tok) {
				windows = append(windows, cat.Label)
				break
			}
		}
	}
	return windows
}

func foldSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		set[strings.ToLower(tok)] = struct{}{}
	}
	return set
}
