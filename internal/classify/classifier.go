package classify

import (
	"github.com/urbandata-br/ruido-cli/internal/lexicon"
	"github.com/urbandata-br/ruido-cli/internal/model"
	"github.com/urbandata-br/ruido-cli/internal/tokenize"
)

// Classifier runs the full per-record labeling: tokenization when needed,
// context and modality matching, and time-window inference.
type Classifier struct {
	tokenizer *tokenize.Tokenizer
	dicts     *lexicon.Dictionaries
}

// New builds a Classifier. The tokenizer may be nil when callers guarantee
// records arrive already tokenized.
func New(tokenizer *tokenize.Tokenizer, dicts *lexicon.Dictionaries) *Classifier {
	return &Classifier{tokenizer: tokenizer, dicts: dicts}
}

// Classify recomputes every derived label field from the record's tokens and
// overwrites them in place. The source type comes from the modality result,
// falling back to the undefined sentinel; the context label is tracked
// alongside but never overrides it. Running Classify twice on the same token
// sequence produces identical output.
func (c *Classifier) Classify(rec *model.Record) {
	if rec.Tokens == nil && c.tokenizer != nil {
		rec.Tokens = c.tokenizer.Tokenize(rec.Description)
	}

	rec.Context = Match(rec.Tokens, c.dicts.Context)
	rec.Modality = Match(rec.Tokens, c.dicts.Modality)
	rec.TimeWindows = TimeWindows(rec.Tokens, c.dicts.Time)

	if rec.Modality.Label != "" {
		rec.SourceType = rec.Modality.Label
	} else {
		rec.SourceType = model.SourceTypeUndefined
	}
}

// ClassifyAll labels every record in place and returns the per-source-type
// counts, the Pareto input the presentation layer charts.
func (c *Classifier) ClassifyAll(recs []*model.Record) map[string]int {
	counts := make(map[string]int)
	for _, rec := range recs {
		c.Classify(rec)
		counts[rec.SourceType]++
	}
	return counts
}
