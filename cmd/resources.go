package main

import (
	"github.com/rotisserie/eris"

	"github.com/urbandata-br/ruido-cli/internal/lexicon"
	"github.com/urbandata-br/ruido-cli/internal/tokenize"
)

// loadLanguageResources builds the tokenizer and dictionaries from config.
// Any unreadable resource is fatal here, before a single record is touched —
// classification cannot run on a partial lexicon.
func loadLanguageResources() (*tokenize.Tokenizer, *lexicon.Dictionaries, error) {
	stopwords, err := lexicon.LoadStopwords(cfg.Lexicon.StopwordsPath)
	if err != nil {
		return nil, nil, eris.Wrap(err, "load stopwords")
	}
	lemmatizer, err := lexicon.LoadLemmatizer(cfg.Lexicon.LemmasPath)
	if err != nil {
		return nil, nil, eris.Wrap(err, "load lemma table")
	}
	dicts, err := lexicon.LoadDictionaries(lexicon.DictionaryPaths{
		Context:  cfg.Lexicon.ContextDict,
		Modality: cfg.Lexicon.ModalityDict,
		Time:     cfg.Lexicon.TimeWindowDict,
	})
	if err != nil {
		return nil, nil, eris.Wrap(err, "load dictionaries")
	}
	return tokenize.New(stopwords, lemmatizer), dicts, nil
}

// outOrIn returns out when set, otherwise in: commands rewrite the input
// file in place by default, matching the upstream workflow.
func outOrIn(in, out string) string {
	if out != "" {
		return out
	}
	return in
}
